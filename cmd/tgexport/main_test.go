package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mephi-learn/telegram-export-parser/internal/adapters/exporter"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
)

const exportDoc = `{
	"name": "Team",
	"type": "private_group",
	"id": 5,
	"messages": [
		{"id": 1, "type": "message", "date": "2023-05-01T10:00:00", "date_unixtime": "1682935200",
		 "from": "Alice", "from_id": "user1", "text": "hi", "text_entities": [{"type": "plain", "text": "hi"}]}
	]
}`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	t.Run("JSON по умолчанию вне терминала", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{writeExport(t, exportDoc)}, &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())

		var report domain.Report
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
		assert.Equal(t, "Team", report.Summary.ChatName)
		require.Len(t, report.Participants, 1)
		assert.Equal(t, "user1", report.Participants[0].UserID)
	})

	t.Run("Явный формат console", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-format", "console", writeExport(t, exportDoc)}, &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "Chat Participants")
		assert.Contains(t, stdout.String(), "Alice")
	})

	t.Run("Запись в файл", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "history.json")
		var stdout, stderr bytes.Buffer
		code := run([]string{"-format", "history", "-o", out, writeExport(t, exportDoc)}, &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())
		assert.Empty(t, stdout.String())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"from_id":"user1"`)
	})

	t.Run("Ошибка записи в файл даёт ненулевой код", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("/dev/full недоступен")
		}
		var stdout, stderr bytes.Buffer
		code := run([]string{"-o", "/dev/full", writeExport(t, exportDoc)}, &stdout, &stderr)
		assert.Equal(t, exitError, code)
		assert.Contains(t, stderr.String(), "/dev/full")
	})

	t.Run("Ошибка разбора даёт ненулевой код", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{writeExport(t, `{"name":"x","type":"personal_chat","id":1,"messages":[{"id":1,"type":"message"}]}`)}, &stdout, &stderr)
		assert.Equal(t, exitError, code)
		assert.Contains(t, stderr.String(), "messages[0].date")
	})

	t.Run("Подсказка про мягкий режим", func(t *testing.T) {
		doc := `{"name":"x","type":"future_chat","id":1,"messages":[]}`
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitError, run([]string{writeExport(t, doc)}, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "-lenient")

		stdout.Reset()
		stderr.Reset()
		assert.Equal(t, exitOK, run([]string{"-lenient", writeExport(t, doc)}, &stdout, &stderr), stderr.String())
	})

	t.Run("Неизвестный формат", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run([]string{"-format", "pdf", writeExport(t, exportDoc)}, &stdout, &stderr))
	})

	t.Run("Нет аргументов", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "Usage")
	})

	t.Run("Файл не найден", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitError, run([]string{filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr))
	})
}

func TestConsoleColumns(t *testing.T) {
	assert.Equal(t, exporter.DefaultConsoleColumns, consoleColumns(40))

	cols := consoleColumns(210)
	assert.Equal(t, 200, cols.UserID+cols.Name+cols.Username)
	assert.Greater(t, cols.Name, cols.Username)
}

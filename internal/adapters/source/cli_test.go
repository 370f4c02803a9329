package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliSource(t *testing.T) {
	t.Run("NewCliSource создает корректный экземпляр", func(t *testing.T) {
		assert.NotNil(t, NewCliSource("test_file.json"))
	})

	t.Run("Open возвращает ошибку для пустого пути к файлу", func(t *testing.T) {
		source := &CliSource{filePath: ""}

		rc, err := source.Open()

		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Equal(t, "не указан путь к файлу", err.Error())
	})

	t.Run("Open возвращает ошибку для несуществующего файла", func(t *testing.T) {
		source := &CliSource{filePath: filepath.Join(t.TempDir(), "non_existing_file.json")}

		rc, err := source.Open()

		assert.Nil(t, rc)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Open возвращает данные существующего файла", func(t *testing.T) {
		testData := []byte(`{"name": "Test Chat", "type": "private_group", "id": 1, "messages": []}`)
		name := filepath.Join(t.TempDir(), "result.json")
		require.NoError(t, os.WriteFile(name, testData, 0o600))

		rc, err := NewCliSource(name).Open()
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})
}

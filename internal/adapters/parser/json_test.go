package parser

import (
	"strings"
	"testing"

	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const testData = `{
	"name": "Test Chat",
	"type": "private_group",
	"id": 12345,
	"messages": [
		{
			"id": 1,
			"type": "message",
			"date": "2023-01-01T00:00:00",
			"date_unixtime": "1672531200",
			"from": "John Doe",
			"from_id": "user123",
			"text": "Hello, World!",
			"text_entities": []
		}
	]
}`

func TestJsonParser(t *testing.T) {
	t.Run("NewJsonParser создает корректный экземпляр", func(t *testing.T) {
		assert.NotNil(t, NewJsonParser(nil, false))
	})

	t.Run("Разбор корректного JSON", func(t *testing.T) {
		chat, err := NewJsonParser(nil, false).Parse(strings.NewReader(testData))
		require.NoError(t, err)

		assert.Equal(t, "Test Chat", chat.Name)
		assert.Equal(t, chatexport.ChatPrivateGroup, chat.Type)
		assert.Equal(t, int64(12345), chat.ID)
		require.Len(t, chat.Messages, 1)
		assert.Equal(t, int64(1), chat.Messages[0].MessageID())
	})

	t.Run("Разбор некорректного JSON возвращает ошибку", func(t *testing.T) {
		chat, err := NewJsonParser(nil, false).Parse(strings.NewReader(`{"name": "Test Chat", "invalid_json":}`))

		assert.Nil(t, chat)
		var perr *chatexport.Error
		require.True(t, xerrors.As(err, &perr))
		assert.Equal(t, chatexport.KindSyntax, perr.Kind)
	})

	t.Run("Разбор пустого JSON возвращает ошибку", func(t *testing.T) {
		chat, err := NewJsonParser(nil, false).Parse(strings.NewReader(""))

		assert.Nil(t, chat)
		assert.Error(t, err)
	})

	t.Run("Мягкий режим пропускает неизвестный тип чата", func(t *testing.T) {
		data := strings.Replace(testData, "private_group", "secret_chat", 1)

		_, err := NewJsonParser(nil, false).Parse(strings.NewReader(data))
		assert.ErrorIs(t, err, chatexport.ErrUnknownTag)

		chat, err := NewJsonParser(nil, true).Parse(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, chatexport.ChatType("secret_chat"), chat.Type)
	})
}

package services

import (
	"testing"
	"time"

	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryService(t *testing.T) {
	t.Run("Сводка по чату", func(t *testing.T) {
		voice := message(1, "John Doe", "user123")
		voice.MediaType = chatexport.Some("voice_message")
		photo := message(2, "Jane Smith", "user456")
		photo.Photo = chatexport.Some("photos/1.jpg")
		poll := message(3, "John Doe", "user123")
		poll.Poll = chatexport.Some(chatexport.Poll{Question: "?", Answers: []chatexport.Answer{}})

		chat := history(
			service(4, "Alice", "user42", chatexport.ActionPinMessage),
			voice,
			photo,
			poll,
			service(5, "Alice", "user42", chatexport.ActionPinMessage),
		)

		sum, err := NewSummaryService().Summarize(chat)
		require.NoError(t, err)

		assert.Equal(t, "Test Chat", sum.ChatName)
		assert.Equal(t, "private_group", sum.ChatType)
		assert.Equal(t, int64(12345), sum.ChatID)
		assert.Equal(t, 3, sum.Messages)
		assert.Equal(t, 2, sum.ServiceEvents)
		assert.Equal(t, 1, sum.Polls)
		assert.Equal(t, map[string]int{"pin_message": 2}, sum.Actions)
		assert.Equal(t, map[string]int{"voice_message": 1, "photo": 1}, sum.MediaTypes)
		require.NotNil(t, sum.FirstDate)
		require.NotNil(t, sum.LastDate)
		assert.True(t, baseDate.Add(time.Minute).Equal(*sum.FirstDate))
		assert.True(t, baseDate.Add(5*time.Minute).Equal(*sum.LastDate))
		assert.Nil(t, sum.UnknownKinds)
	})

	t.Run("Пустой чат", func(t *testing.T) {
		sum, err := NewSummaryService().Summarize(history())
		require.NoError(t, err)
		assert.Zero(t, sum.Messages)
		assert.Nil(t, sum.FirstDate)
		assert.NotNil(t, sum.Actions)
	})

	t.Run("Значения вне словарей собираются", func(t *testing.T) {
		chat := history(
			service(1, "Alice", "user42", chatexport.Action("summon_dragon")),
			message(2, "John Doe", "user123", chatexport.TextObject{Type: "sparkle", Text: "✨"}),
		)
		chat.Type = "galaxy_chat"

		sum, err := NewSummaryService().Summarize(chat)
		require.NoError(t, err)
		assert.Equal(t, []string{"action:summon_dragon", "chat_type:galaxy_chat", "entity:sparkle"}, sum.UnknownKinds)
	})

	t.Run("nil чат возвращает ошибку", func(t *testing.T) {
		_, err := NewSummaryService().Summarize(nil)
		assert.Error(t, err)
	})
}

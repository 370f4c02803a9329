package chatexport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const minimalExport = `{
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
			"text_entities": [{"type": "plain", "text": "Hello, World!"}]
		}
	]
}`

func exportWith(items ...string) string {
	return `{"name":"Chat","type":"private_supergroup","id":1,"messages":[` + strings.Join(items, ",") + `]}`
}

func requireKind(t *testing.T, err error, kind ErrorKind, path string) *Error {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.True(t, xerrors.As(err, &e), "ожидалась *Error, получено %T: %v", err, err)
	assert.Equal(t, kind, e.Kind, "вид ошибки: %v", err)
	assert.Equal(t, path, e.Path)
	return e
}

func TestParse(t *testing.T) {
	t.Run("Разбор минимального экспорта", func(t *testing.T) {
		chat, err := ParseString(minimalExport)
		require.NoError(t, err)

		assert.Equal(t, "Test Chat", chat.Name)
		assert.Equal(t, ChatPrivateGroup, chat.Type)
		assert.Equal(t, int64(12345), chat.ID)
		require.Len(t, chat.Messages, 1)

		msg, ok := chat.Messages[0].(Message)
		require.True(t, ok)
		assert.Equal(t, TypeMessage, msg.Type())
		assert.Equal(t, int64(1), msg.MessageID())
		assert.Equal(t, "1672531200", msg.DateUnixtime)
		assert.Equal(t, Some("John Doe"), msg.From)
		assert.Equal(t, "user123", msg.FromID)
		assert.False(t, msg.Edited.IsSet())
		assert.False(t, msg.Poll.IsSet())
	})

	t.Run("Повторный разбор даёт равный результат", func(t *testing.T) {
		first, err := Parse([]byte(minimalExport))
		require.NoError(t, err)
		second, err := Parse([]byte(minimalExport))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Дата разбирается как время без зоны", func(t *testing.T) {
		chat, err := ParseString(minimalExport)
		require.NoError(t, err)
		want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, want.Equal(chat.Messages[0].Timestamp()))
	})

	t.Run("Текст строкой даёт PlainText", func(t *testing.T) {
		chat, err := ParseString(minimalExport)
		require.NoError(t, err)
		msg := chat.Messages[0].(Message)
		assert.Equal(t, PlainText("Hello, World!"), msg.Text)
		require.Len(t, msg.TextEntities, 1)
		assert.Equal(t, EntityPlain, msg.TextEntities[0].EntityType())
	})

	t.Run("Текст массивом даёт RichText", func(t *testing.T) {
		doc := exportWith(`{"id":2,"type":"message","date":"2023-05-01T12:30:00","date_unixtime":"1","from_id":"user1",
			"text":["Привет, ",{"type":"bold","text":"мир"},{"type":"text_link","text":"сайт","href":"https://example.com"}],
			"text_entities":[]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)
		msg := chat.Messages[0].(Message)

		rich, ok := msg.Text.(RichText)
		require.True(t, ok)
		require.Len(t, rich, 3)
		assert.Equal(t, PlainEntity("Привет, "), rich[0])
		assert.Equal(t, TextObject{Text: "мир", Type: EntityBold}, rich[1])
		assert.Equal(t, Some("https://example.com"), rich[2].(TextObject).Href)
		assert.Equal(t, "Привет, мирсайт", msg.Text.Content())
		assert.NotNil(t, msg.TextEntities)
		assert.Empty(t, msg.TextEntities)
	})

	t.Run("custom_emoji сохраняет document_id", func(t *testing.T) {
		doc := exportWith(`{"id":2,"type":"message","date":"2023-05-01T12:30:00","date_unixtime":"1","from_id":"user1",
			"text":[{"type":"custom_emoji","text":"🔥","document_id":"5368324170671202286"}],
			"text_entities":[{"type":"custom_emoji","text":"🔥","document_id":"5368324170671202286"}]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)
		msg := chat.Messages[0].(Message)

		want := TextObject{Text: "🔥", Type: EntityCustomEmoji, DocumentID: Some("5368324170671202286")}
		assert.Equal(t, RichText{want}, msg.Text)
		assert.Equal(t, []TextEntity{want}, msg.TextEntities)
	})

	t.Run("Служебное событие без title", func(t *testing.T) {
		doc := exportWith(`{"id":3,"type":"service","date":"2023-01-01T00:00:00","date_unixtime":"1",
			"actor":"Alice","actor_id":"user42","action":"pin_message","message_id":2,"text":"","text_entities":[]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)

		svc, ok := chat.Messages[0].(ServiceMessage)
		require.True(t, ok)
		assert.Equal(t, TypeService, svc.Type())
		assert.Equal(t, ActionPinMessage, svc.Action)
		assert.True(t, svc.Action.Known())
		assert.False(t, svc.Title.IsSet())
		assert.Equal(t, Some(int64(2)), svc.TargetMessageID)
		assert.Equal(t, Some("Alice"), svc.Actor)
	})

	t.Run("Участники с удалёнными аккаунтами", func(t *testing.T) {
		doc := exportWith(`{"id":4,"type":"service","date":"2023-01-01T00:00:00","date_unixtime":"1",
			"actor_id":"user1","action":"invite_members","members":["Bob",null],"text":"","text_entities":[]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)

		members, ok := chat.Messages[0].(ServiceMessage).Members.Get()
		require.True(t, ok)
		assert.Equal(t, []Optional[string]{Some("Bob"), None[string]()}, members)
	})

	t.Run("Ряды inline-кнопок", func(t *testing.T) {
		doc := exportWith(`{"id":5,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1",
			"text":"","text_entities":[],
			"inline_bot_buttons":[[{"type":"url","text":"Go","data":"http://x"}],[{"type":"callback","text":"B"}]]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)

		rows, ok := chat.Messages[0].(Message).InlineBotButtons.Get()
		require.True(t, ok)
		require.Len(t, rows, 2)
		assert.Equal(t, InlineBotButton{Type: "url", Text: "Go", Data: Some("http://x")}, rows[0][0])
		assert.Equal(t, InlineBotButton{Type: "callback", Text: "B"}, rows[1][0])
		assert.False(t, rows[1][0].Data.IsSet())
	})

	t.Run("Опрос", func(t *testing.T) {
		doc := exportWith(`{"id":6,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1",
			"text":"","text_entities":[],
			"poll":{"question":"Да?","closed":true,"total_voters":3,"answers":[{"text":"Да","voters":2,"chosen":true},{"text":"Нет","voters":1,"chosen":false}]}}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)

		poll, ok := chat.Messages[0].(Message).Poll.Get()
		require.True(t, ok)
		assert.Equal(t, Poll{
			Question:    "Да?",
			Closed:      true,
			TotalVoters: 3,
			Answers: []Answer{
				{Text: "Да", Voters: 2, Chosen: true},
				{Text: "Нет", Voters: 1},
			},
		}, poll)
	})

	t.Run("null равнозначен отсутствию поля", func(t *testing.T) {
		doc := exportWith(`{"id":7,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from":null,"from_id":"user1",
			"reply_to_message_id":null,"text":"","text_entities":[]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)
		msg := chat.Messages[0].(Message)
		assert.False(t, msg.From.IsSet())
		assert.False(t, msg.ReplyToMessageID.IsSet())
	})

	t.Run("Пустая строка присутствует", func(t *testing.T) {
		doc := exportWith(`{"id":8,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from":"","from_id":"user1",
			"text":"","text_entities":[]}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)
		assert.Equal(t, Some(""), chat.Messages[0].(Message).From)
	})

	t.Run("Неизвестные ключи пропускаются", func(t *testing.T) {
		doc := `{"about":{"nested":[1,2,{"x":null}]},"name":"Chat","type":"personal_chat","id":1,"messages":[],"extra":true}`
		chat, err := ParseString(doc)
		require.NoError(t, err)
		assert.NotNil(t, chat.Messages)
		assert.Empty(t, chat.Messages)
	})

	t.Run("Тип элемента может стоять в конце объекта", func(t *testing.T) {
		doc := exportWith(`{"id":9,"date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1","text":"","text_entities":[],"type":"message"}`)
		chat, err := ParseString(doc)
		require.NoError(t, err)
		assert.Equal(t, TypeMessage, chat.Messages[0].Type())
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("Некорректная дата", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"message","date":"2023-13-45","date_unixtime":"1","from_id":"user1","text":"","text_entities":[]}`)
		chat, err := ParseString(doc)
		assert.Nil(t, chat)
		e := requireKind(t, err, KindFormat, "messages[0].date")
		assert.Equal(t, "2023-13-45", e.Value)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("Неизвестный тип элемента", func(t *testing.T) {
		doc := exportWith(
			`{"id":1,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1","text":"","text_entities":[]}`,
			`{"id":2,"type":"sticker","date":"2023-01-01T00:00:00"}`,
		)
		chat, err := ParseString(doc)
		assert.Nil(t, chat)
		e := requireKind(t, err, KindUnknownTag, "messages[1].type")
		assert.Equal(t, "sticker", e.Value)
		assert.ErrorIs(t, err, ErrUnknownTag)
	})

	t.Run("Отсутствует тип элемента", func(t *testing.T) {
		_, err := ParseString(exportWith(`{"id":1}`))
		requireKind(t, err, KindMissingField, "messages[0].type")
	})

	t.Run("Отсутствует обязательное поле корня", func(t *testing.T) {
		_, err := ParseString(`{"name":"Chat","type":"personal_chat","messages":[]}`)
		requireKind(t, err, KindMissingField, "id")
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("Отсутствует обязательное поле сообщения", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","text":"","text_entities":[]}`)
		_, err := ParseString(doc)
		requireKind(t, err, KindMissingField, "messages[0].from_id")
	})

	t.Run("Неподходящий тип значения", func(t *testing.T) {
		_, err := ParseString(`{"name":"Chat","type":"personal_chat","id":"1","messages":[]}`)
		e := requireKind(t, err, KindTypeMismatch, "id")
		assert.Equal(t, "integer", e.Expected)
		assert.Equal(t, "string", e.Found)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("Текст числом", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1","text":42,"text_entities":[]}`)
		_, err := ParseString(doc)
		e := requireKind(t, err, KindTypeMismatch, "messages[0].text")
		assert.Equal(t, "string or array", e.Expected)
		assert.Equal(t, "number", e.Found)
	})

	t.Run("Путь внутри фрагментов текста", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"message","date":"2023-01-01T00:00:00","date_unixtime":"1","from_id":"user1",
			"text":"","text_entities":["a",{"type":"bold"}]}`)
		_, err := ParseString(doc)
		requireKind(t, err, KindMissingField, "messages[0].text_entities[1].text")
	})

	t.Run("Корень не объект", func(t *testing.T) {
		_, err := ParseString(`[]`)
		requireKind(t, err, KindTypeMismatch, "")
	})

	t.Run("Синтаксическая ошибка", func(t *testing.T) {
		_, err := ParseString(`{"name": "Test Chat", "invalid_json":}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSyntax)
	})

	t.Run("Пустой ввод", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorIs(t, err, ErrSyntax)
	})

	t.Run("Данные после документа", func(t *testing.T) {
		for _, tail := range []string{" []", "}", ",", " garbage", " 1"} {
			_, err := ParseString(`{"name":"Chat","type":"personal_chat","id":1,"messages":[]}` + tail)
			requireKind(t, err, KindSyntax, "")

			_, err = ParseReader(strings.NewReader(`{"name":"Chat","type":"personal_chat","id":1,"messages":[]}` + tail))
			requireKind(t, err, KindSyntax, "")
		}
	})

	t.Run("Пробелы после документа допустимы", func(t *testing.T) {
		chat, err := ParseString("{\"name\":\"Chat\",\"type\":\"personal_chat\",\"id\":1,\"messages\":[]} \n\t")
		require.NoError(t, err)
		assert.Equal(t, "Chat", chat.Name)
	})

	t.Run("Null в обязательном поле", func(t *testing.T) {
		_, err := ParseString(`{"name":null,"type":"personal_chat","id":1,"messages":[]}`)
		e := requireKind(t, err, KindTypeMismatch, "name")
		assert.Equal(t, "string", e.Expected)
		assert.Equal(t, "null", e.Found)
	})

	t.Run("Неизвестный тип чата в строгом режиме", func(t *testing.T) {
		_, err := ParseString(`{"name":"Chat","type":"galaxy_chat","id":1,"messages":[]}`)
		requireKind(t, err, KindUnknownTag, "type")
	})

	t.Run("Неизвестное действие в строгом режиме", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"service","date":"2023-01-01T00:00:00","date_unixtime":"1","actor_id":"user1",
			"action":"summon_dragon","text":"","text_entities":[]}`)
		_, err := ParseString(doc)
		requireKind(t, err, KindUnknownTag, "messages[0].action")
	})

	t.Run("Текст ошибки содержит путь", func(t *testing.T) {
		doc := exportWith(`{"id":1,"type":"message","date":"bad","date_unixtime":"1","from_id":"user1","text":"","text_entities":[]}`)
		_, err := ParseString(doc)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "messages[0].date: "), err.Error())
	})
}

func TestLenientEnums(t *testing.T) {
	doc := `{"name":"Chat","type":"galaxy_chat","id":1,"messages":[
		{"id":1,"type":"service","date":"2023-01-01T00:00:00","date_unixtime":"1","actor_id":"user1",
		 "action":"summon_dragon","text":"","text_entities":[{"type":"sparkle","text":"✨"}]}]}`

	t.Run("Значения вне словаря сохраняются", func(t *testing.T) {
		chat, err := ParseString(doc, WithLenientEnums())
		require.NoError(t, err)
		assert.Equal(t, ChatType("galaxy_chat"), chat.Type)
		assert.False(t, chat.Type.Known())

		svc := chat.Messages[0].(ServiceMessage)
		assert.Equal(t, Action("summon_dragon"), svc.Action)
		assert.False(t, svc.Action.Known())
		assert.False(t, svc.TextEntities[0].EntityType().Known())
	})

	t.Run("Тип элемента остаётся строгим", func(t *testing.T) {
		_, err := ParseString(exportWith(`{"id":1,"type":"sticker"}`), WithLenientEnums())
		requireKind(t, err, KindUnknownTag, "messages[0].type")
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrDeadlineExceeded
}

func TestParseReader(t *testing.T) {
	t.Run("Разбор из потока", func(t *testing.T) {
		chat, err := ParseReader(strings.NewReader(minimalExport))
		require.NoError(t, err)
		assert.Equal(t, "Test Chat", chat.Name)
	})

	t.Run("Ошибка чтения не маскируется под синтаксическую", func(t *testing.T) {
		_, err := ParseReader(failingReader{})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
		assert.NotErrorIs(t, err, ErrSyntax)
	})
}

func TestParseFile(t *testing.T) {
	t.Run("Разбор файла", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "result.json")
		require.NoError(t, os.WriteFile(name, []byte(minimalExport), 0o600))

		chat, err := ParseFile(name)
		require.NoError(t, err)
		assert.Len(t, chat.Messages, 1)
	})

	t.Run("Отсутствующий файл", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

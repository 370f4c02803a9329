package chatexport

import "time"

// ChatHistory — корневая структура файла экспорта.
type ChatHistory struct {
	Name     string
	Type     ChatType
	ID       int64
	Messages []MessageItem
}

// MessageItem — элемент ленты: Message или ServiceMessage.
type MessageItem interface {
	Type() MessageType
	MessageID() int64
	Timestamp() time.Time
	isMessageItem()
}

// Message — обычное сообщение пользователя или бота.
type Message struct {
	ID           int64
	Date         time.Time
	DateUnixtime string

	Edited         Optional[string]
	EditedUnixtime Optional[string]

	From   Optional[string]
	FromID string

	Text         Text
	TextEntities []TextEntity

	ForwardedFrom    Optional[string]
	SavedFrom        Optional[string]
	ReplyToMessageID Optional[int64]
	ReplyToPeerID    Optional[string]

	File            Optional[string]
	Thumbnail       Optional[string]
	StickerEmoji    Optional[string]
	ViaBot          Optional[string]
	GameTitle       Optional[string]
	GameDescription Optional[string]
	GameLink        Optional[string]
	Author          Optional[string]
	MediaType       Optional[string]
	MimeType        Optional[string]
	DurationSeconds Optional[int64]
	Photo           Optional[string]
	Width           Optional[int64]
	Height          Optional[int64]

	// InlineBotButtons — клавиатура: внешний срез — ряды, внутренний — кнопки ряда.
	InlineBotButtons Optional[[][]InlineBotButton]
	Poll             Optional[Poll]
}

// Type реализует MessageItem.
func (Message) Type() MessageType { return TypeMessage }

// MessageID реализует MessageItem.
func (m Message) MessageID() int64 { return m.ID }

// Timestamp реализует MessageItem.
func (m Message) Timestamp() time.Time { return m.Date }

func (Message) isMessageItem() {}

// ServiceMessage — служебное событие (закреп, смена названия, миграция и т.д.).
type ServiceMessage struct {
	ID           int64
	Date         time.Time
	DateUnixtime string

	Actor   Optional[string]
	ActorID string
	Action  Action

	Text         string
	TextEntities []TextEntity

	// TargetMessageID — поле "message_id": сообщение, к которому относится событие.
	TargetMessageID Optional[int64]
	Title           Optional[string]
	Photo           Optional[string]
	Width           Optional[int64]
	Height          Optional[int64]
	// Members может содержать null для удалённых аккаунтов.
	Members        Optional[[]Optional[string]]
	ScheduleDate   Optional[int64]
	Boosts         Optional[int64]
	Duration       Optional[int64]
	NewIconEmojiID Optional[int64]
}

// Type реализует MessageItem.
func (ServiceMessage) Type() MessageType { return TypeService }

// MessageID реализует MessageItem.
func (s ServiceMessage) MessageID() int64 { return s.ID }

// Timestamp реализует MessageItem.
func (s ServiceMessage) Timestamp() time.Time { return s.Date }

func (ServiceMessage) isMessageItem() {}

// Poll — опрос внутри сообщения. Сумма голосов по ответам не сверяется с TotalVoters.
type Poll struct {
	Question    string
	Closed      bool
	TotalVoters int64
	Answers     []Answer
}

// Answer — вариант ответа в опросе.
type Answer struct {
	Chosen bool
	Text   string
	Voters int64
}

// InlineBotButton — кнопка inline-клавиатуры.
type InlineBotButton struct {
	Type string
	Text string
	Data Optional[string]
}

package chatexport

import "strings"

// Text — тело сообщения: либо простая строка, либо последовательность
// фрагментов. Реализуется только типами PlainText и RichText.
type Text interface {
	// Content возвращает видимый текст без форматирования.
	Content() string
	isText()
}

// PlainText — тело, пришедшее строкой.
type PlainText string

// Content реализует Text.
func (t PlainText) Content() string { return string(t) }

func (PlainText) isText() {}

// RichText — тело, пришедшее массивом фрагментов.
type RichText []TextEntity

// Content реализует Text.
func (t RichText) Content() string {
	return joinEntities(t)
}

func (RichText) isText() {}

// TextEntity — один фрагмент текста: PlainEntity или TextObject.
type TextEntity interface {
	// Content возвращает текст фрагмента.
	Content() string
	// EntityType возвращает вид фрагмента; для PlainEntity это EntityPlain.
	EntityType() TextObjectType
	isTextEntity()
}

// PlainEntity — фрагмент, пришедший строкой.
type PlainEntity string

// Content реализует TextEntity.
func (e PlainEntity) Content() string { return string(e) }

// EntityType реализует TextEntity.
func (PlainEntity) EntityType() TextObjectType { return EntityPlain }

func (PlainEntity) isTextEntity() {}

// TextObject — форматированный фрагмент.
type TextObject struct {
	Text string
	Type TextObjectType
	// UserID заполняется для mention_name.
	UserID Optional[int64]
	// Href заполняется для text_link.
	Href Optional[string]
	// Language заполняется для pre.
	Language Optional[string]
	// DocumentID заполняется для custom_emoji: идентификатор стикера.
	DocumentID Optional[string]
}

// Content реализует TextEntity.
func (o TextObject) Content() string { return o.Text }

// EntityType реализует TextEntity.
func (o TextObject) EntityType() TextObjectType { return o.Type }

func (TextObject) isTextEntity() {}

func joinEntities(entities []TextEntity) string {
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(e.Content())
	}
	return sb.String()
}

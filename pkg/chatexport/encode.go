package chatexport

import "github.com/go-faster/jx"

// Encode записывает историю в формате экспорта. Отсутствующие необязательные
// поля опускаются, присутствующие (в том числе пустые) записываются.
func (c ChatHistory) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(c.Name)
	e.FieldStart("type")
	e.Str(string(c.Type))
	e.FieldStart("id")
	e.Int64(c.ID)
	e.FieldStart("messages")
	e.ArrStart()
	for _, item := range c.Messages {
		encodeItem(e, item)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// MarshalJSON реализует json.Marshaler.
func (c ChatHistory) MarshalJSON() ([]byte, error) {
	return marshal(c.Encode), nil
}

func encodeItem(e *jx.Encoder, item MessageItem) {
	switch v := item.(type) {
	case Message:
		v.Encode(e)
	case ServiceMessage:
		v.Encode(e)
	default:
		e.Null()
	}
}

// Encode записывает сообщение вместе с тегом "type".
func (m Message) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(m.ID)
	e.FieldStart("type")
	e.Str(string(TypeMessage))
	e.FieldStart("date")
	e.Str(FormatDateTime(m.Date))
	e.FieldStart("date_unixtime")
	e.Str(m.DateUnixtime)
	optStr(e, "edited", m.Edited)
	optStr(e, "edited_unixtime", m.EditedUnixtime)
	optStr(e, "from", m.From)
	e.FieldStart("from_id")
	e.Str(m.FromID)
	optStr(e, "forwarded_from", m.ForwardedFrom)
	optStr(e, "saved_from", m.SavedFrom)
	optInt(e, "reply_to_message_id", m.ReplyToMessageID)
	optStr(e, "reply_to_peer_id", m.ReplyToPeerID)
	optStr(e, "via_bot", m.ViaBot)
	optStr(e, "author", m.Author)
	optStr(e, "file", m.File)
	optStr(e, "thumbnail", m.Thumbnail)
	optStr(e, "media_type", m.MediaType)
	optStr(e, "sticker_emoji", m.StickerEmoji)
	optStr(e, "mime_type", m.MimeType)
	optInt(e, "duration_seconds", m.DurationSeconds)
	optStr(e, "photo", m.Photo)
	optInt(e, "width", m.Width)
	optInt(e, "height", m.Height)
	optStr(e, "game_title", m.GameTitle)
	optStr(e, "game_description", m.GameDescription)
	optStr(e, "game_link", m.GameLink)
	if p, ok := m.Poll.Get(); ok {
		e.FieldStart("poll")
		p.Encode(e)
	}
	if rows, ok := m.InlineBotButtons.Get(); ok {
		e.FieldStart("inline_bot_buttons")
		e.ArrStart()
		for _, row := range rows {
			e.ArrStart()
			for _, b := range row {
				b.Encode(e)
			}
			e.ArrEnd()
		}
		e.ArrEnd()
	}
	e.FieldStart("text")
	encodeText(e, m.Text)
	e.FieldStart("text_entities")
	encodeEntities(e, m.TextEntities)
	e.ObjEnd()
}

// MarshalJSON реализует json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	return marshal(m.Encode), nil
}

// Encode записывает служебное событие вместе с тегом "type".
func (s ServiceMessage) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(s.ID)
	e.FieldStart("type")
	e.Str(string(TypeService))
	e.FieldStart("date")
	e.Str(FormatDateTime(s.Date))
	e.FieldStart("date_unixtime")
	e.Str(s.DateUnixtime)
	optStr(e, "actor", s.Actor)
	e.FieldStart("actor_id")
	e.Str(s.ActorID)
	e.FieldStart("action")
	e.Str(string(s.Action))
	optInt(e, "message_id", s.TargetMessageID)
	optStr(e, "title", s.Title)
	optStr(e, "photo", s.Photo)
	optInt(e, "width", s.Width)
	optInt(e, "height", s.Height)
	if members, ok := s.Members.Get(); ok {
		e.FieldStart("members")
		e.ArrStart()
		for _, m := range members {
			if v, ok := m.Get(); ok {
				e.Str(v)
			} else {
				e.Null()
			}
		}
		e.ArrEnd()
	}
	optInt(e, "schedule_date", s.ScheduleDate)
	optInt(e, "boosts", s.Boosts)
	optInt(e, "duration", s.Duration)
	optInt(e, "new_icon_emoji_id", s.NewIconEmojiID)
	e.FieldStart("text")
	e.Str(s.Text)
	e.FieldStart("text_entities")
	encodeEntities(e, s.TextEntities)
	e.ObjEnd()
}

// MarshalJSON реализует json.Marshaler.
func (s ServiceMessage) MarshalJSON() ([]byte, error) {
	return marshal(s.Encode), nil
}

// Encode записывает опрос.
func (p Poll) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("question")
	e.Str(p.Question)
	e.FieldStart("closed")
	e.Bool(p.Closed)
	e.FieldStart("total_voters")
	e.Int64(p.TotalVoters)
	e.FieldStart("answers")
	e.ArrStart()
	for _, a := range p.Answers {
		e.ObjStart()
		e.FieldStart("text")
		e.Str(a.Text)
		e.FieldStart("voters")
		e.Int64(a.Voters)
		e.FieldStart("chosen")
		e.Bool(a.Chosen)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// Encode записывает кнопку.
func (b InlineBotButton) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("type")
	e.Str(b.Type)
	e.FieldStart("text")
	e.Str(b.Text)
	optStr(e, "data", b.Data)
	e.ObjEnd()
}

// Encode записывает форматированный фрагмент.
func (o TextObject) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("type")
	e.Str(string(o.Type))
	e.FieldStart("text")
	e.Str(o.Text)
	optStr(e, "href", o.Href)
	optInt(e, "user_id", o.UserID)
	optStr(e, "language", o.Language)
	optStr(e, "document_id", o.DocumentID)
	e.ObjEnd()
}

// encodeText сохраняет исходную форму тела: строка или массив.
func encodeText(e *jx.Encoder, t Text) {
	switch v := t.(type) {
	case PlainText:
		e.Str(string(v))
	case RichText:
		encodeEntities(e, v)
	default:
		e.Str("")
	}
}

func encodeEntities(e *jx.Encoder, entities []TextEntity) {
	e.ArrStart()
	for _, ent := range entities {
		switch v := ent.(type) {
		case PlainEntity:
			e.Str(string(v))
		case TextObject:
			v.Encode(e)
		}
	}
	e.ArrEnd()
}

func optStr(e *jx.Encoder, name string, o Optional[string]) {
	if v, ok := o.Get(); ok {
		e.FieldStart(name)
		e.Str(v)
	}
}

func optInt(e *jx.Encoder, name string, o Optional[int64]) {
	if v, ok := o.Get(); ok {
		e.FieldStart(name)
		e.Int64(v)
	}
}

func marshal(encode func(e *jx.Encoder)) []byte {
	var e jx.Encoder
	encode(&e)
	return e.Bytes()
}

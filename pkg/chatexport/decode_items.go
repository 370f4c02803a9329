package chatexport

import "github.com/go-faster/jx"

func (dc *decoder) chatHistory(d *jx.Decoder) (ChatHistory, error) {
	var (
		c                                    ChatHistory
		hasName, hasType, hasID, hasMessages bool
	)
	err := dc.object(d, "", func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "name":
			hasName = true
			c.Name, err = dc.str(d, p)
		case "type":
			hasType = true
			c.Type, err = enum(dc, d, p, chatTypes)
		case "id":
			hasID = true
			c.ID, err = dc.integer(d, p)
		case "messages":
			hasMessages = true
			c.Messages, err = list(d, p, dc.messageItem)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return ChatHistory{}, err
	}
	switch {
	case !hasName:
		return ChatHistory{}, missingField("name")
	case !hasType:
		return ChatHistory{}, missingField("type")
	case !hasID:
		return ChatHistory{}, missingField("id")
	case !hasMessages:
		return ChatHistory{}, missingField("messages")
	}
	return c, nil
}

// messageItem выбирает вариант по полю "type". Поле может стоять в любом
// месте объекта, поэтому элемент сначала захватывается целиком.
func (dc *decoder) messageItem(d *jx.Decoder, p path) (MessageItem, error) {
	if err := expect(d, p, jx.Object, "object"); err != nil {
		return nil, err
	}
	raw, err := d.Raw()
	if err != nil {
		return nil, syntaxError(p, err)
	}
	tag, err := dc.itemTag(jx.DecodeBytes(raw), p)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TypeMessage:
		m, err := dc.message(jx.DecodeBytes(raw), p)
		if err != nil {
			return nil, err
		}
		return m, nil
	case TypeService:
		s, err := dc.service(jx.DecodeBytes(raw), p)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, unknownTag(p.field("type"), string(tag))
	}
}

func (dc *decoder) itemTag(d *jx.Decoder, p path) (MessageType, error) {
	var (
		tag   string
		found bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		if key != "type" {
			return skip(d, p)
		}
		found = true
		var err error
		tag, err = dc.str(d, p)
		return err
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", missingField(p.field("type"))
	}
	return MessageType(tag), nil
}

func (dc *decoder) message(d *jx.Decoder, p path) (Message, error) {
	var (
		m                                      Message
		hasID, hasDate, hasUnixtime, hasFromID bool
		hasText, hasEntities                   bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "id":
			hasID = true
			m.ID, err = dc.integer(d, p)
		case "date":
			hasDate = true
			m.Date, err = dc.dateTime(d, p)
		case "date_unixtime":
			hasUnixtime = true
			m.DateUnixtime, err = dc.str(d, p)
		case "edited":
			m.Edited, err = optional(d, p, dc.str)
		case "edited_unixtime":
			m.EditedUnixtime, err = optional(d, p, dc.str)
		case "from":
			m.From, err = optional(d, p, dc.str)
		case "from_id":
			hasFromID = true
			m.FromID, err = dc.str(d, p)
		case "text":
			hasText = true
			m.Text, err = dc.text(d, p)
		case "text_entities":
			hasEntities = true
			m.TextEntities, err = list(d, p, dc.textEntity)
		case "forwarded_from":
			m.ForwardedFrom, err = optional(d, p, dc.str)
		case "saved_from":
			m.SavedFrom, err = optional(d, p, dc.str)
		case "reply_to_message_id":
			m.ReplyToMessageID, err = optional(d, p, dc.integer)
		case "reply_to_peer_id":
			m.ReplyToPeerID, err = optional(d, p, dc.str)
		case "file":
			m.File, err = optional(d, p, dc.str)
		case "thumbnail":
			m.Thumbnail, err = optional(d, p, dc.str)
		case "sticker_emoji":
			m.StickerEmoji, err = optional(d, p, dc.str)
		case "via_bot":
			m.ViaBot, err = optional(d, p, dc.str)
		case "game_title":
			m.GameTitle, err = optional(d, p, dc.str)
		case "game_description":
			m.GameDescription, err = optional(d, p, dc.str)
		case "game_link":
			m.GameLink, err = optional(d, p, dc.str)
		case "author":
			m.Author, err = optional(d, p, dc.str)
		case "media_type":
			m.MediaType, err = optional(d, p, dc.str)
		case "mime_type":
			m.MimeType, err = optional(d, p, dc.str)
		case "duration_seconds":
			m.DurationSeconds, err = optional(d, p, dc.integer)
		case "photo":
			m.Photo, err = optional(d, p, dc.str)
		case "width":
			m.Width, err = optional(d, p, dc.integer)
		case "height":
			m.Height, err = optional(d, p, dc.integer)
		case "inline_bot_buttons":
			m.InlineBotButtons, err = optional(d, p, dc.buttonRows)
		case "poll":
			m.Poll, err = optional(d, p, dc.poll)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return Message{}, err
	}
	switch {
	case !hasID:
		return Message{}, missingField(p.field("id"))
	case !hasDate:
		return Message{}, missingField(p.field("date"))
	case !hasUnixtime:
		return Message{}, missingField(p.field("date_unixtime"))
	case !hasFromID:
		return Message{}, missingField(p.field("from_id"))
	case !hasText:
		return Message{}, missingField(p.field("text"))
	case !hasEntities:
		return Message{}, missingField(p.field("text_entities"))
	}
	return m, nil
}

func (dc *decoder) service(d *jx.Decoder, p path) (ServiceMessage, error) {
	var (
		s                                       ServiceMessage
		hasID, hasDate, hasUnixtime, hasActorID bool
		hasAction, hasText, hasEntities         bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "id":
			hasID = true
			s.ID, err = dc.integer(d, p)
		case "date":
			hasDate = true
			s.Date, err = dc.dateTime(d, p)
		case "date_unixtime":
			hasUnixtime = true
			s.DateUnixtime, err = dc.str(d, p)
		case "actor":
			s.Actor, err = optional(d, p, dc.str)
		case "actor_id":
			hasActorID = true
			s.ActorID, err = dc.str(d, p)
		case "action":
			hasAction = true
			s.Action, err = enum(dc, d, p, actions)
		case "text":
			hasText = true
			s.Text, err = dc.str(d, p)
		case "text_entities":
			hasEntities = true
			s.TextEntities, err = list(d, p, dc.textEntity)
		case "message_id":
			s.TargetMessageID, err = optional(d, p, dc.integer)
		case "title":
			s.Title, err = optional(d, p, dc.str)
		case "photo":
			s.Photo, err = optional(d, p, dc.str)
		case "width":
			s.Width, err = optional(d, p, dc.integer)
		case "height":
			s.Height, err = optional(d, p, dc.integer)
		case "members":
			s.Members, err = optional(d, p, dc.members)
		case "schedule_date":
			s.ScheduleDate, err = optional(d, p, dc.integer)
		case "boosts":
			s.Boosts, err = optional(d, p, dc.integer)
		case "duration":
			s.Duration, err = optional(d, p, dc.integer)
		case "new_icon_emoji_id":
			s.NewIconEmojiID, err = optional(d, p, dc.integer)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return ServiceMessage{}, err
	}
	switch {
	case !hasID:
		return ServiceMessage{}, missingField(p.field("id"))
	case !hasDate:
		return ServiceMessage{}, missingField(p.field("date"))
	case !hasUnixtime:
		return ServiceMessage{}, missingField(p.field("date_unixtime"))
	case !hasActorID:
		return ServiceMessage{}, missingField(p.field("actor_id"))
	case !hasAction:
		return ServiceMessage{}, missingField(p.field("action"))
	case !hasText:
		return ServiceMessage{}, missingField(p.field("text"))
	case !hasEntities:
		return ServiceMessage{}, missingField(p.field("text_entities"))
	}
	return s, nil
}

func (dc *decoder) members(d *jx.Decoder, p path) ([]Optional[string], error) {
	return list(d, p, func(d *jx.Decoder, p path) (Optional[string], error) {
		return optional(d, p, dc.str)
	})
}

// text разбирает тело сообщения по форме значения: строка или массив.
func (dc *decoder) text(d *jx.Decoder, p path) (Text, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		s, err := dc.str(d, p)
		if err != nil {
			return nil, err
		}
		return PlainText(s), nil
	case jx.Array:
		entities, err := list(d, p, dc.textEntity)
		if err != nil {
			return nil, err
		}
		return RichText(entities), nil
	case jx.Invalid:
		return nil, invalidToken(d, p)
	default:
		return nil, typeMismatch(p, "string or array", typeName(tt))
	}
}

// textEntity разбирает фрагмент: строка или объект.
func (dc *decoder) textEntity(d *jx.Decoder, p path) (TextEntity, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		s, err := dc.str(d, p)
		if err != nil {
			return nil, err
		}
		return PlainEntity(s), nil
	case jx.Object:
		o, err := dc.textObject(d, p)
		if err != nil {
			return nil, err
		}
		return o, nil
	case jx.Invalid:
		return nil, invalidToken(d, p)
	default:
		return nil, typeMismatch(p, "string or object", typeName(tt))
	}
}

func (dc *decoder) textObject(d *jx.Decoder, p path) (TextObject, error) {
	var (
		o                TextObject
		hasText, hasType bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "text":
			hasText = true
			o.Text, err = dc.str(d, p)
		case "type":
			hasType = true
			o.Type, err = enum(dc, d, p, textObjectTypes)
		case "user_id":
			o.UserID, err = optional(d, p, dc.integer)
		case "href":
			o.Href, err = optional(d, p, dc.str)
		case "language":
			o.Language, err = optional(d, p, dc.str)
		case "document_id":
			o.DocumentID, err = optional(d, p, dc.str)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return TextObject{}, err
	}
	switch {
	case !hasText:
		return TextObject{}, missingField(p.field("text"))
	case !hasType:
		return TextObject{}, missingField(p.field("type"))
	}
	return o, nil
}

func (dc *decoder) buttonRows(d *jx.Decoder, p path) ([][]InlineBotButton, error) {
	return list(d, p, func(d *jx.Decoder, p path) ([]InlineBotButton, error) {
		return list(d, p, dc.button)
	})
}

func (dc *decoder) button(d *jx.Decoder, p path) (InlineBotButton, error) {
	var (
		b                InlineBotButton
		hasType, hasText bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "type":
			hasType = true
			b.Type, err = dc.str(d, p)
		case "text":
			hasText = true
			b.Text, err = dc.str(d, p)
		case "data":
			b.Data, err = optional(d, p, dc.str)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return InlineBotButton{}, err
	}
	switch {
	case !hasType:
		return InlineBotButton{}, missingField(p.field("type"))
	case !hasText:
		return InlineBotButton{}, missingField(p.field("text"))
	}
	return b, nil
}

func (dc *decoder) poll(d *jx.Decoder, p path) (Poll, error) {
	var (
		pl                                            Poll
		hasQuestion, hasClosed, hasVoters, hasAnswers bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "question":
			hasQuestion = true
			pl.Question, err = dc.str(d, p)
		case "closed":
			hasClosed = true
			pl.Closed, err = dc.boolean(d, p)
		case "total_voters":
			hasVoters = true
			pl.TotalVoters, err = dc.integer(d, p)
		case "answers":
			hasAnswers = true
			pl.Answers, err = list(d, p, dc.answer)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return Poll{}, err
	}
	switch {
	case !hasQuestion:
		return Poll{}, missingField(p.field("question"))
	case !hasClosed:
		return Poll{}, missingField(p.field("closed"))
	case !hasVoters:
		return Poll{}, missingField(p.field("total_voters"))
	case !hasAnswers:
		return Poll{}, missingField(p.field("answers"))
	}
	return pl, nil
}

func (dc *decoder) answer(d *jx.Decoder, p path) (Answer, error) {
	var (
		a                             Answer
		hasChosen, hasText, hasVoters bool
	)
	err := dc.object(d, p, func(d *jx.Decoder, key string, p path) error {
		var err error
		switch key {
		case "chosen":
			hasChosen = true
			a.Chosen, err = dc.boolean(d, p)
		case "text":
			hasText = true
			a.Text, err = dc.str(d, p)
		case "voters":
			hasVoters = true
			a.Voters, err = dc.integer(d, p)
		default:
			err = skip(d, p)
		}
		return err
	})
	if err != nil {
		return Answer{}, err
	}
	switch {
	case !hasChosen:
		return Answer{}, missingField(p.field("chosen"))
	case !hasText:
		return Answer{}, missingField(p.field("text"))
	case !hasVoters:
		return Answer{}, missingField(p.field("voters"))
	}
	return a, nil
}

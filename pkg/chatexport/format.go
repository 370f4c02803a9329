package chatexport

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/gotd/td/tg"
)

// Entities склеивает текст и строит разметку в терминах MTProto: смещения и
// длины считаются в UTF-16 кодовых единицах, как того требует Telegram API.
// Фрагменты plain, custom_emoji без числового document_id и неизвестные
// виды разметки сущностей не дают.
func Entities(text Text) (string, []tg.MessageEntityClass) {
	rich, ok := text.(RichText)
	if !ok {
		if text == nil {
			return "", nil
		}
		return text.Content(), nil
	}

	var (
		sb       strings.Builder
		entities []tg.MessageEntityClass
		offset   int
	)
	for _, ent := range rich {
		content := ent.Content()
		sb.WriteString(content)
		length := utf16Len(content)
		if obj, ok := ent.(TextObject); ok && length > 0 {
			if e := entity(obj, offset, length); e != nil {
				entities = append(entities, e)
			}
		}
		offset += length
	}
	return sb.String(), entities
}

func entity(obj TextObject, offset, length int) tg.MessageEntityClass {
	switch obj.Type {
	case EntityBold:
		return &tg.MessageEntityBold{Offset: offset, Length: length}
	case EntityItalic:
		return &tg.MessageEntityItalic{Offset: offset, Length: length}
	case EntityUnderline:
		return &tg.MessageEntityUnderline{Offset: offset, Length: length}
	case EntityStrikethrough:
		return &tg.MessageEntityStrike{Offset: offset, Length: length}
	case EntitySpoiler:
		return &tg.MessageEntitySpoiler{Offset: offset, Length: length}
	case EntityBlockquote:
		return &tg.MessageEntityBlockquote{Offset: offset, Length: length}
	case EntityCode:
		return &tg.MessageEntityCode{Offset: offset, Length: length}
	case EntityPre:
		return &tg.MessageEntityPre{Offset: offset, Length: length, Language: obj.Language.Or("")}
	case EntityLink:
		return &tg.MessageEntityURL{Offset: offset, Length: length}
	case EntityTextLink:
		return &tg.MessageEntityTextURL{Offset: offset, Length: length, URL: obj.Href.Or("")}
	case EntityMention:
		return &tg.MessageEntityMention{Offset: offset, Length: length}
	case EntityMentionName:
		id, ok := obj.UserID.Get()
		if !ok {
			return nil
		}
		return &tg.MessageEntityMentionName{Offset: offset, Length: length, UserID: id}
	case EntityHashtag:
		return &tg.MessageEntityHashtag{Offset: offset, Length: length}
	case EntityCashtag:
		return &tg.MessageEntityCashtag{Offset: offset, Length: length}
	case EntityBotCommand:
		return &tg.MessageEntityBotCommand{Offset: offset, Length: length}
	case EntityEmail:
		return &tg.MessageEntityEmail{Offset: offset, Length: length}
	case EntityPhone:
		return &tg.MessageEntityPhone{Offset: offset, Length: length}
	case EntityBankCard:
		return &tg.MessageEntityBankCard{Offset: offset, Length: length}
	case EntityCustomEmoji:
		id, err := strconv.ParseInt(obj.DocumentID.Or(""), 10, 64)
		if err != nil {
			return nil
		}
		return &tg.MessageEntityCustomEmoji{Offset: offset, Length: length, DocumentID: id}
	default:
		return nil
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

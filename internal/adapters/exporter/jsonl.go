package exporter

import (
	"bufio"
	"io"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/gotd/td/tg"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"golang.org/x/xerrors"
)

// JSONLExporter пишет по одной строке на обычное сообщение: текст и
// разметку в терминах MTProto, готовые к повторной отправке через API.
type JSONLExporter struct{}

// NewJSONLExporter создает новый экземпляр JSONLExporter.
func NewJSONLExporter() ports.Exporter {
	return &JSONLExporter{}
}

// Export пишет сообщения истории; служебные события пропускаются.
func (e *JSONLExporter) Export(w io.Writer, _ *domain.Report, chat *chatexport.ChatHistory) error {
	if chat == nil {
		return ErrHistoryRequired
	}

	bw := bufio.NewWriter(w)
	var enc jx.Encoder
	for _, item := range chat.Messages {
		m, ok := item.(chatexport.Message)
		if !ok {
			continue
		}
		enc.Reset()
		encodeLine(&enc, m)
		if _, err := bw.Write(enc.Bytes()); err != nil {
			return xerrors.Errorf("failed to write message %d: %w", m.ID, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return xerrors.Errorf("failed to write message %d: %w", m.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return xerrors.Errorf("failed to flush: %w", err)
	}
	return nil
}

func encodeLine(e *jx.Encoder, m chatexport.Message) {
	text, entities := chatexport.Entities(m.Text)

	e.ObjStart()
	e.FieldStart("id")
	e.Int64(m.ID)
	e.FieldStart("date")
	e.Str(chatexport.FormatDateTime(m.Date))
	e.FieldStart("from_id")
	e.Str(m.FromID)
	if reply, ok := m.ReplyToMessageID.Get(); ok {
		e.FieldStart("reply_to_message_id")
		e.Int64(reply)
	}
	e.FieldStart("message")
	e.Str(text)
	e.FieldStart("entities")
	e.ArrStart()
	for _, ent := range entities {
		encodeEntity(e, ent)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeEntity(e *jx.Encoder, ent tg.MessageEntityClass) {
	e.ObjStart()
	e.FieldStart("_")
	e.Str(ent.TypeName())
	e.FieldStart("offset")
	e.Int(ent.GetOffset())
	e.FieldStart("length")
	e.Int(ent.GetLength())
	switch v := ent.(type) {
	case *tg.MessageEntityTextURL:
		e.FieldStart("url")
		e.Str(v.URL)
	case *tg.MessageEntityMentionName:
		e.FieldStart("user_id")
		e.Int64(v.UserID)
	case *tg.MessageEntityPre:
		e.FieldStart("language")
		e.Str(v.Language)
	case *tg.MessageEntityCustomEmoji:
		e.FieldStart("document_id")
		e.Str(strconv.FormatInt(v.DocumentID, 10))
	}
	e.ObjEnd()
}

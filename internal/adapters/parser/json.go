package parser

import (
	"io"
	"log/slog"

	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"golang.org/x/xerrors"
)

// JsonParser реализует интерфейс Parser для разбора JSON данных.
type JsonParser struct {
	log  *slog.Logger
	opts []chatexport.Option
}

// NewJsonParser создает новый экземпляр JsonParser. При lenient значения
// вне словарей сохраняются как есть вместо ошибки.
func NewJsonParser(log *slog.Logger, lenient bool) ports.Parser {
	if log == nil {
		log = slog.Default()
	}
	p := &JsonParser{log: log.With(slog.String("component", "json_parser"))}
	if lenient {
		p.opts = append(p.opts, chatexport.WithLenientEnums())
	}
	return p
}

// Parse разбирает поток с экспортом в ChatHistory.
// Ошибка разбора сохраняет *chatexport.Error в цепочке.
func (p *JsonParser) Parse(r io.Reader) (*chatexport.ChatHistory, error) {
	chat, err := chatexport.ParseReader(r, p.opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse export: %w", err)
	}
	p.log.Debug("Export parsed",
		slog.String("chat", chat.Name),
		slog.Int("items", len(chat.Messages)))
	return chat, nil
}

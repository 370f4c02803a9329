package exporter

import (
	"encoding/json"
	"io"

	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"golang.org/x/xerrors"
)

// JSONExporter пишет отчёт {summary, participants} в JSON.
type JSONExporter struct{}

// NewJSONExporter создает новый экземпляр JSONExporter.
func NewJSONExporter() ports.Exporter {
	return &JSONExporter{}
}

// Export пишет отчёт с отступами.
func (e *JSONExporter) Export(w io.Writer, report *domain.Report, _ *chatexport.ChatHistory) error {
	if report == nil {
		return errNilReport
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return xerrors.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// HistoryExporter пишет разобранную историю обратно в формате экспорта.
type HistoryExporter struct{}

// NewHistoryExporter создает новый экземпляр HistoryExporter.
func NewHistoryExporter() ports.Exporter {
	return &HistoryExporter{}
}

// Export пишет историю; отчёт не используется.
func (e *HistoryExporter) Export(w io.Writer, _ *domain.Report, chat *chatexport.ChatHistory) error {
	if chat == nil {
		return ErrHistoryRequired
	}
	data, err := chat.MarshalJSON()
	if err != nil {
		return xerrors.Errorf("failed to encode history: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return xerrors.Errorf("failed to write history: %w", err)
	}
	return nil
}

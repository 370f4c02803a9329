package exporter

import (
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"golang.org/x/xerrors"
)

// Поддерживаемые форматы вывода.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatHistory = "history"
	FormatXLSX    = "xlsx"
	FormatJSONL   = "jsonl"
)

var (
	// ErrUnknownFormat возвращается фабрикой для неизвестного формата.
	ErrUnknownFormat = xerrors.New("unknown export format")
	// ErrHistoryRequired возвращается форматами, которым нужна исходная история.
	ErrHistoryRequired = xerrors.New("chat history is required for this format")

	errNilReport = xerrors.New("report is nil")
)

// Formats возвращает список поддерживаемых форматов.
func Formats() []string {
	return []string{FormatConsole, FormatJSON, FormatHistory, FormatXLSX, FormatJSONL}
}

// KnownFormat сообщает, поддерживается ли формат.
func KnownFormat(format string) bool {
	switch format {
	case FormatConsole, FormatJSON, FormatHistory, FormatXLSX, FormatJSONL:
		return true
	}
	return false
}

// New создаёт экспортер для формата.
func New(format string) (ports.Exporter, error) {
	switch format {
	case FormatConsole:
		return NewConsoleExporter(DefaultConsoleColumns), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatHistory:
		return NewHistoryExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	case FormatJSONL:
		return NewJSONLExporter(), nil
	default:
		return nil, xerrors.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

package ports

import (
	"io"

	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
)

// DataSource определяет интерфейс для получения исходных данных чата.
type DataSource interface {
	// Open открывает поток с документом экспорта. Закрывает его вызывающий.
	Open() (io.ReadCloser, error)
}

// Parser определяет интерфейс для парсинга данных чата.
type Parser interface {
	// Parse преобразует поток в структурированную модель чата.
	Parse(r io.Reader) (*chatexport.ChatHistory, error)
}

// ExtractionService определяет интерфейс для извлечения данных
// об участниках из структуры чата.
type ExtractionService interface {
	ExtractParticipants(chat *chatexport.ChatHistory) ([]domain.Participant, error)
}

// SummaryService строит сводку по чату.
type SummaryService interface {
	Summarize(chat *chatexport.ChatHistory) (domain.Summary, error)
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export выводит отчёт в w. chat может быть nil, если исходная история
	// недоступна (например, отчёт взят из кеша); форматы, которым она нужна,
	// возвращают ошибку.
	Export(w io.Writer, report *domain.Report, chat *chatexport.ChatHistory) error
}

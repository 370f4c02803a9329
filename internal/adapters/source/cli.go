package source

import (
	"io"
	"os"

	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"golang.org/x/xerrors"
)

var errEmptyPath = xerrors.New("не указан путь к файлу")

// CliSource реализует интерфейс DataSource для чтения данных из файла,
// указанного в командной строке.
type CliSource struct {
	filePath string
}

// NewCliSource создает новый экземпляр CliSource.
func NewCliSource(filePath string) ports.DataSource {
	return &CliSource{filePath: filePath}
}

// Open открывает файл по указанному пути.
func (s *CliSource) Open() (io.ReadCloser, error) {
	if s.filePath == "" {
		return nil, errEmptyPath
	}

	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, xerrors.Errorf("failed to open file %s: %w", s.filePath, err)
	}

	return f, nil
}

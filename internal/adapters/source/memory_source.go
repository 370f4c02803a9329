package source

import (
	"bytes"
	"io"

	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"golang.org/x/xerrors"
)

var errDataNotSet = xerrors.New("data not set")

// MemorySource реализует интерфейс DataSource для чтения данных из памяти.
type MemorySource struct {
	data []byte
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte) ports.DataSource {
	return &MemorySource{data: data}
}

// Open возвращает поток поверх копии данных, чтобы изменения исходного
// среза не влияли на разбор.
func (s *MemorySource) Open() (io.ReadCloser, error) {
	if s.data == nil {
		return nil, errDataNotSet
	}

	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)

	return io.NopCloser(bytes.NewReader(dataCopy)), nil
}

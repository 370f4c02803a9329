// Package chatexport разбирает JSON-файлы экспорта истории чатов Telegram
// ("Export chat history" в Telegram Desktop) в строго типизированную модель.
//
// Разбор выполняется за один проход: документ либо полностью превращается в
// ChatHistory, либо возвращается одна ошибка *Error с путём к полю.
// Функции пакета не хранят состояния и безопасны для параллельного вызова
// на независимых входных данных.
package chatexport

import (
	"io"
	"os"

	"github.com/go-faster/jx"
	"golang.org/x/xerrors"
)

// readBufferSize — размер буфера токенизатора при чтении из потока.
const readBufferSize = 64 * 1024

var errTrailingData = xerrors.New("unexpected data after top-level value")

// Option настраивает разбор.
type Option func(*decoder)

// WithLenientEnums разрешает значения type/action/text_entities[].type вне
// известного словаря: они сохраняются как есть, Known() для них ложно.
// Поле "type" элемента messages остаётся строгим.
func WithLenientEnums() Option {
	return func(dc *decoder) {
		dc.lenient = true
	}
}

// Parse разбирает документ, целиком находящийся в памяти.
func Parse(data []byte, opts ...Option) (*ChatHistory, error) {
	return decodeDocument(jx.DecodeBytes(data), opts)
}

// ParseString разбирает документ из строки.
func ParseString(s string, opts ...Option) (*ChatHistory, error) {
	return decodeDocument(jx.DecodeStr(s), opts)
}

// ParseReader разбирает документ из потока, не загружая его целиком.
// Поток не закрывается. Ошибка чтения возвращается как есть, а не как *Error.
func ParseReader(r io.Reader, opts ...Option) (*ChatHistory, error) {
	er := &errReader{r: r}
	chat, err := decodeDocument(jx.Decode(er, readBufferSize), opts)
	if err != nil && er.err != nil {
		return nil, xerrors.Errorf("read export: %w", er.err)
	}
	return chat, err
}

// ParseFile открывает файл, разбирает его и закрывает при любом исходе.
func ParseFile(name string, opts ...Option) (*ChatHistory, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, xerrors.Errorf("open export %s: %w", name, err)
	}
	defer f.Close()

	return ParseReader(f, opts...)
}

func decodeDocument(d *jx.Decoder, opts []Option) (*ChatHistory, error) {
	dc := &decoder{}
	for _, o := range opts {
		o(dc)
	}

	chat, err := dc.chatHistory(d)
	if err != nil {
		return nil, err
	}
	// После корневого объекта допустимы только пробельные символы.
	switch err := d.Skip(); {
	case xerrors.Is(err, io.EOF):
	case err != nil:
		return nil, syntaxError("", err)
	default:
		return nil, syntaxError("", errTrailingData)
	}
	return &chat, nil
}

// errReader запоминает ошибку чтения, чтобы отличить её от синтаксической.
type errReader struct {
	r   io.Reader
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF {
		r.err = err
	}
	return n, err
}

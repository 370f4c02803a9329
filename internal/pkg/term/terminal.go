// Package term определяет свойства терминала, к которому подключен вывод.
package term

import (
	"io"

	"golang.org/x/term"
)

// DefaultWidth используется, когда ширину терминала узнать нельзя.
const DefaultWidth = 80

// fder реализуется *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal сообщает, является ли w терминалом.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Width возвращает ширину терминала в колонках или DefaultWidth.
func Width(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

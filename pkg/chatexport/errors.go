package chatexport

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// ErrorKind классифицирует ошибку разбора.
type ErrorKind int

const (
	// KindSyntax — входные данные не являются корректным JSON.
	KindSyntax ErrorKind = iota + 1
	// KindMissingField — отсутствует обязательное поле.
	KindMissingField
	// KindTypeMismatch — JSON-значение имеет неподходящую форму.
	KindTypeMismatch
	// KindUnknownTag — строка вне закрытого словаря.
	KindUnknownTag
	// KindFormat — строка даты не соответствует DateTimeLayout.
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindMissingField:
		return "missing_field"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindUnknownTag:
		return "unknown_tag"
	case KindFormat:
		return "format"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Сигнальные ошибки для сравнения через errors.Is.
var (
	ErrSyntax       = xerrors.New("syntax error")
	ErrMissingField = xerrors.New("missing required field")
	ErrTypeMismatch = xerrors.New("type mismatch")
	ErrUnknownTag   = xerrors.New("unrecognized tag")
	ErrFormat       = xerrors.New("invalid format")
)

// Error — единственный тип ошибки, возвращаемый разбором документа.
type Error struct {
	Kind ErrorKind
	// Path — адрес поля в документе, например "messages[3].date".
	// Пустой для корня документа.
	Path string
	// Expected и Found заполняются для KindTypeMismatch.
	Expected string
	Found    string
	// Value — исходная строка для KindUnknownTag и KindFormat.
	Value string
	// Err — причина: ошибка токенизатора или разбора даты.
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	switch e.Kind {
	case KindSyntax:
		sb.WriteString("syntax error")
		if e.Err != nil {
			sb.WriteString(": ")
			sb.WriteString(e.Err.Error())
		}
	case KindMissingField:
		sb.WriteString("missing required field")
	case KindTypeMismatch:
		fmt.Fprintf(&sb, "type mismatch: expected %s, found %s", e.Expected, e.Found)
	case KindUnknownTag:
		fmt.Fprintf(&sb, "unrecognized tag %q", e.Value)
	case KindFormat:
		fmt.Fprintf(&sb, "invalid date-time %q: expected layout %s", e.Value, DateTimeLayout)
	default:
		sb.WriteString("parse error")
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с сигнальной ошибкой её вида.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSyntax:
		return e.Kind == KindSyntax
	case ErrMissingField:
		return e.Kind == KindMissingField
	case ErrTypeMismatch:
		return e.Kind == KindTypeMismatch
	case ErrUnknownTag:
		return e.Kind == KindUnknownTag
	case ErrFormat:
		return e.Kind == KindFormat
	}
	return false
}

func syntaxError(p path, err error) *Error {
	return &Error{Kind: KindSyntax, Path: string(p), Err: err}
}

func missingField(p path) *Error {
	return &Error{Kind: KindMissingField, Path: string(p)}
}

func typeMismatch(p path, expected, found string) *Error {
	return &Error{Kind: KindTypeMismatch, Path: string(p), Expected: expected, Found: found}
}

func unknownTag(p path, value string) *Error {
	return &Error{Kind: KindUnknownTag, Path: string(p), Value: value}
}

func formatError(p path, value string, err error) *Error {
	return &Error{Kind: KindFormat, Path: string(p), Value: value, Err: err}
}

// normalize извлекает *Error из цепочки обёрток токенизатора; прочие
// ошибки считаются синтаксическими в позиции p.
func normalize(err error, p path) error {
	if err == nil {
		return nil
	}
	var e *Error
	if xerrors.As(err, &e) {
		return e
	}
	return syntaxError(p, err)
}

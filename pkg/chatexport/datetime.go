package chatexport

import (
	"time"

	"golang.org/x/xerrors"
)

// DateTimeLayout — формат поля "date": локальное время без зоны и долей секунды.
const DateTimeLayout = "2006-01-02T15:04:05"

var errDateTimeShape = xerrors.New("value does not match YYYY-MM-DDTHH:MM:SS")

// ParseDateTime разбирает строку строго по DateTimeLayout.
// Результат возвращается в UTC, зона при этом смысла не несёт.
func ParseDateTime(s string) (time.Time, error) {
	// time.Parse допускает однозначные часы и доли секунды после секунд,
	// поэтому форма проверяется отдельно.
	if len(s) != len(DateTimeLayout) {
		return time.Time{}, errDateTimeShape
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 4, 7:
			if c != '-' {
				return time.Time{}, errDateTimeShape
			}
		case 10:
			if c != 'T' {
				return time.Time{}, errDateTimeShape
			}
		case 13, 16:
			if c != ':' {
				return time.Time{}, errDateTimeShape
			}
		default:
			if c < '0' || c > '9' {
				return time.Time{}, errDateTimeShape
			}
		}
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, xerrors.Errorf("parse date-time: %w", err)
	}
	return t, nil
}

// FormatDateTime записывает время обратно в DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

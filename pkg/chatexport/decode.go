package chatexport

import (
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"golang.org/x/xerrors"
)

var errUnexpectedToken = xerrors.New("unexpected token")

// path — адрес текущего значения, используется только в ошибках.
type path string

func (p path) field(name string) path {
	if p == "" {
		return path(name)
	}
	return p + "." + path(name)
}

func (p path) index(i int) path {
	return p + "[" + path(strconv.Itoa(i)) + "]"
}

// decoder связывает узлы токенизатора со схемой экспорта.
// Состояния между вызовами не хранит.
type decoder struct {
	lenient bool
}

func typeName(t jx.Type) string {
	switch t {
	case jx.String:
		return "string"
	case jx.Number:
		return "number"
	case jx.Bool:
		return "bool"
	case jx.Null:
		return "null"
	case jx.Array:
		return "array"
	case jx.Object:
		return "object"
	default:
		return "invalid"
	}
}

// expect проверяет форму следующего значения, не потребляя его.
func expect(d *jx.Decoder, p path, want jx.Type, expected string) error {
	got := d.Next()
	if got == want {
		return nil
	}
	if got == jx.Invalid {
		return invalidToken(d, p)
	}
	return typeMismatch(p, expected, typeName(got))
}

func invalidToken(d *jx.Decoder, p path) error {
	if err := d.Skip(); err != nil {
		return syntaxError(p, err)
	}
	return syntaxError(p, errUnexpectedToken)
}

func (dc *decoder) str(d *jx.Decoder, p path) (string, error) {
	if err := expect(d, p, jx.String, "string"); err != nil {
		return "", err
	}
	s, err := d.Str()
	if err != nil {
		return "", syntaxError(p, err)
	}
	return s, nil
}

func (dc *decoder) integer(d *jx.Decoder, p path) (int64, error) {
	if err := expect(d, p, jx.Number, "integer"); err != nil {
		return 0, err
	}
	v, err := d.Int64()
	if err != nil {
		e := typeMismatch(p, "integer", "number")
		e.Err = err
		return 0, e
	}
	return v, nil
}

func (dc *decoder) boolean(d *jx.Decoder, p path) (bool, error) {
	if err := expect(d, p, jx.Bool, "bool"); err != nil {
		return false, err
	}
	v, err := d.Bool()
	if err != nil {
		return false, syntaxError(p, err)
	}
	return v, nil
}

func (dc *decoder) dateTime(d *jx.Decoder, p path) (time.Time, error) {
	s, err := dc.str(d, p)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return time.Time{}, formatError(p, s, err)
	}
	return t, nil
}

// optional читает необязательное поле; null равнозначен отсутствию.
func optional[T any](d *jx.Decoder, p path, read func(*jx.Decoder, path) (T, error)) (Optional[T], error) {
	if d.Next() == jx.Null {
		if err := d.Null(); err != nil {
			return None[T](), syntaxError(p, err)
		}
		return None[T](), nil
	}
	v, err := read(d, p)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// object обходит поля объекта. Неизвестные ключи обработчик должен пропускать сам.
func (dc *decoder) object(d *jx.Decoder, p path, f func(d *jx.Decoder, key string, p path) error) error {
	if err := expect(d, p, jx.Object, "object"); err != nil {
		return err
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		return f(d, key, p.field(key))
	})
	return normalize(err, p)
}

// list читает массив; результат не nil даже для пустого массива.
func list[T any](d *jx.Decoder, p path, read func(*jx.Decoder, path) (T, error)) ([]T, error) {
	if err := expect(d, p, jx.Array, "array"); err != nil {
		return nil, err
	}
	items := []T{}
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := read(d, p.index(len(items)))
		if err != nil {
			return err
		}
		items = append(items, v)
		return nil
	})
	if err := normalize(err, p); err != nil {
		return nil, err
	}
	return items, nil
}

func skip(d *jx.Decoder, p path) error {
	if err := d.Skip(); err != nil {
		return syntaxError(p, err)
	}
	return nil
}

// enum проверяет строку по словарю. В мягком режиме неизвестное значение
// сохраняется как есть.
func enum[T ~string](dc *decoder, d *jx.Decoder, p path, vocab map[T]struct{}) (T, error) {
	s, err := dc.str(d, p)
	if err != nil {
		return "", err
	}
	v := T(s)
	if _, ok := vocab[v]; !ok && !dc.lenient {
		return "", unknownTag(p, s)
	}
	return v, nil
}

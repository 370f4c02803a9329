package chatexport

// Optional хранит значение необязательного поля экспорта.
// Нулевое значение означает, что поле отсутствовало в документе; поле,
// присутствующее с пустым или нулевым значением, хранится как Some.
type Optional[T any] struct {
	value T
	set   bool
}

// Some возвращает присутствующее значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None возвращает отсутствующее значение.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get возвращает значение и признак его присутствия.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet сообщает, присутствовало ли поле в документе.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or возвращает значение или def, если поле отсутствовало.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// IsZero позволяет encoding/json пропускать отсутствующие поля по тегу omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

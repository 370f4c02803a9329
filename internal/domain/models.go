package domain

import "time"

// Participant представляет участника чата, найденного в экспорте.
// Это наша внутренняя модель, а не структура из JSON.
type Participant struct {
	// ID пользователя, если он известен (например, 'user12345').
	// Для упоминаний по @username это поле пустое.
	UserID string `json:"user_id,omitempty"`
	// Отображаемое имя, если известно.
	Name string `json:"name,omitempty"`
	// Имя пользователя для упоминаний (например, '@username').
	Username string `json:"username,omitempty"`
	// Количество обычных сообщений участника.
	Messages int `json:"messages"`
	// Количество служебных событий, инициированных участником.
	ServiceEvents int `json:"service_events"`
}

// Key возвращает ключ для дедупликации участников.
func (p Participant) Key() string {
	if p.UserID != "" {
		return p.UserID
	}
	return p.Username
}

// Summary — сводка по экспортированному чату.
type Summary struct {
	ChatName      string         `json:"chat_name"`
	ChatType      string         `json:"chat_type"`
	ChatID        int64          `json:"chat_id"`
	Messages      int            `json:"messages"`
	ServiceEvents int            `json:"service_events"`
	FirstDate     *time.Time     `json:"first_date,omitempty"`
	LastDate      *time.Time     `json:"last_date,omitempty"`
	Actions       map[string]int `json:"actions"`
	MediaTypes    map[string]int `json:"media_types"`
	Polls         int            `json:"polls"`
	// UnknownKinds — значения вне словарей, встреченные в мягком режиме разбора.
	UnknownKinds []string `json:"unknown_kinds,omitempty"`
}

// Report — результат обработки одного файла экспорта.
type Report struct {
	Summary      Summary       `json:"summary"`
	Participants []Participant `json:"participants"`
}

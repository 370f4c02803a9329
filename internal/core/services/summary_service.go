package services

import (
	"slices"
	"time"

	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
)

// mediaPhoto — вид медиа для сообщений с полем photo без media_type.
const mediaPhoto = "photo"

// SummaryServiceImpl реализует интерфейс SummaryService.
type SummaryServiceImpl struct{}

// NewSummaryService создает новый экземпляр SummaryServiceImpl.
func NewSummaryService() ports.SummaryService {
	return &SummaryServiceImpl{}
}

// Summarize считает сообщения, события, медиа и опросы, а также собирает
// значения вне словарей, пропущенные мягким режимом разбора.
func (s *SummaryServiceImpl) Summarize(chat *chatexport.ChatHistory) (domain.Summary, error) {
	if chat == nil {
		return domain.Summary{}, errNilChat
	}

	sum := domain.Summary{
		ChatName:   chat.Name,
		ChatType:   string(chat.Type),
		ChatID:     chat.ID,
		Actions:    make(map[string]int),
		MediaTypes: make(map[string]int),
	}
	unknown := make(map[string]struct{})
	if !chat.Type.Known() {
		unknown["chat_type:"+string(chat.Type)] = struct{}{}
	}

	for _, item := range chat.Messages {
		observeDate(&sum, item.Timestamp())

		switch m := item.(type) {
		case chatexport.Message:
			sum.Messages++
			if media, ok := m.MediaType.Get(); ok {
				sum.MediaTypes[media]++
			} else if m.Photo.IsSet() {
				sum.MediaTypes[mediaPhoto]++
			}
			if m.Poll.IsSet() {
				sum.Polls++
			}
			collectUnknownEntities(unknown, m.TextEntities)
		case chatexport.ServiceMessage:
			sum.ServiceEvents++
			sum.Actions[string(m.Action)]++
			if !m.Action.Known() {
				unknown["action:"+string(m.Action)] = struct{}{}
			}
			collectUnknownEntities(unknown, m.TextEntities)
		}
	}

	if len(unknown) > 0 {
		sum.UnknownKinds = make([]string, 0, len(unknown))
		for k := range unknown {
			sum.UnknownKinds = append(sum.UnknownKinds, k)
		}
		slices.Sort(sum.UnknownKinds)
	}

	return sum, nil
}

func observeDate(sum *domain.Summary, t time.Time) {
	if sum.FirstDate == nil || t.Before(*sum.FirstDate) {
		first := t
		sum.FirstDate = &first
	}
	if sum.LastDate == nil || t.After(*sum.LastDate) {
		last := t
		sum.LastDate = &last
	}
}

func collectUnknownEntities(unknown map[string]struct{}, entities []chatexport.TextEntity) {
	for _, e := range entities {
		if t := e.EntityType(); !t.Known() {
			unknown["entity:"+string(t)] = struct{}{}
		}
	}
}

package services

import (
	"strconv"
	"strings"

	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"golang.org/x/xerrors"
)

// deletedAccount — имя, которое экспорт подставляет для удалённых аккаунтов.
const deletedAccount = "Deleted Account"

var errNilChat = xerrors.New("chat is nil")

// ExtractionServiceImpl реализует интерфейс ExtractionService.
type ExtractionServiceImpl struct{}

// NewExtractionService создает новый экземпляр ExtractionServiceImpl.
func NewExtractionService() ports.ExtractionService {
	return &ExtractionServiceImpl{}
}

// ExtractParticipants извлекает список авторов и упоминаний из чата
// в порядке первого появления.
func (s *ExtractionServiceImpl) ExtractParticipants(chat *chatexport.ChatHistory) ([]domain.Participant, error) {
	if chat == nil {
		return nil, errNilChat
	}

	c := newCollector()
	for _, item := range chat.Messages {
		switch m := item.(type) {
		case chatexport.Message:
			if p := c.author(m.FromID, m.From.Or("")); p != nil {
				p.Messages++
			}
			c.mentions(m.TextEntities)
		case chatexport.ServiceMessage:
			if p := c.author(m.ActorID, m.Actor.Or("")); p != nil {
				p.ServiceEvents++
			}
			c.mentions(m.TextEntities)
		}
	}

	return c.participants, nil
}

// collector накапливает уникальных участников. Индексы указывают в participants.
type collector struct {
	participants []domain.Participant
	byUserID     map[string]int
	byUsername   map[string]int
}

func newCollector() *collector {
	return &collector{
		participants: []domain.Participant{},
		byUserID:     make(map[string]int),
		byUsername:   make(map[string]int),
	}
}

// author возвращает запись автора или nil, если автор не пользователь
// (канал, бот-чат) либо удалён.
func (c *collector) author(id, name string) *domain.Participant {
	if !strings.HasPrefix(id, "user") || name == "" || name == deletedAccount {
		return nil
	}
	i, ok := c.byUserID[id]
	if !ok {
		i = c.add(domain.Participant{UserID: id, Name: name})
		c.byUserID[id] = i
	} else if c.participants[i].Name == "" {
		c.participants[i].Name = name
	}
	return &c.participants[i]
}

func (c *collector) mentions(entities []chatexport.TextEntity) {
	for _, entity := range entities {
		obj, ok := entity.(chatexport.TextObject)
		if !ok {
			continue
		}
		switch obj.Type {
		case chatexport.EntityMention:
			username := obj.Text
			if username == "" {
				continue
			}
			if _, ok := c.byUsername[username]; !ok {
				c.byUsername[username] = c.add(domain.Participant{Username: username})
			}
		case chatexport.EntityMentionName:
			id, ok := obj.UserID.Get()
			if !ok {
				continue
			}
			userID := "user" + strconv.FormatInt(id, 10)
			if _, ok := c.byUserID[userID]; !ok {
				c.byUserID[userID] = c.add(domain.Participant{UserID: userID, Name: obj.Text})
			}
		}
	}
}

func (c *collector) add(p domain.Participant) int {
	c.participants = append(c.participants, p)
	return len(c.participants) - 1
}

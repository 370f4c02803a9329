package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipant(t *testing.T) {
	t.Run("Ключ по UserID", func(t *testing.T) {
		p := Participant{UserID: "user123", Name: "John Doe", Username: "@john"}
		assert.Equal(t, "user123", p.Key())
	})

	t.Run("Ключ по Username для упоминаний", func(t *testing.T) {
		p := Participant{Username: "@testuser"}
		assert.Equal(t, "@testuser", p.Key())
	})

	t.Run("JSON без пустых полей", func(t *testing.T) {
		data, err := json.Marshal(Participant{Username: "@testuser"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"username":"@testuser","messages":0,"service_events":0}`, string(data))
	})
}

func TestReport(t *testing.T) {
	t.Run("Сериализация отчёта", func(t *testing.T) {
		first := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		report := Report{
			Summary: Summary{
				ChatName:   "Test Chat",
				ChatType:   "private_group",
				ChatID:     12345,
				Messages:   1,
				FirstDate:  &first,
				LastDate:   &first,
				Actions:    map[string]int{},
				MediaTypes: map[string]int{},
			},
			Participants: []Participant{{UserID: "user123", Name: "John Doe", Messages: 1}},
		}

		data, err := json.Marshal(report)
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, report.Participants, decoded.Participants)
		assert.Equal(t, "Test Chat", decoded.Summary.ChatName)
		require.NotNil(t, decoded.Summary.FirstDate)
		assert.True(t, first.Equal(*decoded.Summary.FirstDate))
		assert.NotContains(t, string(data), "unknown_kinds")
	})
}

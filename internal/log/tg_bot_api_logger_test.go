package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTGBotAPIAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := NewMaskingHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewTGBotAPIAdapter(slog.New(handler))

	adapter.Printf("Endpoint: %s", "https://api.telegram.org/bot123456789:AAABCdEfGhIjKlMnOpQrStUvWxYz1234567/getMe")
	adapter.Println("response", 200)

	output := buf.String()
	assert.Contains(t, output, "bot***:***masked-token***")
	assert.Contains(t, output, "response 200")
	assert.Contains(t, output, "component=tgbotapi")
}

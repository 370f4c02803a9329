package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestMaskingHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mask telegram token in message",
			input:    `Post "https://api.telegram.org/bot8462697481:AAEJSXuTcb2F1Js2sWiK0TVWvxbHL9xX05Q/getUpdates": net/http: request canceled`,
			expected: `Post "https://api.telegram.org/bot***:***masked-token***/getUpdates": net/http: request canceled`,
		},
		{
			name:     "no token in message",
			input:    "This is a normal log message without tokens",
			expected: "This is a normal log message without tokens",
		},
		{
			name:     "phone number in message",
			input:    "contact +7 999 123-45-67 joined",
			expected: "contact +*** joined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))

			logger.Info(tt.input)

			expectedEscaped := strings.ReplaceAll(tt.expected, "\"", "\\\"")
			assert.Contains(t, buf.String(), expectedEscaped)
		})
	}
}

func TestMaskingHandler_Attrs(t *testing.T) {
	token := "bot8462697481:AAEJSXuTcb2F1Js2sWiK0TVWvxbHL9xX05Q"

	t.Run("WithAttrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil))).With(slog.String("token", token))

		logger.Info("message with token in attr")

		assert.NotContains(t, buf.String(), token)
		assert.Contains(t, buf.String(), "***masked-token***")
	})

	t.Run("error и группа", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))

		logger.Error("request failed",
			slog.Any("error", xerrors.Errorf("get %s: timeout", token)),
			slog.Group("user", slog.String("phone", "+79991234567")))

		output := buf.String()
		assert.NotContains(t, output, token)
		assert.NotContains(t, output, "79991234567")
		assert.Contains(t, output, "+***")
	})
}

func TestMask(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "bot123456789:AAABCdEfGhIjKlMnOpQrStUvWxYz1234567",
			expected: "bot***:***masked-token***",
		},
		{
			input:    "No token here",
			expected: "No token here",
		},
		{
			input:    "id 1234567890 is not a phone",
			expected: "id 1234567890 is not a phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Mask(tt.input))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json с уровнем warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(&buf, "warn", "json")
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"shown"`)
	})

	t.Run("Неизвестный уровень", func(t *testing.T) {
		_, err := NewLogger(&bytes.Buffer{}, "verbose", "text")
		assert.Error(t, err)
	})

	t.Run("Неизвестный формат", func(t *testing.T) {
		_, err := NewLogger(&bytes.Buffer{}, "info", "xml")
		assert.ErrorIs(t, err, errUnknownFormat)
	})
}

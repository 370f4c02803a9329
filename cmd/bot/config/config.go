// Package config загружает конфигурацию Telegram-бота.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// ColumnWidths определяет ширину колонок для текстового вывода.
type ColumnWidths struct {
	User     int `yaml:"user"`
	Name     int `yaml:"name"`
	Messages int `yaml:"messages"`
}

// BotConfig содержит конфигурацию для Telegram-бота
type BotConfig struct {
	Token           string        `yaml:"token"`
	BackendURL      string        `yaml:"backend_url"`
	PollingInterval time.Duration `yaml:"polling_interval"`
	ExcelThreshold  int           `yaml:"excel_threshold"`
	MaxFileSizeMB   int           `yaml:"max_file_size_mb"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	Render          ColumnWidths  `yaml:"render"`
}

// Logging содержит настройки логирования бота
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config является оберткой для соответствия структуре YAML файла.
type Config struct {
	Bot     BotConfig `yaml:"bot"`
	Logging Logging   `yaml:"logging"`
}

// LoadConfig загружает конфигурацию бота из указанного файла.
// Токен можно передать через BOT_TOKEN (в том числе из .env),
// чтобы не хранить его в YAML.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config file %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot config: %w", err)
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if url := os.Getenv("BOT_BACKEND_URL"); url != "" {
		cfg.Bot.BackendURL = url
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	b := &c.Bot
	if b.PollingInterval == 0 {
		b.PollingInterval = DefaultPollingInterval
	}
	if b.ExcelThreshold == 0 {
		b.ExcelThreshold = DefaultExcelThreshold
	}
	if b.MaxFileSizeMB == 0 {
		b.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if b.HTTPTimeout == 0 {
		b.HTTPTimeout = DefaultHTTPTimeout
	}
	if b.Render.User == 0 {
		b.Render.User = DefaultUserColumnWidth
	}
	if b.Render.Name == 0 {
		b.Render.Name = DefaultNameColumnWidth
	}
	if b.Render.Messages == 0 {
		b.Render.Messages = DefaultMessagesColumnWidth
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate проверяет корректность конфигурации бота.
func (c *Config) Validate() error {
	b := c.Bot
	if b.Token == "" || b.Token == "YOUR_TELEGRAM_BOT_TOKEN" {
		return fmt.Errorf("bot.token is not configured")
	}
	if b.BackendURL == "" {
		return fmt.Errorf("bot.backend_url cannot be empty")
	}
	if b.PollingInterval <= 0 {
		return fmt.Errorf("bot.polling_interval must be positive")
	}
	if b.ExcelThreshold <= 0 {
		return fmt.Errorf("bot.excel_threshold must be positive")
	}
	if b.MaxFileSizeMB <= 0 {
		return fmt.Errorf("bot.max_file_size_mb must be positive")
	}
	if b.HTTPTimeout <= 0 {
		return fmt.Errorf("bot.http_timeout must be positive")
	}
	return nil
}

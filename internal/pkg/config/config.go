// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию сервера
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxUploadSizeMB int           `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
	Daemon          Daemon        `json:"daemon" yaml:"daemon"`
}

// Daemon содержит настройки запуска сервера в фоне
type Daemon struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	PidFile string `json:"pid_file" yaml:"pid_file"`
	LogFile string `json:"log_file" yaml:"log_file"`
	WorkDir string `json:"work_dir" yaml:"work_dir"`
}

// Processing содержит конфигурацию обработки
type Processing struct {
	TaskTimeout     time.Duration `json:"task_timeout" yaml:"task_timeout"` // 0 - без ограничений
	CacheTTL        time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	TaskTTL         time.Duration `json:"task_ttl" yaml:"task_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// Parsing содержит настройки разбора файлов экспорта
type Parsing struct {
	// LenientEnums сохраняет значения вне словарей вместо ошибки.
	LenientEnums bool `json:"lenient_enums" yaml:"lenient_enums"`
}

// Export содержит настройки вывода результата
type Export struct {
	DefaultFormat string `json:"default_format" yaml:"default_format"`
}

// Metrics содержит настройки Prometheus
type Metrics struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Processing Processing `json:"processing" yaml:"processing"`
	Parsing    Parsing    `json:"parsing" yaml:"parsing"`
	Export     Export     `json:"export" yaml:"export"`
	Metrics    Metrics    `json:"metrics" yaml:"metrics"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// defaultConfig возвращает конфигурацию со значениями по умолчанию.
func defaultConfig() *Config {
	return &Config{
		Server: Server{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxUploadSizeMB: DefaultMaxUploadSizeMB,
			Daemon: Daemon{
				PidFile: DefaultPidFile,
				LogFile: DefaultLogFile,
			},
		},
		Processing: Processing{
			TaskTimeout:     DefaultTaskTimeout,
			CacheTTL:        DefaultCacheTTL,
			TaskTTL:         DefaultTaskTTL,
			CleanupInterval: DefaultCleanupInterval,
		},
		Export: Export{
			DefaultFormat: DefaultExportFormat,
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем .env,
// затем YAML-файл path, затем переменные окружения. Результат проверяется.
func LoadConfig(path string) (*Config, error) {
	// .env необязателен: без него полагаемся на окружение и YAML.
	_ = godotenv.Load()

	cfg := defaultConfig()
	if err := loadFromYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, xerrors.Errorf("не удалось загрузить конфигурацию из env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("недопустимая конфигурация: %w", err)
	}
	return cfg, nil
}

// loadFromYAML накладывает YAML-файл на cfg. Отсутствие файла ошибкой не считается.
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return xerrors.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return xerrors.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return nil
}

// applyEnv переопределяет значения из переменных окружения.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return xerrors.Errorf("недопустимый SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return xerrors.Errorf("недопустимый MAX_UPLOAD_SIZE_MB: %w", err)
		}
		cfg.Server.MaxUploadSizeMB = size
	}
	if err := envBool("DAEMON_ENABLED", &cfg.Server.Daemon.Enabled); err != nil {
		return err
	}
	if err := envDuration("TASK_TIMEOUT", &cfg.Processing.TaskTimeout); err != nil {
		return err
	}
	if err := envDuration("CACHE_TTL", &cfg.Processing.CacheTTL); err != nil {
		return err
	}
	if err := envBool("PARSING_LENIENT_ENUMS", &cfg.Parsing.LenientEnums); err != nil {
		return err
	}
	if v := os.Getenv("EXPORT_DEFAULT_FORMAT"); v != "" {
		cfg.Export.DefaultFormat = v
	}
	if err := envBool("METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return err
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return xerrors.Errorf("недопустимый %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return xerrors.Errorf("недопустимый %s: %w", key, err)
	}
	*dst = d
	return nil
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadSize возвращает лимит размера загружаемого файла в байтах.
func (c *Config) MaxUploadSize() int64 {
	return int64(c.Server.MaxUploadSizeMB) << 20
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return xerrors.New("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return xerrors.New("server.read_timeout, write_timeout и idle_timeout должны быть положительными")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return xerrors.New("server.shutdown_timeout должно быть положительным")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return xerrors.New("server.max_upload_size_mb должно быть положительным")
	}

	if c.Server.Daemon.Enabled && c.Server.Daemon.PidFile == "" {
		return xerrors.New("server.daemon.pid_file не может быть пустым при включенном режиме демона")
	}

	if c.Processing.TaskTimeout < 0 {
		return xerrors.New("processing.task_timeout должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CacheTTL <= 0 {
		return xerrors.New("processing.cache_ttl должно быть положительным")
	}

	if c.Processing.TaskTTL <= 0 {
		return xerrors.New("processing.task_ttl должно быть положительным")
	}

	if c.Processing.CleanupInterval <= 0 {
		return xerrors.New("processing.cleanup_interval должно быть положительным")
	}

	switch c.Export.DefaultFormat {
	case "json", "xlsx":
	default:
		return xerrors.New("export.default_format должен быть одним из: json, xlsx")
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return xerrors.New("metrics.path не может быть пустым")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return xerrors.New("logging.level должен быть одним из: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return xerrors.New("logging.format должен быть одним из: json, text")
	}

	return nil
}

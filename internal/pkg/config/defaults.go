package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadSizeMB = 10

	// Daemon defaults
	DefaultPidFile = "tgexport-server.pid"
	DefaultLogFile = "tgexport-server.log"

	// Processing defaults
	DefaultTaskTimeout     = 600 * time.Second
	DefaultCacheTTL        = 60 * time.Minute
	DefaultTaskTTL         = 24 * time.Hour
	DefaultCleanupInterval = 1 * time.Hour

	// Export defaults
	DefaultExportFormat = "json"

	// Metrics defaults
	DefaultMetricsPath = "/metrics"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

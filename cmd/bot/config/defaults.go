package config

import "time"

// Default values for bot configuration.
const (
	DefaultPollingInterval = 2 * time.Second
	DefaultExcelThreshold  = 50
	// Bot API отдаёт ботам файлы не больше 20 МБ.
	DefaultMaxFileSizeMB = 20
	DefaultHTTPTimeout   = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default column widths for text rendering.
const (
	DefaultUserColumnWidth     = 18
	DefaultNameColumnWidth     = 22
	DefaultMessagesColumnWidth = 6
)

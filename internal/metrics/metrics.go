// Package metrics регистрирует метрики Prometheus сервера.
package metrics

import (
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/xerrors"
)

// resultOK — метка успешного разбора.
const resultOK = "ok"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgexport_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tgexport_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Parsing metrics
	ParseResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgexport_parse_results_total",
			Help: "Parsed export documents by outcome (ok or error kind)",
		},
		[]string{"result"},
	)

	ItemsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgexport_items_parsed_total",
			Help: "Parsed message items by type",
		},
		[]string{"type"},
	)

	// Processing metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgexport_cache_lookups_total",
			Help: "Report cache lookups",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	TasksFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgexport_tasks_finished_total",
			Help: "Finished processing tasks by status",
		},
		[]string{"status"},
	)

	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tgexport_processing_duration_seconds",
			Help:    "Time to build a report from an export file",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// ObserveParse учитывает результат разбора документа.
func ObserveParse(chat *chatexport.ChatHistory, err error) {
	ParseResults.WithLabelValues(ParseResult(err)).Inc()
	if err != nil || chat == nil {
		return
	}
	var messages, services float64
	for _, item := range chat.Messages {
		switch item.Type() {
		case chatexport.TypeMessage:
			messages++
		case chatexport.TypeService:
			services++
		}
	}
	ItemsParsed.WithLabelValues(string(chatexport.TypeMessage)).Add(messages)
	ItemsParsed.WithLabelValues(string(chatexport.TypeService)).Add(services)
}

// ParseResult возвращает метку исхода: "ok", вид ошибки разбора или "io".
func ParseResult(err error) string {
	if err == nil {
		return resultOK
	}
	var perr *chatexport.Error
	if xerrors.As(err, &perr) {
		return perr.Kind.String()
	}
	return "io"
}

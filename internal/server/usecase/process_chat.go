package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mephi-learn/telegram-export-parser/internal/adapters/source"
	"github.com/mephi-learn/telegram-export-parser/internal/cache"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/metrics"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/config"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
)

// Result — итог обработки одного файла экспорта.
type Result struct {
	Report  *domain.Report
	History *chatexport.ChatHistory
}

// ProcessChatUseCase инкапсулирует бизнес-логику для обработки файла экспорта чата.
type ProcessChatUseCase struct {
	cfg        *config.Config
	parser     ports.Parser
	extractor  ports.ExtractionService
	summarizer ports.SummaryService
	cacheStore *cache.CacheStore
}

// NewProcessChatUseCase создает новый экземпляр ProcessChatUseCase.
func NewProcessChatUseCase(
	cfg *config.Config,
	parser ports.Parser,
	extractor ports.ExtractionService,
	summarizer ports.SummaryService,
	cacheStore *cache.CacheStore,
) *ProcessChatUseCase {
	return &ProcessChatUseCase{
		cfg:        cfg,
		parser:     parser,
		extractor:  extractor,
		summarizer: summarizer,
		cacheStore: cacheStore,
	}
}

// ProcessChat обрабатывает файл экспорта на диске.
func (uc *ProcessChatUseCase) ProcessChat(ctx context.Context, filePath string) (*Result, error) {
	fileHash, err := cache.CalculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", filePath, err)
	}
	return uc.process(ctx, fileHash, source.NewCliSource(filePath))
}

// ProcessData обрабатывает документ экспорта, уже загруженный в память.
func (uc *ProcessChatUseCase) ProcessData(ctx context.Context, data []byte) (*Result, error) {
	return uc.process(ctx, cache.CalculateHash(data), source.NewMemorySource(data))
}

// CacheKey возвращает ключ кеша для хеша содержимого. Один и тот же файл
// при строгом и мягком разборе даёт разные результаты, поэтому режим входит в ключ.
func (uc *ProcessChatUseCase) CacheKey(hash string) string {
	if uc.cfg.Parsing.LenientEnums {
		return "lenient:" + hash
	}
	return "strict:" + hash
}

func (uc *ProcessChatUseCase) process(ctx context.Context, hash string, ds ports.DataSource) (*Result, error) {
	key := uc.CacheKey(hash)
	if item, found := uc.cacheStore.Get(key); found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		slog.Info("Попадание в кеш", "hash", hash)
		return &Result{Report: item.Report, History: item.History}, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	defer func() { metrics.ProcessingDuration.Observe(time.Since(start).Seconds()) }()

	rc, err := ds.Open()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть источник: %w", err)
	}
	defer rc.Close()

	chat, err := uc.parser.Parse(rc)
	metrics.ObserveParse(chat, err)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать данные: %w", err)
	}
	slog.Info("Разобран чат", "name", chat.Name, "message_count", len(chat.Messages))

	// Разбор не прерывается, но дальше идти нет смысла, если задачу отменили.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("обработка прервана: %w", err)
	}

	participants, err := uc.extractor.ExtractParticipants(chat)
	if err != nil {
		return nil, fmt.Errorf("не удалось извлечь участников: %w", err)
	}
	slog.Info("Извлечены участники", "count", len(participants))

	summary, err := uc.summarizer.Summarize(chat)
	if err != nil {
		return nil, fmt.Errorf("не удалось построить сводку: %w", err)
	}

	report := &domain.Report{Summary: summary, Participants: participants}

	ttl := uc.cfg.Processing.CacheTTL
	uc.cacheStore.Put(key, report, chat, ttl)
	slog.Info("Результат кеширован", "hash", hash, "ttl", ttl.String())

	return &Result{Report: report, History: chat}, nil
}

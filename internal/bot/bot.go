package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mephi-learn/telegram-export-parser/cmd/bot/config"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	tglog "github.com/mephi-learn/telegram-export-parser/internal/log"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/table"
)

const (
	startCommand = "start"
	helpCommand  = "help"

	// Ограничение Telegram на длину текстового сообщения.
	maxMessageLength = 4096
	// Размер страницы при выкачивании результата.
	resultPageSize = 100
)

// Bot представляет собой основной объект Telegram-бота.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          config.BotConfig
	serverClient ServerAPI
	taskStore    *TaskStore
	logger       *slog.Logger
	httpClient   *http.Client
	pollers      sync.WaitGroup

	// Точки подмены для тестов.
	sendMessageFunc      func(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	getFileDirectURLFunc func(fileID string) (string, error)
}

// NewBot создает и инициализирует новый экземпляр бота.
func NewBot(cfg config.BotConfig, serverClient ServerAPI, taskStore *TaskStore, logger *slog.Logger) (*Bot, error) {
	// Логи библиотеки содержат URL с токеном, поэтому идут через маскирующий логгер.
	if err := tgbotapi.SetLogger(tglog.NewTGBotAPIAdapter(logger)); err != nil {
		return nil, fmt.Errorf("failed to set bot api logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	logger.Info("Authorized on account", slog.String("username", api.Self.UserName))

	b := &Bot{
		api:          api,
		cfg:          cfg,
		serverClient: serverClient,
		taskStore:    taskStore,
		logger:       logger,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
	}
	b.sendMessageFunc = api.Send
	b.getFileDirectURLFunc = api.GetFileDirectURL
	return b, nil
}

// Start запускает основной цикл обработки обновлений от Telegram.
// Возвращает управление после отмены ctx и завершения опроса задач.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.serve(ctx, updates)
	b.api.StopReceivingUpdates()
	b.pollers.Wait()
}

// serve обрабатывает обновления до отмены ctx или закрытия канала.
func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, stopping bot...")
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Warn("Updates channel closed, stopping bot...")
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}

	// Ответ на любые другие сообщения
	b.reply(msg.Chat.ID, "Пожалуйста, отправьте мне JSON-файл с историей чата, выгруженный из Telegram Desktop (result.json).")
}

// handleCommand обрабатывает команды.
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case startCommand, helpCommand:
		b.reply(msg.Chat.ID, "Добро пожаловать! Я бот для анализа истории чатов Telegram.\n\n"+
			"Отправьте мне файл result.json, выгруженный из Telegram Desktop в формате JSON, "+
			"и я пришлю сводку по чату и список участников.\n\n"+
			"Пожалуйста, обратите внимание:\n"+
			"• Я обрабатываю один файл за раз.\n"+
			"• Файлы не сохраняются на сервере и обрабатываются на лету.")
	default:
		b.reply(msg.Chat.ID, "Я не знаю такой команды.")
	}
}

// handleDocument обрабатывает входящий документ (файл).
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	logger := b.logger.With(slog.Int64("chat_id", chatID))
	doc := msg.Document

	if !isJSONDocument(doc) {
		b.reply(chatID, "Это не похоже на JSON-файл. Выгрузите историю чата в формате JSON и отправьте result.json.")
		return
	}
	if limit := b.cfg.MaxFileSizeMB << 20; limit > 0 && doc.FileSize > limit {
		b.reply(chatID, fmt.Sprintf("Файл слишком большой. Максимальный размер — %d МБ.", b.cfg.MaxFileSizeMB))
		return
	}

	// 1. Проверяем, нет ли уже активной задачи.
	if !b.taskStore.Reserve(chatID) {
		logger.Warn("user tried to start a new task while another is active")
		b.reply(chatID, "Пожалуйста, подождите завершения предыдущей задачи, прежде чем начинать новую.")
		return
	}

	taskID, err := b.startTask(ctx, doc)
	if err != nil {
		b.taskStore.Delete(chatID)
		logger.Error("failed to start task", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось начать обработку файла. Пожалуйста, попробуйте позже.")
		return
	}

	logger = logger.With(slog.String("task_id", taskID))
	logger.Info("task started on backend")

	b.reply(chatID, "✅ Файл получен и поставлен в очередь на обработку. Ожидайте результата.")

	// 2. Сохраняем task_id и запускаем опрос.
	b.taskStore.Set(chatID, taskID)
	b.pollers.Add(1)
	go func() {
		defer b.pollers.Done()
		b.pollTaskStatus(ctx, chatID, taskID)
	}()
}

// startTask скачивает документ из Telegram и передаёт его бэкенду.
func (b *Bot) startTask(ctx context.Context, doc *tgbotapi.Document) (string, error) {
	fileURL, err := b.getFileDirectURLFunc(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file direct url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	startResp, err := b.serverClient.StartTask(ctx, doc.FileName, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to start task on backend: %w", err)
	}
	return startResp.TaskID, nil
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.sendMessageFunc(msg); err != nil {
		b.logger.Error("failed to send message", slog.String("error", err.Error()))
	}
}

// pollTaskStatus асинхронно опрашивает статус задачи на бэкенд-сервере.
func (b *Bot) pollTaskStatus(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))
	defer b.taskStore.Delete(chatID) // Гарантированно удаляем задачу по завершении.

	ticker := time.NewTicker(b.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Warn("polling cancelled by context")
			return
		case <-ticker.C:
			logger.Debug("polling task status")
			status, err := b.serverClient.GetTaskStatus(ctx, taskID)
			if err != nil {
				logger.Error("failed to get task status", slog.String("error", err.Error()))
				continue
			}

			switch status.Status {
			case "completed":
				logger.Info("task completed")
				b.processCompletedTask(ctx, chatID, taskID)
				return
			case "failed":
				logger.Warn("task failed", slog.String("reason", status.ErrorMessage), slog.String("kind", status.ErrorKind))
				b.reply(chatID, failureMessage(status))
				return
			case "pending", "processing":
				logger.Debug("task is in progress", slog.String("status", status.Status))
			default:
				logger.Warn("unknown task status", slog.String("status", status.Status))
			}
		}
	}
}

// failureMessage объясняет пользователю причину ошибки задачи.
func failureMessage(status *TaskStatusResponse) string {
	if status.ErrorKind != "" {
		return fmt.Sprintf("Файл не похож на экспорт чата Telegram (%s): %s", status.ErrorKind, status.ErrorMessage)
	}
	return fmt.Sprintf("Произошла ошибка при обработке файла: %s", status.ErrorMessage)
}

// processCompletedTask обрабатывает успешно завершенную задачу.
func (b *Bot) processCompletedTask(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))
	logger.Info("fetching results for completed task")

	summary, participants, err := b.fetchAllResults(ctx, taskID)
	if err != nil {
		logger.Error("failed to fetch all results", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось получить результаты для выполненной задачи. Пожалуйста, попробуйте позже.")
		return
	}

	logger.Info("successfully fetched all results", slog.Int("participant_count", len(participants)))

	if len(participants) == 0 {
		b.reply(chatID, summaryText(summary)+"\nНе удалось найти участников в предоставленном файле.")
		return
	}

	// Логика ветвления в зависимости от количества участников
	if len(participants) >= b.cfg.ExcelThreshold {
		logger.Info("participant count is over threshold, sending excel file")
		b.sendExcelResult(ctx, chatID, taskID, summary, len(participants))
		return
	}
	logger.Info("participant count is under threshold, sending text message")
	b.sendTextResult(chatID, summary, participants)
}

// fetchAllResults собирает все страницы с результатами для данной задачи.
func (b *Bot) fetchAllResults(ctx context.Context, taskID string) (domain.Summary, []domain.Participant, error) {
	var (
		summary domain.Summary
		all     []domain.Participant
	)
	for page := 1; ; page++ {
		result, err := b.serverClient.GetTaskResult(ctx, taskID, page, resultPageSize)
		if err != nil {
			return domain.Summary{}, nil, fmt.Errorf("failed to get task result page %d: %w", page, err)
		}
		summary = result.Summary
		all = append(all, result.Data...)

		if page >= result.Pagination.TotalPages {
			break // Все страницы собраны
		}
	}
	return summary, all, nil
}

// sendExcelResult пересылает пользователю xlsx-отчёт, собранный бэкендом.
func (b *Bot) sendExcelResult(ctx context.Context, chatID int64, taskID string, summary domain.Summary, count int) {
	data, err := b.serverClient.DownloadExport(ctx, taskID, "xlsx")
	if err != nil {
		b.logger.Error("failed to download excel export", slog.String("error", err.Error()), slog.String("task_id", taskID))
		b.reply(chatID, "Не удалось сгенерировать Excel-файл.")
		return
	}

	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("chat_report_%s.xlsx", time.Now().Format("2006-01-02_15-04-05")),
		Bytes: data,
	})
	msg.Caption = summaryText(summary) + fmt.Sprintf("\nНайдено %d участников. Полный список в файле.", count)
	b.sendMessage(msg)
}

// sendTextResult форматирует и отправляет результат в виде текстового сообщения HTML.
func (b *Bot) sendTextResult(chatID int64, summary domain.Summary, participants []domain.Participant) {
	rendered := b.renderParticipants(participants)

	var sb strings.Builder
	sb.WriteString(html.EscapeString(summaryText(summary)))
	sb.WriteString(fmt.Sprintf("\nНайдено %d участников:\n", len(participants)))
	// Ширина считается по исходному тексту, экранирование её не меняет на экране.
	sb.WriteString("<pre><code>")
	sb.WriteString(html.EscapeString(rendered))
	sb.WriteString("</code></pre>")

	text := sb.String()
	if len(text) > maxMessageLength {
		b.logger.Warn("сгенерированный текст слишком длинный, отправка в виде файла", "length", len(text))
		b.sendResultAsTextFile(chatID, summary, rendered, len(participants))
		return
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	b.sendMessage(reply)
}

// renderParticipants рисует таблицу участников с ширинами из конфигурации.
func (b *Bot) renderParticipants(participants []domain.Participant) string {
	columns := []table.Column{
		{Title: "Username", Width: b.cfg.Render.User},
		{Title: "Name", Width: b.cfg.Render.Name},
		{Title: "Msgs", Width: b.cfg.Render.Messages},
	}
	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		username := p.Username // уже с "@", как в тексте упоминания
		if username == "" {
			username = "n/a"
		}
		name := p.Name
		if name == "" {
			name = p.UserID
		}
		rows = append(rows, []string{username, name, strconv.Itoa(p.Messages)})
	}
	return table.Render(columns, rows)
}

// sendResultAsTextFile отправляет таблицу участников в виде текстового файла.
func (b *Bot) sendResultAsTextFile(chatID int64, summary domain.Summary, rendered string, count int) {
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("chat_participants_%s.txt", time.Now().Format("2006-01-02_15-04-05")),
		Bytes: []byte(summaryText(summary) + "\n\n" + rendered),
	})
	msg.Caption = fmt.Sprintf("Анализ завершен. Найдено %d участников. Список слишком большой для одного сообщения, поэтому он прикреплен в виде файла.", count)
	b.sendMessage(msg)
}

// summaryText — короткая сводка по чату без разметки.
func summaryText(s domain.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Чат: %s (%s)\n", s.ChatName, s.ChatType)
	fmt.Fprintf(&sb, "Сообщений: %d, служебных событий: %d", s.Messages, s.ServiceEvents)
	if s.Polls > 0 {
		fmt.Fprintf(&sb, ", опросов: %d", s.Polls)
	}
	if s.FirstDate != nil && s.LastDate != nil {
		fmt.Fprintf(&sb, "\nПериод: %s .. %s", s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	}
	return sb.String()
}

// isJSONDocument проверяет документ по MIME-типу или расширению имени.
func isJSONDocument(doc *tgbotapi.Document) bool {
	if doc.MimeType == "application/json" {
		return true
	}
	return strings.EqualFold(path.Ext(doc.FileName), ".json")
}

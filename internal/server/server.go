package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mephi-learn/telegram-export-parser/internal/adapters/exporter"
	"github.com/mephi-learn/telegram-export-parser/internal/cache"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/metrics"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/config"
	"github.com/mephi-learn/telegram-export-parser/internal/server/usecase"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/xerrors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// ChatProcessor определяет интерфейс для варианта использования, который обрабатывает чаты.
type ChatProcessor interface {
	ProcessChat(ctx context.Context, filePath string) (*usecase.Result, error)
	ProcessData(ctx context.Context, data []byte) (*usecase.Result, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  ChatProcessor
	stop       context.CancelFunc
}

// parseErrorResponse — тело ответа 422 для ошибок разбора документа.
type parseErrorResponse struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Pagination описывает страницу результата.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// ResultPage — ответ эндпоинта результата задачи.
type ResultPage struct {
	Summary    domain.Summary       `json:"summary"`
	Pagination Pagination           `json:"pagination"`
	Data       []domain.Participant `json:"data"`
}

// TaskStatusResponse — ответ эндпоинта статуса задачи.
type TaskStatusResponse struct {
	TaskID       string     `json:"task_id"`
	Status       TaskStatus `json:"status"`
	ErrorMessage string     `json:"error_message"`
	ErrorKind    string     `json:"error_kind,omitempty"`
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ChatProcessor, taskStore *TaskStore, cacheStore *cache.CacheStore) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		processor:  processor,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)
	chiRouter.Use(metrics.Middleware)

	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		chiRouter.Handle(path, promhttp.Handler())
	}

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/process", s.handleProcess)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/result", s.handleTaskResult)
		r.Get("/tasks/{taskID}/export", s.handleTaskExport)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Тикеры очистки живут до Shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	if interval := cfg.Processing.CleanupInterval; interval > 0 {
		s.taskStore.StartCleanupTicker(ctx, interval)
		s.cacheStore.StartCleanupTicker(ctx, interval)
	}

	return s, nil
}

// handleParse синхронно разбирает документ из тела запроса.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if xerrors.As(err, &tooLarge) {
			http.Error(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Не удалось прочитать тело запроса", http.StatusBadRequest)
		return
	}

	result, err := s.processor.ProcessData(r.Context(), data)
	if err != nil {
		writeProcessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

// handleProcess сохраняет загруженный файл и запускает задачу обработки.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize())
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize()); err != nil {
		http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Генерация уникального идентификатора задачи
	taskID := uuid.NewString()

	tempFilePath, err := saveTemp(file, taskID)
	if err != nil {
		slog.Error("Не удалось сохранить загруженный файл", "error", err, "task_id", taskID)
		http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
		return
	}

	ttl := s.cfg.Processing.TaskTTL
	if ttl <= 0 {
		ttl = config.DefaultTaskTTL
	}
	s.taskStore.CreateTask(taskID, ttl)

	go s.runTask(taskID, tempFilePath)

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

// runTask обрабатывает сохранённый файл и записывает итог в хранилище задач.
func (s *Server) runTask(taskID, filePath string) {
	defer os.Remove(filePath)

	s.taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

	// Создание контекста для задачи с таймаутом из конфигурации.
	taskCtx := context.Background()
	if timeout := s.cfg.Processing.TaskTimeout; timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, timeout)
		defer cancel()
	}

	result, err := s.processor.ProcessChat(taskCtx, filePath)
	if err != nil {
		var kind string
		var perr *chatexport.Error
		if xerrors.As(err, &perr) {
			kind = perr.Kind.String()
		}
		slog.Warn("Задача завершилась с ошибкой", "task_id", taskID, "error", err)
		s.taskStore.UpdateTaskError(taskID, err.Error(), kind)
		metrics.TasksFinished.WithLabelValues(string(TaskStatusFailed)).Inc()
		return
	}

	s.taskStore.UpdateTaskResult(taskID, result)
	metrics.TasksFinished.WithLabelValues(string(TaskStatusCompleted)).Inc()
	slog.Info("Задача завершена", "task_id", taskID, "participants", len(result.Report.Participants))
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := s.task(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, TaskStatusResponse{
		TaskID:       task.ID,
		Status:       task.Status,
		ErrorMessage: task.ErrorMessage,
		ErrorKind:    task.ErrorKind,
	})
}

// handleTaskResult отдаёт сводку и страницу участников.
func (s *Server) handleTaskResult(w http.ResponseWriter, r *http.Request) {
	task, ok := s.completedTask(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		http.Error(w, "Некорректный параметр page", http.StatusBadRequest)
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		http.Error(w, "Некорректный параметр page_size", http.StatusBadRequest)
		return
	}

	report := task.Result.Report
	writeJSON(w, http.StatusOK, ResultPage{
		Summary:    report.Summary,
		Pagination: paginate(len(report.Participants), page, pageSize),
		Data:       pageOf(report.Participants, page, pageSize),
	})
}

// handleTaskExport отдаёт результат задачи в выбранном формате.
func (s *Server) handleTaskExport(w http.ResponseWriter, r *http.Request) {
	task, ok := s.completedTask(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.cfg.Export.DefaultFormat
	}
	exp, err := exporter.New(format)
	if err != nil {
		http.Error(w, "Неизвестный формат экспорта", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := exp.Export(&buf, task.Result.Report, task.Result.History); err != nil {
		if xerrors.Is(err, exporter.ErrHistoryRequired) {
			http.Error(w, "История чата недоступна для этого формата", http.StatusConflict)
			return
		}
		slog.Error("Не удалось сформировать экспорт", "error", err, "task_id", task.ID, "format", format)
		http.Error(w, "Не удалось сформировать экспорт", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="report_`+task.ID+`.`+extension(format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) task(w http.ResponseWriter, r *http.Request) (*Task, bool) {
	task, err := s.taskStore.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return nil, false
	}
	return task, true
}

func (s *Server) completedTask(w http.ResponseWriter, r *http.Request) (*Task, bool) {
	task, ok := s.task(w, r)
	if !ok {
		return nil, false
	}
	if task.Status != TaskStatusCompleted || task.Result == nil {
		http.Error(w, "Задача не завершена", http.StatusBadRequest)
		return nil, false
	}
	return task, true
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера и тикеров очистки.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Завершение работы HTTP-сервера")
	s.stop()
	return s.HTTPServer.Shutdown(ctx)
}

// writeProcessError переводит ошибку обработки в HTTP-ответ.
func writeProcessError(w http.ResponseWriter, err error) {
	var perr *chatexport.Error
	if xerrors.As(err, &perr) {
		writeJSON(w, http.StatusUnprocessableEntity, parseErrorResponse{
			Kind:    perr.Kind.String(),
			Path:    perr.Path,
			Message: perr.Error(),
		})
		return
	}
	if xerrors.Is(err, context.Canceled) || xerrors.Is(err, context.DeadlineExceeded) {
		http.Error(w, "Обработка прервана", http.StatusServiceUnavailable)
		return
	}
	slog.Error("Не удалось обработать документ", "error", err)
	http.Error(w, "Не удалось обработать документ", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Не удалось записать ответ", "error", err)
	}
}

func saveTemp(src io.Reader, taskID string) (string, error) {
	out, err := os.CreateTemp("", "chat_"+taskID+"_*.json")
	if err != nil {
		return "", xerrors.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", xerrors.Errorf("failed to write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", xerrors.Errorf("failed to close temp file: %w", err)
	}
	return out.Name(), nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func paginate(total, page, pageSize int) Pagination {
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  (total + pageSize - 1) / pageSize, // Округление вверх
	}
}

func pageOf(items []domain.Participant, page, pageSize int) []domain.Participant {
	// Номер страницы сверяется до умножения, иначе оно переполняется.
	if page-1 >= (len(items)+pageSize-1)/pageSize {
		return []domain.Participant{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}

func contentType(format string) string {
	switch format {
	case exporter.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case exporter.FormatJSONL:
		return "application/x-ndjson"
	case exporter.FormatConsole:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

func extension(format string) string {
	switch format {
	case exporter.FormatConsole:
		return "txt"
	case exporter.FormatHistory:
		return "json"
	default:
		return format
	}
}

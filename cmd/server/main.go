package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevlyar/go-daemon"

	"github.com/mephi-learn/telegram-export-parser/internal/adapters/parser"
	"github.com/mephi-learn/telegram-export-parser/internal/cache"
	"github.com/mephi-learn/telegram-export-parser/internal/core/services"
	"github.com/mephi-learn/telegram-export-parser/internal/log"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/config"
	"github.com/mephi-learn/telegram-export-parser/internal/server"
	"github.com/mephi-learn/telegram-export-parser/internal/server/usecase"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к YAML-файлу конфигурации")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run(configPath string) error {
	// 1. Загрузка и валидация конфигурации
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Переход в фон. Родительский процесс завершается здесь.
	if cfg.Server.Daemon.Enabled {
		dctx := &daemon.Context{
			PidFileName: cfg.Server.Daemon.PidFile,
			PidFilePerm: 0o644,
			LogFileName: cfg.Server.Daemon.LogFile,
			LogFilePerm: 0o640,
			WorkDir:     cfg.Server.Daemon.WorkDir,
			Umask:       0o027,
		}
		child, err := dctx.Reborn()
		if err != nil {
			return fmt.Errorf("failed to daemonize: %w", err)
		}
		if child != nil {
			fmt.Printf("server started in background, pid %d\n", child.Pid)
			return nil
		}
		defer dctx.Release()
	}

	// 3. Инициализация логгера
	logger, err := log.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)

	// 4. Инициализация зависимостей
	taskStore := server.NewTaskStore()
	cacheStore := cache.NewCacheStore()
	parserSvc := parser.NewJsonParser(logger, cfg.Parsing.LenientEnums)
	extractorSvc := services.NewExtractionService()
	summarySvc := services.NewSummaryService()
	processor := usecase.NewProcessChatUseCase(cfg, parserSvc, extractorSvc, summarySvc, cacheStore)

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, processor, taskStore, cacheStore)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 6. Запуск сервера и graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", cfg.Address(), "lenient_enums", cfg.Parsing.LenientEnums)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Signal received, shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverErr
	slog.Info("Application exited gracefully")
	return nil
}

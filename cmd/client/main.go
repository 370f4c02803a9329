package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mephi-learn/telegram-export-parser/internal/bot"
)

func main() {
	var (
		serverAddr string
		format     string
		output     string
		interval   time.Duration
		timeout    time.Duration
	)
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.StringVar(&format, "format", "json", "Export format: json, history, xlsx, jsonl, console")
	flag.StringVar(&output, "o", "", "Write result to file instead of stdout")
	flag.DurationVar(&interval, "interval", 2*time.Second, "Task status polling interval")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Overall timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Exactly one file path is required. Usage: client [flags] <result.json>")
	}
	path := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := bot.NewServerClient(serverAddr, 30*time.Second)

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Не удалось открыть файл %s: %v", path, err)
	}
	start, err := client.StartTask(ctx, filepath.Base(path), file)
	file.Close()
	if err != nil {
		log.Fatalf("Не удалось отправить файл: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Задача создана с идентификатором: %s\n", start.TaskID)

	// Опрос о статусе задачи
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Fatalf("Задача не завершилась вовремя: %v", ctx.Err())
		case <-ticker.C:
		}

		status, err := client.GetTaskStatus(ctx, start.TaskID)
		if err != nil {
			log.Fatalf("Не удалось опросить статус задачи: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Статус задачи: %s\n", status.Status)

		switch status.Status {
		case "completed":
			data, err := client.DownloadExport(ctx, start.TaskID, format)
			if err != nil {
				log.Fatalf("Не удалось получить результат: %v", err)
			}
			if output == "" {
				os.Stdout.Write(data)
				return
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				log.Fatalf("Не удалось записать результат: %v", err)
			}
			return
		case "failed":
			if status.ErrorKind != "" {
				fmt.Fprintf(os.Stderr, "Задача не выполнена (%s): %s\n", status.ErrorKind, status.ErrorMessage)
			} else {
				fmt.Fprintf(os.Stderr, "Задача не выполнена: %s\n", status.ErrorMessage)
			}
			os.Exit(1)
		case "pending", "processing":
			// Продолжение опроса
		default:
			log.Fatalf("Неизвестный статус задачи: %s", status.Status)
		}
	}
}

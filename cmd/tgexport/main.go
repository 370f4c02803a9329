// Команда tgexport разбирает экспорт чата Telegram Desktop (result.json)
// и выводит сводку и участников в выбранном формате.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mephi-learn/telegram-export-parser/internal/adapters/exporter"
	"github.com/mephi-learn/telegram-export-parser/internal/adapters/parser"
	"github.com/mephi-learn/telegram-export-parser/internal/adapters/source"
	"github.com/mephi-learn/telegram-export-parser/internal/core/services"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/log"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/term"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"golang.org/x/xerrors"
)

// Коды выхода.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Рамка таблицы: "| " и " " вокруг каждой из трёх колонок плюс "|".
const tableChrome = 3*3 + 1

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tgexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "", "формат вывода: "+strings.Join(exporter.Formats(), ", ")+" (по умолчанию console для терминала, иначе json)")
	lenient := fs.Bool("lenient", false, "сохранять неизвестные значения перечислений вместо ошибки")
	output := fs.String("o", "", "записать результат в файл вместо stdout")
	verbose := fs.Bool("v", false, "подробный лог в stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tgexport [-format F] [-lenient] [-o file] export.json")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := log.NewLogger(stderr, level, "text")
	if err != nil {
		fmt.Fprintf(stderr, "tgexport: %v\n", err)
		return exitError
	}

	var (
		out  io.Writer = stdout
		file *os.File
	)
	if *output != "" {
		file, err = os.Create(*output)
		if err != nil {
			fmt.Fprintf(stderr, "tgexport: %v\n", err)
			return exitError
		}
		defer file.Close()
		out = file
	}

	name := *format
	if name == "" {
		name = exporter.FormatJSON
		if term.IsTerminal(out) {
			name = exporter.FormatConsole
		}
	}
	exp, err := newExporter(name, out)
	if err != nil {
		fmt.Fprintf(stderr, "tgexport: %v\n", err)
		return exitUsage
	}

	report, chat, err := buildReport(source.NewCliSource(fs.Arg(0)), parser.NewJsonParser(logger, *lenient))
	if err != nil {
		fmt.Fprintf(stderr, "tgexport: %v\n", err)
		var perr *chatexport.Error
		if xerrors.As(err, &perr) && perr.Kind == chatexport.KindUnknownTag && !*lenient {
			fmt.Fprintln(stderr, "tgexport: используйте -lenient, чтобы принимать значения из новых версий экспорта")
		}
		return exitError
	}
	logger.Debug("report built",
		slog.Int("participants", len(report.Participants)),
		slog.Int("messages", report.Summary.Messages))

	if file == nil {
		if err := exp.Export(out, report, chat); err != nil {
			fmt.Fprintf(stderr, "tgexport: %v\n", err)
			return exitError
		}
		return exitOK
	}
	if err := writeFile(file, exp, report, chat); err != nil {
		fmt.Fprintf(stderr, "tgexport: %v\n", err)
		return exitError
	}
	return exitOK
}

// writeFile пишет отчёт в файл через буфер. Ошибки сброса буфера и
// закрытия файла тоже означают, что результат не записан.
func writeFile(f *os.File, exp ports.Exporter, report *domain.Report, chat *chatexport.ChatHistory) error {
	bw := bufio.NewWriter(f)
	if err := exp.Export(bw, report, chat); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return xerrors.Errorf("failed to write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return xerrors.Errorf("failed to close %s: %w", f.Name(), err)
	}
	return nil
}

// newExporter создаёт экспортер; ширина консольной таблицы подгоняется под терминал.
func newExporter(format string, out io.Writer) (ports.Exporter, error) {
	if format == exporter.FormatConsole {
		return exporter.NewConsoleExporter(consoleColumns(term.Width(out))), nil
	}
	return exporter.New(format)
}

// consoleColumns делит ширину терминала между колонками.
func consoleColumns(width int) exporter.ConsoleColumns {
	def := exporter.DefaultConsoleColumns
	if width-tableChrome < def.UserID+def.Name+def.Username {
		return def
	}
	avail := width - tableChrome
	userID := avail / 4
	username := avail * 3 / 10
	return exporter.ConsoleColumns{UserID: userID, Name: avail - userID - username, Username: username}
}

func buildReport(ds ports.DataSource, p ports.Parser) (*domain.Report, *chatexport.ChatHistory, error) {
	rc, err := ds.Open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	chat, err := p.Parse(rc)
	if err != nil {
		return nil, nil, err
	}
	participants, err := services.NewExtractionService().ExtractParticipants(chat)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to extract participants: %w", err)
	}
	summary, err := services.NewSummaryService().Summarize(chat)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to summarize chat: %w", err)
	}
	return &domain.Report{Summary: summary, Participants: participants}, chat, nil
}

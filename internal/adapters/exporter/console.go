package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/pkg/table"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
)

var (
	colorPrimary = lipgloss.Color("#7AA2F7")
	colorMuted   = lipgloss.Color("#565F89")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ConsoleColumns задаёт ширину колонок таблицы участников.
type ConsoleColumns struct {
	UserID   int
	Name     int
	Username int
}

// DefaultConsoleColumns — ширина колонок по умолчанию.
var DefaultConsoleColumns = ConsoleColumns{UserID: 16, Name: 28, Username: 20}

// ConsoleExporter реализует интерфейс Exporter для вывода данных в консоль.
type ConsoleExporter struct {
	columns ConsoleColumns
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter(columns ConsoleColumns) ports.Exporter {
	return &ConsoleExporter{columns: columns}
}

// Export выводит сводку по чату и таблицу участников.
func (e *ConsoleExporter) Export(w io.Writer, report *domain.Report, _ *chatexport.ChatHistory) error {
	if report == nil {
		return errNilReport
	}
	s := report.Summary

	fmt.Fprintln(w, styleTitle.Render("--- "+s.ChatName+" ---"))
	fmt.Fprintf(w, "Type: %s, ID: %d\n", s.ChatType, s.ChatID)
	fmt.Fprintf(w, "Messages: %d, Service events: %d, Polls: %d\n", s.Messages, s.ServiceEvents, s.Polls)
	if s.FirstDate != nil && s.LastDate != nil {
		fmt.Fprintf(w, "Period: %s .. %s\n", chatexport.FormatDateTime(*s.FirstDate), chatexport.FormatDateTime(*s.LastDate))
	}
	writeHistogram(w, "Actions", s.Actions)
	writeHistogram(w, "Media", s.MediaTypes)
	if len(s.UnknownKinds) > 0 {
		fmt.Fprintln(w, styleMuted.Render("Unknown kinds: "+fmt.Sprint(s.UnknownKinds)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("--- Chat Participants ---"))
	if len(report.Participants) == 0 {
		fmt.Fprintln(w, "No participants found.")
		return nil
	}

	columns := []table.Column{
		{Title: "#", Width: len(strconv.Itoa(len(report.Participants)))},
		{Title: "User ID", Width: e.columns.UserID},
		{Title: "Name", Width: e.columns.Name},
		{Title: "Username", Width: e.columns.Username},
		{Title: "Msgs", Width: 6},
		{Title: "Events", Width: 6},
	}
	rows := make([][]string, 0, len(report.Participants))
	for i, p := range report.Participants {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orNA(p.UserID),
			orNA(p.Name),
			orNA(p.Username),
			strconv.Itoa(p.Messages),
			strconv.Itoa(p.ServiceEvents),
		})
	}
	_, err := io.WriteString(w, table.Render(columns, rows))
	return err
}

func writeHistogram(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

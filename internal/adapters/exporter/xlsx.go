package exporter

import (
	"io"
	"slices"

	"github.com/mephi-learn/telegram-export-parser/internal/domain"
	"github.com/mephi-learn/telegram-export-parser/internal/ports"
	"github.com/mephi-learn/telegram-export-parser/pkg/chatexport"
	"github.com/xuri/excelize/v2"
	"golang.org/x/xerrors"
)

// Имена листов книги.
const (
	SheetSummary      = "Summary"
	SheetParticipants = "Participants"
	SheetMessages     = "Messages"
)

// XLSXExporter пишет отчёт в книгу Excel.
type XLSXExporter struct{}

// NewXLSXExporter создает новый экземпляр XLSXExporter.
func NewXLSXExporter() ports.Exporter {
	return &XLSXExporter{}
}

// Export строит книгу со сводкой и участниками. Лист сообщений добавляется,
// только если передана история.
func (e *XLSXExporter) Export(w io.Writer, report *domain.Report, chat *chatexport.ChatHistory) (err error) {
	if report == nil {
		return errNilReport
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = xerrors.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return xerrors.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRows(f, SheetSummary, summaryRows(report.Summary)); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetParticipants); err != nil {
		return xerrors.Errorf("failed to create sheet %s: %w", SheetParticipants, err)
	}
	if err := writeRows(f, SheetParticipants, participantRows(report.Participants)); err != nil {
		return err
	}

	if chat != nil {
		if _, err := f.NewSheet(SheetMessages); err != nil {
			return xerrors.Errorf("failed to create sheet %s: %w", SheetMessages, err)
		}
		if err := writeRows(f, SheetMessages, messageRows(chat)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return xerrors.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return xerrors.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return xerrors.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summaryRows(s domain.Summary) [][]any {
	rows := [][]any{
		{"Chat", s.ChatName},
		{"Type", s.ChatType},
		{"ID", s.ChatID},
		{"Messages", s.Messages},
		{"Service events", s.ServiceEvents},
		{"Polls", s.Polls},
	}
	if s.FirstDate != nil && s.LastDate != nil {
		rows = append(rows,
			[]any{"First date", chatexport.FormatDateTime(*s.FirstDate)},
			[]any{"Last date", chatexport.FormatDateTime(*s.LastDate)},
		)
	}
	for _, k := range sortedKeys(s.Actions) {
		rows = append(rows, []any{"Action: " + k, s.Actions[k]})
	}
	for _, k := range sortedKeys(s.MediaTypes) {
		rows = append(rows, []any{"Media: " + k, s.MediaTypes[k]})
	}
	return rows
}

func participantRows(participants []domain.Participant) [][]any {
	rows := [][]any{{"User ID", "Name", "Username", "Messages", "Service events"}}
	for _, p := range participants {
		rows = append(rows, []any{p.UserID, p.Name, p.Username, p.Messages, p.ServiceEvents})
	}
	return rows
}

func messageRows(chat *chatexport.ChatHistory) [][]any {
	rows := [][]any{{"ID", "Type", "Date", "Author", "Author ID", "Action", "Text"}}
	for _, item := range chat.Messages {
		switch m := item.(type) {
		case chatexport.Message:
			text := ""
			if m.Text != nil {
				text = m.Text.Content()
			}
			rows = append(rows, []any{m.ID, string(m.Type()), chatexport.FormatDateTime(m.Date), m.From.Or(""), m.FromID, "", text})
		case chatexport.ServiceMessage:
			rows = append(rows, []any{m.ID, string(m.Type()), chatexport.FormatDateTime(m.Date), m.Actor.Or(""), m.ActorID, string(m.Action), m.Text})
		}
	}
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

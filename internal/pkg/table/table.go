// Package table рисует моноширинные таблицы с переносом слов. Ширина
// строк считается по runewidth, поэтому кириллица, CJK и эмодзи не ломают
// выравнивание.
package table

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Column описывает колонку таблицы. Width задаётся в экранных ячейках.
type Column struct {
	Title string
	Width int
}

// Render рисует таблицу: заголовок, разделитель и строки. Значения, не
// влезающие в колонку, переносятся на следующие строки.
func Render(columns []Column, rows [][]string) string {
	var sb strings.Builder

	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.Title
	}
	writeLine(&sb, columns, titles)

	for _, c := range columns {
		sb.WriteString("|")
		sb.WriteString(strings.Repeat("-", c.Width+2))
	}
	sb.WriteString("|\n")

	for _, row := range rows {
		cells := make([][]string, len(columns))
		maxLines := 1
		for i, c := range columns {
			value := ""
			if i < len(row) {
				value = strings.ReplaceAll(strings.ToValidUTF8(row[i], ""), "\n", " ")
			}
			cells[i] = Wrap(value, c.Width)
			if len(cells[i]) > maxLines {
				maxLines = len(cells[i])
			}
		}

		for line := 0; line < maxLines; line++ {
			parts := make([]string, len(columns))
			for i := range columns {
				if line < len(cells[i]) {
					parts[i] = cells[i][line]
				}
			}
			writeLine(&sb, columns, parts)
		}
	}

	return sb.String()
}

func writeLine(sb *strings.Builder, columns []Column, parts []string) {
	for i, c := range columns {
		sb.WriteString("| ")
		sb.WriteString(parts[i])
		sb.WriteString(Padding(parts[i], c.Width))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}

// Padding вычисляет отступ для строки с учетом поправки на CJK-символы.
func Padding(s string, colWidth int) string {
	paddingNeeded := colWidth - runewidth.StringWidth(s)

	// Некоторые клиенты Telegram рисуют CJK шире, чем считает runewidth.
	hasCJK := false
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hangul, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			hasCJK = true
			break
		}
	}

	if hasCJK && paddingNeeded >= 0 {
		paddingNeeded++
	}

	if paddingNeeded > 0 {
		return strings.Repeat(" ", paddingNeeded)
	}
	return ""
}

// Wrap переносит строку по границам слов. Слово длиннее width
// разбивается посередине.
func Wrap(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		lines := breakRunes(s, width)
		if len(lines) == 0 {
			return []string{""}
		}
		return lines
	}

	var (
		lines       []string
		currentLine strings.Builder
	)
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)

		if wordWidth > width {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
			lines = append(lines, breakRunes(word, width)...)
			continue
		}

		lineLen := runewidth.StringWidth(currentLine.String())
		if lineLen > 0 && lineLen+1+wordWidth > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}

		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}

func breakRunes(s string, width int) []string {
	var lines []string
	runes := []rune(s)
	for len(runes) > 0 {
		i := 0
		currentWidth := 0
		for i < len(runes) {
			rw := runewidth.RuneWidth(runes[i])
			if currentWidth+rw > width {
				break
			}
			currentWidth += rw
			i++
		}
		if i == 0 {
			// Руна шире колонки: выводим её одну, иначе цикл не завершится.
			i = 1
		}
		lines = append(lines, string(runes[:i]))
		runes = runes[i:]
	}
	return lines
}

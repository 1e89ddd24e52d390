// Package spreadsheet renders an export snapshot as an .xlsx workbook with one
// sheet each for decks, cards and the owner's statistics.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phrazzld/recode/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	DecksSheet = "Decks"
	CardsSheet = "Cards"
	StatsSheet = "Stats"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	deckHeader = []any{"ID", "Name", "Description", "Created", "Updated"}
	cardHeader = []any{
		"ID", "Deck ID", "Question", "Answer", "Type", "Tags",
		"Repetitions", "Interval", "Ease Factor", "Due", "Last Review",
	}
	statsHeader = []any{"Total Cards", "Mastered", "Learning", "Streak", "Last Practice"}
)

// WriteSnapshot writes snap to w as a workbook.
func WriteSnapshot(w io.Writer, snap *domain.Snapshot) (err error) {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// NewFile starts with Sheet1; reuse it for decks.
	if err := f.SetSheetName("Sheet1", DecksSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{CardsSheet, StatsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, DecksSheet, deckHeader, deckRows(snap.Decks)); err != nil {
		return err
	}
	if err := writeRows(f, CardsSheet, cardHeader, cardRows(snap.Cards)); err != nil {
		return err
	}
	var statsRows [][]any
	if snap.User != nil {
		statsRows = [][]any{statsRow(snap.User.Stats)}
	}
	if err := writeRows(f, StatsSheet, statsHeader, statsRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func deckRows(decks []*domain.Deck) [][]any {
	rows := make([][]any, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, []any{
			d.ID.String(), d.Name, d.Description,
			formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
		})
	}
	return rows
}

func cardRows(cards []*domain.Card) [][]any {
	rows := make([][]any, 0, len(cards))
	for _, c := range cards {
		lastReview := ""
		if c.Stats.LastReview != nil {
			lastReview = formatTime(*c.Stats.LastReview)
		}
		rows = append(rows, []any{
			c.ID.String(), c.DeckID.String(), c.Question, c.Answer, c.Type,
			strings.Join(c.Tags, ", "),
			c.Stats.Repetitions, c.Stats.Interval, c.Stats.EaseFactor,
			formatTime(c.Stats.DueDate), lastReview,
		})
	}
	return rows
}

func statsRow(s domain.UserStats) []any {
	lastPractice := ""
	if s.LastPractice != nil {
		lastPractice = formatTime(*s.LastPractice)
	}
	return []any{s.TotalCards, s.Mastered, s.Learning, s.Streak, lastPractice}
}

// Times are written as RFC 3339 text so the workbook reads the same in any
// spreadsheet locale.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

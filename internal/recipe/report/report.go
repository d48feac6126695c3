// Package report renders shopping reports as downloadable files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tair/foodgram/internal/recipe/domain"
)

const (
	title      = "Shopping list"
	dateLayout = "2006-01-02"
)

// Format identifies a rendering of the shopping report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ParseFormat resolves a format name; an empty name selects CSV
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", domain.Validation("invalid format", map[string]string{"format": "select a valid choice: csv or txt"})
	}
}

// ContentType returns the MIME type of the rendering
func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the attachment name of the rendering
func (f Format) Filename() string {
	return "shopping." + string(f)
}

// Write renders the report in the given format
func Write(w io.Writer, f Format, r *domain.ShoppingReport) error {
	if f == FormatText {
		return WriteText(w, r)
	}
	return WriteCSV(w, r)
}

// WriteCSV renders a title row, a date/user row, a header and one row per item
func WriteCSV(w io.Writer, r *domain.ShoppingReport) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"", title, "", ""},
		{"", r.GeneratedAt.Format(dateLayout), r.Username, ""},
		{"#", "Name", "Unit", "Amount"},
	}
	for _, item := range r.Items {
		rows = append(rows, []string{
			strconv.Itoa(item.Index),
			item.Name,
			item.Unit,
			strconv.FormatInt(item.Amount, 10),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}

// WriteText renders a plain-text report with one numbered line per item
func WriteText(w io.Writer, r *domain.ShoppingReport) error {
	if _, err := fmt.Fprintf(w, "%s\n%s %s\n\n", title, r.GeneratedAt.Format(dateLayout), r.Username); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	for _, item := range r.Items {
		if _, err := fmt.Fprintf(w, "%d. %s %s — %d\n", item.Index, item.Name, item.Unit, item.Amount); err != nil {
			return fmt.Errorf("failed to write text report: %w", err)
		}
	}
	return nil
}

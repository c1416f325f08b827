// Package export renders the task list as JSON, CSV or PDF reports.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/IrinaBBB/TaskBoard/internal/domain"
)

var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

type TaskLister interface {
	ListTasks() []domain.Task
}

type Exporter struct {
	tasks TaskLister
}

func NewExporter(tasks TaskLister) *Exporter {
	return &Exporter{tasks: tasks}
}

// Export returns the rendered report and its content type.
func (e *Exporter) Export(format string) ([]byte, string, error) {
	tasks := e.tasks.ListTasks()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		b, err := renderJSON(tasks)
		return b, "application/json; charset=utf-8", err
	case FormatCSV:
		b, err := renderCSV(tasks)
		return b, "text/csv; charset=utf-8", err
	case FormatPDF:
		b, err := renderPDF(tasks)
		return b, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Extension maps a format to a file extension, json for unknown input.
func Extension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	default:
		return "json"
	}
}

type row struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func renderJSON(tasks []domain.Task) ([]byte, error) {
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row{ID: t.ID, Title: t.Title, Description: t.Description})
	}

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func renderCSV(tasks []domain.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "title", "description"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := w.Write([]string{strconv.FormatInt(t.ID, 10), t.Title, t.Description}); err != nil {
			return nil, err
		}
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(tasks []domain.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Task Board", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Board")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks to display!")
	}
	for _, t := range tasks {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("#%d %s", t.ID, t.Title)), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

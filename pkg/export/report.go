package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// FailedRow describes one rejected import row for report rendering.
type FailedRow struct {
	Row    int
	UID    string
	Name   string
	Reason string
}

// FailedRowsCSV renders rejected rows as a CSV the uploader can fix and
// resubmit.
func FailedRowsCSV(rows []FailedRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"Row", "UID", "Name", "Error"}); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range rows {
		record := []string{strconv.Itoa(row.Row), row.UID, row.Name, row.Reason}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportSummaryPDF renders a one-page summary of a completed import batch.
func ImportSummaryPDF(title string, total, succeeded int, failed []FailedRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("02-Jan-2006 15:04 MST")), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total rows: %d", total), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Imported: %d", succeeded), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Rejected: %d", len(failed)), "", 1, "", false, 0, "")
	pdf.Ln(4)

	if len(failed) > 0 {
		headers := []string{"Row", "UID", "Name", "Error"}
		widths := []float64{15, 35, 45, 95}

		pdf.SetFont("Arial", "B", 10)
		for i, header := range headers {
			pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range failed {
			cells := []string{strconv.Itoa(row.Row), row.UID, row.Name, row.Reason}
			for i, value := range cells {
				pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

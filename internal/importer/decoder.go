package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Decoder turns an uploaded spreadsheet into a sequence of raw rows.
//
// An unreadable file or unsupported extension yields zero rows rather than an
// error: an empty upload is a legitimate outcome the caller reports as an
// empty batch. The condition is logged so operators can tell the two apart.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder builds a Decoder.
func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger}
}

// Decode reads the file contents for the given extension ("csv", "xlsx",
// "xls", with or without a leading dot) and returns one RawRow per data
// line, keyed by the header row.
func (d *Decoder) Decode(r io.Reader, ext string) []RawRow {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".") {
	case "csv":
		return d.decodeCSV(r)
	case "xlsx", "xls":
		return d.decodeExcel(r)
	default:
		d.logger.Warn("unsupported upload extension", zap.String("ext", ext))
		return nil
	}
}

func (d *Decoder) decodeCSV(r io.Reader) []RawRow {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		d.logger.Warn("failed to read csv upload", zap.Error(err))
		return nil
	}
	if len(records) < 2 {
		d.logger.Warn("csv upload has no data rows", zap.Int("lines", len(records)))
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return rowsFromRecords(header, records[1:])
}

func (d *Decoder) decodeExcel(r io.Reader) []RawRow {
	file, err := excelize.OpenReader(r)
	if err != nil {
		d.logger.Warn("failed to open excel upload", zap.Error(err))
		return nil
	}
	defer file.Close() //nolint:errcheck

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		d.logger.Warn("excel upload has no worksheets")
		return nil
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		d.logger.Warn("failed to read excel rows", zap.Error(err))
		return nil
	}
	if len(records) < 2 {
		d.logger.Warn("excel upload has no data rows", zap.Int("lines", len(records)))
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return rowsFromRecords(header, records[1:])
}

// rowsFromRecords keys each record by the header labels. When a label
// appears in more than one column, the leftmost column wins; later columns
// must never shadow the one the template defines.
func rowsFromRecords(header []string, records [][]string) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for _, record := range records {
		row := make(RawRow, len(header))
		for i, label := range header {
			if label == "" {
				continue
			}
			if _, taken := row[label]; taken {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[label] = value
		}
		rows = append(rows, row)
	}
	return rows
}

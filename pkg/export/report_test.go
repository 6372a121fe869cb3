package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFailedRowsCSV(t *testing.T) {
	rows := []FailedRow{
		{Row: 2, UID: "ID-1001", Name: "Aisha Rahman", Reason: "UID 'ID-1001' already exists"},
		{Row: 5, UID: "ID-1004", Name: "Budi, Jr.", Reason: "Sport 'Quidditch' not found"},
	}

	data, err := FailedRowsCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, []string{"Row", "UID", "Name", "Error"}, records[0])
	require.Equal(t, []string{"2", "ID-1001", "Aisha Rahman", "UID 'ID-1001' already exists"}, records[1])
	require.Equal(t, "Budi, Jr.", records[2][2])
}

func TestFailedRowsCSVEmpty(t *testing.T) {
	data, err := FailedRowsCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestImportSummaryPDF(t *testing.T) {
	failed := []FailedRow{
		{Row: 3, UID: "ID-1002", Name: "Citra", Reason: "Invalid date for DOB"},
	}

	data, err := ImportSummaryPDF("Student Import Report", 10, 9, failed)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestImportSummaryPDFNoFailures(t *testing.T) {
	data, err := ImportSummaryPDF("Student Import Report", 4, 4, nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

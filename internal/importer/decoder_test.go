package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecoderCSV(t *testing.T) {
	d := NewDecoder(nil)
	input := strings.Join([]string{
		`Name *,UID *,Sport *,Medical Conditions`,
		`Aisha Rahman,ID-1001,Swimming,"Asthma, mild"`,
		` Budi Santoso ,ID-1002,Chess,`,
	}, "\n")

	rows := d.Decode(strings.NewReader(input), "csv")
	require.Len(t, rows, 2)
	require.Equal(t, "Aisha Rahman", rows[0]["Name *"])
	require.Equal(t, "Asthma, mild", rows[0]["Medical Conditions"])
	require.Equal(t, "Budi Santoso", rows[1]["Name *"])
	require.Equal(t, "", rows[1]["Medical Conditions"])
}

func TestDecoderCSVExtensionWithDot(t *testing.T) {
	d := NewDecoder(nil)
	input := "Name *,UID *\nA,1\n"

	rows := d.Decode(strings.NewReader(input), ".CSV")
	require.Len(t, rows, 1)
}

func TestDecoderCSVRaggedRows(t *testing.T) {
	d := NewDecoder(nil)
	input := strings.Join([]string{
		"Name *,UID *,Sport *",
		"Aisha,ID-1",
		"Budi,ID-2,Chess,extra",
	}, "\n")

	rows := d.Decode(strings.NewReader(input), "csv")
	require.Len(t, rows, 2)
	require.Equal(t, "", rows[0]["Sport *"])
	require.Equal(t, "Chess", rows[1]["Sport *"])
}

func TestDecoderCSVDuplicateHeaderFirstColumnWins(t *testing.T) {
	d := NewDecoder(nil)
	input := strings.Join([]string{
		"Name *,UID *,Name *",
		"Aisha Rahman,ID-1001,Shadow Name",
	}, "\n")

	rows := d.Decode(strings.NewReader(input), "csv")
	require.Len(t, rows, 1)
	require.Equal(t, "Aisha Rahman", rows[0]["Name *"])
}

func TestDecoderUnsupportedExtension(t *testing.T) {
	d := NewDecoder(nil)
	rows := d.Decode(strings.NewReader("anything"), "pdf")
	require.Nil(t, rows)
}

func TestDecoderUnreadableFile(t *testing.T) {
	d := NewDecoder(nil)
	rows := d.Decode(bytes.NewReader([]byte("not an excel file")), "xlsx")
	require.Nil(t, rows)
}

func TestDecoderHeaderOnlyCSV(t *testing.T) {
	d := NewDecoder(nil)
	rows := d.Decode(strings.NewReader("Name *,UID *\n"), "csv")
	require.Nil(t, rows)
}

func TestDecoderExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Name *", "UID *", "Sport *"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Aisha Rahman", "ID-1001", "Swimming"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"Budi Santoso", "ID-1002", "Chess"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	d := NewDecoder(nil)
	rows := d.Decode(bytes.NewReader(buf.Bytes()), "xlsx")
	require.Len(t, rows, 2)
	require.Equal(t, "Aisha Rahman", rows[0]["Name *"])
	require.Equal(t, "Chess", rows[1]["Sport *"])
}

package importer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapperCanonicalHeaders(t *testing.T) {
	m := NewMapper()
	raw := RawRow{
		"Name *":                        "Aisha Rahman",
		"UID *":                         "ID-1001",
		"Date of Birth (DD-MMM-YYYY) *": "14-Sep-2000",
		"Gender (male/female/other) *":  "Female",
		"Nationality":                   "Indonesian",
		"City":                          "Jakarta",
		"Class/Grade":                   "10A",
		"Blood Group":                   "ab-",
		"Relationship":                  "Mother",
		"Sport *":                       "Swimming",
		"Distance *":                    "100m",
		"Sport Sub Type":                "Freestyle",
		"Parent Email":                  "parent@example.com",
		"Parent Name":                   "Siti Rahman",
		"Phone Number":                  "81234567",
		"Country Code":                  "+62",
		"Medical Conditions":            "Asthma",
	}

	row, skipped := m.Map(raw, 2)
	require.False(t, skipped)
	require.Equal(t, 2, row.RowNumber)
	require.Equal(t, "Aisha Rahman", row.Name)
	require.Equal(t, "ID-1001", row.UID)
	require.Equal(t, "14-Sep-2000", row.DOB)
	require.Equal(t, "female", row.Gender)
	require.Equal(t, "Indonesian", row.Nationality)
	require.Equal(t, "Jakarta", row.City)
	require.Equal(t, "10A", row.Grade)
	require.Equal(t, "AB-", row.BloodGroup)
	require.Equal(t, "mother", row.Relationship)
	require.Equal(t, "Swimming", row.Sport)
	require.Equal(t, "100m", row.Distance)
	require.Equal(t, "Freestyle", row.SportSubType)
	require.Equal(t, "parent@example.com", row.ParentEmail)
	require.Equal(t, "Siti Rahman", row.ParentName)
	require.Equal(t, "81234567", row.PhoneNumber)
	require.Equal(t, "+62", row.CountryCode)
	require.Equal(t, "Asthma", row.MedicalNotes)
}

func TestMapperHeaderVariants(t *testing.T) {
	m := NewMapper()
	raw := RawRow{
		"Full Name":  "Budi Santoso",
		"Student ID": "ID-2002",
		"DOB":        "01/02/2010",
		"Gender":     "male",
		"Sport":      "Archery",
	}

	row, skipped := m.Map(raw, 1)
	require.False(t, skipped)
	require.Equal(t, "Budi Santoso", row.Name)
	require.Equal(t, "ID-2002", row.UID)
	require.Equal(t, "01/02/2010", row.DOB)
	require.Equal(t, "Archery", row.Sport)
}

func TestMapperFuzzyHeaders(t *testing.T) {
	m := NewMapper()
	raw := RawRow{
		"Name (as on passport)":         "Citra Lestari",
		"UID / Registration No":         "ID-3003",
		"Date Of Birth (DD/MM/YYYY)":    "05/06/2008",
		"Gender (M/F)":                  "female",
		"Sport Selection":               "Athletics",
		"Distance (choose one)":         "200m",
		"Parent / Guardian Email":       "guardian@example.com",
		"Emergency Phone":               "555111",
		"Medical Notes (if applicable)": "None",
	}

	row, skipped := m.Map(raw, 3)
	require.False(t, skipped)
	require.Equal(t, "Citra Lestari", row.Name)
	require.Equal(t, "ID-3003", row.UID)
	require.Equal(t, "05/06/2008", row.DOB)
	require.Equal(t, "female", row.Gender)
	require.Equal(t, "Athletics", row.Sport)
	require.Equal(t, "200m", row.Distance)
	require.Equal(t, "guardian@example.com", row.ParentEmail)
	require.Equal(t, "555111", row.PhoneNumber)
	require.Equal(t, "None", row.MedicalNotes)
}

func TestMapperSkipsEmptyRow(t *testing.T) {
	m := NewMapper()
	raw := RawRow{
		"Name *":  "",
		"UID *":   "  ",
		"Sport *": "",
	}

	row, skipped := m.Map(raw, 4)
	require.True(t, skipped)
	require.Nil(t, row)
}

func TestMapperSkipsInstructionFirstRow(t *testing.T) {
	m := NewMapper()
	raw := RawRow{
		"Name *":  "Enter the athlete name here",
		"Sport *": "Please select from the dropdown",
	}

	_, skipped := m.Map(raw, 1)
	require.True(t, skipped)

	// The same content past row 1 is treated as data and left to validation.
	row, skipped := m.Map(raw, 2)
	require.False(t, skipped)
	require.Equal(t, "Please select from the dropdown", row.Sport)
}

func TestNormalizeBloodGroup(t *testing.T) {
	cases := map[string]string{
		"A":    "A+",
		"a":    "A+",
		"B":    "B+",
		"AB":   "AB+",
		"O":    "O+",
		"o-":   "O-",
		"ab+":  "AB+",
		"":     "Unknown",
		"XYZ":  "Unknown",
		"ABO+": "Unknown",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeBloodGroup(in), "input %q", in)
	}
}

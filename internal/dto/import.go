package dto

import "github.com/matchpoint-id/sports-reg-api/internal/importer"

// ImportRowError reports one rejected row. UID and Name echo the mapped
// values so the uploader can locate the row without counting lines.
type ImportRowError struct {
	Row   int    `json:"row"`
	UID   string `json:"uid,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// ImportPreviewError is a rejected preview row with every mapped field
// echoed back. The client renders the row for correction and resubmits it
// through bulk-upload, so nothing the mapper extracted may be dropped here.
type ImportPreviewError struct {
	importer.StudentRow
	Error string `json:"error"`
}

// ImportPreview is the response of the parse endpoint: no writes happened.
type ImportPreview struct {
	ValidRows []importer.StudentRow `json:"validRows"`
	Errors    []ImportPreviewError  `json:"errors"`
	TotalRows int                   `json:"totalRows"`
}

// ImportResult is the response of the bulk-upload endpoint.
type ImportResult struct {
	SuccessCount int              `json:"successCount"`
	Errors       []ImportRowError `json:"errors"`
	ReportCSV    string           `json:"reportCsv,omitempty"`
	ReportPDF    string           `json:"reportPdf,omitempty"`
}

package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matchpoint-id/sports-reg-api/internal/importer"
	"github.com/matchpoint-id/sports-reg-api/internal/middleware"
	"github.com/matchpoint-id/sports-reg-api/internal/service"
	appErrors "github.com/matchpoint-id/sports-reg-api/pkg/errors"
	"github.com/matchpoint-id/sports-reg-api/pkg/response"
)

// ImportHandler exposes the bulk student import endpoints.
type ImportHandler struct {
	imports     *service.ImportService
	metrics     *service.MetricsService
	maxFileSize int64
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService, metrics *service.MetricsService, maxFileSize int64) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	return &ImportHandler{imports: imports, metrics: metrics, maxFileSize: maxFileSize}
}

// Parse godoc
// @Summary Preview a student upload without committing
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or Excel file"
// @Success 200 {object} response.Envelope
// @Router /students/parse [post]
func (h *ImportHandler) Parse(c *gin.Context) {
	file, ext, err := h.openUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	preview, err := h.imports.Preview(c.Request.Context(), file, ext)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// BulkUpload godoc
// @Summary Commit a student upload
// @Description Accepts either a file field or a rows field with confirmed rows from a previous parse.
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "CSV or Excel file"
// @Param rows formData string false "JSON array of confirmed rows"
// @Success 200 {object} response.Envelope
// @Router /students/bulk-upload [post]
func (h *ImportHandler) BulkUpload(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	input := service.ImportInput{Actor: *claims}

	if rowsJSON := c.PostForm("rows"); rowsJSON != "" {
		var rows []importer.StudentRow
		if err := json.Unmarshal([]byte(rowsJSON), &rows); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rows payload"))
			return
		}
		if len(rows) == 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rows payload is empty"))
			return
		}
		input.ConfirmedRows = rows
	} else {
		file, ext, err := h.openUpload(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		defer file.Close()
		input.File = file
		input.Ext = ext
	}

	start := time.Now()
	result, err := h.imports.Import(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordImportRows(result.SuccessCount, len(result.Errors))
		h.metrics.ObserveImportBatch(time.Since(start))
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Template godoc
// @Summary Download the student upload template
// @Tags Import
// @Produce text/csv
// @Success 200 {string} string "CSV template"
// @Router /students/import-template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	response.Attachment(c, "student-import-template.csv", "text/csv", h.imports.TemplateCSV())
}

func (h *ImportHandler) openUpload(c *gin.Context) (multipart.File, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required")
	}
	if header.Size > h.maxFileSize {
		return nil, "", appErrors.ErrFileTooLarge
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	switch ext {
	case "csv", "xlsx", "xls":
	default:
		return nil, "", appErrors.ErrUnsupportedFile
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrImportFailed.Code, appErrors.ErrImportFailed.Status, "failed to open uploaded file")
	}
	return file, ext, nil
}

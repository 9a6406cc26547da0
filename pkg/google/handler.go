package google

import (
	"errors"
	"net/http"

	"github.com/klokku/spendcast/internal/rest"
	"github.com/klokku/spendcast/pkg/export"
	log "github.com/sirupsen/logrus"
)

type ExportResultDTO struct {
	Status        string `json:"status"`
	SpreadsheetId string `json:"spreadsheet_id"`
	Sheets        int    `json:"sheets"`
	Rows          int    `json:"rows"`
}

type Handler struct {
	workbooks export.Service
	exporter  Exporter
}

// NewHandler accepts a nil exporter, in which case every export answers 503.
func NewHandler(workbooks export.Service, exporter Exporter) *Handler {
	return &Handler{workbooks: workbooks, exporter: exporter}
}

func (h *Handler) ExportToSheets(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		rest.WriteError(w, http.StatusServiceUnavailable, "Google Sheets export not available", ErrNotConfigured.Error())
		return
	}

	workbook, err := h.workbooks.Workbook(r.Context())
	if errors.Is(err, export.ErrNoData) {
		rest.WriteError(w, http.StatusBadRequest, "No data to export", "")
		return
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	result, err := h.exporter.Export(r.Context(), workbook)
	if err != nil {
		log.Errorf("google sheets export failed: %v", err)
		rest.WriteError(w, http.StatusBadGateway, "Google Sheets export failed", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, ExportResultDTO{
		Status:        "exported",
		SpreadsheetId: result.SpreadsheetId,
		Sheets:        result.Sheets,
		Rows:          result.Rows,
	})
}

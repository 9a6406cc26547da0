package export

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/klokku/spendcast/internal/rest"
	"github.com/klokku/spendcast/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  Service
	renderer Renderer
	clock    utils.Clock
}

func NewHandler(service Service, renderer Renderer, clock utils.Clock) *Handler {
	return &Handler{service: service, renderer: renderer, clock: clock}
}

func (h *Handler) ExportXlsx(w http.ResponseWriter, r *http.Request) {
	workbook, err := h.service.Workbook(r.Context())
	if errors.Is(err, ErrNoData) {
		rest.WriteError(w, http.StatusBadRequest, "No data to export", "")
		return
	}
	if err != nil {
		log.Errorf("export failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	content, err := h.renderer.Render(workbook)
	if err != nil {
		log.Errorf("failed to render xlsx: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	filename := fmt.Sprintf("expenses_report_%s.xlsx", h.clock.Now().Format("20060102"))
	w.Header().Set("Content-Type", XlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		log.Errorf("failed to write xlsx: %v", err)
	}
}

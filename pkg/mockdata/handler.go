package mockdata

import (
	"fmt"
	"net/http"

	"github.com/klokku/spendcast/internal/rest"
	"github.com/klokku/spendcast/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type GenerateResultDTO struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Features []string `json:"features"`
}

type Handler struct {
	generator *Generator
	expenses  expense.Service
	options   Options
}

func NewHandler(generator *Generator, expenses expense.Service, options Options) *Handler {
	return &Handler{generator: generator, expenses: expenses, options: options}
}

// Generate replaces the whole ledger with generated expenses.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	generated := h.generator.Generate(h.options)

	count, err := h.expenses.Replace(r.Context(), generated, "mockdata")
	if err != nil {
		log.Errorf("failed to store generated expenses: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to generate data", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, GenerateResultDTO{
		Status:   "success",
		Message:  fmt.Sprintf("Generated %d records with realistic patterns", count),
		Features: []string{"Trend: 0.05% daily growth", "Seasonality: 2x weekend spending"},
	})
}

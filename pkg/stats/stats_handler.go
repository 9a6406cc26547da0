package stats

import (
	"net/http"
	"time"

	"github.com/klokku/spendcast/internal/rest"
	"github.com/klokku/spendcast/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type CategoryStatsDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type StatsSummaryDTO struct {
	Total       float64            `json:"total"`
	Average     float64            `json:"average"`
	Count       int                `json:"count"`
	TopCategory string             `json:"top_category"`
	ByCategory  []CategoryStatsDTO `json:"by_category"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

// GetStats accepts optional fromDate and toDate query parameters in YYYY-MM-DD format.
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	fromDate, err := dateParam(r, "fromDate")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid fromDate format", "fromDate must be in YYYY-MM-DD format")
		return
	}
	toDate, err := dateParam(r, "toDate")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid toDate format", "toDate must be in YYYY-MM-DD format")
		return
	}
	statsRange := Range{From: fromDate, To: toDate}

	stats, err := handler.statsService.GetStats(r.Context(), statsRange)
	if err != nil {
		log.Errorf("failed to compute stats: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to compute stats", err.Error())
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(stats))
}

func convertToJsonResponse(stats StatsSummary) StatsSummaryDTO {
	byCategory := make([]CategoryStatsDTO, 0, len(stats.Categories))
	for _, c := range stats.Categories {
		byCategory = append(byCategory, CategoryStatsDTO{
			Category: string(c.Category),
			Total:    c.Total.Round(2).InexactFloat64(),
			Average:  c.Average.InexactFloat64(),
			Count:    c.Count,
		})
	}
	return StatsSummaryDTO{
		Total:       stats.Total.Round(2).InexactFloat64(),
		Average:     stats.Average.InexactFloat64(),
		Count:       stats.Count,
		TopCategory: stats.TopCategory,
		ByCategory:  byCategory,
	}
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	return expense.ParseDate(value)
}

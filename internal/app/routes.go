package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/spendcast/internal/rest"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Expenses
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expenses/clear", deps.ExpenseHandler.Clear).Methods("DELETE")
	r.HandleFunc("/api/expenses/{id:[0-9]+}", deps.ExpenseHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/categories", deps.ExpenseHandler.GetCategories).Methods("GET")

	// Forecast
	r.HandleFunc("/api/forecast", deps.ForecastHandler.GetForecast).Methods("GET")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")

	// Mock data
	r.HandleFunc("/api/generate", deps.MockDataHandler.Generate).Methods("POST")

	// Export
	r.HandleFunc("/api/export", deps.ExportHandler.ExportXlsx).Methods("GET")
	r.HandleFunc("/api/export/sheets", deps.GoogleHandler.ExportToSheets).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest.WriteError(w, http.StatusNotFound, "Endpoint not found", "")
	})
}

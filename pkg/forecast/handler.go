package forecast

import (
	"fmt"
	"math"
	"net/http"

	"github.com/klokku/spendcast/internal/rest"
	log "github.com/sirupsen/logrus"
)

type insufficientHistoryDTO struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CurrentWeeks  int    `json:"current_weeks"`
	RequiredWeeks int    `json:"required_weeks"`
}

type tooSparseDTO struct {
	Error          string  `json:"error"`
	Message        string  `json:"message"`
	ZeroPercentage float64 `json:"zero_percentage"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.Forecast(r.Context())
	if err != nil {
		log.Errorf("forecast failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Forecasting failed", err.Error())
		return
	}

	if outcome.Payload != nil {
		rest.WriteJSON(w, http.StatusOK, outcome.Payload)
		return
	}

	body, ok := RejectionBody(outcome.Verdict)
	if !ok {
		rest.WriteError(w, http.StatusInternalServerError, "Forecasting failed", "unknown verdict")
		return
	}
	rest.WriteJSON(w, http.StatusBadRequest, body)
}

// RejectionBody is the client facing explanation of a rejected ledger, keyed by the reason code under
// "error". It reports false for verdicts that are not rejections.
func RejectionBody(v Verdict) (any, bool) {
	switch v.Reason {
	case InsufficientHistory:
		return insufficientHistoryDTO{
			Error:         string(v.Reason),
			Message:       fmt.Sprintf("Need at least %d weeks of transaction history", v.RequiredWeeks),
			CurrentWeeks:  v.Weeks,
			RequiredWeeks: v.RequiredWeeks,
		}, true
	case TooSparse:
		return tooSparseDTO{
			Error:          string(v.Reason),
			Message:        "Too many weeks without transactions. Add more data.",
			ZeroPercentage: math.Round(v.ZeroFraction*1000) / 10,
		}, true
	}
	return nil, false
}

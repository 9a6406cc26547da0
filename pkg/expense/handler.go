package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/klokku/spendcast/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	Id          int     `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// CreateExpenseDTO keeps amount raw: clients send it both as a number and as a string.
type CreateExpenseDTO struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
}

type invalidCategoryResponse struct {
	Error           string   `json:"error"`
	ValidCategories []string `json:"valid_categories"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to fetch expenses", err.Error())
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, ToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "No data provided", err.Error())
		return
	}

	var missing []string
	if strings.TrimSpace(dto.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(dto.Category) == "" {
		missing = append(missing, "category")
	}
	if len(dto.Amount) == 0 || string(dto.Amount) == "null" {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		rest.WriteError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "), "")
		return
	}

	amount, err := decimal.NewFromString(strings.Trim(string(dto.Amount), `" `))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Amount must be a number", "")
		return
	}
	date, err := ParseDate(dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format", "")
		return
	}

	created, err := h.service.Create(r.Context(), Expense{
		Date:        date,
		Category:    Category(strings.TrimSpace(dto.Category)),
		Amount:      amount,
		Description: strings.TrimSpace(dto.Description),
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCategory):
		rest.WriteJSON(w, http.StatusBadRequest, invalidCategoryResponse{
			Error:           "Invalid category",
			ValidCategories: CategoryNames(),
		})
		return
	case errors.Is(err, ErrInvalidAmount):
		rest.WriteError(w, http.StatusBadRequest, "Amount must be positive", "")
		return
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrDescriptionTooLong):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	default:
		log.Errorf("failed to create expense: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to create expense", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"expense": ToDTO(created),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid expense id", err.Error())
		return
	}

	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrExpenseNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Expense not found", "")
		return
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to delete expense", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	// an empty or malformed body is treated as unconfirmed
	_ = json.NewDecoder(r.Body).Decode(&body)

	err := h.service.Clear(r.Context(), body.Confirm)
	if errors.Is(err, ErrConfirmationMissing) {
		rest.WriteError(w, http.StatusBadRequest, "Confirmation required", `Send {"confirm": true} to proceed`)
		return
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to clear expenses", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string][]string{"categories": CategoryNames()})
}

func ToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		Id:          e.Id,
		Date:        e.Date.Format(DateLayout),
		Category:    string(e.Category),
		Amount:      e.Amount.InexactFloat64(),
		Description: e.Description,
	}
}

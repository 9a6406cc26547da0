package expense

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*mux.Router, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	handler := NewHandler(NewService(repo, nil))

	router := mux.NewRouter()
	router.HandleFunc("/api/expenses", handler.GetAll).Methods("GET")
	router.HandleFunc("/api/expenses", handler.Create).Methods("POST")
	router.HandleFunc("/api/expenses/clear", handler.Clear).Methods("DELETE")
	router.HandleFunc("/api/expenses/{id:[0-9]+}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/categories", handler.GetCategories).Methods("GET")
	return router, repo
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"numeric amount", `{"date":"2024-03-01","category":"Food","amount":12.5,"description":"Cafe"}`, http.StatusCreated, ""},
		{"string amount", `{"date":"2024-03-01","category":"Food","amount":"12.5"}`, http.StatusCreated, ""},
		{"missing fields", `{"category":"Food"}`, http.StatusBadRequest, "Missing fields: date, amount"},
		{"non numeric amount", `{"date":"2024-03-01","category":"Food","amount":"abc"}`, http.StatusBadRequest, "Amount must be a number"},
		{"negative amount", `{"date":"2024-03-01","category":"Food","amount":-4}`, http.StatusBadRequest, "Amount must be positive"},
		{"bad date", `{"date":"03/01/2024","category":"Food","amount":4}`, http.StatusBadRequest, "Date must be in YYYY-MM-DD format"},
		{"not json", `nope`, http.StatusBadRequest, "No data provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupHandlerTest(t)

			rr := doRequest(router, "POST", "/api/expenses", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestHandler_Create_InvalidCategoryListsValidOnes(t *testing.T) {
	// given
	router, _ := setupHandlerTest(t)

	// when
	rr := doRequest(router, "POST", "/api/expenses", `{"date":"2024-03-01","category":"Pets","amount":4}`)

	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body invalidCategoryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid category", body.Error)
	assert.Contains(t, body.ValidCategories, "Shopping")
}

func TestHandler_GetAll(t *testing.T) {
	// given
	router, repo := setupHandlerTest(t)
	_, _ = repo.Store(ctx, newExpense("2024-03-02", Bills, "80"))
	_, _ = repo.Store(ctx, newExpense("2024-03-01", Food, "12.5"))

	// when
	rr := doRequest(router, "GET", "/api/expenses", "")

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	var dtos []ExpenseDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, ExpenseDTO{Id: 2, Date: "2024-03-01", Category: "Food", Amount: 12.5}, dtos[0])
}

func TestHandler_Delete(t *testing.T) {
	// given
	router, repo := setupHandlerTest(t)
	id, _ := repo.Store(ctx, newExpense("2024-03-02", Bills, "80"))

	// when
	first := doRequest(router, "DELETE", "/api/expenses/"+strconv.Itoa(id), "")
	second := doRequest(router, "DELETE", "/api/expenses/"+strconv.Itoa(id), "")

	// then
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusNotFound, second.Code)
	assert.JSONEq(t, `{"error":"Expense not found"}`, second.Body.String())
}

func TestHandler_Clear(t *testing.T) {
	// given
	router, repo := setupHandlerTest(t)
	_, _ = repo.Store(ctx, newExpense("2024-03-02", Bills, "80"))

	// when
	unconfirmed := doRequest(router, "DELETE", "/api/expenses/clear", `{}`)
	confirmed := doRequest(router, "DELETE", "/api/expenses/clear", `{"confirm":true}`)

	// then
	assert.Equal(t, http.StatusBadRequest, unconfirmed.Code)
	assert.Contains(t, unconfirmed.Body.String(), "Confirmation required")
	assert.Equal(t, http.StatusOK, confirmed.Code)
	stored, _ := repo.ListAll(ctx)
	assert.Empty(t, stored)
}

func TestHandler_GetCategories(t *testing.T) {
	router, _ := setupHandlerTest(t)

	rr := doRequest(router, "GET", "/api/categories", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"categories":["Food","Transport","Entertainment","Health","Bills","Shopping","Other"]}`, rr.Body.String())
}

package journal

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSalesPaginated(t *testing.T) {
	store, err := Open(writeJournal(t, `[
		{"timestamp":"t1","items":[{"id":"p1","quantity":1}],"profit":1},
		{"timestamp":"t2","items":[{"id":"p1","quantity":1}],"profit":2},
		{"timestamp":"t3","items":[{"id":"p1","quantity":1}],"profit":3}
	]`))
	require.NoError(t, err)

	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), store)
	r := chi.NewRouter()
	r.Route("/api", handler.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/sales?page=2&per_page=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sales      []SaleRecord `json:"sales"`
		Pagination struct {
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sales, 1)
	assert.Equal(t, "t3", resp.Sales[0].Timestamp)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestListSalesEmptyJournal(t *testing.T) {
	store, err := Open(writeJournal(t, `[]`))
	require.NoError(t, err)

	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), store)
	r := chi.NewRouter()
	r.Route("/api", handler.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sales":[]`)
}

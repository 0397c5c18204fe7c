package journal

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
	"github.com/atlas-pos/atlas-pos/internal/shared"
)

// Handler serves the read-only sales history.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes attaches journal routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.List)
}

type listResponse struct {
	Sales      []SaleRecord      `json:"sales"`
	Pagination shared.Pagination `json:"pagination"`
}

// List returns one page of sale records in append order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 1000 {
		perPage = 50
	}

	records, total := h.store.Page((page-1)*perPage, perPage)
	if records == nil {
		records = []SaleRecord{}
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		Sales:      records,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

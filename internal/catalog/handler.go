package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

// Handler serves the read-only catalog endpoints.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes attaches catalog routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Show)
}

// List returns every product in catalog order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.store.List())
}

// Show returns a single product by id.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := h.store.Get(id)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Product not found for ID: "+id)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

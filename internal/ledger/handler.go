package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

// Handler serves the read-only stock view.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes attaches ledger routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock", h.List)
}

// List returns current stock levels in ledger order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.store.List())
}

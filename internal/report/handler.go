package report

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

// Handler serves the aggregate sales report.
type Handler struct {
	logger  *slog.Logger
	service *Service
	flight  singleflight.Group
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches report routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/report", h.Show)
}

// Show handles GET /api/report. Concurrent requests collapse into a single
// summary computation.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch := h.flight.DoChan("summary", func() (any, error) {
		return h.service.Summarize(ctx)
	})

	select {
	case <-ctx.Done():
		httpx.Error(w, http.StatusServiceUnavailable, "Report unavailable.")
	case res := <-ch:
		if res.Err != nil {
			h.logger.Error("summarize sales", slog.Any("error", res.Err))
			httpx.Error(w, http.StatusInternalServerError, "Failed to build report.")
			return
		}
		httpx.JSON(w, http.StatusOK, res.Val.(Summary))
	}
}

package checkout

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

// Handler serves the checkout endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     *IdempotencyGuard
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, guard *IdempotencyGuard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes attaches checkout routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sale", h.Create)
}

// Create handles POST /api/sale.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid cart data.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if ok, err := h.guard.Claim(r.Context(), idemKey); err != nil {
		h.logger.Error("idempotency claim failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to save sale data.")
		return
	} else if !ok {
		httpx.Error(w, http.StatusConflict, "Duplicate sale request.")
		return
	}

	cart := make([]journal.CartLine, len(req.CartItems))
	for i, item := range req.CartItems {
		cart[i] = journal.CartLine{ID: item.ID, Quantity: item.Quantity}
	}

	record, err := h.service.Process(r.Context(), cart)
	if err != nil {
		// A rejected transaction must stay retryable under the same key.
		h.guard.Release(r.Context(), idemKey)
		h.respondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, SaleResponse{Message: "Sale recorded", Profit: record.Profit})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var notFound *ProductNotFoundError
	var outOfStock *OutOfStockError
	switch {
	case errors.Is(err, ErrInvalidCart):
		httpx.Error(w, http.StatusBadRequest, "Invalid cart data.")
	case errors.As(err, &notFound):
		httpx.Error(w, http.StatusNotFound, "Product not found for ID: "+notFound.ID)
	case errors.As(err, &outOfStock):
		httpx.JSON(w, http.StatusBadRequest, httpx.Message{
			Message: "Some items are out of stock",
			Items:   outOfStock.Items,
		})
	case errors.Is(err, ErrPersistence):
		httpx.Error(w, http.StatusInternalServerError, "Failed to save sale data.")
	default:
		h.logger.Error("checkout failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to save sale data.")
	}
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "CartItems" {
				return "Invalid cart data."
			}
		}
		return "Invalid item in cart."
	}
	return "Invalid cart data."
}

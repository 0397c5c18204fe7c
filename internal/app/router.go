package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/checkout"
	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/ledger"
	"github.com/atlas-pos/atlas-pos/internal/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	CatalogHandler  *catalog.Handler
	StockHandler    *ledger.Handler
	CheckoutHandler *checkout.Handler
	SalesHandler    *journal.Handler
	ReportHandler   *report.Handler
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.CatalogHandler.MountRoutes(r)
		params.StockHandler.MountRoutes(r)
		params.CheckoutHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.ReportHandler.MountRoutes(r)
	})

	if params.Config != nil && params.Config.AssetsDir != "" {
		if info, err := os.Stat(params.Config.AssetsDir); err == nil && info.IsDir() {
			fileServer := http.StripPrefix("/assets/", http.FileServer(http.Dir(params.Config.AssetsDir)))
			r.Get("/assets/*", fileServer.ServeHTTP)
		}
	}

	return r
}

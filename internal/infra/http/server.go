package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

func NewMux(exposeMetrics bool, exports *ExportHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	if exports != nil {
		mux.HandleFunc("GET /export/inventory.xlsx", exports.Inventory)
		mux.HandleFunc("GET /export/recipes.xlsx", exports.Recipes)
	}
	return mux
}

func New(addr string, exposeMetrics bool, exports *ExportHandler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewMux(exposeMetrics, exports),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

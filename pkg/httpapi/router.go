package httpapi

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/middleware"
)

// Config controls which optional middleware the router installs.
type Config struct {
	RequestTimeout time.Duration
	EnableCORS     bool
}

// NewRouter wires the full API route table and middleware chain:
// request → RequestID → [Metrics] → [CORS] → [Timeout] → mux
func NewRouter(h *Handler, m *metrics.Metrics, checker *health.Checker, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", h.StaticFile("index.html"))
	mux.HandleFunc("GET /app.js", h.StaticFile("app.js"))
	mux.HandleFunc("GET /styles.css", h.StaticFile("styles.css"))

	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("POST /build", h.Build)
	mux.HandleFunc("POST /scheduler", h.Scheduler)
	mux.HandleFunc("GET /status", h.Status)

	if checker != nil {
		mux.HandleFunc("GET /health/live", checker.LiveHandler())
		mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	}

	var chain http.Handler = mux
	if cfg.RequestTimeout > 0 {
		chain = middleware.Timeout(cfg.RequestTimeout)(chain)
	}
	if cfg.EnableCORS {
		chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	return chain
}

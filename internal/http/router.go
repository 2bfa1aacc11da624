// Package httpapi assembles the service router: the adjudication surface,
// the JWT-guarded audit surface, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adjudicatehandler "arbiter/internal/adjudicate/handler"
	ledgerhandler "arbiter/internal/ledger/handler"
	"arbiter/pkg/platform/middleware/auth"
	"arbiter/pkg/platform/middleware/requesttime"
	"arbiter/pkg/requestcontext"
)

// Deps carries the handlers and middleware the router mounts.
type Deps struct {
	Adjudicate *adjudicatehandler.Handler
	Ledger     *ledgerhandler.Handler
	Auth       *auth.Verifier
	Health     func() error
	Logger     *slog.Logger
}

// NewRouter wires all endpoints. Escalation and the audit surface require a
// bearer token; the adjudication surface relies on the fronting gateway for
// authentication.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(requestIDToContext)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		d.Adjudicate.Register(r)

		r.Group(func(r chi.Router) {
			if d.Auth != nil {
				r.Use(d.Auth.Middleware)
			}
			d.Adjudicate.RegisterEscalation(r)
			d.Ledger.Register(r)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(d.Health))

	return r
}

// requestIDToContext copies chi's request ID into our transport-agnostic
// context so services can log it without importing chi.
func requestIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = requestcontext.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

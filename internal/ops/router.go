package ops

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/ulid"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates the operational HTTP surface: liveness and metrics.
func NewRouter(health *HealthHandler, opsLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(mwRequestID(opsLogger))
	router.Use(mwRecoverer)

	router.Get("/healthz", health.ServeHTTP)
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}

// NewServer wraps the router in a server bound to the ops port.
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// mwRequestID attaches a request-scoped logger to context.
func mwRequestID(opsLogger loggers.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxWithReqLogger := opsLogger.With().
				Str(loggers.FieldRequestID, ulid.NewULID()).
				Logger().WithContext(r.Context())

			next.ServeHTTP(w, r.WithContext(ctxWithReqLogger))
		})
	}
}

// mwRecoverer provides panic recovery middleware.
func mwRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				loggers.Ctx(r.Context()).Error().
					Bytes(loggers.FieldErrorStack, debug.Stack()).
					Msgf("ops panic recovered: %v", p)

				http.Error(w, fmt.Sprintf("%v", p), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkiflo/arkiflo/pkg/composables"
)

// WithPool injects the database pool so services can open transactions
// outside the request transaction (pollers, seeders).
func WithPool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// WithTransaction opens one transaction per request. Commits on any status
// below 500; the transaction is rolled back when the handler panics or
// reports a server error.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Error("begin transaction")
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			committed := false
			defer func() {
				if !committed {
					_ = tx.Rollback(r.Context())
				}
			}()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(composables.WithTx(r.Context(), tx)))

			if sw.status < http.StatusInternalServerError {
				if err := tx.Commit(r.Context()); err != nil {
					composables.UseLogger(r.Context()).WithError(err).Error("commit transaction")
					return
				}
				committed = true
			}
		})
	}
}

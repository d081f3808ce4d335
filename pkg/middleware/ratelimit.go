package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/arkiflo/arkiflo/pkg/configuration"
)

// RateLimit applies the configured global requests-per-second budget.
// Returns a pass-through middleware when disabled.
func RateLimit() mux.MiddlewareFunc {
	conf := configuration.Use()
	if !conf.RateLimit.Enabled || conf.RateLimit.GlobalRPS == 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Second,
		Limit:  int64(conf.RateLimit.GlobalRPS),
	})
	lm := mhttp.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return lm.Handler(next)
	}
}

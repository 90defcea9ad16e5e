package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sprintflow/scoring/internal/auth"
	"github.com/sprintflow/scoring/internal/telemetry/metrics"
	"github.com/sprintflow/scoring/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per athlete and minute. Requests
// without a resolved athlete (health, unknown paths) share one bucket per
// route group. Exempt paths are never limited: the workouts webhook carries
// every athlete's writes behind one shared secret.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
	exemptPaths ...string,
) func(next http.Handler) http.Handler {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedPerMin <= 0 || r.Method == http.MethodOptions || exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := routerName
			if athleteID, ok := auth.AthleteIDFromContext(r.Context()); ok {
				key = routerName + "::" + athleteID.String()
			}

			res, err := rateLimiter.Allow(r.Context(), key, redis_rate.PerMinute(allowedPerMin))
			if err != nil {
				// the limiter is best effort, redis outages must not take scoring down
				log.Errorf("rate limit [%s]: %s", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			pkg.WriteJSONError(
				w,
				fmt.Sprintf("retry after %.0f seconds", res.RetryAfter.Seconds()),
				http.StatusTooManyRequests,
			)
		})
	}
}

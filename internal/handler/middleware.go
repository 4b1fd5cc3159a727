package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"eventbook/internal/monitoring"
)

// AccessLog logs each request with method, route, status, size, and duration,
// and feeds the request metrics. The route label uses the chi pattern, not the
// raw path, to keep metric cardinality bounded.
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")

			monitoring.ObserveRequest(r.Method, route, strconv.Itoa(ww.Status()), elapsed.Seconds())
		})
	}
}

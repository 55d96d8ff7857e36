package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type htmxKey struct{}

// HTMX marks requests coming from htmx so handlers can answer with a fragment
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		ctx := context.WithValue(r.Context(), htmxKey{}, is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsHTMX reports whether the request was marked by HTMX
func IsHTMX(ctx context.Context) bool {
	is, _ := ctx.Value(htmxKey{}).(bool)
	return is
}

// RequestLogger emits one structured log entry per request
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Bool("htmx", IsHTMX(r.Context())),
			)
		})
	}
}

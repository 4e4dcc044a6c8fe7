package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/auth"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type ctxKey int

const viewerKey ctxKey = iota

// ViewerFromContext returns the viewer identity attached by the auth
// middleware. An unauthenticated request yields the anonymous viewer.
func ViewerFromContext(ctx context.Context) models.Viewer {
	v, _ := ctx.Value(viewerKey).(models.Viewer)
	return v
}

// authMiddleware resolves the bearer credential into a viewer identity and
// stores it on the request context. Authentication is optional at this
// layer: a request without a credential proceeds as the anonymous viewer,
// and each handler decides what identity it requires. A credential that is
// present but invalid is rejected here.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(parts[1], []byte(s.config.SecretKey))
		if err != nil {
			s.logger.Info(r.Context(), "rejected bearer token", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		var viewer models.Viewer
		switch {
		case claims.UserID != 0:
			uid := claims.UserID
			viewer = models.Viewer{UserID: &uid, Name: claims.Name}
		case claims.InvitationID != nil:
			viewer = models.Viewer{InvitationID: claims.InvitationID, Name: claims.Name}
		}

		ctx := context.WithValue(r.Context(), viewerKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request counts, latency and in-flight gauge.
// The mux route template is used as the label so path parameters do not
// explode cardinality.
func metricsMiddleware(m *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.inFlight.Inc()
			defer m.inFlight.Dec()

			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
			m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// loggingMiddleware emits one structured line per request.
func loggingMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

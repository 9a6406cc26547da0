package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const requestIdHeader = "X-Request-Id"

type requestIdKey struct{}

// RequestId returns the id assigned to the request by the middleware, if any.
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Tag each request with an id, reusing the caller's one when present
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := req.Header.Get(requestIdHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIdHeader, id)
			ctx := context.WithValue(req.Context(), requestIdKey{}, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	// Access log and request metrics
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, req)

			elapsed := time.Since(started)
			route := routeTemplate(req)
			log.WithFields(log.Fields{
				"request_id": RequestId(req.Context()),
				"method":     req.Method,
				"route":      route,
				"status":     recorder.status,
				"duration":   elapsed,
			}).Debug("Handled request")

			if deps.Metrics != nil {
				deps.Metrics.HTTPRequests.WithLabelValues(route, req.Method, strconv.Itoa(recorder.status)).Inc()
				deps.Metrics.HTTPDuration.WithLabelValues(route, req.Method).Observe(elapsed.Seconds())
			}
		})
	})
}

// routeTemplate keeps metric labels bounded by using the matched route pattern instead of the raw path.
func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return "unmatched"
}

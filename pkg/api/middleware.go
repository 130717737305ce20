package api

import (
	"net/http"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

var knownPaths = map[string]bool{
	PathParse:   true,
	PathMatch:   true,
	PathRules:   true,
	PathHealth:  true,
	PathMetrics: true,
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument counts every request by path and status code group and logs it at debug level
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if !knownPaths[path] {
			path = "other"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(path, metrics.CodeGroupFor(rec.code).Name).Inc()

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"code":     rec.code,
			"duration": time.Since(start),
		}).Debugln("Handled request")
	})
}

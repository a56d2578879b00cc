package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// API surfaces used as the "surface" label.
const (
	SurfaceAPI   = "api"
	SurfaceMCP   = "mcp"
	SurfaceOps   = "ops"
	SurfaceOther = "other"
)

// apiPrefix is where the REST routes live. Their chi patterns are bounded, so
// they are used as route labels directly.
const apiPrefix = "/api/v1/"

// opsRoutes are served outside the API prefix and kept as their own labels.
var opsRoutes = map[string]bool{"/health": true, "/metrics": true}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "papyrus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			// Review generation dominates the tail; cheap directory reads sit in the first buckets.
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 20, 45, 60},
		},
		[]string{"method", "surface", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "papyrus",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "surface", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records HTTP request duration and count. mcpPath is the mount
// point of the MCP endpoint; every request below it shares one route label.
func Middleware(mcpPath string) func(next http.Handler) http.Handler {
	mcpPath = strings.TrimSuffix(mcpPath, "/")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			var pattern string
			if rc := chi.RouteContext(r.Context()); rc != nil {
				pattern = rc.RoutePattern()
			}
			surface, route := classifyRoute(pattern, mcpPath)
			labels := []string{r.Method, surface, route, strconv.Itoa(ww.status)}

			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// classifyRoute maps a matched chi pattern to its surface and a bounded route
// label. Unrouted requests (404s, scanners) never leak their raw path.
func classifyRoute(pattern, mcpPath string) (surface, route string) {
	switch {
	case pattern == "":
		return SurfaceOther, "unmatched"
	case strings.HasPrefix(pattern, apiPrefix):
		return SurfaceAPI, pattern
	case mcpPath != "" && (pattern == mcpPath || strings.HasPrefix(pattern, mcpPath+"/")):
		return SurfaceMCP, mcpPath
	case opsRoutes[pattern]:
		return SurfaceOps, pattern
	default:
		return SurfaceOther, "other"
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}

// Flush lets streamed MCP responses through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/profile"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/respond"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level. The Authorization
// header is never logged.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers. Responses are
// JSON only, so the content policy denies everything.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			// bearer tokens must not end up in shared caches
			w.Header().Set("Cache-Control", "no-store")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware answers preflight requests and sets the allow headers for
// the configured origins. "*" allows any origin.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the handlers and collaborators the routes are built from.
type Deps struct {
	Accounts       *account.Handler
	Profiles       *profile.Handler
	Gate           *auth.Gate
	DB             Pinger
	AllowedOrigins []string
}

// Endpoint describes one mounted route.
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type route struct {
	Endpoint
	handler http.HandlerFunc
}

// RegisterRoutes mounts the HTTP handlers on the standard library's
// http.ServeMux and wraps them with CORS, security headers and logging.
func RegisterRoutes(logger *zap.SugaredLogger, d Deps) http.Handler {
	routes := []route{
		{Endpoint{http.MethodPost, "/users"}, d.Accounts.Register},
		{Endpoint{http.MethodPost, "/sessions"}, d.Accounts.Login},
		{Endpoint{http.MethodPost, "/profiles"}, d.Gate.Protect(d.Profiles.Create)},
		{Endpoint{http.MethodGet, "/profiles"}, d.Gate.Protect(d.Profiles.Get)},
		{Endpoint{http.MethodGet, "/health"}, health(d.DB, logger)},
	}
	endpoints := make([]Endpoint, 0, len(routes)+1)
	endpoints = append(endpoints, Endpoint{http.MethodGet, "/"})
	for _, rt := range routes {
		endpoints = append(endpoints, rt.Endpoint)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, endpoints)
	})
	for _, rt := range routes {
		mux.HandleFunc(rt.Method+" "+rt.Path, rt.handler)
	}

	handler := CORSMiddleware(d.AllowedOrigins)(mux)
	handler = SecurityHeadersMiddleware()(handler)
	return LoggingMiddleware(logger)(handler)
}

func health(db Pinger, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Warnw("health check failed", "err", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

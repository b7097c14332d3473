package fixture

import (
	"encoding/json"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/glabrego/reviews-cli/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// NewServer routes the review backend API over src. A nil registry leaves
// /metrics unmounted.
func NewServer(src *Source, reg *prometheus.Registry, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/reviews", listReviews(src))
	r.Get("/images/{name}", serveImage)
	if reg != nil {
		r.Handle("/metrics", metrics.Handler(reg))
	}
	return r
}

func listReviews(src *Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := intParam(r, "offset", 0)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "offset must be a non-negative integer")
			return
		}
		limit, err := intParam(r, "limit", 20)
		if err != nil || limit == 0 {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "limit must be a positive integer")
			return
		}

		page, err := src.GetPage(r.Context(), offset, limit)
		if err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("write reviews response failed")
		}
	}
}

func serveImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if path.Ext(name) != ".png" || strings.ContainsAny(name, "/\\") {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown image")
		return
	}
	data, err := PlaceholderPNG(strings.TrimSuffix(name, ".png"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "render image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

func intParam(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{Title: title, Status: status, Detail: detail})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(l.WithContext(r.Context())))

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ObserveHTTP(route, status)
			l.Info().
				Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http_request")
		})
	}
}

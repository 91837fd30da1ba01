package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/maruel/ksid"
	"github.com/maruel/userdb/internal/server/ipgeo"
	"github.com/maruel/userdb/internal/server/reqctx"
)

// statusRecorder remembers the status code and the number of bytes written.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger stores the request metadata in the context, tags the response
// with a request id and logs one line per request. geo may be nil.
func RequestLogger(geo *ipgeo.Checker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := ksid.NewID()
		ip := reqctx.GetClientIP(r)
		cc := geo.CountryCode(ip)

		ctx := reqctx.WithRequestID(r.Context(), id)
		ctx = reqctx.WithClientIP(ctx, ip)
		ctx = reqctx.WithUserAgent(ctx, r.Header.Get("User-Agent"))
		ctx = reqctx.WithCountryCode(ctx, cc)

		w.Header().Set("X-Request-ID", id.String())
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "http",
			"m", r.Method,
			"p", r.URL.Path,
			"s", rec.status,
			"sz", rec.size,
			"d", time.Since(start).Round(time.Millisecond/10),
			"id", id.String(),
			"ip", ip,
			"cc", cc,
		)
	})
}

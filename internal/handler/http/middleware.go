package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"smartnotes/internal/handler/http/requestid"
	"smartnotes/internal/handler/http/respond"
	"smartnotes/internal/handler/http/responsewriter"
	"smartnotes/internal/observability/logging"

	"golang.org/x/time/rate"
)

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Logging emits one "request completed" line per request and stores a
// request-scoped logger (request_id, trace_id) for logging.FromContext.
// 5xx responses log at error level.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			ctx := r.Context()
			l := logging.WithTrace(ctx, logging.WithRequestID(ctx, logger))
			rw := responsewriter.Wrap(w)

			next.ServeHTTP(rw, r.WithContext(logging.WithLogger(ctx, l)))

			level := slog.LevelInfo
			if rw.StatusCode() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			took := time.Since(began)
			l.LogAttrs(ctx, level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int("status", rw.StatusCode()),
				slog.Int("bytes", rw.BytesWritten()),
				slog.Duration("duration", took),
				slog.Float64("duration_ms", float64(took.Microseconds())/1000),
			)
		})
	}
}

// Recover turns a handler panic into a 500 and logs it with the stack.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				switch v {
				case nil:
					return
				case http.ErrAbortHandler:
					panic(v)
				}
				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", v),
					slog.String("stack", string(debug.Stack())))
				respond.SafeError(w, http.StatusInternalServerError, errors.New("panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody returns middleware that limits the size of request bodies.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ClientLimiter is a per-client token bucket guarding routes that call out
// to remote services (summaries, tags, grammar checks, imports).
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientEntry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	proxies  TrustedProxies
	now      func() time.Time
	lastGC   time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows perMinute requests per client with the given burst.
// Clients are keyed by proxies.ClientIP.
func NewClientLimiter(perMinute, burst int, proxies TrustedProxies) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*clientEntry),
		rate:     rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		proxies:  proxies,
		now:      time.Now,
		lastGC:   time.Now(),
	}
}

// Limit returns 429 once the client has used up its bucket.
func (cl *ClientLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.allow(cl.proxies.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respond.SafeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LimitMatching applies Limit only to requests for which match returns true.
func (cl *ClientLimiter) LimitMatching(match func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := cl.Limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match(r) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallsRemote reports whether the request reaches a remote service: clipping,
// digests, AI summaries and tags, and grammar checks.
func CallsRemote(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	switch r.URL.Path {
	case "/notes/import", "/ai/summary", "/ai/tags", "/grammar/check":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/notes/") && strings.HasSuffix(r.URL.Path, "/digest")
}

func (cl *ClientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastGC) > cl.idleTTL {
		for k, e := range cl.limiters {
			if now.Sub(e.lastSeen) > cl.idleTTL {
				delete(cl.limiters, k)
			}
		}
		cl.lastGC = now
	}

	e, ok := cl.limiters[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

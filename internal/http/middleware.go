package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns every request an X-Request-ID, stores a request scoped
// logger in the context and logs the outcome once the handler returns.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(ContextWithRequestID(r.Context(), id), logger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else if rec.status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "request completed", "status", rec.status, "duration", time.Since(start))
		})
	}
}

// Recover turns a panic in a handler into a 500 response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					responder.loggerFor(r.Context()).ErrorContext(r.Context(), "handler panicked", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
					responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS answers preflight requests and sets the allow headers for the
// configured origins. "*" allows any origin and echoes it back.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				_, ok := allowed[origin]
				if allowAll || ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
					h.Set("Access-Control-Expose-Headers", requestIDHeader)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginLimiter throttles login attempts per client address. X-Forwarded-For
// is only read when the peer is one of the trusted proxies.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	maxKeys  int
	trusted  []netip.Prefix

	responder responder
	onReject  func()
}

// NewLoginLimiter allows perSecond attempts per client with the given burst.
func NewLoginLimiter(perSecond float64, burst int, logger *slog.Logger) *LoginLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &LoginLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		maxKeys:   10000,
		responder: newResponder(logger),
	}
}

// TrustProxies lists the peers allowed to report the client address through
// X-Forwarded-For.
func (l *LoginLimiter) TrustProxies(prefixes ...netip.Prefix) {
	l.trusted = append(l.trusted[:0], prefixes...)
}

// OnReject registers fn to run for every throttled request.
func (l *LoginLimiter) OnReject(fn func()) {
	l.onReject = fn
}

func (l *LoginLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Handler rejects requests over the limit with 429.
func (l *LoginLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.clientKey(r)
		if !l.limiter(key).Allow() {
			l.responder.loggerFor(r.Context()).WarnContext(r.Context(), "login rate limit exceeded", "client", key)
			if l.onReject != nil {
				l.onReject()
			}
			w.Header().Set("Retry-After", "1")
			l.responder.writeError(r.Context(), w, http.StatusTooManyRequests, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey returns the peer address, or the nearest untrusted hop of
// X-Forwarded-For when the peer is a trusted proxy.
func (l *LoginLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !l.isTrusted(host) {
		return host
	}

	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(value, ",")...)
	}
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return host
}

func (l *LoginLimiter) isTrusted(host string) bool {
	if len(l.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range l.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

package httpapi

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
	ContextRole      = "role"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

// Logger writes one line per request. Bodies are never logged since they
// may carry passwords.
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("role", c.GetString(ContextRole)).
			Msg("request")
	}
}

func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("request panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}

// CORS allows the listed origins, or any origin when the list holds "*".
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSpace(o)] = true
	}
	methods := strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
			c.Header("Access-Control-Max-Age", strconv.Itoa(86400))
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Authenticate requires a valid bearer token and stores its role in the
// context.
func Authenticate(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing or malformed authorization header"})
			return
		}

		claims, err := authenticator.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}

		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.Role(c.GetString(ContextRole)) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

// ipRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than the eviction window are dropped.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

const limiterIdleTTL = 10 * time.Minute

func newIPRateLimiter(limit rate.Limit, burst int, idle time.Duration) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = limiterIdleTTL
	}
	return &ipRateLimiter{
		limiters: cache.New(idle, idle),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if cached, ok := l.limiters.Get(ip); ok {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// Setting again on every hit slides the expiry.
	l.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

func (l *ipRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit == rate.Inf {
			c.Next()
			return
		}
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: "too many login attempts"})
			return
		}
		c.Next()
	}
}

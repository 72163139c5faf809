package httpx

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.Printf("[http] rid=%v %s %s status=%d dur=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// BodyLimit caps request bodies at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// APIKey gates admin operations behind the shared x-api-key header.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got := c.GetHeader("x-api-key"); got == "" || got != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Acesso não autorizado. API Key inválida."})
			return
		}
		c.Next()
	}
}

// RateLimiter counts requests per client IP over a fixed window.
type RateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	seen   map[string]*ipWindow
}

type ipWindow struct {
	count int
	start time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window, seen: make(map[string]*ipWindow)}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rl.mu.Lock()
		w, ok := rl.seen[ip]
		if !ok || now.Sub(w.start) > rl.window {
			rl.seen[ip] = &ipWindow{count: 1, start: now}
			rl.mu.Unlock()
			c.Next()
			return
		}
		w.count++
		count := w.count
		remaining := w.start.Add(rl.window).Sub(now)
		rl.mu.Unlock()

		if count > rl.max {
			retryAfter := int((remaining + time.Second - 1) / time.Second)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"erro":       "Muitas requisições. Tente novamente em breve.",
				"retryAfter": retryAfter,
			})
			return
		}
		c.Next()
	}
}

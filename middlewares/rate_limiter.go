package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/cafe-fausse/utils"
	"golang.org/x/time/rate"
)

// Limiter is anything that can throttle a route group.
type Limiter interface {
	RateLimit() gin.HandlerFunc
}

// RateLimiter is an in-process token bucket per client IP and route.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.Mutex
	clients map[string]*clientBucket
	lastGC  time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window per client, refilled evenly.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	return &RateLimiter{
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		idleTTL: 2 * window,
		clients: make(map[string]*clientBucket),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(rateKey(c), time.Now()) {
			tooManyRequests(c, 0)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastGC) > rl.idleTTL {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastGC = now
	}

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// RedisRateLimiter shares a fixed-window counter across instances. When
// Redis errors the request is let through.
type RedisRateLimiter struct {
	rdb      *redis.Client
	requests int
	window   time.Duration
	prefix   string
}

func NewRedisRateLimiter(rdb *redis.Client, requests int, window time.Duration, prefix string) *RedisRateLimiter {
	if requests < 1 {
		requests = 1
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisRateLimiter{rdb: rdb, requests: requests, window: window, prefix: prefix}
}

func (rl *RedisRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		windowStart := time.Now().Truncate(rl.window).Unix()
		key := fmt.Sprintf("%s:%s:%d", rl.prefix, rateKey(c), windowStart)

		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			utils.Info().WithError(err).WithField("key", key).Warn("rate limit: redis unavailable, allowing request")
			c.Next()
			return
		}

		count := incr.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		remaining := int64(rl.requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.requests) {
			retry := time.Unix(windowStart, 0).Add(rl.window).Sub(time.Now())
			tooManyRequests(c, retry)
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.ClientIP() + "|" + c.Request.Method + " " + route
}

func tooManyRequests(c *gin.Context, retryAfter time.Duration) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"ok":      false,
		"message": "Too many requests, please wait a moment and try again.",
	})
}

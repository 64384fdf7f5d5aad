package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cppla/qaforum/config"
	"github.com/cppla/qaforum/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

// limiterSet holds one token bucket per client IP.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

// RateLimitMiddleware throttles requests per client IP to cfg.RateLimitPerMinute.
// With the redis backend the counters are shared by every instance behind the load balancer.
func RateLimitMiddleware(cfg config.AppConfig) gin.HandlerFunc {
	perMinute := max(cfg.RateLimitPerMinute, 1)
	if cfg.RateLimitBackend == config.RateLimitRedis {
		return redisRateLimit(utils.GetRedis(cfg), perMinute)
	}
	return memoryRateLimit(perMinute)
}

func memoryRateLimit(perMinute int) gin.HandlerFunc {
	set := &limiterSet{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}

	return func(ctx *gin.Context) {
		limiter := set.get(ctx.ClientIP())

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			utils.AbortWithError(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

func (s *limiterSet) get(key string) *rateLimiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupExpiredLocked()

	if limiter, ok := s.limiters[key]; ok {
		limiter.expires = time.Now().Add(5 * time.Minute)
		return limiter
	}

	limiter := &rateLimiter{
		limiter: rate.NewLimiter(s.limit, s.burst),
		expires: time.Now().Add(5 * time.Minute),
	}
	s.limiters[key] = limiter
	return limiter
}

func (s *limiterSet) cleanupExpiredLocked() {
	now := time.Now()
	for key, limiter := range s.limiters {
		if now.After(limiter.expires) {
			delete(s.limiters, key)
		}
	}
}

// redisRateLimit counts requests in fixed one-minute windows. Redis errors fail open.
func redisRateLimit(cli *redis.Client, perMinute int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rctx, cancel := context.WithTimeout(ctx.Request.Context(), 500*time.Millisecond)
		defer cancel()

		window := time.Now().Unix() / 60
		key := "ratelimit:" + ctx.ClientIP() + ":" + strconv.FormatInt(window, 10)
		n, err := cli.Incr(rctx, key).Result()
		if err != nil {
			utils.Sugar.Debugf("rate limit counter unavailable key=%s err=%v", key, err)
			ctx.Next()
			return
		}
		if n == 1 {
			_ = cli.Expire(rctx, key, 2*time.Minute).Err()
		}
		if n > int64(perMinute) {
			utils.AbortWithError(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

// internal/middleware/rate_limit.go
package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client. Authenticated requests are
// keyed by user id, anonymous ones by IP.
type RateLimiter struct {
	visitors  map[string]*visitor
	mtx       sync.Mutex
	rate      rate.Limit
	perMinute int
	burst     int
	idle      time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute, burst int, idle time.Duration) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 3 * time.Minute
	}

	rl := &RateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      limit,
		perMinute: perMinute,
		burst:     burst,
		idle:      idle,
		stop:      make(chan struct{}),
	}
	go rl.cleanupVisitors()
	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mtx.Lock()
			for key, v := range rl.visitors {
				if now.Sub(v.lastSeen) > rl.idle {
					delete(rl.visitors, key)
				}
			}
			rl.mtx.Unlock()
		}
	}
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// retryAfter is the whole seconds until the next token.
func (rl *RateLimiter) retryAfter() string {
	if rl.perMinute <= 0 {
		return "1"
	}
	return strconv.Itoa((60 + rl.perMinute - 1) / rl.perMinute)
}

func clientKey(c *gin.Context) string {
	if userID, ok := utils.GetUserIDFromContext(c); ok {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate == rate.Inf {
			c.Next()
			return
		}

		if !rl.getVisitor(clientKey(c)).Allow() {
			c.Header("Retry-After", rl.retryAfter())
			utils.TooManyRequestsResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeySystemRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimits holds the general, upload and public verification limiters.
type RateLimits struct {
	general *RateLimiter
	upload  *RateLimiter
	verify  *RateLimiter
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	idle := time.Duration(cfg.VisitorTTL) * time.Minute
	return &RateLimits{
		general: NewRateLimiter(cfg.GeneralPerMinute, cfg.GeneralBurst, idle),
		upload:  NewRateLimiter(cfg.UploadPerMinute, cfg.UploadBurst, idle),
		verify:  NewRateLimiter(cfg.VerifyPerMinute, cfg.VerifyBurst, idle),
	}
}

func (r *RateLimits) General() gin.HandlerFunc { return r.general.Middleware() }

func (r *RateLimits) Upload() gin.HandlerFunc { return r.upload.Middleware() }

func (r *RateLimits) Verify() gin.HandlerFunc { return r.verify.Middleware() }

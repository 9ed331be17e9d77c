package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/utils"
)

// IPRateLimiter throttles the authentication forms per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rate    rate.Limit
	burst   int
	idle    time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows perMinute requests per IP, with bursts up to
// perMinute. A non positive perMinute disables throttling.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	rl := &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		rate:    rate.Inf,
		idle:    10 * time.Minute,
	}
	if perMinute > 0 {
		rl.rate = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = perMinute
	}
	go rl.cleanup()
	return rl
}

func (r *IPRateLimiter) limiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(r.rate, r.burst)}
		r.entries[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Reserve reports whether ip may proceed now and, if not, how long to wait.
func (r *IPRateLimiter) Reserve(ip string) (bool, time.Duration) {
	lim := r.limiter(ip)
	if lim.Allow() {
		return true, 0
	}
	res := lim.Reserve()
	wait := res.Delay()
	res.Cancel()
	return false, wait
}

func (r *IPRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := r.Reserve(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		retry := int(math.Ceil(wait.Seconds()))
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		utils.ErrorWith(c, http.StatusTooManyRequests, &utils.ErrorInfo{
			Code:    "TOO_MANY_REQUESTS",
			Message: i18n.T(Language(c), "auth.too_many_requests"),
			Extra:   gin.H{"retry_after": retry},
		})
		c.Abort()
	}
}

func (r *IPRateLimiter) cleanup() {
	ticker := time.NewTicker(r.idle)
	defer ticker.Stop()
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, e := range r.entries {
			if now.Sub(e.lastSeen) > r.idle {
				delete(r.entries, ip)
			}
		}
		r.mu.Unlock()
	}
}

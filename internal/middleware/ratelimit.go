package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UploadLimiter ограничивает частоту загрузок на пользователя (или IP для анонима).
type UploadLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewUploadLimiter: perMinute запросов в минуту с таким же burst.
func NewUploadLimiter(perMinute int) *UploadLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &UploadLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *UploadLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// WithRateLimit отвечает 429, когда ключ исчерпал лимит.
func WithRateLimit(l *UploadLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if id, ok := GetIdentityFromContext(r.Context()); ok {
				key = "user:" + id.ID
			}
			if !l.limiter(key).Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many uploads, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

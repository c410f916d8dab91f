package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// defaultMaxKeys 达到上限后先淘汰已回满的令牌桶，淘汰它们不丢失限流状态
const defaultMaxKeys = 10000

// KeyedLimiter 按 key（用户ID）维护独立的令牌桶
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	maxKeys  int
}

func NewKeyedLimiter(r rate.Limit, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
		maxKeys:  defaultMaxKeys,
	}
}

// Allow rate 为 Inf 时总是放行
func (l *KeyedLimiter) Allow(key string) bool {
	if l.rate == rate.Inf {
		return true
	}
	return l.get(key).Allow()
}

func (l *KeyedLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxKeys {
			l.evict()
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// evict 删除所有已回满的桶；都未回满时删除剩余令牌最多的一个，
// 被限流中的 key 最后才会被淘汰
func (l *KeyedLimiter) evict() {
	full := float64(l.burst)
	victim := ""
	most := -1.0
	for key, limiter := range l.limiters {
		tokens := limiter.Tokens()
		if tokens >= full {
			delete(l.limiters, key)
			continue
		}
		if tokens > most {
			most = tokens
			victim = key
		}
	}
	if len(l.limiters) >= l.maxKeys && victim != "" {
		delete(l.limiters, victim)
	}
}

func (l *KeyedLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

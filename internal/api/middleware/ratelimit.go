package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgTooManyRequests = "слишком много запросов, повторите позже"

	defaultBurst   = 5
	defaultIdleTTL = 10 * time.Minute
)

// RateLimitOptions параметры ограничителя
type RateLimitOptions struct {
	RPS   float64
	Burst int
	// TrustForwardedFor брать адрес клиента из X-Forwarded-For
	// Включать только за доверенным прокси: иначе заголовок подделывается клиентом
	TrustForwardedFor bool
	// IdleTTL через сколько удаляется лимитер клиента без запросов
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time

	rps               rate.Limit
	burst             int
	trustForwardedFor bool
	idleTTL           time.Duration
	now               func() time.Time
}

// NewRateLimiter создает ограничитель с rps запросов в секунду и запасом burst
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	return &RateLimiter{
		clients:           make(map[string]*clientLimiter),
		rps:               rate.Limit(opts.RPS),
		burst:             opts.Burst,
		trustForwardedFor: opts.TrustForwardedFor,
		idleTTL:           opts.IdleTTL,
		now:               time.Now,
	}
}

// Middleware отвечает 429, если клиент исчерпал лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(l.clientIP(r)).Allow() {
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter
}

// evictIdle удаляет лимитеры клиентов, не приходивших дольше idleTTL
// Обход выполняется не чаще раза в idleTTL; вызывается под l.mu
func (l *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now

	for key, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.idleTTL {
			delete(l.clients, key)
		}
	}
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientIP адрес клиента: RemoteAddr, либо первый адрес X-Forwarded-For для доверенного прокси
func (l *RateLimiter) clientIP(r *http.Request) string {
	if l.trustForwardedFor {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

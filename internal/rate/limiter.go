package rate

import (
	"context"
	"sync"
	"time"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// MemoryLimiter: fixed window sencillo en memoria (contador por key).
// Suficiente para limitar fetches al JWKS remoto: el límite es por proceso,
// igual que el cache de claves cuando el backend es memory.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	hits  int64
}

func NewMemoryLimiter(max int, win time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if win <= 0 {
		win = time.Minute
	}
	return &MemoryLimiter{
		Max:     int64(max),
		Window:  win,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	w, ok := l.windows[key]
	if !ok || !w.start.Equal(winStart) {
		w = &window{start: winStart}
		l.windows[key] = w
	}
	w.hits++
	hits := w.hits

	// Limpieza oportunista de ventanas viejas
	if len(l.windows) > 64 {
		for k, old := range l.windows {
			if !old.start.Equal(winStart) {
				delete(l.windows, k)
			}
		}
	}
	l.mu.Unlock()

	ttl := winStart.Add(l.Window).Sub(now)
	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !allowed {
		// Retry after: resto de la ventana
		res.RetryAfter = ttl
	}
	return res, nil
}

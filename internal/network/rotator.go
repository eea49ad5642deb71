package network

import (
	"errors"
	"net/url"
	"sync"
	"time"
)

// DefaultCooldown is how long a proxy sits out after a 403 or 429.
const DefaultCooldown = 10 * time.Minute

// ErrNoProxies means every configured proxy is cooling down, or none were
// configured at all.
var ErrNoProxies = errors.New("no proxies available")

// Rotator hands out proxies round-robin and benches the ones the upstream
// rejects. Safe for concurrent use.
type Rotator struct {
	proxies      []string
	cooldown     time.Duration
	coolingUntil map[string]time.Time
	index        int
	mu           sync.Mutex
}

// NewRotator validates and adopts the proxy URLs.
func NewRotator(raw []string, cooldown time.Duration) (*Rotator, error) {
	rotator := &Rotator{
		cooldown:     cooldown,
		coolingUntil: map[string]time.Time{},
	}

	for _, proxy := range raw {
		if _, err := url.Parse(proxy); err != nil {
			return nil, err
		}
		rotator.proxies = append(rotator.proxies, proxy)
	}

	return rotator, nil
}

// Next returns the next usable proxy.
func (r *Rotator) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return "", ErrNoProxies
	}

	start := r.index
	for {
		proxy := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)

		if !r.cooling(proxy) {
			return proxy, nil
		}

		if r.index == start {
			return "", ErrNoProxies
		}
	}
}

// Report benches the proxy when the status indicates the upstream blocked or
// throttled it.
func (r *Rotator) Report(proxy string, status int) {
	if proxy == "" {
		return
	}
	if status != 403 && status != 429 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.coolingUntil[proxy] = time.Now().Add(r.cooldown)
}

func (r *Rotator) cooling(proxy string) bool {
	until, ok := r.coolingUntil[proxy]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(r.coolingUntil, proxy)
		return false
	}
	return true
}

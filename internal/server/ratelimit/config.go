// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Scope defines how rate limit keys are determined.
type Scope int

const (
	// ScopeIP uses client IP address as the rate limit key.
	ScopeIP Scope = iota
	// ScopeTenant uses the authenticated tenant ID as the rate limit key.
	ScopeTenant
)

// Tier defines a rate limit tier with its limiter and scope. A nil Limiter
// disables the tier.
type Tier struct {
	Name    string
	Limiter *Limiter
	Scope   Scope
}

// Limiters holds the rate limiters of every tier.
type Limiters struct {
	Auth  Tier
	Write Tier
	Read  Tier
}

// NewLimiters creates the tiers from per-minute rates. 0 disables a tier.
func NewLimiters(authPerMin, writePerMin, readPerMin int) *Limiters {
	return &Limiters{
		Auth:  Tier{Name: "auth", Limiter: perMinute(authPerMin, authPerMin), Scope: ScopeIP},
		Write: Tier{Name: "write", Limiter: perMinute(writePerMin, max(writePerMin/6, 1)), Scope: ScopeTenant},
		Read:  Tier{Name: "read", Limiter: perMinute(readPerMin, max(readPerMin/6, 1)), Scope: ScopeTenant},
	}
}

func perMinute(n, burst int) *Limiter {
	if n <= 0 {
		return nil
	}
	return NewLimiter(n, time.Minute, burst)
}

// MatchUnauth returns the tier for unauthenticated requests.
// Returns nil for paths that should not be rate limited.
func (l *Limiters) MatchUnauth(method, path string) *Tier {
	if isAuthEndpoint(method, path) {
		return active(&l.Auth)
	}
	return nil
}

// MatchAuth returns the tier for authenticated requests.
// Returns nil for paths that should not be rate limited.
func (l *Limiters) MatchAuth(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return active(&l.Write)
	case http.MethodGet:
		return active(&l.Read)
	}
	return nil
}

func active(t *Tier) *Tier {
	if t.Limiter == nil {
		return nil
	}
	return t
}

// Close stops all limiter cleanup goroutines.
func (l *Limiters) Close() {
	for _, t := range []*Tier{&l.Auth, &l.Write, &l.Read} {
		if t.Limiter != nil {
			t.Limiter.Close()
		}
	}
}

// isAuthEndpoint checks if the path is a credential-checking endpoint.
func isAuthEndpoint(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	return strings.HasPrefix(path, "/api/v1/auth/") && (strings.HasSuffix(path, "/login") || strings.HasSuffix(path, "/signup"))
}

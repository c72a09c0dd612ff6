package utils

import (
	"sync"
	"time"
)

// TokenBlacklist holds revoked tokens until they would have expired anyway.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: make(map[string]time.Time), now: time.Now}
}

// Revoke blacklists token until expiresAt. A zero expiresAt falls back to the token lifetime.
func (b *TokenBlacklist) Revoke(token string, expiresAt time.Time) {
	if expiresAt.IsZero() {
		expiresAt = b.now().Add(jwtTTL)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiresAt
}

func (b *TokenBlacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()
	if !exists {
		return false
	}
	if b.now().Before(expiry) {
		return true
	}

	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false
}

// Cleanup drops expired entries and returns how many were removed.
func (b *TokenBlacklist) Cleanup() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	removed := 0
	for token, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}

// ValidateToken parses tokenString and rejects revoked tokens.
func (b *TokenBlacklist) ValidateToken(tokenString string) (*CustomClaims, error) {
	if b.IsRevoked(tokenString) {
		return nil, ErrInvalidToken
	}
	return ParseToken(tokenString)
}

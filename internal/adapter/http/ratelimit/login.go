package ratelimit

import (
	"sync"
	"time"
)

type attemptRecord struct {
	count        int
	lastAttempt  time.Time
	blockedUntil time.Time
}

// LoginRateLimiter blocks a client after too many login attempts in a
// sliding window.
type LoginRateLimiter struct {
	mu             sync.Mutex
	attempts       map[string]*attemptRecord
	maxAttempts    int
	windowDuration time.Duration
	blockDuration  time.Duration
}

func NewLoginRateLimiter(maxAttempts int, windowDuration, blockDuration time.Duration) *LoginRateLimiter {
	limiter := &LoginRateLimiter{
		attempts:       make(map[string]*attemptRecord),
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
		blockDuration:  blockDuration,
	}

	go limiter.cleanup()

	return limiter
}

// Check records an attempt and reports whether the client may proceed,
// with the remaining block time when not.
func (r *LoginRateLimiter) Check(clientID string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	record, exists := r.attempts[clientID]
	if !exists {
		record = &attemptRecord{lastAttempt: now}
		r.attempts[clientID] = record
	}

	if now.Before(record.blockedUntil) {
		return false, record.blockedUntil.Sub(now)
	}

	if now.Sub(record.lastAttempt) > r.windowDuration {
		record.count = 0
	}

	record.count++
	record.lastAttempt = now

	if record.count > r.maxAttempts {
		record.blockedUntil = now.Add(r.blockDuration)
		return false, r.blockDuration
	}

	return true, 0
}

// Reset clears a client's record after a successful login.
func (r *LoginRateLimiter) Reset(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attempts, clientID)
}

func (r *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for clientID, record := range r.attempts {
			if now.Sub(record.lastAttempt) > r.windowDuration*2 && now.After(record.blockedUntil) {
				delete(r.attempts, clientID)
			}
		}
		r.mu.Unlock()
	}
}

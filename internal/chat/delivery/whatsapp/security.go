package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityConfig holds the webhook's verification settings.
type SecurityConfig struct {
	// VerifyToken answers Meta's GET verification handshake.
	VerifyToken string

	// AppSecret signs webhook payloads (X-Hub-Signature-256).
	// Signature validation is skipped when empty.
	AppSecret string

	// RateLimitPerMin caps inbound messages per sender.
	RateLimitPerMin int
}

// SecurityValidator validates webhook requests.
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	if config.RateLimitPerMin <= 0 {
		config.RateLimitPerMin = 60
	}
	return &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
	}
}

// VerifySubscription checks the GET handshake parameters and returns
// the challenge to echo back.
func (v *SecurityValidator) VerifySubscription(mode, token, challenge string) (string, error) {
	if mode != "subscribe" {
		return "", fmt.Errorf("unsupported hub.mode %q", mode)
	}
	if token == "" || token != v.config.VerifyToken {
		return "", fmt.Errorf("verify token mismatch")
	}
	return challenge, nil
}

// ValidateSignature verifies Meta's payload signature. Meta sends it as
// "sha256=<hex>" over an HMAC of the raw body with the app secret.
func (v *SecurityValidator) ValidateSignature(payload []byte, signature string) error {
	if v.config.AppSecret == "" {
		return nil
	}

	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}

	expectedSig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("invalid signature hex encoding: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(v.config.AppSecret))
	mac.Write(payload)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expectedSig, mac.Sum(nil)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// CheckRateLimit enforces the per-sender rate limit.
func (v *SecurityValidator) CheckRateLimit(sender string) error {
	return v.rateLimiter.Allow(sender)
}

// rateLimiter keeps one token bucket per sender with auto-cleanup.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,
			nil,
			time.Minute*5,
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}

package redis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"carbon-market.backend/pkg/logger"
)

const verificationKeyPrefix = "expire-verified:"

// VerificationStore records short-lived password re-verification grants.
// An NGO must re-verify its password before expiring a credit. The store
// shares the best-effort policy of the rest of the cache layer: a backend
// failure is logged and swallowed, never surfaced to the request.
type VerificationStore struct {
	ttl time.Duration
}

// NewVerificationStore creates a store whose grants live for ttl.
func NewVerificationStore(ttl time.Duration) *VerificationStore {
	return &VerificationStore{ttl: ttl}
}

// Grant records that username has re-verified their password.
func (s *VerificationStore) Grant(ctx context.Context, username string) {
	if s == nil || client == nil {
		return
	}
	if err := Set(ctx, verificationKeyPrefix+username, "1", s.ttl); err != nil {
		logger.Warn(ctx, "expiry grant store failed", zap.String("username", username), zap.Error(err))
	}
}

// IsGranted reports whether username holds an unexpired grant.
func (s *VerificationStore) IsGranted(ctx context.Context, username string) bool {
	if s == nil || client == nil {
		return false
	}
	val, err := Get(ctx, verificationKeyPrefix+username)
	return err == nil && val == "1"
}

// Revoke drops the grant for username.
func (s *VerificationStore) Revoke(ctx context.Context, username string) {
	if s == nil || client == nil {
		return
	}
	if err := Del(ctx, verificationKeyPrefix+username); err != nil {
		logger.Warn(ctx, "expiry grant revoke failed", zap.String("username", username), zap.Error(err))
	}
}

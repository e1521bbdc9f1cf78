package auth

// session.go implements access/refresh pair issuance and refresh rotation.
// Revocation is a side channel: a session-cache entry keyed by user id must
// exist for rotation to succeed. Logout deletes the entry; there is no
// per-token denylist. A live access token therefore keeps working after
// logout until its own TTL elapses, which the deployment accepts as a
// bounded staleness window.

import (
	"context"
	"errors"
)

// ErrSessionRevoked is returned by Rotate when the refresh token verifies
// but the session-cache entry for its principal is gone (explicit logout or
// cache expiry). Handlers map it to 403.
var ErrSessionRevoked = errors.New("session revoked")

// SessionLiveness reports whether a session-cache entry exists for a user.
// The Redis-backed store in the repository package implements it.
type SessionLiveness interface {
	Exists(ctx context.Context, userID uint64) (bool, error)
}

// Sessions issues token pairs and rotates refresh tokens.
type Sessions struct {
	Codec *Codec
	Cache SessionLiveness
}

// IssuePair signs a fresh access/refresh pair for p.
func (s *Sessions) IssuePair(p Principal) (TokenPair, error) {
	access, err := s.Codec.SignAccess(p)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Codec.SignRefresh(p)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Rotate exchanges a valid refresh token for a completely new pair. Both
// tokens are replaced so a leaked refresh token stops being useful after
// its first legitimate use. The token must verify AND the session-cache
// entry for its principal must still exist.
func (s *Sessions) Rotate(ctx context.Context, oldRefresh string) (TokenPair, error) {
	p, err := s.Codec.VerifyRefresh(oldRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	alive, err := s.Cache.Exists(ctx, p.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if !alive {
		return TokenPair{}, ErrSessionRevoked
	}
	return s.IssuePair(p)
}

package auth

import (
	"context"
	"errors"
	"testing"
)

// memLiveness is an in-memory stand-in for the Redis session cache.
type memLiveness struct {
	alive map[uint64]bool
	err   error
}

func (m *memLiveness) Exists(_ context.Context, userID uint64) (bool, error) {
	return m.alive[userID], m.err
}

func TestRotateIssuesFreshPair(t *testing.T) {
	cache := &memLiveness{alive: map[uint64]bool{42: true}}
	s := &Sessions{Codec: testCodec(), Cache: cache}
	p := Principal{ID: 42, Role: "USER"}

	pair, err := s.IssuePair(p)
	if err != nil {
		t.Fatal(err)
	}

	rotated, err := s.Rotate(context.Background(), pair.Refresh.Token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.Access.Token == "" || rotated.Refresh.Token == "" {
		t.Fatal("rotation must return a full new pair")
	}
	got, err := s.Codec.VerifyRefresh(rotated.Refresh.Token)
	if err != nil {
		t.Fatalf("rotated refresh does not verify: %v", err)
	}
	if got != p {
		t.Fatalf("principal changed across rotation: %+v", got)
	}
}

func TestRotateAfterLogoutIsRevoked(t *testing.T) {
	cache := &memLiveness{alive: map[uint64]bool{42: true}}
	s := &Sessions{Codec: testCodec(), Cache: cache}

	pair, err := s.IssuePair(Principal{ID: 42, Role: "USER"})
	if err != nil {
		t.Fatal(err)
	}

	// Simulated logout: the cache entry is gone while the refresh token is
	// still structurally valid and unexpired.
	cache.alive[42] = false
	if _, err := s.Rotate(context.Background(), pair.Refresh.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestRotateInvalidToken(t *testing.T) {
	cache := &memLiveness{alive: map[uint64]bool{1: true}}
	s := &Sessions{Codec: testCodec(), Cache: cache}

	if _, err := s.Rotate(context.Background(), "garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	// An access token must not rotate even when signed for a live session.
	access, err := s.Codec.SignAccess(Principal{ID: 1, Role: "USER"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rotate(context.Background(), access.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}

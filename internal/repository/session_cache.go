package repository

// session_cache.go backs the session-liveness flag with Redis. The cached
// value is a JSON snapshot of the user (no password hash) keyed by user id.
// Presence of the key is what gates refresh rotation: login writes it,
// logout deletes it, and rotation only checks existence. The key is not the
// source of truth for user data; the users table is.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

type SessionCache struct {
	RDB    *redis.Client
	Prefix string
	TTL    time.Duration // zero means no expiry; revocation is then logout-only
}

func NewSessionCache(rdb *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{RDB: rdb, Prefix: "session", TTL: ttl}
}

func (s *SessionCache) key(userID uint64) string {
	return s.Prefix + ":" + strconv.FormatUint(userID, 10)
}

// Set stores (or overwrites) the session snapshot for a user. Called on
// login and social signup; overwriting is intentional so a fresh login
// replaces any previous session state.
func (s *SessionCache) Set(ctx context.Context, u model.User) error {
	u.PasswordHash = ""
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, s.key(u.ID), data, s.TTL).Err()
}

// Get returns the cached snapshot, or ErrNotFound when the session is not
// live.
func (s *SessionCache) Get(ctx context.Context, userID uint64) (model.User, error) {
	data, err := s.RDB.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Exists reports session liveness without deserializing the snapshot.
// Refresh rotation consults this.
func (s *SessionCache) Exists(ctx context.Context, userID uint64) (bool, error) {
	n, err := s.RDB.Exists(ctx, s.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Del removes the session entry. This is the logout path and the system's
// only revocation mechanism.
func (s *SessionCache) Del(ctx context.Context, userID uint64) error {
	return s.RDB.Del(ctx, s.key(userID)).Err()
}

package auth // package auth implements token signing, password hashing and session logic

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrTokenInvalid is returned for every verification failure: malformed
// token, wrong signature, wrong token kind or expiry. Callers cannot tell
// these apart, so a rejected token leaks nothing about why it was rejected.
var ErrTokenInvalid = errors.New("invalid token")

// Token kinds. Each kind is signed with its own secret and carries a "typ"
// claim so an access token can never be replayed as a refresh token even if
// the secrets were ever configured to the same value.
const (
	kindActivation = "activation"
	kindAccess     = "access"
	kindRefresh    = "refresh"
)

// activationTTL is fixed: a signup must be confirmed within one hour.
const activationTTL = time.Hour

// Principal is the authenticated identity embedded in access and refresh
// tokens and attached to guarded requests.
type Principal struct {
	ID   uint64
	Role string
}

// SignedToken pairs a serialized JWT with its expiry so handlers can derive
// cookie lifetimes without re-parsing the token.
type SignedToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// TokenPair is an access/refresh token set issued for one principal.
type TokenPair struct {
	Access  SignedToken `json:"access"`
	Refresh SignedToken `json:"refresh"`
}

// Codec signs and verifies the three token kinds used by the platform.
// Secrets are independent; TTLs for session tokens come from configuration
// while the activation TTL is fixed.
type Codec struct {
	ActivationSecret string
	AccessSecret     string
	RefreshSecret    string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
}

// sessionClaims is the payload of access and refresh tokens. The subject
// registered claim holds the user id in decimal form.
type sessionClaims struct {
	Role string `json:"role"`
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

// activationClaims is the payload of activation tokens: the not-yet-persisted
// user plus the 4-digit code the user must echo back.
type activationClaims struct {
	User           PendingUser `json:"user"`
	ActivationCode string      `json:"activationCode"`
	Kind           string      `json:"typ"`
	jwt.RegisteredClaims
}

// SignAccess issues a short-lived access token for p.
func (c *Codec) SignAccess(p Principal) (SignedToken, error) {
	return c.signSession(p, kindAccess, c.AccessSecret, c.AccessTTL)
}

// SignRefresh issues a long-lived refresh token for p.
func (c *Codec) SignRefresh(p Principal) (SignedToken, error) {
	return c.signSession(p, kindRefresh, c.RefreshSecret, c.RefreshTTL)
}

func (c *Codec) signSession(p Principal, kind, secret string, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := sessionClaims{
		Role: p.Role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(p.ID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// VerifyAccess verifies an access token and returns the embedded principal.
func (c *Codec) VerifyAccess(raw string) (Principal, error) {
	return c.verifySession(raw, kindAccess, c.AccessSecret)
}

// VerifyRefresh verifies a refresh token and returns the embedded principal.
func (c *Codec) VerifyRefresh(raw string) (Principal, error) {
	return c.verifySession(raw, kindRefresh, c.RefreshSecret)
}

func (c *Codec) verifySession(raw, kind, secret string) (Principal, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid || claims.Kind != kind {
		return Principal{}, ErrTokenInvalid
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}
	return Principal{ID: id, Role: claims.Role}, nil
}

func (c *Codec) signActivation(user PendingUser, code string) (string, error) {
	now := time.Now().UTC()
	claims := activationClaims{
		User:           user,
		ActivationCode: code,
		Kind:           kindActivation,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(activationTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.ActivationSecret))
}

func (c *Codec) verifyActivationToken(raw string) (activationClaims, error) {
	var claims activationClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(c.ActivationSecret), nil
	})
	if err != nil || !tok.Valid || claims.Kind != kindActivation {
		return activationClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

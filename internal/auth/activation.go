package auth

// activation.go implements the two-step signup confirmation: a signed token
// carrying the pending user is handed to the client while a 4-digit code is
// delivered out-of-band (email). Nothing is written to the database until
// the client presents both and they match.

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// ErrActivationCode is returned when the activation token itself verifies
// but the supplied code does not match the one embedded at issue time.
// Handlers map it to 400, distinct from the 401-class ErrTokenInvalid.
var ErrActivationCode = errors.New("incorrect activation code")

// PendingUser is the not-yet-persisted account embedded inside an activation
// token. The password field always holds a bcrypt hash; plaintext passwords
// never enter a token.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	Role         string `json:"role,omitempty"`
	IsVerified   bool   `json:"isVerified,omitempty"`
}

// NewUser is the raw signup input as received from the client.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Activation issues and verifies activation tokens.
type Activation struct {
	Codec      *Codec
	BcryptCost int
}

// Issue hashes the candidate password, draws a random 4-digit code and signs
// an activation token wrapping both. The code is returned separately so the
// caller can email it to the user; the copy inside the token is the source
// of truth at verification time.
func (a *Activation) Issue(user NewUser) (token, code string, err error) {
	code, err = newActivationCode()
	if err != nil {
		return "", "", err
	}
	hash, err := HashPassword(user.Password, a.BcryptCost)
	if err != nil {
		return "", "", err
	}
	pending := PendingUser{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: hash,
		Role:         user.Role,
		IsVerified:   true,
	}
	token, err = a.Codec.signActivation(pending, code)
	if err != nil {
		return "", "", err
	}
	return token, code, nil
}

// Verify checks the token signature and expiry, then compares the embedded
// code against the one the user supplied. On success it returns the pending
// user for the caller to persist.
func (a *Activation) Verify(token, suppliedCode string) (PendingUser, error) {
	claims, err := a.Codec.verifyActivationToken(token)
	if err != nil {
		return PendingUser{}, err
	}
	if claims.ActivationCode != suppliedCode {
		return PendingUser{}, ErrActivationCode
	}
	return claims.User, nil
}

// newActivationCode draws a uniform random 4-digit decimal code in
// [1000,9999] from crypto/rand.
func newActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(1000)).String(), nil
}

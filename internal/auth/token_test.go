package auth

import (
	"testing"
	"time"
)

func testCodec() *Codec {
	return &Codec{
		ActivationSecret: "activation-secret-for-tests-0001",
		AccessSecret:     "access-secret-for-tests-00000001",
		RefreshSecret:    "refresh-secret-for-tests-0000001",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	c := testCodec()
	p := Principal{ID: 42, Role: "USER"}

	access, err := c.SignAccess(p)
	if err != nil {
		t.Fatal(err)
	}
	if access.Exp.Before(time.Now()) {
		t.Fatalf("expected future expiry, got %v", access.Exp)
	}
	got, err := c.VerifyAccess(access.Token)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if got != p {
		t.Fatalf("principal changed in transit: %+v != %+v", got, p)
	}

	refresh, err := c.SignRefresh(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err = c.VerifyRefresh(refresh.Token)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if got != p {
		t.Fatalf("principal changed in transit: %+v != %+v", got, p)
	}
}

func TestVerifyWithWrongSecretFails(t *testing.T) {
	a := testCodec()
	b := testCodec()
	b.AccessSecret = "a-completely-different-secret-000"

	tok, err := a.SignAccess(Principal{ID: 1, Role: "USER"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.VerifyAccess(tok.Token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyAfterExpiryFails(t *testing.T) {
	c := testCodec()
	c.AccessTTL = -time.Second // already expired when signed

	tok, err := c.SignAccess(Principal{ID: 7, Role: "ADMIN"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.VerifyAccess(tok.Token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestTokenKindsDoNotCross(t *testing.T) {
	c := testCodec()
	// Same secret for both kinds: only the typ claim can tell them apart.
	c.RefreshSecret = c.AccessSecret

	refresh, err := c.SignRefresh(Principal{ID: 9, Role: "USER"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.VerifyAccess(refresh.Token); err != ErrTokenInvalid {
		t.Fatalf("expected refresh token to fail access verification, got %v", err)
	}
}

func TestVerifyGarbageFails(t *testing.T) {
	c := testCodec()
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := c.VerifyAccess(raw); err != ErrTokenInvalid {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", raw, err)
		}
	}
}

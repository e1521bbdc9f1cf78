package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/auth"
)

func testCodec() *auth.Codec {
	return &auth.Codec{
		ActivationSecret: "activation-secret-for-tests-0001",
		AccessSecret:     "access-secret-for-tests-00000001",
		RefreshSecret:    "refresh-secret-for-tests-0000001",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
	}
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

// run executes a handler wrapped in the given middleware chain, outermost
// first, against a GET request carrying the given bearer token.
func run(t *testing.T, bearer string, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticateRejectsMissingOrMalformedHeader(t *testing.T) {
	mw := Authenticate(testCodec())
	for _, bearer := range []string{"", "Token abc", "Bearerabc", "Bearer "} {
		rec := run(t, bearer, okHandler, mw)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", bearer, rec.Code)
		}
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	codec := testCodec()
	other := testCodec()
	other.AccessSecret = "a-completely-different-secret-000"
	tok, err := other.SignAccess(auth.Principal{ID: 1, Role: "USER"})
	if err != nil {
		t.Fatal(err)
	}
	rec := run(t, "Bearer "+tok.Token, okHandler, Authenticate(codec))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong-secret token, got %d", rec.Code)
	}
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	codec := testCodec()
	want := auth.Principal{ID: 42, Role: "ADMIN"}
	tok, err := codec.SignAccess(want)
	if err != nil {
		t.Fatal(err)
	}

	var got auth.Principal
	handler := func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatal("principal missing from context")
		}
		got = p
		return c.NoContent(http.StatusOK)
	}
	rec := run(t, "Bearer "+tok.Token, handler, Authenticate(codec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != want {
		t.Fatalf("attached principal %+v, want %+v", got, want)
	}
}

func TestRequireRole(t *testing.T) {
	codec := testCodec()
	userTok, _ := codec.SignAccess(auth.Principal{ID: 1, Role: "USER"})
	adminTok, _ := codec.SignAccess(auth.Principal{ID: 2, Role: "ADMIN"})

	adminOnly := []echo.MiddlewareFunc{Authenticate(codec), RequireRole("ADMIN")}

	if rec := run(t, "Bearer "+userTok.Token, okHandler, adminOnly...); rec.Code != http.StatusForbidden {
		t.Fatalf("USER on admin route: expected 403, got %d", rec.Code)
	}
	if rec := run(t, "Bearer "+adminTok.Token, okHandler, adminOnly...); rec.Code != http.StatusOK {
		t.Fatalf("ADMIN on admin route: expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	// Misregistered route: role guard without identity guard must fail
	// closed, never pass.
	rec := run(t, "", okHandler, RequireRole("USER", "ADMIN"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

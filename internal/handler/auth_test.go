package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/e-learning-backend/internal/auth"
	"github.com/iliyamo/e-learning-backend/internal/config"
	"github.com/iliyamo/e-learning-backend/internal/model"
	"github.com/iliyamo/e-learning-backend/internal/repository"
)

// testAuthHandler wires the session side of the handler against miniredis.
// Signup/Activate/Login need the users table and are covered at the auth
// package level; Refresh and Logout only need the codec and the cache.
func testAuthHandler(t *testing.T) (*AuthHandler, *auth.Codec) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })

	codec := &auth.Codec{
		ActivationSecret: "activation-secret-for-tests-0001",
		AccessSecret:     "access-secret-for-tests-00000001",
		RefreshSecret:    "refresh-secret-for-tests-0000001",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
	}
	cache := repository.NewSessionCache(client, time.Hour)
	h := &AuthHandler{
		Cfg:      config.Config{Env: "dev"},
		Cache:    cache,
		Sessions: &auth.Sessions{Codec: codec, Cache: cache},
	}
	return h, codec
}

func postJSON(t *testing.T, e *echo.Echo, h echo.HandlerFunc, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRefreshRotatesLiveSession(t *testing.T) {
	h, _ := testAuthHandler(t)
	e := echo.New()
	ctx := context.Background()

	u := model.User{ID: 12, Name: "noa", Email: "noa@example.com", Role: model.RoleUser}
	if err := h.Cache.Set(ctx, u); err != nil {
		t.Fatal(err)
	}
	pair, err := h.Sessions.IssuePair(auth.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		t.Fatal(err)
	}

	rec := postJSON(t, e, h.Refresh, `{"refresh_token":"`+pair.Refresh.Token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"access"`) || !strings.Contains(rec.Body.String(), `"refresh"`) {
		t.Fatalf("response missing rotated pair: %s", rec.Body.String())
	}

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
		if !ck.HttpOnly {
			t.Fatalf("cookie %s is not httpOnly", ck.Name)
		}
	}
	for _, want := range []string{"access_token", "refresh_token"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("cookie %s not set, got %v", want, names)
		}
	}
}

func TestRefreshUsesCookieWhenBodyEmpty(t *testing.T) {
	h, _ := testAuthHandler(t)
	e := echo.New()

	u := model.User{ID: 13, Role: model.RoleUser}
	if err := h.Cache.Set(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	pair, err := h.Sessions.IssuePair(auth.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		t.Fatal(err)
	}

	rec := postJSON(t, e, h.Refresh, `{}`, &http.Cookie{Name: "refresh_token", Value: pair.Refresh.Token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshAfterLogoutIsForbidden(t *testing.T) {
	h, _ := testAuthHandler(t)
	e := echo.New()
	ctx := context.Background()

	u := model.User{ID: 14, Role: model.RoleUser}
	if err := h.Cache.Set(ctx, u); err != nil {
		t.Fatal(err)
	}
	pair, err := h.Sessions.IssuePair(auth.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		t.Fatal(err)
	}
	// Logout deletes the cache entry; the refresh token itself is still a
	// valid, unexpired JWT.
	if err := h.Cache.Del(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	rec := postJSON(t, e, h.Refresh, `{"refresh_token":"`+pair.Refresh.Token+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after logout, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshRejectsGarbageAndAccessTokens(t *testing.T) {
	h, codec := testAuthHandler(t)
	e := echo.New()

	if err := h.Cache.Set(context.Background(), model.User{ID: 15, Role: model.RoleUser}); err != nil {
		t.Fatal(err)
	}
	access, err := codec.SignAccess(auth.Principal{ID: 15, Role: model.RoleUser})
	if err != nil {
		t.Fatal(err)
	}

	for _, tok := range []string{"not-a-jwt", access.Token} {
		rec := postJSON(t, e, h.Refresh, `{"refresh_token":"`+tok+`"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", tok, rec.Code)
		}
	}
}

// recordingSender captures activation sends and optionally fails them.
type recordingSender struct {
	to, name, code string
	err            error
}

func (r *recordingSender) SendActivation(_ context.Context, to, name, code string) error {
	r.to, r.name, r.code = to, name, code
	return r.err
}

func TestSendActivationPassesPlainValues(t *testing.T) {
	h, _ := testAuthHandler(t)
	sender := &recordingSender{}
	h.Email = sender

	// Runs synchronously here; Signup spawns it detached, so it must need
	// nothing from the request that spawned it.
	h.sendActivation("mia@example.com", "mia", "4821")

	if sender.to != "mia@example.com" || sender.name != "mia" || sender.code != "4821" {
		t.Fatalf("sender got to=%q name=%q code=%q", sender.to, sender.name, sender.code)
	}
}

func TestSendActivationSurvivesDeliveryFailure(t *testing.T) {
	h, _ := testAuthHandler(t)
	h.Email = &recordingSender{err: errors.New("provider down")}

	// Must log and return; a panic here would crash the server long after
	// the signup response was sent.
	h.sendActivation("mia@example.com", "mia", "4821")
}

func TestRefreshRequiresToken(t *testing.T) {
	h, _ := testAuthHandler(t)
	rec := postJSON(t, echo.New(), h.Refresh, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a token, got %d", rec.Code)
	}
}

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/auth"
	"github.com/iliyamo/e-learning-backend/internal/config"
	"github.com/iliyamo/e-learning-backend/internal/email"
	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/repository"
)

// AuthHandler bundles dependencies for signup, activation and session
// endpoints.
type AuthHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Cache      *repository.SessionCache
	Activation *auth.Activation
	Sessions   *auth.Sessions
	Email      email.Sender
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, c *repository.SessionCache, act *auth.Activation, s *auth.Sessions, e email.Sender) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Cache: c, Activation: act, Sessions: s, Email: e}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type activateReq struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type socialSignupReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart         `json:"user"`
	Access  auth.SignedToken `json:"access"`
	Refresh auth.SignedToken `json:"refresh"`
}

// setSessionCookies mirrors the token pair into httpOnly cookies so browser
// clients never touch the tokens from script. MaxAge tracks each token's
// remaining TTL; Secure is on outside dev.
func (h *AuthHandler) setSessionCookies(c echo.Context, pair auth.TokenPair) {
	secure := h.Cfg.Env != "dev"
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    pair.Access.Token,
		Path:     "/",
		MaxAge:   int(time.Until(pair.Access.Exp).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    pair.Refresh.Token,
		Path:     "/",
		MaxAge:   int(time.Until(pair.Refresh.Exp).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}

// Signup: issue an activation token and email the code. Nothing is
// persisted until the code comes back through Activate.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token, code, err := h.Activation.Issue(auth.NewUser{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue activation failed"})
	}

	// Fire-and-forget: a mail outage must not fail signup, the user can
	// simply request a new token.
	go h.sendActivation(req.Email, req.Name, code)

	return c.JSON(http.StatusCreated, echo.Map{
		"message":          "activation email sent",
		"activation_token": token,
	})
}

// sendActivation delivers the activation email outside the request
// lifecycle. It takes only plain values and never touches the request
// context: Echo pools contexts, so by the time delivery fails the context
// may already be serving another request.
func (h *AuthHandler) sendActivation(to, name, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Email.SendActivation(ctx, to, name, code); err != nil {
		log.Printf("email: activation to %s failed: %v", to, err)
	}
}

// Activate: verify token + code and persist the pending user.
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateReq
	if err := c.Bind(&req); err != nil || req.ActivationToken == "" || req.ActivationCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activation_token/activation_code required"})
	}

	pending, err := h.Activation.Verify(req.ActivationToken, req.ActivationCode)
	if err != nil {
		if errors.Is(err, auth.ErrActivationCode) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect activation code"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid activation token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, pending.Name, pending.Email, pending.PasswordHash, pending.Role, pending.IsVerified)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Name: pending.Name, Email: pending.Email, Role: pending.Role},
	})
}

// Login: verify credentials, issue a pair, cache the session snapshot and
// set cookies. The cache write is what makes later refresh rotation
// possible.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
	}

	pair, err := h.Sessions.IssuePair(auth.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	if err := h.Cache.Set(ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cache session failed"})
	}

	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Refresh: rotate the pair. The refresh token comes from the cookie or,
// for non-browser clients, the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := ""
	if ck, err := c.Cookie("refresh_token"); err == nil {
		raw = ck.Value
	}
	if raw == "" {
		var req refreshReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Sessions.Rotate(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenInvalid):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, auth.ErrSessionRevoked):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "session revoked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
		}
	}

	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{"access": pair.Access, "refresh": pair.Refresh})
}

// Logout: delete the session-cache entry and clear cookies. A still-valid
// access token keeps working until its TTL; only refresh rotation is cut
// off here.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cache.Del(ctx, p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	h.clearSessionCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// SocialSignup: trusted upstream identity (OAuth handled by the frontend
// provider flow) arrives here as a bare name+email. The account is created
// without a password and logged straight in.
func (h *AuthHandler) SocialSignup(c echo.Context) error {
	var req socialSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, strings.TrimSpace(req.Name), req.Email, "", "", true)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	pair, err := h.Sessions.IssuePair(auth.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	if err := h.Cache.Set(ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cache session failed"})
	}

	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

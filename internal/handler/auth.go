package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
	"github.com/labstack/echo/v4"
)

// RefreshCookie is the httpOnly cookie carrying the signed refresh token.
const RefreshCookie = "refreshToken"

const resetTokenTTL = time.Hour

// ResetMailer sends password-reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, username, link string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Mailer ResetMailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m ResetMailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mailer: m}
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        *model.User `json:"user"`
}

// Login accepts a username or email with a password.  Inactive accounts
// get the same 401 as bad credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	login := strings.TrimSpace(req.Username)
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}
	if login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email and password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, login)
	if err != nil {
		if repository.IsNotFound(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return respondError(c, err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	now := time.Now().UTC()
	if err := h.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		return respondError(c, err)
	}
	u.LastLogin = &now
	return h.issue(c, ctx, u, http.StatusOK)
}

// issue creates an access token and a fresh refresh cookie for u.
func (h *AuthHandler) issue(c echo.Context, ctx context.Context, u *model.User, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role.String(), h.Cfg.AccessTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	c.SetCookie(h.refreshCookie(utils.SignCookieValue(h.Cfg.JWTRefreshSecret, refresh.Raw), refresh.Exp))
	return c.JSON(status, authResp{AccessToken: access.Token, ExpiresAt: access.Exp, User: u})
}

func (h *AuthHandler) refreshCookie(value string, exp time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     "/api/auth",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	} else {
		ck.MaxAge = int(time.Until(exp).Seconds())
	}
	return ck
}

// presentedRefresh returns the raw refresh token from the cookie or from
// {"refreshToken": "..."}, with its signature checked.
func (h *AuthHandler) presentedRefresh(c echo.Context) (string, bool) {
	value := ""
	if ck, err := c.Cookie(RefreshCookie); err == nil {
		value = ck.Value
	}
	if value == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.Bind(&body)
		value = strings.TrimSpace(body.RefreshToken)
	}
	if value == "" {
		return "", false
	}
	raw, err := utils.OpenCookieValue(h.Cfg.JWTRefreshSecret, value)
	if err != nil {
		return "", false
	}
	return raw, true
}

// Refresh consumes the presented refresh token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw, ok := h.presentedRefresh(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	hash := utils.HashRefreshRaw(raw)

	ctx, cancel := dbCtx(c)
	defer cancel()

	userID, err := h.Tokens.ConsumeRefresh(ctx, hash)
	if repository.IsNotFound(err) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return respondError(c, err)
	}
	u, err := h.Users.Get(ctx, userID)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	return h.issue(c, ctx, u, http.StatusOK)
}

// Logout revokes the presented refresh token, if any, and clears the
// cookie.  It always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if raw, ok := h.presentedRefresh(c); ok {
		ctx, cancel := dbCtx(c)
		defer cancel()
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			c.Logger().Warnf("logout: revoke: %v", err)
		}
	}
	c.SetCookie(h.refreshCookie("", time.Time{}))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current user.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.Get(ctx, uid)
	if err != nil {
		if repository.IsNotFound(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// ForgotPassword mails a one-hour reset link when the email belongs to an
// active user.  The response never reveals whether it did.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	ok := echo.Map{"message": "if the account exists, a reset link has been sent"}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil || !u.IsActive {
		if err != nil && !repository.IsNotFound(err) {
			c.Logger().Errorf("forgot-password: %v", err)
		}
		return c.JSON(http.StatusOK, ok)
	}
	raw, err := utils.NewResetToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	if err := h.Tokens.StoreReset(ctx, u.ID, utils.HashRefreshRaw(raw), time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return respondError(c, err)
	}
	if h.Mailer != nil {
		link := h.Cfg.PublicAppURL + "/reset-password?token=" + url.QueryEscape(raw)
		if err := h.Mailer.SendPasswordReset(ctx, u.Email, u.Username, link); err != nil {
			c.Logger().Warnf("forgot-password: mail to user %d: %v", u.ID, err)
		}
	}
	return c.JSON(http.StatusOK, ok)
}

// ResetPassword consumes a reset token, sets the new password and revokes
// every refresh token of the user.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and password required"})
	}
	if len(body.Password) < utils.MinPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": utils.ErrWeakPassword.Error()})
	}
	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	uid, err := h.Tokens.ConsumeReset(ctx, utils.HashRefreshRaw(strings.TrimSpace(body.Token)))
	if err != nil {
		if repository.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return respondError(c, err)
	}
	if err := h.Users.SetPassword(ctx, uid, hash); err != nil {
		return respondError(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/models"
	"github.com/ranwtech/site/internal/oidc"
	"github.com/ranwtech/site/internal/sessions"
	"github.com/ranwtech/site/internal/tokens"
	"github.com/ranwtech/site/internal/users"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/metrics"
	"github.com/ranwtech/site/pkg/middleware"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// LoginRequest: mode "password" (default) or "auth_code".
type LoginRequest struct {
	Mode        string `json:"mode"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Code        string `json:"code"`         // authorization code
	RedirectURI string `json:"redirect_uri"` // redirect uri used in auth code flow
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	keycloak    *oidc.Keycloak
	blacklist   sessions.Blacklist
}

// NewAuthHandler wires login. keycloak may be nil or unconfigured, in which case
// password logins are checked against local accounts.
func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service, kc *oidc.Keycloak, bl sessions.Blacklist) *AuthHandler {
	if bl == nil {
		bl = sessions.NewMemoryBlacklist()
	}
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s, keycloak: kc, blacklist: bl}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// RegisterMe mounts GET /api/v1/me behind the given auth middleware.
func (h *AuthHandler) RegisterMe(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.GET("/api/v1/me", append(mw, h.Me)...)
}

func (h *AuthHandler) accessTTL() time.Duration {
	if h.cfg.JWT.AccessTokenTTL > 0 {
		return h.cfg.JWT.AccessTokenTTL
	}
	return defaultAccessTTL
}

func (h *AuthHandler) refreshTTL() time.Duration {
	if h.cfg.JWT.RefreshTokenTTL > 0 {
		return h.cfg.JWT.RefreshTokenTTL
	}
	return defaultRefreshTTL
}

// Login authenticates an admin and returns an access token plus a refresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	lang := requestLang(c)
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode == "" {
		req.Mode = "password"
	}
	if req.Mode != "password" && req.Mode != "auth_code" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}

	u, err := h.authenticate(c, req)
	if err != nil {
		if errors.Is(err, errBadLoginRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metrics.AdminLogins.WithLabelValues("failed").Inc()
		logger.Infof("login failed (mode=%s): %v", req.Mode, err)
		respond(c, http.StatusUnauthorized, lang, i18n.MsgLoginFailed)
		return
	}
	if !h.cfg.Admin.IsAdminEmail(u.Email) {
		metrics.AdminLogins.WithLabelValues("forbidden").Inc()
		logger.Warnf("login by %s rejected: not on the admin allowlist", u.Email)
		respond(c, http.StatusForbidden, lang, i18n.MsgNotAuthorized)
		return
	}

	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.Sub, h.refreshTTL())
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		logger.Errorf("failed to create access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	metrics.AdminLogins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": rft,
		"expires_in":    int(h.accessTTL().Seconds()),
		"user":          u,
	})
}

var errBadLoginRequest = errors.New("bad login request")

func (h *AuthHandler) authenticate(c *gin.Context, req LoginRequest) (*models.User, error) {
	ctx := c.Request.Context()
	useKeycloak := h.keycloak.Configured()

	if req.Mode == "auth_code" {
		if !useKeycloak {
			return nil, fmt.Errorf("%w: auth_code requires keycloak", errBadLoginRequest)
		}
		if req.Code == "" || req.RedirectURI == "" {
			return nil, fmt.Errorf("%w: code and redirect_uri required for auth_code mode", errBadLoginRequest)
		}
	} else if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password required", errBadLoginRequest)
	}

	if !useKeycloak {
		return h.usersSvc.Authenticate(ctx, req.Username, req.Password)
	}

	var tr *oidc.TokenResponse
	var err error
	if req.Mode == "password" {
		tr, err = h.keycloak.PasswordGrant(ctx, req.Username, req.Password)
	} else {
		tr, err = h.keycloak.ExchangeCode(ctx, req.Code, req.RedirectURI)
	}
	if err != nil {
		return nil, err
	}
	claims, err := h.keycloak.Claims(ctx, tr.IDToken)
	if err != nil {
		return nil, err
	}
	u, err := h.usersSvc.UpsertFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("id token has no subject")
	}
	return u, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	lang := requestLang(c)
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Errorf("refresh validation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetBySub(ctx, sess.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	// the allowlist may have changed since login
	if !h.cfg.Admin.IsAdminEmail(u.Email) {
		if _, err := h.sessionsSvc.RevokeSubject(ctx, u.Sub); err != nil {
			logger.Warnf("revoke sessions for %s: %v", u.Sub, err)
		}
		respond(c, http.StatusForbidden, lang, i18n.MsgNotAuthorized)
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.accessTTL().Seconds())})
}

// Logout invalidates the refresh token and blacklists the bearer access token, if any,
// for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	if at, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && at != "" {
		if ttl := h.revocableFor(ctx, at); ttl > 0 {
			if err := h.blacklist.Add(ctx, at, ttl); err != nil {
				logger.Errorf("blacklist access token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
				return
			}
		}
	}
	if err := h.sessionsSvc.DeleteRefresh(ctx, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// revocableFor reports how long a bearer token must stay blacklisted: zero for tokens
// this server did not sign (or that already expired), never more than the access TTL.
func (h *AuthHandler) revocableFor(ctx context.Context, raw string) time.Duration {
	if _, err := tokens.NewVerifier(h.cfg.JWT.Secret).Verify(ctx, raw); err != nil {
		logger.Debugf("logout: ignoring bearer token: %v", err)
		return 0
	}
	return min(tokens.Remaining(raw), h.accessTTL())
}

// Me returns the stored account for the token subject, or the raw claims when the
// account is gone.
func (h *AuthHandler) Me(c *gin.Context) {
	sub := middleware.ClaimString(c, "sub")
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no subject"})
		return
	}
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		claims, _ := c.Get("claims")
		c.JSON(http.StatusOK, gin.H{"claims": claims, "admin": h.cfg.Admin.IsAdminEmail(middleware.ClaimString(c, "email"))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "admin": h.cfg.Admin.IsAdminEmail(u.Email)})
}

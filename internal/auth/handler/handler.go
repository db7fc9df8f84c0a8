package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/provider"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/resolver"
	"github.com/israelb-ITVarsity/Secrets-App/internal/logger"
	"github.com/israelb-ITVarsity/Secrets-App/internal/session"
	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

const (
	loginPath   = "/login"
	secretsPath = "/secrets"
)

type Handler struct {
	credentialService *credentials.Service
	providers         *provider.Registry
	sessionStore      session.Store
	resolver          resolver.Resolver
	sessionTTL        time.Duration
}

func NewHandler(
	credentialService *credentials.Service,
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		credentialService: credentialService,
		providers:         registry,
		sessionStore:      sessionStore,
		resolver:          resolver,
		sessionTTL:        sessionTTL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/auth/:provider", h.oauthLogin)
	r.GET("/auth/:provider/callback", h.oauthCallback)
	r.GET("/logout", h.Logout)
}

// establishSession turns a verified identity record into a session
// principal and issues the cookie. Registration, local login and the
// federated callback all end here.
func (h *Handler) establishSession(c *gin.Context, user *store.User) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		UserID:    user.ID.String(),
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if !validateState(c) {
		logger.Warn("oauth callback state mismatch", map[string]any{
			"provider": providerName,
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	// Provider-reported errors (e.g. consent denied) restart the flow.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	// No session on resolution failure, ever.
	user, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("identity resolution failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	c.Redirect(http.StatusSeeOther, secretsPath)
}

func (h *Handler) Logout(c *gin.Context) {
	// Delete session from store (best-effort), then clear the cookie.
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/")
}

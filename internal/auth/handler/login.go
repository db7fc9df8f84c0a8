package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/logger"
)

type loginForm struct {
	Email    string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	user, err := h.credentialService.Authenticate(
		c.Request.Context(),
		form.Email,
		form.Password,
	)
	if err != nil {
		// Same redirect for bad credentials and store trouble; only the
		// latter is worth a diagnostic.
		if !errors.Is(err, credentials.ErrInvalidCredentials) {
			logger.Error("login store failure", map[string]any{
				"error": err.Error(),
			})
		}
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

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/logger"
)

type registerForm struct {
	Email    string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	user, err := h.credentialService.Register(
		c.Request.Context(),
		form.Email,
		form.Password,
	)

	if err != nil {
		// The conflict branch answers the request exactly once, with a
		// distinct error the login page can show.
		if errors.Is(err, credentials.ErrAlreadyRegistered) {
			c.Redirect(http.StatusFound, loginPath+"?error=account_exists")
			return
		}
		logger.Error("registration failed", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	// New account logs straight in.
	if err := h.establishSession(c, user); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	c.Redirect(http.StatusSeeOther, secretsPath)
}

package secrets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/israelb-ITVarsity/Secrets-App/internal/logger"
	"github.com/israelb-ITVarsity/Secrets-App/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the protected resource endpoints. The group must
// already be behind the auth middleware.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/secrets", h.show)
	r.POST("/submit", h.submit)
}

// principalUserID pulls the authenticated user ID out of the request
// context. A gate bypass or a malformed ID both read as unauthenticated.
func principalUserID(c *gin.Context) (uuid.UUID, bool) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(principal.UserID)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) show(c *gin.Context) {
	userID, ok := principalUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	secret, err := h.service.Read(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to read secret", map[string]any{
			"error": err.Error(),
		})
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret})
}

func (h *Handler) submit(c *gin.Context) {
	userID, ok := principalUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	secret := c.PostForm("secret")

	if err := h.service.Write(c.Request.Context(), userID, secret); err != nil {
		logger.Error("failed to store secret", map[string]any{
			"error": err.Error(),
		})
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}

package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/handler"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/provider"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/provider/google"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/resolver"
	"github.com/israelb-ITVarsity/Secrets-App/internal/config"
	"github.com/israelb-ITVarsity/Secrets-App/internal/middleware"
	"github.com/israelb-ITVarsity/Secrets-App/internal/secrets"
	"github.com/israelb-ITVarsity/Secrets-App/internal/session"
	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userStore := store.NewPostgres(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)

	credentialService := credentials.NewService(userStore)
	identityResolver := resolver.NewDBResolver(userStore)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(googleProvider)

	authHandler := handler.NewHandler(
		credentialService,
		registry,
		sessionStore,
		identityResolver,
		cfg.SessionTTL,
	)

	secretsHandler := secrets.NewHandler(secrets.NewService(userStore))

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(authMiddleware))

	secretsHandler.RegisterRoutes(web)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

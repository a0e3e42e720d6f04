package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/codecooknucleus/secureAuth0/internal/auth/handler"
	"github.com/codecooknucleus/secureAuth0/internal/auth/provider/auth0"
	"github.com/codecooknucleus/secureAuth0/internal/config"
	"github.com/codecooknucleus/secureAuth0/internal/linking"
	"github.com/codecooknucleus/secureAuth0/internal/management"
	"github.com/codecooknucleus/secureAuth0/internal/middleware"
	"github.com/codecooknucleus/secureAuth0/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)

	loginProvider, err := auth0.New(
		ctx,
		cfg.Auth0Domain,
		cfg.Auth0ClientID,
		cfg.Auth0ClientSecret,
		cfg.Auth0CallbackURL,
	)
	if err != nil {
		return nil, nil, err
	}

	tokens := management.NewCachedTokenProvider(&management.ClientCredentials{
		Domain:       cfg.Auth0Domain,
		ClientID:     cfg.Auth0ClientID,
		ClientSecret: cfg.Auth0ClientSecret,
		Audience:     cfg.Auth0Audience,
	}, cfg.TokenRefreshMargin)

	directory := management.NewClient(cfg.Auth0Domain, tokens, nil)

	terminator := session.NewTerminator(sessionStore, loginProvider.LogoutURL)

	linker := linking.NewCoordinator(
		directory,
		terminator,
		cfg.BaseURL+"/login?prompt=login",
	)
	deleter := linking.NewDeletionCoordinator(
		directory,
		terminator,
		cfg.BaseURL,
	)

	authHandler := handler.NewHandler(
		loginProvider,
		sessionStore,
		directory,
		linker,
		deleter,
		terminator,
		cfg.SessionTTL,
		cfg.BaseURL,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router, authMiddleware)

	return router, func() error {
		return infra.Redis.Close()
	}, nil
}

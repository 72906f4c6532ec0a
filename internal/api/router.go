package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	iauth "github.com/sajjaddev-web/desk/internal/auth"
	"github.com/sajjaddev-web/desk/internal/handlers"
	"github.com/sajjaddev-web/desk/internal/middleware"
	"github.com/sajjaddev-web/desk/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(tokens *iauth.TokenService, accounts *services.AccountService) (*gin.Engine, error) {
	if tokens == nil {
		return nil, errors.New("token service must be provided")
	}
	if accounts == nil {
		return nil, errors.New("account service must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accountHandler := handlers.NewAccountHandler(accounts)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", accountHandler.Register)
		auth.GET("/activation", accountHandler.Activate)
		auth.POST("/login", accountHandler.Login)
	}

	// Routes acting on the authenticated account
	requireAuth := middleware.Auth(tokens, accounts)
	account := r.Group("/api/auth")
	account.Use(requireAuth)
	{
		account.PUT("/account", accountHandler.Update)
		account.DELETE("/account", accountHandler.Delete)
	}

	return r, nil
}

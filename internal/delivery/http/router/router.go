// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"accountsvc/internal/delivery/http/middleware"
	"accountsvc/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account creation needs no credentials
	e.POST("/signup", r.accountHandler.Signup)

	// Account routes that require Basic authentication
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/:user_id", r.accountHandler.GetUser)
		userGroup.PATCH("/:user_id", r.accountHandler.UpdateUser)
	}

	e.POST("/close", r.accountHandler.CloseAccount, r.authMiddleware.Authenticate)
}

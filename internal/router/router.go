package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/mywallet/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Entry  *apiHandler.EntryHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes. /status carries its own bearer check because renewal
	// needs the raw token, not just the resolved identity.
	r.POST("/api/v1/sign-up", handlers.Auth.SignUp)
	r.POST("/api/v1/sign-in", handlers.Auth.SignIn)
	r.POST("/api/v1/status", handlers.Auth.Status)

	// Protected ledger routes
	r.GET("/api/v1/values/{id}", authMiddleware(handlers.Entry.GetValues))
	r.POST("/api/v1/values", authMiddleware(handlers.Entry.CreateValue))

	return r
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Authorizer resolves a bearer token to the acting user identity.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (string, error)
}

// SessionAuth resolves the Authorization bearer token through the session
// store and forwards the resolved identity in X-User-ID. The resolved
// identity is authoritative; handlers compare any caller-claimed user id
// against it.
func SessionAuth(auth Authorizer, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := BearerToken(ctx)
			if token == "" {
				ctx.SetStatusCode(http.StatusUnauthorized)
				return
			}

			userID, err := auth.Authorize(ctx, token)
			if err != nil {
				logger.Warn("bearer token rejected", zap.Error(err))
				ctx.SetStatusCode(http.StatusUnauthorized)
				return
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			next(ctx)
		}
	}
}

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

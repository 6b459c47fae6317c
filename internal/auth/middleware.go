package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/logger"
)

// RequireAuth returns the guard middleware for protected routes. Per
// request it extracts the bearer token, verifies signature and expiry,
// resolves the named user through the credential store, and attaches the
// user to the request context. Any failure rejects the request with 401
// and strips the stale Authorization response header; there is no retry.
func RequireAuth(tokens *TokenService, users *UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, apperrors.Unauthorized("Authorization header required."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			reject(c, apperrors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			if IsExpired(err) {
				reject(c, apperrors.TokenExpired())
			} else {
				reject(c, apperrors.InvalidToken())
			}
			return
		}

		// A token that verified but names a since-deleted user must fail,
		// never resolve to a stale object.
		user, err := users.FindByUsername(c.Request.Context(), claims.Username)
		if err != nil {
			reject(c, apperrors.Unauthorized(""))
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// TokenRefresher returns the rotation middleware. When the request carries
// an authenticated user, a fresh Authorization header is attached to the
// response, silently rotating the client's credential. Unauthenticated
// requests pass through untouched. A refresh fault is logged and dropped
// so it never masks a successful primary response.
func TokenRefresher(refresh *RefreshService, log *logger.Logger) gin.HandlerFunc {
	rlog := log.WithComponent("token-refresher")
	return func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			token, err := refresh.CreateRefreshToken(user.Username)
			if err != nil {
				rlog.Warn("Refresh token creation failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else {
				c.Header("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}

// reject aborts the request with the error's status and strips any stale
// Authorization header from the response.
func reject(c *gin.Context, appErr *apperrors.AppError) {
	c.Writer.Header().Del("Authorization")
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

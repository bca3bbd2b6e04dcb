package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/adapter/http/handler"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// Context keys set by BasicAuth
const (
	UserLoginKey = "user_login"
	UserRolesKey = "user_roles"
)

// BasicAuth authenticates the request with HTTP basic credentials
func BasicAuth(auth service.Authenticator, realm string, logger *zap.Logger) gin.HandlerFunc {
	challenge := `Basic realm="` + realm + `", charset="UTF-8"`

	return func(c *gin.Context) {
		login, password, ok := c.Request.BasicAuth()
		if !ok || login == "" {
			unauthorized(c, challenge)
			return
		}

		ctx := c.Request.Context()
		verified, err := auth.VerifyCredentials(ctx, login, password)
		if err != nil {
			logger.Error("Credential check failed", zap.String("login", login), zap.Error(err))
			handler.AbortWithError(c, http.StatusInternalServerError, handler.CodeInternalError, "internal server error")
			return
		}
		if !verified {
			logger.Info("Invalid credentials", zap.String("login", login), zap.String("client_ip", c.ClientIP()))
			unauthorized(c, challenge)
			return
		}

		roles, err := auth.RolesFor(ctx, login)
		if err != nil {
			// the user may have been deleted between the two lookups
			logger.Warn("Failed to resolve roles", zap.String("login", login), zap.Error(err))
			unauthorized(c, challenge)
			return
		}

		c.Set(UserLoginKey, login)
		c.Set(UserRolesKey, roles)
		c.Next()
	}
}

// RequireRole allows the request when the user holds any of roles.
// With no roles every authenticated user passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserLoginKey) == "" {
			handler.AbortWithError(c, http.StatusUnauthorized, handler.CodeUnauthorized, "authentication required")
			return
		}
		if len(roles) == 0 {
			c.Next()
			return
		}

		held := c.GetStringSlice(UserRolesKey)
		for _, want := range roles {
			for _, have := range held {
				if want == have {
					c.Next()
					return
				}
			}
		}
		handler.AbortWithError(c, http.StatusForbidden, handler.CodeForbidden, "insufficient permissions")
	}
}

func unauthorized(c *gin.Context, challenge string) {
	c.Header("WWW-Authenticate", challenge)
	handler.AbortWithError(c, http.StatusUnauthorized, handler.CodeUnauthorized, "authentication required")
}

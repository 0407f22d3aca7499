package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/token"
	"github.com/rs/zerolog/log"
)

const userContextKey = "user"

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// claims on the gin context.
func Auth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authorization header must be Bearer {token}"})
			return
		}

		claims, err := token.Parse(parts[1], cfg.JWT.Secret)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("Auth: rejected token")
			msg := "Invalid token"
			if errors.Is(err, token.ErrExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: msg})
			return
		}

		c.Set(userContextKey, claims)
		c.Next()
	}
}

// RequireRole lets admins through everywhere; other users need one of roles.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}
		if user.IsAdmin() {
			c.Next()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient permissions"})
	}
}

func CurrentUser(c *gin.Context) *token.Claims {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}

// SetUser is used by tests and internal callers that already hold claims.
func SetUser(c *gin.Context, claims *token.Claims) {
	c.Set(userContextKey, claims)
}

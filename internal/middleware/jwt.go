package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentor-dash-api/internal/models"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/response"
)

// ContextMentorKey is the gin context key holding the authenticated mentor's
// claims.
const ContextMentorKey = "mentor_claims"

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	ValidateAccessToken(token string) (*models.MentorClaims, error)
}

// JWT guards a route group with bearer-token authentication.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, apperrors.Clone(apperrors.ErrUnauthorized, "missing bearer token"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextMentorKey, claims)
		c.Next()
	}
}

// MentorClaims extracts the authenticated mentor's claims from the context.
func MentorClaims(c *gin.Context) (*models.MentorClaims, bool) {
	value, ok := c.Get(ContextMentorKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.MentorClaims)
	return claims, ok
}

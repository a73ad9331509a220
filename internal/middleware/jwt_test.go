package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentor-dash-api/internal/models"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type stubTokenValidator struct {
	claims *models.MentorClaims
}

func (v *stubTokenValidator) ValidateAccessToken(token string) (*models.MentorClaims, error) {
	if v.claims == nil {
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "invalid or expired token")
	}
	return v.claims, nil
}

func newGuardedRouter(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(v), func(c *gin.Context) {
		claims, ok := MentorClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mentorId": claims.MentorID})
	})
	return r
}

func TestJWTPassesClaimsToHandlers(t *testing.T) {
	router := newGuardedRouter(&stubTokenValidator{claims: &models.MentorClaims{MentorID: 42}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mentorId":42`)
}

func TestJWTRejectsMissingBearer(t *testing.T) {
	router := newGuardedRouter(&stubTokenValidator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	router := newGuardedRouter(&stubTokenValidator{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

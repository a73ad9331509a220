package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type authMentorDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Mentor, error)
}

// AuthService implements the magic-link sign-in flow: a shared dashboard
// password gates issuance of a short-lived link token for a known mentor
// email, which is then exchanged for an access token.
type AuthService struct {
	mentors  authMentorDirectory
	validate *validator.Validate
	logger   *zap.Logger
	authCfg  config.AuthConfig
	jwtCfg   config.JWTConfig
}

func NewAuthService(mentors authMentorDirectory, logger *zap.Logger, authCfg config.AuthConfig, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		mentors:  mentors,
		validate: validator.New(),
		logger:   logger,
		authCfg:  authCfg,
		jwtCfg:   jwtCfg,
	}
}

// MagicLink issues a sign-in token for the mentor behind the given email.
func (s *AuthService) MagicLink(ctx context.Context, req dto.MagicLinkRequest) (*dto.MagicLinkResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "a valid email and the dashboard password are required")
	}

	// An empty hash means the shared-password gate is off, which is the
	// development default.
	if hash := s.authCfg.DashboardPasswordHash; hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			return nil, apperrors.Clone(apperrors.ErrInvalidCredentials, "incorrect dashboard password")
		}
	}

	mentor, err := s.mentors.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "no mentor is registered with this email")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to look up mentor")
	}

	token, err := s.signToken(mentor, models.TokenPurposeMagicLink, s.jwtCfg.MagicLinkExpiry)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to issue sign-in token")
	}

	s.logger.Info("magic link issued", zap.Int64("mentor_id", mentor.MentorID))
	return &dto.MagicLinkResponse{
		MentorName: mentor.DisplayName(),
		Token:      token,
		ExpiresIn:  int64(s.jwtCfg.MagicLinkExpiry.Seconds()),
	}, nil
}

// Verify exchanges a magic-link token for an access token.
func (s *AuthService) Verify(ctx context.Context, token string) (*dto.VerifyResponse, error) {
	if token == "" {
		return nil, apperrors.Clone(apperrors.ErrValidation, "token is required")
	}

	claims, err := s.parseToken(token)
	if err != nil || claims.Purpose != models.TokenPurposeMagicLink {
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "sign-in link is invalid or has expired")
	}

	mentor := &models.Mentor{MentorID: claims.MentorID, Name: claims.Name}
	if claims.Email != "" {
		mentor.Email = &claims.Email
	}
	accessToken, err := s.signToken(mentor, models.TokenPurposeAccess, s.jwtCfg.Expiration)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to issue access token")
	}

	return &dto.VerifyResponse{
		AccessToken: accessToken,
		MentorID:    claims.MentorID,
		Name:        claims.Name,
		Email:       claims.Email,
	}, nil
}

// ValidateAccessToken checks a bearer token and returns its claims. Used by
// the JWT middleware.
func (s *AuthService) ValidateAccessToken(token string) (*models.MentorClaims, error) {
	claims, err := s.parseToken(token)
	if err != nil || claims.Purpose != models.TokenPurposeAccess {
		return nil, apperrors.Clone(apperrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) signToken(mentor *models.Mentor, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	email := ""
	if mentor.Email != nil {
		email = *mentor.Email
	}
	claims := models.MentorClaims{
		MentorID: mentor.MentorID,
		Email:    email,
		Name:     mentor.DisplayName(),
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
}

func (s *AuthService) parseToken(token string) (*models.MentorClaims, error) {
	claims := &models.MentorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

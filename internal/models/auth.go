package models

import "github.com/golang-jwt/jwt/v5"

// Token purposes. A magic-link token can only be exchanged for an access
// token; it grants no API access by itself.
const (
	TokenPurposeMagicLink = "magic_link"
	TokenPurposeAccess    = "access"
)

// MentorClaims are the JWT claims carried by both magic-link and access
// tokens.
type MentorClaims struct {
	MentorID int64  `json:"mentor_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

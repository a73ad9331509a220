package dto

// MagicLinkRequest starts a mentor sign-in. The password is the shared
// dashboard gate, not a per-mentor credential.
type MagicLinkRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MagicLinkResponse acknowledges an issued sign-in token.
type MagicLinkResponse struct {
	MentorName string `json:"mentorName"`
	Token      string `json:"token"`
	ExpiresIn  int64  `json:"expiresIn"`
}

// VerifyResponse exchanges a magic-link token for an access token.
type VerifyResponse struct {
	AccessToken string `json:"accessToken"`
	MentorID    int64  `json:"mentorId"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
}

// File: internal/auth/model.go
package auth

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest defines the structure for refresh token requests.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// GoogleAuthRequest carries the Google identity token handed to the browser
// client, plus the stated intent ("login" or "signup").
type GoogleAuthRequest struct {
	Token    string `json:"token"`
	IsSignup string `json:"isSignup" binding:"required,oneof=login signup"`
}

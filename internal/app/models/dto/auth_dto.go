package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a student sign-up
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@campus.edu"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required,min=2,max=100" example:"Ada Lovelace"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// NewTokenResponse builds a bearer token response
func NewTokenResponse(accessToken string, expiresIn int) TokenResponse {
	return TokenResponse{AccessToken: accessToken, TokenType: "Bearer", ExpiresIn: int64(expiresIn)}
}

package dto

// LoginRequest represents the login request payload
type LoginRequest struct {
	UserID   int    `json:"user_id" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string      `json:"token"`
	SessionID string      `json:"session_id"`
	User      *UserOutput `json:"user"`
}

package dto

// LoginRequest authenticates a user with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest exchanges a refresh token for a fresh token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthUserDTO is the authenticated user's public profile.
type AuthUserDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// TokenPairDTO carries the issued JWT pair.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is the successful authentication payload.
type LoginResponse struct {
	User   AuthUserDTO  `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

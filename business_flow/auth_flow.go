// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/app/services"
	"github.com/amberlink/ambassador-platform/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthFlow authenticates users and issues JWT pairs
type AuthFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenPairDTO, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(userRepo repository.UserRepository, tokenService services.TokenService) AuthFlow {
	return &AuthFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Login authenticates a user with email and password.
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Email and password are required", nil)
	}

	user, err := f.userRepo.ByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	access, refresh, err := f.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	return &dto.LoginResponse{
		User: dto.AuthUserDTO{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		},
		Tokens: dto.TokenPairDTO{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}, nil
}

// Refresh rotates a refresh token into a fresh pair. The used refresh token
// is revoked by the token service.
func (f *AuthFlowImpl) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenPairDTO, error) {
	if req == nil || req.RefreshToken == "" {
		return nil, NewBusinessError("REFRESH_VALIDATION_FAILED", "Refresh token is required", nil)
	}

	access, refresh, err := f.tokenService.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amberlink/ambassador-platform/config"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
)

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// RoleChecker is the capability-check collaborator injected into flows that
// gate on user roles, decoupling core logic from the identity provider.
type RoleChecker func(ctx context.Context, userID uint, role string) (bool, error)

// NewRepositoryRoleChecker builds a RoleChecker backed by the users table.
func NewRepositoryRoleChecker(userRepo repository.UserRepository) RoleChecker {
	return func(ctx context.Context, userID uint, role string) (bool, error) {
		return userRepo.HasRole(ctx, userID, role)
	}
}

// redisKey derives a namespaced cache key using the configured prefix.
func redisKey(cfg config.CacheConfig, parts ...string) string {
	return cfg.RedisPrefix + strings.Join(parts, "")
}

// getActiveUser loads a user and enforces the active flag.
func getActiveUser(ctx context.Context, repo repository.UserRepository, userID uint) (*models.User, error) {
	user, err := repo.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

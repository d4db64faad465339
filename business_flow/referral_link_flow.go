// Package businessflow contains the core business logic and use cases for referral link workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/config"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
)

// ReferralLinkFlow handles issuing and listing ambassador referral links
type ReferralLinkFlow interface {
	GetOrCreateLink(ctx context.Context, req *dto.CreateReferralLinkRequest, metadata *ClientMetadata) (*dto.ReferralLinkResponse, error)
	ListLinks(ctx context.Context, userID uint) ([]dto.ReferralLinkStatsDTO, error)
}

// ReferralLinkFlowImpl implements the referral link business flow
type ReferralLinkFlowImpl struct {
	linkRepo    repository.ReferralLinkRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	hasRole     RoleChecker
	platformCfg config.PlatformConfig
}

// NewReferralLinkFlow creates a new referral link flow instance
func NewReferralLinkFlow(
	linkRepo repository.ReferralLinkRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	hasRole RoleChecker,
	platformCfg config.PlatformConfig,
) ReferralLinkFlow {
	return &ReferralLinkFlowImpl{
		linkRepo:    linkRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		hasRole:     hasRole,
		platformCfg: platformCfg,
	}
}

// GetOrCreateLink returns the caller's link for a product, creating it when
// absent. The operation is idempotent: repeated calls for the same
// (user, product) pair return the same code, including under concurrency,
// where the unique pair constraint arbitrates and the loser re-reads the
// winner's row.
func (f *ReferralLinkFlowImpl) GetOrCreateLink(ctx context.Context, req *dto.CreateReferralLinkRequest, metadata *ClientMetadata) (*dto.ReferralLinkResponse, error) {
	if req == nil || req.ProductID == 0 {
		return nil, ErrProductIDRequired
	}

	if _, err := getActiveUser(ctx, f.userRepo, req.UserID); err != nil {
		return nil, err
	}

	isAmbassador, err := f.hasRole(ctx, req.UserID, models.RoleAmbassador)
	if err != nil {
		return nil, NewBusinessError("ROLE_CHECK_FAILED", "Failed to check ambassador role", err)
	}
	if !isAmbassador {
		return nil, ErrNotAmbassador
	}

	product, err := f.productRepo.ByIDActive(ctx, req.ProductID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to lookup product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	// Fast path: the pair already has a link.
	existing, err := f.linkRepo.ByUserAndProduct(ctx, req.UserID, req.ProductID)
	if err != nil {
		return nil, NewBusinessError("REFERRAL_LINK_LOOKUP_FAILED", "Failed to lookup referral link", err)
	}
	if existing != nil {
		return f.toResponse(existing), nil
	}

	code, err := GenerateReferralCode(ctx, f.linkRepo.CodeExists)
	if err != nil {
		return nil, err
	}

	link, err := f.linkRepo.CreateIfAbsent(ctx, &models.ReferralLink{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Code:      code,
	})
	if err != nil {
		return nil, NewBusinessError("REFERRAL_LINK_CREATE_FAILED", "Failed to create referral link", err)
	}

	return f.toResponse(link), nil
}

// ListLinks returns all of the ambassador's links with their counters.
func (f *ReferralLinkFlowImpl) ListLinks(ctx context.Context, userID uint) ([]dto.ReferralLinkStatsDTO, error) {
	if _, err := getActiveUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}

	rows, err := f.linkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("REFERRAL_LINK_LIST_FAILED", "Failed to list referral links", err)
	}

	items := make([]dto.ReferralLinkStatsDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ReferralLinkStatsDTO{
			ID:              row.ID,
			ProductID:       row.ProductID,
			Code:            row.Code,
			URL:             f.buildURL(row),
			Clicks:          row.Clicks,
			Conversions:     row.Conversions,
			TotalCommission: row.TotalCommission,
			CreatedAt:       row.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

func (f *ReferralLinkFlowImpl) toResponse(link *models.ReferralLink) *dto.ReferralLinkResponse {
	return &dto.ReferralLinkResponse{
		Code:     link.Code,
		URL:      f.buildURL(link),
		ShortURL: fmt.Sprintf("%s/r/%s", f.baseURL(), link.Code),
	}
}

// buildURL assembles the shareable URL with attribution query parameters.
func (f *ReferralLinkFlowImpl) buildURL(link *models.ReferralLink) string {
	return fmt.Sprintf("%s/r/%s?utm_source=ambassador&utm_medium=referral&utm_campaign=%d",
		f.baseURL(), link.Code, link.ProductID)
}

func (f *ReferralLinkFlowImpl) baseURL() string {
	return strings.TrimRight(f.platformCfg.PublicBaseURL, "/")
}

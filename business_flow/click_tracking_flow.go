// Package businessflow contains the core business logic and use cases for click tracking workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/config"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ClickTrackingFlow classifies and records clicks on referral codes
type ClickTrackingFlow interface {
	TrackClick(ctx context.Context, req *dto.TrackClickRequest, metadata *ClientMetadata) (*dto.TrackClickResponse, error)
	Visit(ctx context.Context, code string, metadata *ClientMetadata) (string, error)
}

// ClickTrackingFlowImpl implements the click tracking business flow
type ClickTrackingFlowImpl struct {
	linkRepo       repository.ReferralLinkRepository
	clickRepo      repository.ClickEventRepository
	commissionRepo repository.CommissionRepository
	settingRepo    repository.PlatformSettingRepository
	db             *gorm.DB
	rc             *redis.Client
	cacheConfig    *config.CacheConfig
	platformConfig config.PlatformConfig
}

// cachedLink is the redis representation of a resolved referral code.
type cachedLink struct {
	ID        uint `json:"id"`
	UserID    uint `json:"user_id"`
	ProductID uint `json:"product_id"`
}

// NewClickTrackingFlow creates a new click tracking flow instance
func NewClickTrackingFlow(
	linkRepo repository.ReferralLinkRepository,
	clickRepo repository.ClickEventRepository,
	commissionRepo repository.CommissionRepository,
	settingRepo repository.PlatformSettingRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	platformConfig config.PlatformConfig,
) ClickTrackingFlow {
	return &ClickTrackingFlowImpl{
		linkRepo:       linkRepo,
		clickRepo:      clickRepo,
		commissionRepo: commissionRepo,
		settingRepo:    settingRepo,
		db:             db,
		rc:             rc,
		cacheConfig:    cacheConfig,
		platformConfig: platformConfig,
	}
}

// TrackClick resolves the code, runs the fraud heuristics and records the
// outcome. Every click lands in the audit log; only clean clicks touch the
// monetized counter and the click commission.
func (f *ClickTrackingFlowImpl) TrackClick(ctx context.Context, req *dto.TrackClickRequest, metadata *ClientMetadata) (*dto.TrackClickResponse, error) {
	if req == nil || req.Code == "" {
		return nil, ErrReferralCodeNotFound
	}

	link, err := f.resolveCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrReferralCodeNotFound
	}

	ip := ""
	ua := ""
	if metadata != nil {
		ip = metadata.IPAddress
		ua = metadata.UserAgent
	}

	// Velocity signal needs the click log, so it is computed here and fed
	// into the pure classifier.
	since := utils.UTCNow().Add(-ClickVelocityWindow)
	repeated, err := f.clickRepo.ExistsFromIPSince(ctx, link.ID, ip, since)
	if err != nil {
		return nil, NewBusinessError("CLICK_VELOCITY_CHECK_FAILED", "Failed to check click velocity", err)
	}

	reasons := ClassifyClick(ua, repeated)
	suspicious := len(reasons) > 0

	event := &models.ClickEvent{
		ReferralLinkID: link.ID,
		IPAddress:      ip,
		IsSuspicious:   suspicious,
	}
	if ua != "" {
		event.UserAgent = utils.ToPtr(ua)
	}
	if suspicious {
		event.Reasons = utils.ToPtr(strings.Join(reasons, "; "))
	}

	// The audit row is written before the counter so a rejected or failed
	// click still leaves a trace.
	if err := f.clickRepo.Save(ctx, event); err != nil {
		return nil, NewBusinessError("CLICK_AUDIT_FAILED", "Failed to record click event", err)
	}

	if !suspicious {
		if err := f.acceptClick(ctx, link); err != nil {
			return nil, NewBusinessError("CLICK_TRACK_FAILED", "Failed to track click", err)
		}
	}

	return &dto.TrackClickResponse{
		Success:    !suspicious,
		Suspicious: suspicious,
		Reasons:    reasons,
		ProductID:  link.ProductID,
	}, nil
}

// Visit resolves a shared link, tracks the click and returns the product page
// URL to redirect to. Suspicious visitors are still redirected; only the
// monetized counter skips them.
func (f *ClickTrackingFlowImpl) Visit(ctx context.Context, code string, metadata *ClientMetadata) (string, error) {
	resp, err := f.TrackClick(ctx, &dto.TrackClickRequest{Code: code}, metadata)
	if err != nil {
		return "", err
	}

	base := strings.TrimRight(f.platformConfig.PublicBaseURL, "/")
	return fmt.Sprintf("%s/products/%d?ref=%s", base, resp.ProductID, strings.ToUpper(code)), nil
}

// acceptClick applies the monetized side effects of a clean click in one
// transactional unit: the counter bump and, when configured, the pending
// click commission for the link owner.
func (f *ClickTrackingFlowImpl) acceptClick(ctx context.Context, link *cachedLink) error {
	amount, err := f.clickCommissionAmount(ctx)
	if err != nil {
		return err
	}

	return repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.linkRepo.IncrementClicks(txCtx, link.ID); err != nil {
			return err
		}

		if amount > 0 {
			commission := &models.Commission{
				UserID:         link.UserID,
				ReferralLinkID: utils.ToPtr(link.ID),
				Kind:           models.CommissionKindClick,
				Amount:         RoundMoney(amount),
				Status:         models.CommissionStatusPending,
			}
			if err := f.commissionRepo.Save(txCtx, commission); err != nil {
				return err
			}
		}

		return nil
	})
}

// resolveCode looks a code up through the redis cache with DB fallback.
// Cache failures degrade silently to the DB read.
func (f *ClickTrackingFlowImpl) resolveCode(ctx context.Context, code string) (*cachedLink, error) {
	key := ""
	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		key = redisKey(*f.cacheConfig, utils.ReferralLinkCachePrefix, code)
		if raw, err := f.rc.Get(ctx, key).Result(); err == nil {
			var cached cachedLink
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	row, err := f.linkRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("REFERRAL_LINK_LOOKUP_FAILED", "Failed to lookup referral link", err)
	}
	if row == nil {
		return nil, nil
	}

	resolved := &cachedLink{ID: row.ID, UserID: row.UserID, ProductID: row.ProductID}

	if key != "" {
		if raw, err := json.Marshal(resolved); err == nil {
			if err := f.rc.Set(ctx, key, raw, f.cacheConfig.DefaultTTL).Err(); err != nil {
				log.Printf("referral link cache write failed for %s: %v", code, err)
			}
		}
	}

	return resolved, nil
}

// clickCommissionAmount reads the per-click commission setting, cached in
// redis with the settings prefix. Missing setting means zero, which disables
// click commissions.
func (f *ClickTrackingFlowImpl) clickCommissionAmount(ctx context.Context) (float64, error) {
	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		key := redisKey(*f.cacheConfig, utils.SettingCachePrefix, utils.ClickCommissionSettingKey)
		if cached, err := f.rc.Get(ctx, key).Float64(); err == nil {
			return cached, nil
		}

		amount, err := f.settingRepo.FloatByKey(ctx, utils.ClickCommissionSettingKey)
		if err != nil {
			return 0, err
		}
		if err := f.rc.Set(ctx, key, amount, f.cacheConfig.DefaultTTL).Err(); err != nil {
			log.Printf("setting cache write failed for %s: %v", utils.ClickCommissionSettingKey, err)
		}
		return amount, nil
	}

	return f.settingRepo.FloatByKey(ctx, utils.ClickCommissionSettingKey)
}

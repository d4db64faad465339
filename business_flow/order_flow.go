// Package businessflow contains the core business logic and use cases for order workflows
package businessflow

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/config"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	"github.com/amberlink/ambassador-platform/utils"
	"gorm.io/gorm"
)

// OrderFlow handles discounted ambassador purchases
type OrderFlow interface {
	PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest, metadata *ClientMetadata) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, userID uint, page, pageSize int) ([]dto.OrderResponse, error)
}

// OrderFlowImpl implements the order business flow
type OrderFlowImpl struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryCommissionRepository
	linkRepo       repository.ReferralLinkRepository
	commissionRepo repository.CommissionRepository
	userRepo       repository.UserRepository
	hasRole        RoleChecker
	db             *gorm.DB
	platformConfig config.PlatformConfig
}

// NewOrderFlow creates a new order flow instance
func NewOrderFlow(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryCommissionRepository,
	linkRepo repository.ReferralLinkRepository,
	commissionRepo repository.CommissionRepository,
	userRepo repository.UserRepository,
	hasRole RoleChecker,
	db *gorm.DB,
	platformConfig config.PlatformConfig,
) OrderFlow {
	return &OrderFlowImpl{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		linkRepo:       linkRepo,
		commissionRepo: commissionRepo,
		userRepo:       userRepo,
		hasRole:        hasRole,
		db:             db,
		platformConfig: platformConfig,
	}
}

// PlaceOrder creates a confirmed order at the ambassador discount. Pricing is
// resolved and frozen before the transactional unit; the unit covers the
// guarded stock decrement, the order insert and the referral attribution, so
// concurrent orders cannot oversell and attribution never outlives a rolled
// back order.
func (f *OrderFlowImpl) PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest, metadata *ClientMetadata) (*dto.OrderResponse, error) {
	if req == nil || req.ProductID == 0 {
		return nil, ErrProductIDRequired
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
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

	category, err := f.categoryRepo.ByCategory(ctx, product.Category)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LOOKUP_FAILED", "Failed to lookup category commission", err)
	}

	commission := ResolveCommission(product, category)
	quote := PriceOrder(product.Price, commission, req.Quantity)

	// Referral attribution is best-effort: an unknown or stale code never
	// blocks the purchase.
	var referral *models.ReferralLink
	if req.ReferralCode != nil && *req.ReferralCode != "" {
		referral, err = f.linkRepo.ByCode(ctx, strings.ToUpper(*req.ReferralCode))
		if err != nil {
			return nil, NewBusinessError("REFERRAL_LINK_LOOKUP_FAILED", "Failed to lookup referral link", err)
		}
	}

	order := &models.Order{
		UserID:          req.UserID,
		ProductID:       product.ID,
		Quantity:        req.Quantity,
		UnitPrice:       product.Price,
		CommissionType:  commission.Type,
		CommissionValue: commission.Value,
		DiscountAmount:  quote.DiscountAmount,
		TotalAmount:     quote.TotalAmount,
		Status:          models.OrderStatusConfirmed,
		Invoice: models.Invoice{
			ProductID:       product.ID,
			ProductTitle:    product.Title,
			Quantity:        req.Quantity,
			UnitPrice:       product.Price,
			CommissionType:  commission.Type,
			CommissionValue: commission.Value,
			DiscountPerUnit: quote.DiscountPerUnit,
			DiscountTotal:   quote.DiscountAmount,
			TotalDue:        quote.TotalAmount,
			Currency:        f.platformConfig.Currency,
		},
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if product.TracksStock() {
			decremented, err := f.productRepo.DecrementStock(txCtx, product.ID, req.Quantity)
			if err != nil {
				return err
			}
			if !decremented {
				return ErrInsufficientStock
			}
		}

		if err := f.orderRepo.Save(txCtx, order); err != nil {
			return err
		}

		if referral != nil {
			saleCommission := quote.DiscountAmount
			if err := f.linkRepo.RecordConversion(txCtx, referral.ID, saleCommission); err != nil {
				return err
			}
			if saleCommission > 0 {
				row := &models.Commission{
					UserID:         referral.UserID,
					OrderID:        utils.ToPtr(order.ID),
					ReferralLinkID: utils.ToPtr(referral.ID),
					Kind:           models.CommissionKindSale,
					Amount:         saleCommission,
					Status:         models.CommissionStatusPending,
				}
				if err := f.commissionRepo.Save(txCtx, row); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		if IsInsufficientStock(err) {
			return nil, ErrInsufficientStock
		}
		return nil, NewBusinessError("ORDER_CREATION_FAILED", "Order creation failed", err)
	}

	// The audit row records that the discount was consumed on a personal
	// purchase. It carries no payout, and its failure never unwinds the
	// committed order.
	audit := &models.Commission{
		UserID:  req.UserID,
		OrderID: utils.ToPtr(order.ID),
		Kind:    models.CommissionKindPersonalPurchase,
		Amount:  0,
		Status:  models.CommissionStatusPending,
	}
	if err := f.commissionRepo.Save(ctx, audit); err != nil {
		log.Printf("personal purchase commission audit failed for order %d: %v", order.ID, err)
	}

	return f.toResponse(order), nil
}

// ListOrders returns the caller's orders, newest first.
func (f *OrderFlowImpl) ListOrders(ctx context.Context, userID uint, page, pageSize int) ([]dto.OrderResponse, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPageSize
	}

	if _, err := getActiveUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}

	rows, err := f.orderRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Failed to list orders", err)
	}

	items := make([]dto.OrderResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, *f.toResponse(row))
	}
	return items, nil
}

func (f *OrderFlowImpl) toResponse(order *models.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:              order.ID,
		ProductID:       order.ProductID,
		Quantity:        order.Quantity,
		UnitPrice:       order.UnitPrice,
		CommissionType:  order.CommissionType,
		CommissionValue: order.CommissionValue,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		Invoice:         order.Invoice,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}
}

// Package tests contains integration tests for order flows
package tests

import (
	"testing"

	"github.com/amberlink/ambassador-platform/app/dto"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	testingutil "github.com/amberlink/ambassador-platform/testing"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		userRepo := repository.NewUserRepository(testDB.DB)
		productRepo := repository.NewProductRepository(testDB.DB)
		categoryRepo := repository.NewCategoryCommissionRepository(testDB.DB)
		linkRepo := repository.NewReferralLinkRepository(testDB.DB)
		orderRepo := repository.NewOrderRepository(testDB.DB)
		commissionRepo := repository.NewCommissionRepository(testDB.DB)

		flow := businessflow.NewOrderFlow(
			orderRepo,
			productRepo,
			categoryRepo,
			linkRepo,
			commissionRepo,
			userRepo,
			businessflow.NewRepositoryRoleChecker(userRepo),
			testDB.DB,
			testPlatformConfig(),
		)

		t.Run("SuccessfulOrderWithPercentageDiscount", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(1000, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  3,
				UserID:    ambassador.ID,
			}, nil)
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, models.OrderStatusConfirmed, resp.Status)
			assert.InDelta(t, 1000, resp.UnitPrice, 0.0001)
			assert.InDelta(t, 300, resp.DiscountAmount, 0.0001)
			assert.InDelta(t, 2700, resp.TotalAmount, 0.0001)
			assert.Equal(t, models.CommissionTypePercentage, resp.CommissionType)
			assert.InDelta(t, 10, resp.CommissionValue, 0.0001)

			// Invoice freezes the pricing inputs
			assert.Equal(t, product.ID, resp.Invoice.ProductID)
			assert.Equal(t, product.Title, resp.Invoice.ProductTitle)
			assert.Equal(t, 3, resp.Invoice.Quantity)
			assert.InDelta(t, 100, resp.Invoice.DiscountPerUnit, 0.0001)
			assert.InDelta(t, 2700, resp.Invoice.TotalDue, 0.0001)
			assert.Equal(t, "USD", resp.Invoice.Currency)

			// Stock decremented inside the same unit
			refreshed, err := productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 7, refreshed.StockQuantity)

			// Personal purchase audit row, zero amount
			rows, err := commissionRepo.ListByUser(ctx, ambassador.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, models.CommissionKindPersonalPurchase, rows[0].Kind)
			assert.Zero(t, rows[0].Amount)
			require.NotNil(t, rows[0].OrderID)
			assert.Equal(t, resp.ID, *rows[0].OrderID)
		})

		t.Run("CategoryFallbackPricing", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(500, models.CommissionTypePercentage, 0, 10)
			require.NoError(t, err)
			_, err = fixtures.CreateTestCategoryCommission(product.Category, models.CommissionTypeFixed, 50)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  2,
				UserID:    ambassador.ID,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, models.CommissionTypeFixed, resp.CommissionType)
			assert.InDelta(t, 100, resp.DiscountAmount, 0.0001)
			assert.InDelta(t, 900, resp.TotalAmount, 0.0001)
		})

		t.Run("FixedDiscountCappedAtUnitPrice", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(500, models.CommissionTypeFixed, 600, 5)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  1,
				UserID:    ambassador.ID,
			}, nil)
			require.NoError(t, err)
			assert.InDelta(t, 500, resp.DiscountAmount, 0.0001)
			assert.InDelta(t, 0.01, resp.TotalAmount, 0.0001)
		})

		t.Run("InsufficientStock", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 2)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  3,
				UserID:    ambassador.ID,
			}, nil)
			assert.True(t, businessflow.IsInsufficientStock(err))
			assert.Nil(t, resp)

			// Nothing committed: stock unchanged, no order row
			refreshed, err := productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, refreshed.StockQuantity)

			orders, err := orderRepo.ListByUser(ctx, ambassador.ID, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})

		t.Run("UntrackedStockNeverBlocks", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 0)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  50,
				UserID:    ambassador.ID,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusConfirmed, resp.Status)

			refreshed, err := productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, refreshed.StockQuantity)
		})

		t.Run("ReferralAttribution", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			referrer, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			buyer, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(1000, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)
			link, err := fixtures.CreateTestReferralLink(referrer.ID, product.ID)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID:    product.ID,
				Quantity:     2,
				ReferralCode: utils.ToPtr(link.Code),
				UserID:       buyer.ID,
			}, nil)
			require.NoError(t, err)

			// Conversion recorded on the link with the sale commission
			refreshedLink, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), refreshedLink.Conversions)
			assert.InDelta(t, 200, refreshedLink.TotalCommission, 0.0001)

			// Sale commission accrued to the referrer, not the buyer
			referrerRows, err := commissionRepo.ListByUser(ctx, referrer.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, referrerRows, 1)
			assert.Equal(t, models.CommissionKindSale, referrerRows[0].Kind)
			assert.InDelta(t, 200, referrerRows[0].Amount, 0.0001)
			require.NotNil(t, referrerRows[0].OrderID)
			assert.Equal(t, resp.ID, *referrerRows[0].OrderID)

			buyerRows, err := commissionRepo.ListByUser(ctx, buyer.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, buyerRows, 1)
			assert.Equal(t, models.CommissionKindPersonalPurchase, buyerRows[0].Kind)
		})

		t.Run("UnknownReferralCodeIgnored", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID:    product.ID,
				Quantity:     1,
				ReferralCode: utils.ToPtr("NOSUCHCD"),
				UserID:       ambassador.ID,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusConfirmed, resp.Status)
		})

		t.Run("InvalidQuantity", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  0,
				UserID:    ambassador.ID,
			}, nil)
			assert.True(t, businessflow.IsInvalidQuantity(err))
			assert.Nil(t, resp)
		})

		t.Run("NonAmbassadorRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser(models.RoleUser)
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: product.ID,
				Quantity:  1,
				UserID:    user.ID,
			}, nil)
			assert.True(t, businessflow.IsNotAmbassador(err))
			assert.Nil(t, resp)
		})

		t.Run("ProductNotFound", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
				ProductID: 999999,
				Quantity:  1,
				UserID:    ambassador.ID,
			}, nil)
			assert.True(t, businessflow.IsProductNotFound(err))
			assert.Nil(t, resp)
		})

		t.Run("ListOrders", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 10, 10)
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err := flow.PlaceOrder(ctx, &dto.PlaceOrderRequest{
					ProductID: product.ID,
					Quantity:  1,
					UserID:    ambassador.ID,
				}, nil)
				require.NoError(t, err)
			}

			orders, err := flow.ListOrders(ctx, ambassador.ID, 1, 20)
			require.NoError(t, err)
			assert.Len(t, orders, 3)

			paged, err := flow.ListOrders(ctx, ambassador.ID, 2, 2)
			require.NoError(t, err)
			assert.Len(t, paged, 1)

			_, err = flow.ListOrders(ctx, ambassador.ID, 0, 20)
			assert.True(t, businessflow.IsInvalidPage(err))

			_, err = flow.ListOrders(ctx, ambassador.ID, 1, 500)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		return nil
	})
	require.NoError(t, err)
}

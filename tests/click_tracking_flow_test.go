// Package tests contains integration tests for click tracking flows
package tests

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amberlink/ambassador-platform/app/dto"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	testingutil "github.com/amberlink/ambassador-platform/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanBrowserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func TestClickTrackingFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		linkRepo := repository.NewReferralLinkRepository(testDB.DB)
		clickRepo := repository.NewClickEventRepository(testDB.DB)
		commissionRepo := repository.NewCommissionRepository(testDB.DB)
		settingRepo := repository.NewPlatformSettingRepository(testDB.DB)

		// Cache disabled in tests; the flow degrades to DB reads.
		flow := businessflow.NewClickTrackingFlow(
			linkRepo,
			clickRepo,
			commissionRepo,
			settingRepo,
			testDB.DB,
			nil,
			nil,
			testPlatformConfig(),
		)

		newLink := func(t *testing.T) (*models.User, *models.ReferralLink) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 5, 10)
			require.NoError(t, err)
			link, err := fixtures.CreateTestReferralLink(ambassador.ID, product.ID)
			require.NoError(t, err)
			return ambassador, link
		}

		t.Run("CleanClickIncrementsCounter", func(t *testing.T) {
			_, link := newLink(t)

			resp, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.10", cleanBrowserUA))
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.False(t, resp.Suspicious)
			assert.Empty(t, resp.Reasons)
			assert.Equal(t, link.ProductID, resp.ProductID)

			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), refreshed.Clicks)

			events, err := clickRepo.ListByLink(ctx, link.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.False(t, events[0].IsSuspicious)
			assert.Nil(t, events[0].Reasons)
		})

		t.Run("BotClickAuditedButNotCounted", func(t *testing.T) {
			_, link := newLink(t)

			resp, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.11", "curl/8.4.0"))
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.True(t, resp.Suspicious)
			assert.Contains(t, resp.Reasons, businessflow.ReasonBotUserAgent)

			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), refreshed.Clicks)

			events, err := clickRepo.ListByLink(ctx, link.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.True(t, events[0].IsSuspicious)
			require.NotNil(t, events[0].Reasons)
			assert.Contains(t, *events[0].Reasons, businessflow.ReasonBotUserAgent)
		})

		t.Run("RepeatedIPWithinWindowFlagged", func(t *testing.T) {
			_, link := newLink(t)
			metadata := businessflow.NewClientMetadata("203.0.113.12", cleanBrowserUA)

			first, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code}, metadata)
			require.NoError(t, err)
			assert.True(t, first.Success)

			second, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code}, metadata)
			require.NoError(t, err)
			assert.False(t, second.Success)
			assert.Contains(t, second.Reasons, businessflow.ReasonRepeatedClicks)

			// Only the first click counted; both are in the audit log.
			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), refreshed.Clicks)

			events, err := clickRepo.ListByLink(ctx, link.ID, 0, 0)
			require.NoError(t, err)
			assert.Len(t, events, 2)
		})

		t.Run("DifferentIPsAreIndependent", func(t *testing.T) {
			_, link := newLink(t)

			first, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.13", cleanBrowserUA))
			require.NoError(t, err)
			assert.True(t, first.Success)

			second, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.14", cleanBrowserUA))
			require.NoError(t, err)
			assert.True(t, second.Success)

			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), refreshed.Clicks)
		})

		t.Run("UnknownCodeRejected", func(t *testing.T) {
			resp, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: "ZZZZZZZZ"},
				businessflow.NewClientMetadata("203.0.113.15", cleanBrowserUA))
			assert.True(t, businessflow.IsReferralCodeNotFound(err))
			assert.Nil(t, resp)
		})

		t.Run("CodeLookupIsCaseInsensitive", func(t *testing.T) {
			_, link := newLink(t)

			resp, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: strings.ToLower(link.Code)},
				businessflow.NewClientMetadata("203.0.113.16", cleanBrowserUA))
			require.NoError(t, err)
			assert.True(t, resp.Success)
		})

		t.Run("CleanClickAccruesConfiguredCommission", func(t *testing.T) {
			require.NoError(t, fixtures.SetClickCommission(0.25))
			owner, link := newLink(t)

			resp, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.17", cleanBrowserUA))
			require.NoError(t, err)
			assert.True(t, resp.Success)

			rows, err := commissionRepo.ListByUser(ctx, owner.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, models.CommissionKindClick, rows[0].Kind)
			assert.InDelta(t, 0.25, rows[0].Amount, 0.0001)
			assert.Equal(t, models.CommissionStatusPending, rows[0].Status)
			require.NotNil(t, rows[0].ReferralLinkID)
			assert.Equal(t, link.ID, *rows[0].ReferralLinkID)
		})

		t.Run("SuspiciousClickAccruesNothing", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetClickCommission(0.25))
			owner, link := newLink(t)

			_, err := flow.TrackClick(ctx, &dto.TrackClickRequest{Code: link.Code},
				businessflow.NewClientMetadata("203.0.113.18", "wget/1.21"))
			require.NoError(t, err)

			rows, err := commissionRepo.ListByUser(ctx, owner.ID, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})

		t.Run("VisitRedirectsToProductPage", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, link := newLink(t)

			target, err := flow.Visit(ctx, link.Code,
				businessflow.NewClientMetadata("203.0.113.19", cleanBrowserUA))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("https://shop.example.com/products/%d?ref=%s", link.ProductID, link.Code), target)

			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), refreshed.Clicks)
		})

		t.Run("SuspiciousVisitorStillRedirected", func(t *testing.T) {
			_, link := newLink(t)

			target, err := flow.Visit(ctx, link.Code,
				businessflow.NewClientMetadata("203.0.113.20", "python-requests/2.31"))
			require.NoError(t, err)
			assert.NotEmpty(t, target)

			refreshed, err := linkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), refreshed.Clicks)
		})

		return nil
	})
	require.NoError(t, err)
}

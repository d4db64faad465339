// Package tests contains integration tests for commission flows
package tests

import (
	"bytes"
	"testing"

	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	testingutil "github.com/amberlink/ambassador-platform/testing"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCommissionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		userRepo := repository.NewUserRepository(testDB.DB)
		commissionRepo := repository.NewCommissionRepository(testDB.DB)

		flow := businessflow.NewCommissionFlow(commissionRepo, userRepo)

		seedCommissions := func(t *testing.T, userID uint, linkID uint, amounts []float64) {
			for _, amount := range amounts {
				row := &models.Commission{
					UserID:         userID,
					ReferralLinkID: utils.ToPtr(linkID),
					Kind:           models.CommissionKindClick,
					Amount:         amount,
					Status:         models.CommissionStatusPending,
				}
				require.NoError(t, commissionRepo.Save(ctx, row))
			}
		}

		t.Run("ListCommissions", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 5, 10)
			require.NoError(t, err)
			link, err := fixtures.CreateTestReferralLink(ambassador.ID, product.ID)
			require.NoError(t, err)

			seedCommissions(t, ambassador.ID, link.ID, []float64{0.25, 0.25, 1.5})

			rows, err := flow.ListCommissions(ctx, ambassador.ID, 1, 20)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			for _, row := range rows {
				assert.Equal(t, models.CommissionKindClick, row.Kind)
				assert.Equal(t, models.CommissionStatusPending, row.Status)
				require.NotNil(t, row.ReferralLinkID)
				assert.Equal(t, link.ID, *row.ReferralLinkID)
			}

			paged, err := flow.ListCommissions(ctx, ambassador.ID, 2, 2)
			require.NoError(t, err)
			assert.Len(t, paged, 1)
		})

		t.Run("ListValidatesPagination", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)

			_, err = flow.ListCommissions(ctx, ambassador.ID, 0, 20)
			assert.True(t, businessflow.IsInvalidPage(err))

			_, err = flow.ListCommissions(ctx, ambassador.ID, 1, 0)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		t.Run("OtherUsersRowsInvisible", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)

			rows, err := flow.ListCommissions(ctx, ambassador.ID, 1, 20)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})

		t.Run("ExportCommissionsExcel", func(t *testing.T) {
			ambassador, err := fixtures.CreateTestAmbassador()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(100, models.CommissionTypePercentage, 5, 10)
			require.NoError(t, err)
			link, err := fixtures.CreateTestReferralLink(ambassador.ID, product.ID)
			require.NoError(t, err)

			seedCommissions(t, ambassador.ID, link.ID, []float64{0.25, 2})

			filename, payload, err := flow.ExportCommissionsExcel(ctx, ambassador.ID)
			require.NoError(t, err)
			assert.Equal(t, "commissions.xlsx", filename)
			require.NotEmpty(t, payload)

			// The payload is a readable workbook with a header plus one row
			// per commission
			xl, err := excelize.OpenReader(bytes.NewReader(payload))
			require.NoError(t, err)
			defer func() { _ = xl.Close() }()

			cells, err := xl.GetRows("commissions")
			require.NoError(t, err)
			require.Len(t, cells, 3)
			assert.Equal(t, "id", cells[0][0])
			assert.Equal(t, "kind", cells[0][1])
			assert.Equal(t, string(models.CommissionKindClick), cells[1][1])
		})

		t.Run("ExportForUnknownUser", func(t *testing.T) {
			_, _, err := flow.ExportCommissionsExcel(ctx, 999999)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

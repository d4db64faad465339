// Package businessflow contains the core business logic and use cases for commission workflows
package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/repository"
	"github.com/xuri/excelize/v2"
)

// CommissionFlow exposes the ambassador's commission ledger
type CommissionFlow interface {
	ListCommissions(ctx context.Context, userID uint, page, pageSize int) ([]dto.CommissionDTO, error)
	ExportCommissionsExcel(ctx context.Context, userID uint) (string, []byte, error)
}

// CommissionFlowImpl implements the commission business flow
type CommissionFlowImpl struct {
	commissionRepo repository.CommissionRepository
	userRepo       repository.UserRepository
}

// NewCommissionFlow creates a new commission flow instance
func NewCommissionFlow(
	commissionRepo repository.CommissionRepository,
	userRepo repository.UserRepository,
) CommissionFlow {
	return &CommissionFlowImpl{
		commissionRepo: commissionRepo,
		userRepo:       userRepo,
	}
}

// ListCommissions returns the caller's commission rows, newest first.
func (f *CommissionFlowImpl) ListCommissions(ctx context.Context, userID uint, page, pageSize int) ([]dto.CommissionDTO, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPageSize
	}

	if _, err := getActiveUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}

	rows, err := f.commissionRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("COMMISSION_LIST_FAILED", "Failed to list commissions", err)
	}

	items := make([]dto.CommissionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.CommissionDTO{
			ID:             row.ID,
			Kind:           row.Kind,
			Amount:         row.Amount,
			Status:         row.Status,
			OrderID:        row.OrderID,
			ReferralLinkID: row.ReferralLinkID,
			CreatedAt:      row.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// ExportCommissionsExcel renders the caller's full commission ledger as an
// xlsx workbook and returns the filename plus its bytes.
func (f *CommissionFlowImpl) ExportCommissionsExcel(ctx context.Context, userID uint) (string, []byte, error) {
	if _, err := getActiveUser(ctx, f.userRepo, userID); err != nil {
		return "", nil, err
	}

	rows, err := f.commissionRepo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("COMMISSION_LIST_FAILED", "Failed to list commissions", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "commissions"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "kind", "amount", "status", "order_id", "referral_link_id", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, row := range rows {
		orderID := ""
		if row.OrderID != nil {
			orderID = strconv.FormatUint(uint64(*row.OrderID), 10)
		}
		linkID := ""
		if row.ReferralLinkID != nil {
			linkID = strconv.FormatUint(uint64(*row.ReferralLinkID), 10)
		}
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			string(row.Kind),
			strconv.FormatFloat(row.Amount, 'f', 2, 64),
			string(row.Status),
			orderID,
			linkID,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return "commissions.xlsx", buf.Bytes(), nil
}

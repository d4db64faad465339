// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/gofiber/fiber/v3"
)

// CommissionHandlerInterface defines the contract for commission handlers.
type CommissionHandlerInterface interface {
	List(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// CommissionHandler handles commission ledger requests.
type CommissionHandler struct {
	flow businessflow.CommissionFlow
}

// NewCommissionHandler creates a new commission handler.
func NewCommissionHandler(flow businessflow.CommissionFlow) *CommissionHandler {
	return &CommissionHandler{flow: flow}
}

func (h *CommissionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CommissionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the caller's commission rows.
// @Summary List commissions
// @Description List the authenticated ambassador's commissions
// @Tags Commissions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.CommissionDTO} "Retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/commissions [get]
func (h *CommissionHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	res, err := h.flow.ListCommissions(h.createRequestContext(c, "/api/v1/commissions"), userID, page, pageSize)
	if err != nil {
		switch {
		case businessflow.IsInvalidPage(err), businessflow.IsInvalidPageSize(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		case businessflow.IsUserNotFound(err), businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list commissions", "COMMISSION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Commissions retrieved", res)
}

// Export downloads the caller's commission ledger as an xlsx workbook.
// @Summary Export commissions
// @Description Download the authenticated ambassador's commission ledger as xlsx
// @Tags Commissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "xlsx file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/commissions/export [get]
func (h *CommissionHandler) Export(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	filename, data, err := h.flow.ExportCommissionsExcel(h.createRequestContext(c, "/api/v1/commissions/export"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate export", "DOWNLOAD_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *CommissionHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CommissionHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ReferralLinkHandlerInterface defines the contract for referral link handlers.
type ReferralLinkHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// ReferralLinkHandler handles referral link requests.
type ReferralLinkHandler struct {
	flow      businessflow.ReferralLinkFlow
	validator *validator.Validate
}

// NewReferralLinkHandler creates a new referral link handler.
func NewReferralLinkHandler(flow businessflow.ReferralLinkFlow) *ReferralLinkHandler {
	return &ReferralLinkHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ReferralLinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ReferralLinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create issues (or returns) the caller's referral link for a product.
// @Summary Create referral link
// @Description Get or create the authenticated ambassador's referral link for a product
// @Tags Referral Links
// @Accept json
// @Produce json
// @Param request body dto.CreateReferralLinkRequest true "Referral link payload"
// @Success 201 {object} dto.APIResponse{data=dto.ReferralLinkResponse} "Created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not an ambassador"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/referral-links [post]
func (h *ReferralLinkHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.CreateReferralLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, e := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(e))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	req.UserID = userID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.flow.GetOrCreateLink(h.createRequestContext(c, "/api/v1/referral-links"), &req, metadata)
	if err != nil {
		switch {
		case businessflow.IsProductIDRequired(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product ID is required", "PRODUCT_ID_REQUIRED", nil)
		case businessflow.IsProductNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		case businessflow.IsNotAmbassador(err):
			return h.ErrorResponse(c, fiber.StatusForbidden, "Ambassador role required", "NOT_AMBASSADOR", nil)
		case businessflow.IsUserNotFound(err), businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		case businessflow.IsCodeSpaceExhausted(err):
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Referral code generation failed", "CODE_SPACE_EXHAUSTED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create referral link", "REFERRAL_LINK_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Referral link ready", res)
}

// List returns the caller's referral links with their counters.
// @Summary List referral links
// @Description List the authenticated ambassador's referral links
// @Tags Referral Links
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ReferralLinkStatsDTO} "Retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/referral-links [get]
func (h *ReferralLinkHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	res, err := h.flow.ListLinks(h.createRequestContext(c, "/api/v1/referral-links"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list referral links", "REFERRAL_LINK_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Referral links retrieved", res)
}

func (h *ReferralLinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ReferralLinkHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

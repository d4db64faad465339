// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/app/middleware"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ClickHandlerInterface defines the contract for public click endpoints.
type ClickHandlerInterface interface {
	Track(c fiber.Ctx) error
	Visit(c fiber.Ctx) error
}

// ClickHandler handles click tracking requests.
type ClickHandler struct {
	flow      businessflow.ClickTrackingFlow
	validator *validator.Validate
}

// NewClickHandler creates a new click handler.
func NewClickHandler(flow businessflow.ClickTrackingFlow) *ClickHandler {
	return &ClickHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ClickHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClickHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Track classifies and records a click on a referral code.
// @Summary Track referral click
// @Description Classify and record a click on a referral code (public)
// @Tags Clicks
// @Accept json
// @Produce json
// @Param request body dto.TrackClickRequest true "Click payload"
// @Success 200 {object} dto.APIResponse{data=dto.TrackClickResponse} "Tracked"
// @Failure 400 {object} dto.APIResponse "Unknown code or validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/track-click [post]
func (h *ClickHandler) Track(c fiber.Ctx) error {
	var req dto.TrackClickRequest
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

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.flow.TrackClick(h.createRequestContext(c, "/api/v1/track-click"), &req, metadata)
	if err != nil {
		if businessflow.IsReferralCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Referral code not found", "REFERRAL_CODE_NOT_FOUND", nil)
		}
		log.Println("Track click failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to track click", "CLICK_TRACK_FAILED", nil)
	}

	middleware.CountClick(res.Suspicious)

	return h.SuccessResponse(c, fiber.StatusOK, "Click processed", res)
}

// Visit resolves a shared referral link and redirects to the product page.
// @Summary Visit referral link
// @Description Track the click and redirect to the product page (public)
// @Tags Clicks
// @Produce json
// @Param code path string true "Referral code"
// @Success 302 {string} string "Redirect"
// @Failure 404 {object} any
// @Failure 500 {object} any
// @Router /r/{code} [get]
func (h *ClickHandler) Visit(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid referral link")
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	target, err := h.flow.Visit(h.createRequestContext(c, "/r/"+code), code, metadata)
	if err != nil {
		if businessflow.IsReferralCodeNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		log.Println("Visit referral link failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	c.Redirect().Status(fiber.StatusFound).To(target)
	return nil
}

func (h *ClickHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *ClickHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

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

// AuthHandlerInterface defines the contract for authentication handlers.
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
}

// AuthHandler handles authentication requests.
type AuthHandler struct {
	flow      businessflow.AuthFlow
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(flow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Login authenticates a user and issues a JWT pair.
// @Summary Login
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Authenticated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
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
	res, err := h.flow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		switch {
		case businessflow.IsUserNotFound(err), businessflow.IsIncorrectPassword(err):
			// Same response for both, so the endpoint does not leak which
			// accounts exist.
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		case businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", res)
}

// Refresh exchanges a refresh token for a new pair.
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenPairDTO} "Refreshed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
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

	res, err := h.flow.Refresh(h.createRequestContext(c, "/api/v1/auth/refresh"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", "TOKEN_REFRESH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tokens refreshed", res)
}

func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AuthHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

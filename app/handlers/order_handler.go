// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/amberlink/ambassador-platform/app/dto"
	"github.com/amberlink/ambassador-platform/app/middleware"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// OrderHandlerInterface defines the contract for order handlers.
type OrderHandlerInterface interface {
	Place(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// OrderHandler handles ambassador order requests.
type OrderHandler struct {
	flow      businessflow.OrderFlow
	validator *validator.Validate
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(flow businessflow.OrderFlow) *OrderHandler {
	return &OrderHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *OrderHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *OrderHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Place creates a discounted ambassador order.
// @Summary Place order
// @Description Place a discounted order as the authenticated ambassador
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body dto.PlaceOrderRequest true "Order payload"
// @Success 201 {object} dto.APIResponse{data=dto.OrderResponse} "Created"
// @Failure 400 {object} dto.APIResponse "Validation error or insufficient stock"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not an ambassador"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/orders [post]
func (h *OrderHandler) Place(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.PlaceOrderRequest
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
	res, err := h.flow.PlaceOrder(h.createRequestContext(c, "/api/v1/orders"), &req, metadata)
	if err != nil {
		switch {
		case businessflow.IsProductIDRequired(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product ID is required", "PRODUCT_ID_REQUIRED", nil)
		case businessflow.IsInvalidQuantity(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be at least 1", "INVALID_QUANTITY", nil)
		case businessflow.IsProductNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		case businessflow.IsNotAmbassador(err):
			return h.ErrorResponse(c, fiber.StatusForbidden, "Ambassador role required", "NOT_AMBASSADOR", nil)
		case businessflow.IsInsufficientStock(err):
			middleware.CountOrder("insufficient_stock")
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Insufficient stock for requested quantity", "INSUFFICIENT_STOCK", nil)
		case businessflow.IsUserNotFound(err), businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		}
		log.Println("Place order failed", err)
		middleware.CountOrder("failed")
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order creation failed", "ORDER_CREATION_FAILED", nil)
	}

	middleware.CountOrder("confirmed")

	return h.SuccessResponse(c, fiber.StatusCreated, "Order placed successfully", res)
}

// List returns the caller's orders.
// @Summary List orders
// @Description List the authenticated ambassador's orders
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.OrderResponse} "Retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	res, err := h.flow.ListOrders(h.createRequestContext(c, "/api/v1/orders"), userID, page, pageSize)
	if err != nil {
		switch {
		case businessflow.IsInvalidPage(err), businessflow.IsInvalidPageSize(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		case businessflow.IsUserNotFound(err), businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_UNAVAILABLE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list orders", "ORDER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Orders retrieved", res)
}

func queryInt(c fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (h *OrderHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *OrderHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

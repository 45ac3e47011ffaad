package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tekbug/log-manager/internal/adapters/http/dto"
	"github.com/tekbug/log-manager/internal/app"
)

// OrderHandler handles order-related HTTP endpoints.
type OrderHandler struct {
	service *app.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service *app.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// PlaceOrder handles POST /api/v1/orders
// Creates a new order from the request body.
//
// @Summary Place an order
// @Description Validates and persists a new order
// @Tags orders
// @Accept json
// @Produce json
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		if fieldErrors := dto.ValidationErrors(err); len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
				dto.ErrorCodeValidation,
				"request validation failed",
				fieldErrors,
			).WithTraceID(dto.GetTraceID(c)))
			return
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid request body",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	customer, items := req.ToDomain()

	order, err := h.service.PlaceOrder(c.Request.Context(), customer, items)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// GetOrder handles GET /api/v1/orders/:id
// Returns a specific order by its identifier.
//
// @Summary Get an order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"order ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// ListOrders handles GET /api/v1/orders
// Returns all stored orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": dto.ToOrderResponses(orders)})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
// Cancels a pending order.
//
// @Summary Cancel an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"order ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// ConfirmPending handles POST /api/v1/orders/confirm
// Confirms all pending orders and returns the confirmed IDs.
func (h *OrderHandler) ConfirmPending(c *gin.Context) {
	const confirmConcurrency = 4

	confirmed, err := h.service.ConfirmPending(c.Request.Context(), confirmConcurrency)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmed": confirmed})
}

// RegisterOrderRoutes registers order routes on the given router group.
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.PlaceOrder)
	orders.GET("", h.ListOrders)
	orders.POST("/confirm", h.ConfirmPending)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/cancel", h.CancelOrder)
}

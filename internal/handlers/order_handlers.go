package handlers

import (
	"net/http"
	"strconv"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for the order lifecycle.
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

func parsePaymentMethod(raw string) (models.PaymentMethod, bool) {
	switch models.PaymentMethod(raw) {
	case models.PaymentMethodCash, models.PaymentMethodCreditCard, models.PaymentMethodDebitCard, models.PaymentMethodPix:
		return models.PaymentMethod(raw), true
	}
	return "", false
}

// StartOrder handles POST /orders/start/:tableId
func (h *OrderHandlers) StartOrder(c echo.Context) error {
	tableID, err := strconv.Atoi(c.Param("tableId"))
	if err != nil {
		return common.SendClientError(c, "Invalid table id")
	}

	order, err := h.orderService.OpenOrder(c.Request().Context(), tableID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// AddItem handles POST /orders/:orderId/items
func (h *OrderHandlers) AddItem(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}
	if err := common.ValidatePositiveInteger(req.Quantity, "quantity", 1000); err != nil {
		return common.SendValidationError(c, "quantity", err.Error())
	}

	order, err := h.orderService.AddItem(c.Request().Context(), orderID, productID, req.Quantity)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// RemoveItem handles DELETE /orders/:orderId/items/:itemId
func (h *OrderHandlers) RemoveItem(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return common.SendClientError(c, "Invalid item id")
	}

	order, err := h.orderService.RemoveItem(c.Request().Context(), orderID, itemID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateItemQuantity handles PUT /orders/:orderId/items/:itemId
func (h *OrderHandlers) UpdateItemQuantity(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return common.SendClientError(c, "Invalid item id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request().Context(), orderID, itemID, req.Quantity)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CloseOrder handles POST /orders/:orderId/close
func (h *OrderHandlers) CloseOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	paymentMethod, ok := parsePaymentMethod(req.PaymentMethod)
	if !ok {
		return common.SendValidationError(c, "payment_method", "must be one of CASH, CREDIT_CARD, DEBIT_CARD, PIX")
	}

	sale, err := h.orderService.CloseOrder(c.Request().Context(), orderID, paymentMethod)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// CancelOrder handles POST /orders/:orderId/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), orderID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrder handles GET /orders/:orderId
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	order, err := h.orderService.GetOrderByID(c.Request().Context(), orderID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrderByTable handles GET /orders/by-table/:tableId. A table with no
// active order yields 204, not an error.
func (h *OrderHandlers) GetOrderByTable(c echo.Context) error {
	tableID, err := strconv.Atoi(c.Param("tableId"))
	if err != nil {
		return common.SendClientError(c, "Invalid table id")
	}

	order, err := h.orderService.GetActiveOrderForTable(c.Request().Context(), tableID)
	if err != nil {
		return common.HandleServiceError(c, err)
	}
	if order == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, order)
}

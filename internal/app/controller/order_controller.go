package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	apperrors "github.com/dsaidov/mebelplaza-backend/internal/errors"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService  service.OrderService
	exportService service.ExportService
	defaultRegion model.Region
}

func NewOrderController(orderService service.OrderService, exportService service.ExportService, defaultRegion model.Region) *OrderController {
	return &OrderController{
		orderService:  orderService,
		exportService: exportService,
		defaultRegion: defaultRegion,
	}
}

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	ShippingAddress string `json:"shipping_address"`
	Comment         string `json:"comment"`
	Region          string `json:"region"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ctrl *OrderController) checkoutRequestFrom(c *gin.Context, req CheckoutRequest) service.CheckoutRequest {
	region := ctrl.defaultRegion
	if req.Region != "" {
		region = model.ParseRegion(req.Region)
	}

	out := service.CheckoutRequest{
		Owner:           middleware.GetStateOwner(c),
		SessionID:       middleware.GetSessionID(c),
		Region:          region,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Comment:         req.Comment,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		out.UserID = &userID
	}
	return out
}

// Checkout turns the visitor's cart into an order.
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные заказа")
		return
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), ctrl.checkoutRequestFrom(c, req))
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"number": order.Number,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// CheckoutOneClick places an express order from the one-click slot.
// POST /api/v1/orders/one-click
func (ctrl *OrderController) CheckoutOneClick(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid one-click checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные заказа")
		return
	}

	order, err := ctrl.orderService.CheckoutOneClick(c.Request.Context(), ctrl.checkoutRequestFrom(c, req))
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	log.Info("Express order placed", map[string]interface{}{
		"number": order.Number,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListOrders returns the visitor's order history: the user's orders when
// logged in, the session's guest orders otherwise.
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var (
		orders []model.Order
		err    error
	)
	if userID, ok := middleware.GetUserID(c); ok {
		orders, err = ctrl.orderService.GetOrdersForUser(userID)
	} else {
		orders, err = ctrl.orderService.GetOrdersForSession(middleware.GetSessionID(c))
	}
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order. Users may only read their own orders; guests
// are matched by session; admins read anything.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректный номер заказа")
		return
	}

	order, err := ctrl.orderService.GetOrder(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Заказ не найден")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	if !ctrl.canReadOrder(c, order) {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Заказ не найден")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateStatus moves an order to a new status. Admin only.
// PATCH /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректный номер заказа")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректный статус заказа")
		return
	}

	status := model.OrderStatus(req.Status)
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipping,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Неизвестный статус заказа")
		return
	}

	if err := ctrl.orderService.UpdateStatus(uint(id), status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Заказ не найден")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
	})
}

// Export renders orders in a date range to xlsx and returns the file URL.
// Admin only.
// GET /api/v1/orders/export?from=2026-08-01&to=2026-09-01
func (ctrl *OrderController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	from, err := parseDateParam(c.Query("from"), time.Now().AddDate(0, -1, 0))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректная дата начала")
		return
	}
	to, err := parseDateParam(c.Query("to"), time.Now().AddDate(0, 0, 1))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректная дата окончания")
		return
	}

	url, err := ctrl.exportService.ExportOrders(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalServerError, "Экспорт временно недоступен")
			return
		}
		log.Error("Failed to export orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_url": url,
	})
}

func (ctrl *OrderController) canReadOrder(c *gin.Context, order *model.Order) bool {
	if role, ok := middleware.GetUserRole(c); ok && role == model.RoleAdmin {
		return true
	}
	if userID, ok := middleware.GetUserID(c); ok {
		return order.UserID != nil && *order.UserID == userID
	}
	return order.SessionID != "" && order.SessionID == middleware.GetSessionID(c)
}

func parseDateParam(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (ctrl *OrderController) respondCheckoutError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Корзина пуста")
	case errors.Is(err, service.ErrOneClickEmpty):
		apperrors.BadRequest(c, apperrors.OneClickEmpty, "Нет товара для быстрого заказа")
	case errors.Is(err, service.ErrInvalidContact):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Укажите имя и телефон")
	case errors.Is(err, service.ErrOrderItemMissed):
		apperrors.Conflict(c, apperrors.ProductNotFound, "Часть товаров из корзины больше не продаётся")
	default:
		log.Error("Checkout failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "checkout")
	}
}

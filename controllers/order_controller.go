package controllers

import (
	"net/http"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders    services.OrderService
	validator *RequestValidator
}

func NewOrderController(orders services.OrderService, validator *RequestValidator) *OrderController {
	return &OrderController{orders: orders, validator: validator}
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	orders, meta, err := oc.orders.ListOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders, "meta": meta})
}

// GetOrderByID returns a specific order for the authenticated user
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, err := oc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// GetAllOrders returns paginated orders for all users (admin only)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	orders, meta, err := oc.orders.ListAllOrders(c.Request.Context(), page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders, "meta": meta})
}

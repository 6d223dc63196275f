package controllers

import (
	"net/http"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartController struct {
	carts     services.CartService
	orders    services.OrderService
	validator *RequestValidator
	logger    *zap.Logger
}

func NewCartController(carts services.CartService, orders services.OrderService, validator *RequestValidator, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, orders: orders, validator: validator, logger: logger}
}

// GetCart returns the caller's cart, creating it on first access.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := cc.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// AddItem adds one unit of a boardgame to the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardgameID, err := cc.validator.ParseUUIDParam(c, "boardgame_id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := cc.carts.AddItem(c.Request.Context(), userID, boardgameID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// RemoveItem removes one unit; the line disappears when it reaches zero.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardgameID, err := cc.validator.ParseUUIDParam(c, "boardgame_id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := cc.carts.RemoveItem(c.Request.Context(), userID, boardgameID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// Checkout places an order from the cart. An empty cart is not an error.
func (cc *CartController) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := cc.orders.PlaceOrder(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if result.EmptyCart {
		c.JSON(http.StatusOK, gin.H{"status": "empty_cart"})
		return
	}

	cc.logger.Info("Checkout completed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", result.Order.ID.String()),
	)
	c.JSON(http.StatusCreated, gin.H{"data": models.NewOrderView(result.Order)})
}

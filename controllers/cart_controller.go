package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anant-harryfan/shreycommerse/apperrors"
	"github.com/anant-harryfan/shreycommerse/middleware"
	"github.com/anant-harryfan/shreycommerse/models"
	"github.com/anant-harryfan/shreycommerse/services"
)

type CartController struct {
	Service services.CartService
}

func NewCartController(service services.CartService) *CartController {
	return &CartController{Service: service}
}

// GetCart returns the caller's cart with item count and subtotal.
func (cc *CartController) GetCart(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	items, err := cc.Service.List(c.Request.Context(), identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CartResponse{
		Items:         items,
		ItemCount:     services.ItemCount(items),
		SubtotalCents: services.Subtotal(items),
	})
}

// AddItem adds a product to the cart, merging into an existing line when the
// product is already there. Quantity defaults to 1 when omitted.
func (cc *CartController) AddItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("product_id is required"))
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := cc.Service.AddItem(c.Request.Context(), identity, req.ProductID, quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem replaces a line item's quantity.
func (cc *CartController) UpdateItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("invalid cart item id"))
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("quantity is required"))
		return
	}

	item, svcErr := cc.Service.UpdateQuantity(c.Request.Context(), identity, itemID, req.Quantity)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveItem deletes a line item from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("invalid cart item id"))
		return
	}

	if err := cc.Service.RemoveItem(c.Request.Context(), identity, itemID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

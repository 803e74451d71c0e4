package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartsvc "storefront/internal/service/cart"
)

type cartHandler struct {
	svc CartService
}

type addToCartRequest struct {
	UserID     int64  `json:"userId" binding:"required,gt=0"`
	ProductID  int64  `json:"productId" binding:"required,gt=0"`
	VariantID  *int64 `json:"variantId" binding:"omitempty,gt=0"`
	CategoryID *int64 `json:"categoryId" binding:"omitempty,gt=0"`
	Quantity   int    `json:"quantity"`
}

type setQuantityRequest struct {
	UserID    int64  `json:"userId" binding:"required,gt=0"`
	ProductID int64  `json:"productId" binding:"required,gt=0"`
	VariantID *int64 `json:"variantId" binding:"omitempty,gt=0"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func (h cartHandler) add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	line, err := h.svc.AddToCart(c.Request.Context(), cartsvc.AddInput{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		VariantID:  req.VariantID,
		CategoryID: req.CategoryID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart", "data": line})
}

func (h cartHandler) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.svc.SetCartQuantity(c.Request.Context(), cartsvc.QuantityInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Affected == 0 {
		c.JSON(http.StatusNotFound, errorBody(c, "cart line not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": res.Deleted, "updated": res.Affected})
}

func (h cartHandler) list(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	items, err := h.svc.ListCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

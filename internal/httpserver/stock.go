package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type stockHandler struct {
	svc StockService
}

type setStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

type adjustStockRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

func (h stockHandler) set(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (domain.StockLevel, error) {
		return h.svc.SetStock(ctx, id, *req.Stock)
	})
}

func (h stockHandler) increase(c *gin.Context) {
	h.adjust(c, h.svc.IncreaseStock)
}

func (h stockHandler) decrease(c *gin.Context) {
	h.adjust(c, h.svc.DecreaseStock)
}

func (h stockHandler) adjust(c *gin.Context, op func(context.Context, int64, int) (domain.StockLevel, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (domain.StockLevel, error) {
		return op(ctx, id, *req.Amount)
	})
}

func (h stockHandler) respond(c *gin.Context, call func(context.Context) (domain.StockLevel, error)) {
	level, err := call(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "variantId": level.VariantID, "stock": level.Stock})
}

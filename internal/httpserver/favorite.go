package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type favoriteHandler struct {
	svc FavoriteService
}

type favoriteRequest struct {
	UserID    int64 `json:"userId" binding:"required,gt=0"`
	ProductID int64 `json:"productId" binding:"required,gt=0"`
}

func (h favoriteHandler) add(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.Add(c.Request.Context(), req.UserID, req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Added to favorites"})
}

func (h favoriteHandler) remove(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.Remove(c.Request.Context(), req.UserID, req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from favorites"})
}

func (h favoriteHandler) list(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	products, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

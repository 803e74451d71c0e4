package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productsvc "storefront/internal/service/product"
)

type productHandler struct {
	svc ProductService
}

type createProductRequest struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name" binding:"required"`
	Price       decimal.Decimal        `json:"price"`
	SellerPhone string                 `json:"sellerPhone"`
	CategoryID  *int64                 `json:"categoryId" binding:"omitempty,gt=0"`
	Variants    []createVariantRequest `json:"variants" binding:"dive"`
}

type createVariantRequest struct {
	Color        string `json:"color"`
	Size         string `json:"size"`
	ImageProduct string `json:"imageProduct"`
	ImageDetail  string `json:"imageDetail"`
	ImageCart    string `json:"imageCart"`
	Stock        int    `json:"stock" binding:"gte=0"`
}

type favoriteFlagRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

func (h productHandler) list(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(c, []fieldError{{Field: "category_id", Message: "Must be a positive integer"}})
			return
		}
		categoryID = &id
	}
	products, err := h.svc.List(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h productHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h productHandler) variants(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	variants, err := h.svc.Variants(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variants)
}

func (h productHandler) setFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req favoriteFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.SetFavorite(c.Request.Context(), id, *req.Favorite); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorite": *req.Favorite})
}

func (h productHandler) create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in := productsvc.CreateInput{
		Key:         req.Key,
		Name:        req.Name,
		Price:       req.Price,
		SellerPhone: req.SellerPhone,
		CategoryID:  req.CategoryID,
		Variants:    make([]productsvc.VariantInput, 0, len(req.Variants)),
	}
	for _, v := range req.Variants {
		in.Variants = append(in.Variants, productsvc.VariantInput{
			Color:        v.Color,
			Size:         v.Size,
			ImageProduct: v.ImageProduct,
			ImageDetail:  v.ImageDetail,
			ImageCart:    v.ImageCart,
			Stock:        v.Stock,
		})
	}
	detail, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "data": detail})
}

func listCategories(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

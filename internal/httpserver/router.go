package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

type CartService interface {
	AddToCart(ctx context.Context, in cartsvc.AddInput) (*domain.CartLine, error)
	SetCartQuantity(ctx context.Context, in cartsvc.QuantityInput) (domain.QuantityResult, error)
	ListCart(ctx context.Context, userID int64) ([]domain.CartItem, error)
}

type StockService interface {
	SetStock(ctx context.Context, variantID int64, value int) (domain.StockLevel, error)
	IncreaseStock(ctx context.Context, variantID int64, amount int) (domain.StockLevel, error)
	DecreaseStock(ctx context.Context, variantID int64, amount int) (domain.StockLevel, error)
}

type ProductService interface {
	List(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Variants(ctx context.Context, productID int64) ([]domain.Variant, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	Create(ctx context.Context, in productsvc.CreateInput) (*productsvc.ProductDetail, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, in usersvc.PatchInput) (*domain.User, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
	List(ctx context.Context, userID int64) ([]domain.Product, error)
}

// Deps carries the services behind the API. Routes of a nil service are not registered.
type Deps struct {
	CartSvc     CartService
	StockSvc    StockService
	ProductSvc  ProductService
	CategorySvc CategoryService
	UserSvc     UserService
	FavoriteSvc FavoriteService
}

// buildRouter wires middleware and routes for the API.
func buildRouter(log *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	setupValidator()

	corsMiddleware, err := newCORS(opts.CORSAllowOrigins)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.RequestID(), logger.GinMiddleware(log), logger.Recovery(log), corsMiddleware)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	health := healthChecks{db: db, log: log.Named("health")}
	router.GET("/healthz", health.live)
	router.GET("/readyz", health.ready)

	if deps.CartSvc != nil {
		h := cartHandler{svc: deps.CartSvc}
		router.POST("/cart", h.add)
		router.PATCH("/cart", h.setQuantity)
		router.GET("/cart/:user_id", h.list)
	}
	if deps.StockSvc != nil {
		h := stockHandler{svc: deps.StockSvc}
		router.PATCH("/variants/:id/stock", h.set)
		router.PATCH("/variants/:id/stock/increase", h.increase)
		router.PATCH("/variants/:id/stock/decrease", h.decrease)
	}
	if deps.ProductSvc != nil {
		h := productHandler{svc: deps.ProductSvc}
		router.GET("/products", h.list)
		router.POST("/products", h.create)
		router.GET("/products/:id", h.get)
		router.PUT("/products/:id", h.setFavorite)
		router.GET("/products/:id/variants", h.variants)
	}
	if deps.CategorySvc != nil {
		router.GET("/categories", listCategories(deps.CategorySvc))
	}
	if deps.UserSvc != nil {
		h := userHandler{svc: deps.UserSvc}
		router.POST("/users", h.create)
		router.GET("/users", h.list)
		router.GET("/users/:id", h.get)
		router.PATCH("/users/:id", h.update)
		router.POST("/login", h.login)
	}
	if deps.FavoriteSvc != nil {
		h := favoriteHandler{svc: deps.FavoriteSvc}
		router.POST("/favorites", h.add)
		router.DELETE("/favorites", h.remove)
		router.GET("/favorites/:user_id", h.list)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody(c, "route not found"))
	})

	return router, nil
}

func newCORS(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cors config: %w", err)
	}
	return cors.New(cfg), nil
}

package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

type stubCartService struct {
	line     *domain.CartLine
	result   domain.QuantityResult
	items    []domain.CartItem
	err      error
	lastAdd  cartsvc.AddInput
	lastSet  cartsvc.QuantityInput
	lastUser int64
}

func (s *stubCartService) AddToCart(_ context.Context, in cartsvc.AddInput) (*domain.CartLine, error) {
	s.lastAdd = in
	return s.line, s.err
}

func (s *stubCartService) SetCartQuantity(_ context.Context, in cartsvc.QuantityInput) (domain.QuantityResult, error) {
	s.lastSet = in
	return s.result, s.err
}

func (s *stubCartService) ListCart(_ context.Context, userID int64) ([]domain.CartItem, error) {
	s.lastUser = userID
	return s.items, s.err
}

type stubStockService struct {
	stock      int
	err        error
	lastOp     string
	lastID     int64
	lastAmount int
}

func (s *stubStockService) record(op string, id int64, n int) (domain.StockLevel, error) {
	s.lastOp, s.lastID, s.lastAmount = op, id, n
	if s.err != nil {
		return domain.StockLevel{}, s.err
	}
	return domain.StockLevel{VariantID: id, Stock: s.stock}, nil
}

func (s *stubStockService) SetStock(_ context.Context, id int64, value int) (domain.StockLevel, error) {
	return s.record("set", id, value)
}

func (s *stubStockService) IncreaseStock(_ context.Context, id int64, amount int) (domain.StockLevel, error) {
	return s.record("increase", id, amount)
}

func (s *stubStockService) DecreaseStock(_ context.Context, id int64, amount int) (domain.StockLevel, error) {
	return s.record("decrease", id, amount)
}

type stubProductService struct {
	products     []domain.Product
	product      *domain.Product
	variants     []domain.Variant
	detail       *productsvc.ProductDetail
	err          error
	lastCategory *int64
	lastFavorite *bool
	lastCreate   productsvc.CreateInput
}

func (s *stubProductService) List(_ context.Context, categoryID *int64) ([]domain.Product, error) {
	s.lastCategory = categoryID
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Variants(_ context.Context, _ int64) ([]domain.Variant, error) {
	return s.variants, s.err
}

func (s *stubProductService) SetFavorite(_ context.Context, _ int64, favorite bool) error {
	s.lastFavorite = &favorite
	return s.err
}

func (s *stubProductService) Create(_ context.Context, in productsvc.CreateInput) (*productsvc.ProductDetail, error) {
	s.lastCreate = in
	return s.detail, s.err
}

type stubCategoryService struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryService) List(_ context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

type stubUserService struct {
	user       *domain.User
	users      []domain.User
	signupErr  error
	loginErr   error
	getErr     error
	updateErr  error
	lastSignup usersvc.SignupInput
	lastPatch  usersvc.PatchInput
}

func (s *stubUserService) Signup(_ context.Context, in usersvc.SignupInput) (*domain.User, error) {
	s.lastSignup = in
	return s.user, s.signupErr
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, error) {
	return s.user, s.loginErr
}

func (s *stubUserService) List(_ context.Context) ([]domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) Get(_ context.Context, _ int64) (*domain.User, error) {
	return s.user, s.getErr
}

func (s *stubUserService) Update(_ context.Context, _ int64, in usersvc.PatchInput) (*domain.User, error) {
	s.lastPatch = in
	return s.user, s.updateErr
}

type stubFavoriteService struct {
	products  []domain.Product
	addErr    error
	removeErr error
	lastUser  int64
	lastProd  int64
}

func (s *stubFavoriteService) Add(_ context.Context, userID, productID int64) error {
	s.lastUser, s.lastProd = userID, productID
	return s.addErr
}

func (s *stubFavoriteService) Remove(_ context.Context, userID, productID int64) error {
	s.lastUser, s.lastProd = userID, productID
	return s.removeErr
}

func (s *stubFavoriteService) List(_ context.Context, userID int64) ([]domain.Product, error) {
	s.lastUser = userID
	return s.products, nil
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, deps, Options{})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t, Deps{})

	rec := doJSON(router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(logger.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	rec = doJSON(router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without db, got %d", rec.Code)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	router := newTestRouter(t, Deps{})
	rec := doJSON(router, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, Deps{CartSvc: &stubCartService{}}, Options{
		CORSAllowOrigins: []string{"https://shop.example.com"},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestBuildRouter_RejectsBadOrigin(t *testing.T) {
	if _, err := buildRouter(zap.NewNop(), nil, Deps{}, Options{CORSAllowOrigins: []string{"shop.example.com"}}); err == nil {
		t.Fatalf("expected error for origin without scheme")
	}
}

func TestMetricsRouteOnlyWhenEnabled(t *testing.T) {
	router := newTestRouter(t, Deps{})
	if rec := doJSON(router, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", rec.Code)
	}

	router, err := buildRouter(zap.NewNop(), nil, Deps{}, Options{Metrics: metrics.New()})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	doJSON(router, http.MethodGet, "/healthz", "")
	rec := doJSON(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/healthz"`) {
		t.Fatalf("expected healthz series in %s", rec.Body.String())
	}
}

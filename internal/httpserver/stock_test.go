package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func TestStockRoutes(t *testing.T) {
	cases := []struct {
		path   string
		body   string
		op     string
		amount int
	}{
		{"/variants/7/stock", `{"stock":40}`, "set", 40},
		{"/variants/7/stock", `{"stock":0}`, "set", 0},
		{"/variants/7/stock/increase", `{"amount":5}`, "increase", 5},
		{"/variants/7/stock/decrease", `{"amount":1000000}`, "decrease", 1000000},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			svc := &stubStockService{stock: 2}
			router := newTestRouter(t, Deps{StockSvc: svc})

			rec := doJSON(router, http.MethodPatch, tc.path, tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, true, body["success"])
			assert.EqualValues(t, 2, body["stock"])
			assert.Equal(t, tc.op, svc.lastOp)
			assert.Equal(t, int64(7), svc.lastID)
			assert.Equal(t, tc.amount, svc.lastAmount)
		})
	}
}

func TestStockRoutes_NotFound(t *testing.T) {
	router := newTestRouter(t, Deps{StockSvc: &stubStockService{err: domain.ErrNotFound}})

	rec := doJSON(router, http.MethodPatch, "/variants/99/stock/decrease", `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockRoutes_RejectNonNumeric(t *testing.T) {
	svc := &stubStockService{}
	router := newTestRouter(t, Deps{StockSvc: svc})

	for path, body := range map[string]string{
		"/variants/1/stock":          `{"stock":"ten"}`,
		"/variants/1/stock/increase": `{"amount":1.5}`,
		"/variants/1/stock/decrease": `{}`,
		"/variants/x/stock/decrease": `{"amount":1}`,
	} {
		rec := doJSON(router, http.MethodPatch, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", path, body)
	}
	assert.Empty(t, svc.lastOp, "service must not be called for rejected input")
}

func TestStockRoutes_ServiceValidation(t *testing.T) {
	svc := &stubStockService{err: domain.NewValidationError("amount", "must be greater than zero")}
	router := newTestRouter(t, Deps{StockSvc: svc})

	rec := doJSON(router, http.MethodPatch, "/variants/1/stock/increase", `{"amount":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"amount"`)
}

package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/store_manager/internal/store"
)

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, page := range []string{
		"main",
		"product/index", "product/create", "product/update",
		"supplier/index", "supplier/create",
		"customer/index", "customer/create",
		"order/index",
		"pay/login", "pay/index", "pay/order_info", "pay/for_order",
	} {
		assert.Contains(t, r.pages, page)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestRenderProductIndex(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "product/index", Page{
		Title:  "Products",
		Errors: []string{"Price is required."},
		Data: struct{ Products []store.Product }{
			Products: []store.Product{{SKU: "A1", Name: "Apple", Price: decimal.RequireFromString("1.5")}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Apple")
	assert.Contains(t, body, "1.50")
	assert.Contains(t, body, "/main/products/A1/update")
	assert.Contains(t, body, "Price is required.")
}

func TestRenderOrderInfoShowsPaidState(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	data := struct {
		CustNo      int64
		OrderNo     int64
		MaxOrderNo  int64
		Containings []store.OrderLine
		Total       []store.OrderTotal
		PaidOrders  []int64
	}{
		CustNo:     1,
		OrderNo:    4,
		MaxOrderNo: 9,
		Total:      []store.OrderTotal{{CustNo: 1, OrderNo: 4, TotalValue: decimal.NewFromInt(12)}},
		PaidOrders: []int64{4},
	}

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "pay/order_info", Page{Title: "Order 4", Data: data}))
	assert.Contains(t, rec.Body.String(), "Paid")
	assert.NotContains(t, rec.Body.String(), "/info/pay/9")

	data.PaidOrders = nil
	rec = httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "pay/order_info", Page{Title: "Order 4", Data: data}))
	assert.Contains(t, rec.Body.String(), "/main/login/1/4/info/pay/9")
	assert.Contains(t, rec.Body.String(), "12.00")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "nope", Page{}))
	assert.Equal(t, 0, rec.Body.Len())
}

func TestDateFunc(t *testing.T) {
	date := funcs["date"].(func(time.Time) string)
	assert.Equal(t, "", date(time.Time{}))
	assert.Equal(t, "2024-03-01", date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/store_manager/internal/response"
	"github.com/farxc/store_manager/internal/store"
)

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPing(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "pong!", body["message"])
	assert.Equal(t, "success", body["status"])
}

func TestProductIndex(t *testing.T) {
	app := newTestApp(t, newTestStore())

	t.Run("json", func(t *testing.T) {
		rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodGet, "/main/products", nil)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decode[response.APIResponse[[]store.Product]](t, rec)
		assert.True(t, body.Success)
		require.Len(t, body.Data, 2)
		assert.Equal(t, "A1", body.Data[0].SKU)
		assert.Equal(t, "1.5", body.Data[0].Price.String())
	})

	t.Run("html", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/main/products", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
		rec := serve(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Banana")
	})
}

func TestProductCreate(t *testing.T) {
	t.Run("invalid form is rendered again", func(t *testing.T) {
		app := newTestApp(t, newTestStore())

		rec := serve(app, postForm("/main/products/create", url.Values{"sku": {"C3"}, "price": {"abc"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Name is required.")
		assert.Contains(t, rec.Body.String(), "Price is required to be numeric.")
	})

	t.Run("duplicate sku", func(t *testing.T) {
		ts := newTestStore()
		ts.products.createErr = store.ErrConflict
		app := newTestApp(t, ts)

		req := postForm("/main/products/create", url.Values{"sku": {"A1"}, "name": {"Apple"}, "price": {"2"}})
		rec := serve(app, jsonRequest(req))

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decode[response.ErrorResponse](t, rec)
		assert.Equal(t, []string{"Product A1 already exists."}, body.Details)
	})

	t.Run("created", func(t *testing.T) {
		ts := newTestStore()
		app := newTestApp(t, ts)

		rec := serve(app, postForm("/main/products/create", url.Values{
			"sku": {"C3"}, "name": {"Cherry"}, "price": {"3.10"}, "ean": {""},
		}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/main/products", rec.Header().Get("Location"))
		require.Len(t, ts.products.created, 1)
		assert.Equal(t, "3.1", ts.products.created[0].Price.String())
		assert.Nil(t, ts.products.created[0].EAN)
	})
}

func TestProductUpdate(t *testing.T) {
	ts := newTestStore()
	app := newTestApp(t, ts)

	rec := serve(app, postForm("/main/products/ZZ/update", url.Values{"price": {"1"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(app, postForm("/main/products/A1/update", url.Values{"price": {"-1"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(app, postForm("/main/products/A1/update", url.Values{"price": {"2.75"}, "description": {"red"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "2.75", ts.products.updated["A1"].String())
}

func TestProductDelete(t *testing.T) {
	ts := newTestStore()
	app := newTestApp(t, ts)

	rec := serve(app, httptest.NewRequest(http.MethodPost, "/main/products/A1/delete", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"A1"}, ts.products.deleted)
}

func TestSupplierDeleteUnknown(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodPost, "/main/suppliers/999/delete", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[response.ErrorResponse](t, rec).Error)
}

func TestCustomerCreate(t *testing.T) {
	ts := newTestStore()
	app := newTestApp(t, ts)

	rec := serve(app, postForm("/main/customers/create/5", url.Values{
		"name": {"Ines"}, "email": {"ines@example.pt"}, "address": {"Lisboa"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Address doesn&#39;t match with portuguese standards.")

	rec = serve(app, postForm("/main/customers/create/5", url.Values{
		"name": {"Ines"}, "email": {"ines@example.pt"}, "address": {"Rua Augusta, 1100-053 Lisboa"},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, ts.customers.created, 1)
	assert.EqualValues(t, 5, ts.customers.created[0].CustNo)
}

func TestCustomerIndexOffersNextNumber(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/main/customers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/main/customers/create/5")
}

func TestMainPage(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/main/login/10")
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, postForm("/main/login/10", url.Values{"cust_no": {"abc"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer ID must be a whole number.")

	rec = serve(app, postForm("/main/login/10", url.Values{"cust_no": {"2"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer not found.")

	rec = serve(app, postForm("/main/login/10", url.Values{"cust_no": {"4"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/main/login/4/10", rec.Header().Get("Location"))
}

func TestCustomerOrdersJSON(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodGet, "/main/login/1/10", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[response.APIResponse[map[string][]store.OrderSummary]](t, rec)
	require.Len(t, body.Data["orders"], 1)
	assert.EqualValues(t, 7, body.Data["orders"][0].OrderNo)
}

func TestOrderInfoJSON(t *testing.T) {
	ts := newTestStore()
	ts.orders.paid = []int64{7}
	app := newTestApp(t, ts)

	rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodGet, "/main/login/1/7/info/10", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[response.APIResponse[map[string]json.RawMessage]](t, rec)
	assert.Contains(t, body.Data, "containings")
	assert.Contains(t, body.Data, "total")
	assert.JSONEq(t, `[7]`, string(body.Data["paid_orders"]))
}

func TestOrderCreate(t *testing.T) {
	t.Run("places the order and moves to the next number", func(t *testing.T) {
		ts := newTestStore()
		ts.orders.nextNo = 12
		app := newTestApp(t, ts)

		rec := serve(app, postForm("/main/orders/create/1/10", url.Values{
			"sku": {"B2", "A1"}, "qty": {"0", "3"},
		}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/main/login/1/13", rec.Header().Get("Location"))
		require.Len(t, ts.orders.placed, 1)
		assert.Equal(t, []store.LineItem{{SKU: "B2", Qty: 0}, {SKU: "A1", Qty: 3}}, ts.orders.placed[0])
	})

	t.Run("no quantity", func(t *testing.T) {
		ts := newTestStore()
		app := newTestApp(t, ts)

		rec := serve(app, postForm("/main/orders/create/1/10", url.Values{
			"sku": {"B2", "A1"}, "qty": {"0", ""},
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Choose a quantity for at least one product.")
		assert.Empty(t, ts.orders.placed)
	})

	t.Run("quantity out of range", func(t *testing.T) {
		ts := newTestStore()
		app := newTestApp(t, ts)

		rec := serve(app, postForm("/main/orders/create/1/10", url.Values{
			"sku": {"A1"}, "qty": {"99999999999999999999"},
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Quantity must be a whole number.")
		assert.Empty(t, ts.orders.placed)
	})
}

func TestPayOrderAlreadyPaid(t *testing.T) {
	ts := newTestStore()
	ts.orders.payErr = fmt.Errorf("failed to pay order 7: %w", store.ErrDuplicate)
	app := newTestApp(t, ts)

	rec := serve(app, httptest.NewRequest(http.MethodPost, "/main/login/1/7/info/pay/10", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/main/login/1/10", rec.Header().Get("Location"))
}

func TestPayUnknownOrder(t *testing.T) {
	ts := newTestStore()
	ts.orders.payErr = fmt.Errorf("failed to pay order 404: %w", store.ErrMissingReference)
	app := newTestApp(t, ts)

	rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodPost, "/main/login/1/404/info/pay/10", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Equal(t, "not found", decode[response.ErrorResponse](t, rec).Error)
}

func TestOrderDelete(t *testing.T) {
	tests := []struct {
		flag     string
		status   int
		location string
	}{
		{flag: "customer", status: http.StatusSeeOther, location: "/main/login/1/10"},
		{flag: "employee", status: http.StatusSeeOther, location: "/main/orders"},
		{flag: "manager", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			ts := newTestStore()
			app := newTestApp(t, ts)

			rec := serve(app, httptest.NewRequest(http.MethodPost, "/main/login/1/7/info/delete/10/"+tt.flag, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			if tt.status == http.StatusBadRequest {
				assert.Empty(t, ts.orders.deleted)
			} else {
				assert.Equal(t, []int64{7}, ts.orders.deleted)
			}
		})
	}
}

func TestBadPathNumber(t *testing.T) {
	app := newTestApp(t, newTestStore())

	rec := serve(app, jsonRequest(httptest.NewRequest(http.MethodGet, "/main/login/x/10", nil)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/farxc/store_manager/internal/logger"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
)

type fakeProducts struct {
	products  []store.Product
	created   []*store.Product
	createErr error
	updated   map[string]decimal.Decimal
	deleted   []string
}

func (f *fakeProducts) List(ctx context.Context) ([]store.Product, error) {
	return f.products, nil
}

func (f *fakeProducts) ListDesc(ctx context.Context) ([]store.Product, error) {
	out := make([]store.Product, len(f.products))
	for i, p := range f.products {
		out[len(out)-1-i] = p
	}
	return out, nil
}

func (f *fakeProducts) Get(ctx context.Context, sku string) (*store.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProducts) Create(ctx context.Context, product *store.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, product)
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, sku string, price decimal.Decimal, description string) error {
	if f.updated == nil {
		f.updated = make(map[string]decimal.Decimal)
	}
	f.updated[sku] = price
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, sku string) (*store.Cascade, error) {
	f.deleted = append(f.deleted, sku)
	return &store.Cascade{Deleted: map[string]int64{"product": 1}}, nil
}

type fakeSuppliers struct {
	listing []store.SupplierListing
	created []*store.Supplier
}

func (f *fakeSuppliers) List(ctx context.Context) ([]store.SupplierListing, error) {
	return f.listing, nil
}

func (f *fakeSuppliers) Create(ctx context.Context, supplier *store.Supplier) error {
	f.created = append(f.created, supplier)
	return nil
}

func (f *fakeSuppliers) Delete(ctx context.Context, tin string) (*store.Cascade, error) {
	return nil, store.ErrNotFound
}

type fakeCustomers struct {
	customers []store.Customer
	created   []*store.Customer
}

func (f *fakeCustomers) List(ctx context.Context) ([]store.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomers) Exists(ctx context.Context, custNo int64) (bool, error) {
	for _, c := range f.customers {
		if c.CustNo == custNo {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCustomers) Create(ctx context.Context, customer *store.Customer) error {
	f.created = append(f.created, customer)
	return nil
}

func (f *fakeCustomers) Delete(ctx context.Context, custNo int64) (*store.Cascade, error) {
	return &store.Cascade{Deleted: map[string]int64{"customer": 1}}, nil
}

type fakeOrders struct {
	orders  []store.OrderSummary
	paid    []int64
	payErr  error
	placed  [][]store.LineItem
	nextNo  int64
	deleted []int64
}

func (f *fakeOrders) List(ctx context.Context, by store.OrderBy) ([]store.OrderSummary, error) {
	return f.orders, nil
}

func (f *fakeOrders) ListByCustomer(ctx context.Context, custNo int64) ([]store.OrderSummary, error) {
	var out []store.OrderSummary
	for _, o := range f.orders {
		if o.CustNo == custNo {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) Lines(ctx context.Context, orderNo int64) ([]store.OrderLine, error) {
	return []store.OrderLine{{SKU: "A1", Qty: 2, Price: decimal.RequireFromString("1.5"), Name: "Apple", SubTotal: decimal.RequireFromString("3")}}, nil
}

func (f *fakeOrders) Totals(ctx context.Context, orderNo int64) ([]store.OrderTotal, error) {
	return []store.OrderTotal{{OrderNo: orderNo, TotalValue: decimal.RequireFromString("3")}}, nil
}

func (f *fakeOrders) PaidOrders(ctx context.Context, custNo int64) ([]int64, error) {
	return f.paid, nil
}

func (f *fakeOrders) MaxOrderNo(ctx context.Context) (int64, error) {
	return maxOrderNo(f.orders), nil
}

func (f *fakeOrders) Create(ctx context.Context, orderNo, custNo int64, items []store.LineItem) (int64, error) {
	f.placed = append(f.placed, items)
	if f.nextNo > orderNo {
		return f.nextNo, nil
	}
	return orderNo, nil
}

func (f *fakeOrders) Pay(ctx context.Context, orderNo, custNo int64) error {
	if f.payErr != nil {
		return f.payErr
	}
	f.paid = append(f.paid, orderNo)
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, orderNo int64) (*store.Cascade, error) {
	f.deleted = append(f.deleted, orderNo)
	return &store.Cascade{Deleted: map[string]int64{"orders": 1}}, nil
}

type testStore struct {
	products  *fakeProducts
	suppliers *fakeSuppliers
	customers *fakeCustomers
	orders    *fakeOrders
}

func newTestStore() *testStore {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &testStore{
		products: &fakeProducts{products: []store.Product{
			{SKU: "A1", Name: "Apple", Price: decimal.RequireFromString("1.5")},
			{SKU: "B2", Name: "Banana", Price: decimal.RequireFromString("0.25")},
		}},
		suppliers: &fakeSuppliers{},
		customers: &fakeCustomers{customers: []store.Customer{
			{CustNo: 1, Name: "Ana", Email: "ana@example.pt"},
			{CustNo: 4, Name: "Rui", Email: "rui@example.pt"},
		}},
		orders: &fakeOrders{orders: []store.OrderSummary{
			{CustNo: 1, OrderNo: 7, Date: day, Name: "Ana"},
			{CustNo: 4, OrderNo: 9, Date: day, Name: "Rui"},
		}},
	}
}

func newTestApp(t *testing.T, ts *testStore) *application {
	t.Helper()

	views, err := view.New()
	require.NoError(t, err)

	return &application{
		store: store.Storage{
			Products:  ts.products,
			Suppliers: ts.suppliers,
			Customers: ts.customers,
			Orders:    ts.orders,
		},
		views:  views,
		logger: logger.New(io.Discard, logger.LevelDebug),
	}
}

func serve(app *application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)
	return rec
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(req *http.Request) *http.Request {
	req.Header.Set("Accept", "application/json")
	return req
}

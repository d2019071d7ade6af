package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderBy int

const (
	ByCustomer OrderBy = iota
	ByDateDesc
)

type Storage struct {
	Products interface {
		List(ctx context.Context) ([]Product, error)
		ListDesc(ctx context.Context) ([]Product, error)
		Get(ctx context.Context, sku string) (*Product, error)
		Create(ctx context.Context, product *Product) error
		Update(ctx context.Context, sku string, price decimal.Decimal, description string) error
		Delete(ctx context.Context, sku string) (*Cascade, error)
	}

	Suppliers interface {
		List(ctx context.Context) ([]SupplierListing, error)
		Create(ctx context.Context, supplier *Supplier) error
		Delete(ctx context.Context, tin string) (*Cascade, error)
	}

	Customers interface {
		List(ctx context.Context) ([]Customer, error)
		Exists(ctx context.Context, custNo int64) (bool, error)
		Create(ctx context.Context, customer *Customer) error
		Delete(ctx context.Context, custNo int64) (*Cascade, error)
	}

	Orders interface {
		List(ctx context.Context, by OrderBy) ([]OrderSummary, error)
		ListByCustomer(ctx context.Context, custNo int64) ([]OrderSummary, error)
		Lines(ctx context.Context, orderNo int64) ([]OrderLine, error)
		Totals(ctx context.Context, orderNo int64) ([]OrderTotal, error)
		PaidOrders(ctx context.Context, custNo int64) ([]int64, error)
		MaxOrderNo(ctx context.Context) (int64, error)
		Create(ctx context.Context, orderNo, custNo int64, items []LineItem) (int64, error)
		Pay(ctx context.Context, orderNo, custNo int64) error
		Delete(ctx context.Context, orderNo int64) (*Cascade, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Products:  &ProductStore{db: db},
		Suppliers: &SupplierStore{db: db},
		Customers: &CustomerStore{db: db},
		Orders:    &OrderStore{db: db},
	}
}

package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the 'product' table.
type Product struct {
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	EAN         *string         `db:"ean" json:"ean,omitempty"`
}

// Supplier represents the 'supplier' table.
type Supplier struct {
	TIN     string     `db:"tin" json:"tin"`
	Name    string     `db:"name" json:"name"`
	Address string     `db:"address" json:"address"`
	SKU     string     `db:"sku" json:"sku"`
	Date    *time.Time `db:"date" json:"date,omitempty"`
}

// SupplierListing is a supplier row joined with the name of the product it
// supplies.
type SupplierListing struct {
	TIN          string `db:"tin" json:"tin"`
	SupplierName string `db:"sn" json:"sn"`
	SKU          string `db:"sku" json:"sku"`
	ProductName  string `db:"pn" json:"pn"`
}

// Customer represents the 'customer' table.
type Customer struct {
	CustNo  int64  `db:"cust_no" json:"cust_no"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
}

// OrderSummary is an 'orders' row joined with its customer's name.
type OrderSummary struct {
	CustNo  int64     `db:"cust_no" json:"cust_no"`
	OrderNo int64     `db:"order_no" json:"order_no"`
	Date    time.Time `db:"date" json:"date"`
	Name    string    `db:"name" json:"name"`
}

// OrderLine is a 'contains' row of an order with the product's price and
// name.
type OrderLine struct {
	SKU      string          `db:"sku" json:"sku"`
	Qty      int             `db:"qty" json:"qty"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Name     string          `db:"name" json:"name"`
	CustNo   int64           `db:"cust_no" json:"cust_no"`
	SubTotal decimal.Decimal `db:"sub_total" json:"sub_total"`
}

type OrderTotal struct {
	CustNo     int64           `db:"cust_no" json:"cust_no"`
	OrderNo    int64           `db:"order_no" json:"order_no"`
	TotalValue decimal.Decimal `db:"total_value" json:"total_value"`
}

// LineItem is a requested quantity of a product for a new order.
type LineItem struct {
	OrderNo int64  `db:"order_no"`
	SKU     string `db:"sku"`
	Qty     int    `db:"qty"`
}

// Cascade reports what a delete removed, per table.
type Cascade struct {
	Deleted       map[string]int64 `json:"deleted"`
	OrdersRemoved []int64          `json:"orders_removed,omitempty"`
}

func newCascade() *Cascade {
	return &Cascade{Deleted: make(map[string]int64)}
}

// Package forms decodes and validates the HTML forms posted to the store
// pages.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/farxc/store_manager/internal/store"
)

// postalAddress matches addresses carrying a Portuguese postal code, such
// as "Rua Augusta, 1100-053 Lisboa".
var postalAddress = regexp.MustCompile(`.*, [1-9][0-9]{3}-[0-9]{3} .*`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})
	v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		price, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !price.IsNegative()
	})
	v.RegisterValidation("pt_address", func(fl validator.FieldLevel) bool {
		return postalAddress.MatchString(fl.Field().String())
	})
	v.RegisterValidation("qty", func(fl validator.FieldLevel) bool {
		_, err := parseQty(fl.Field().String())
		return err == nil
	})
	return v
}

type ProductForm struct {
	SKU         string `label:"SKU" validate:"required"`
	Name        string `label:"Name" validate:"required"`
	Description string `label:"Description"`
	Price       string `label:"Price" validate:"required,price"`
	EAN         string `label:"EAN"`
}

type ProductUpdateForm struct {
	Price       string `label:"Price" validate:"required,price"`
	Description string `label:"Description"`
}

type SupplierForm struct {
	TIN     string `label:"TIN"`
	Name    string `label:"Name" validate:"required"`
	Address string `label:"Address"`
	SKU     string `label:"SKU"`
	Date    string `label:"Date" validate:"omitempty,datetime=2006-01-02"`
}

type CustomerForm struct {
	Name    string `label:"Name" validate:"required"`
	Email   string `label:"Email" validate:"required"`
	Phone   string `label:"Phone"`
	Address string `label:"Address" validate:"pt_address"`
}

type LoginForm struct {
	CustNo string `label:"Customer ID" validate:"required,number"`
}

type OrderForm struct {
	SKUs       []string
	Quantities []string `label:"Quantity" validate:"dive,omitempty,qty"`
}

func DecodeProduct(r *http.Request) (ProductForm, error) {
	if err := r.ParseForm(); err != nil {
		return ProductForm{}, err
	}
	return ProductForm{
		SKU:         strings.TrimSpace(r.PostForm.Get("sku")),
		Name:        strings.TrimSpace(r.PostForm.Get("name")),
		Description: r.PostForm.Get("description"),
		Price:       strings.TrimSpace(r.PostForm.Get("price")),
		EAN:         strings.TrimSpace(r.PostForm.Get("ean")),
	}, nil
}

func DecodeProductUpdate(r *http.Request) (ProductUpdateForm, error) {
	if err := r.ParseForm(); err != nil {
		return ProductUpdateForm{}, err
	}
	return ProductUpdateForm{
		Price:       strings.TrimSpace(r.PostForm.Get("price")),
		Description: r.PostForm.Get("description"),
	}, nil
}

func DecodeSupplier(r *http.Request) (SupplierForm, error) {
	if err := r.ParseForm(); err != nil {
		return SupplierForm{}, err
	}
	return SupplierForm{
		TIN:     strings.TrimSpace(r.PostForm.Get("tin")),
		Name:    strings.TrimSpace(r.PostForm.Get("name")),
		Address: r.PostForm.Get("address"),
		SKU:     strings.TrimSpace(r.PostForm.Get("sku")),
		Date:    strings.TrimSpace(r.PostForm.Get("date")),
	}, nil
}

func DecodeCustomer(r *http.Request) (CustomerForm, error) {
	if err := r.ParseForm(); err != nil {
		return CustomerForm{}, err
	}
	return CustomerForm{
		Name:    strings.TrimSpace(r.PostForm.Get("name")),
		Email:   strings.TrimSpace(r.PostForm.Get("email")),
		Phone:   strings.TrimSpace(r.PostForm.Get("phone")),
		Address: r.PostForm.Get("address"),
	}, nil
}

func DecodeLogin(r *http.Request) (LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return LoginForm{}, err
	}
	return LoginForm{CustNo: strings.TrimSpace(r.PostForm.Get("cust_no"))}, nil
}

// DecodeOrder reads the parallel "sku" and "qty" lists of the order form.
func DecodeOrder(r *http.Request) (OrderForm, error) {
	if err := r.ParseForm(); err != nil {
		return OrderForm{}, err
	}
	form := OrderForm{SKUs: r.PostForm["sku"]}
	for _, qty := range r.PostForm["qty"] {
		form.Quantities = append(form.Quantities, strings.TrimSpace(qty))
	}
	return form, nil
}

// Validate returns one message per failed check, or nil when the form is
// valid.
func Validate(form interface{}) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	seen := make(map[string]bool)
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := message(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return messages
}

func message(fe validator.FieldError) string {
	label, _, _ := strings.Cut(fe.Field(), "[")

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "price":
		return label + " is required to be numeric."
	case "pt_address":
		return label + " doesn't match with portuguese standards."
	case "number", "qty":
		return label + " must be a whole number."
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)."
	default:
		return label + " is invalid."
	}
}

func (f ProductForm) Product() *store.Product {
	product := &store.Product{
		SKU:         f.SKU,
		Name:        f.Name,
		Description: f.Description,
		Price:       decimal.RequireFromString(f.Price),
	}
	if f.EAN != "" {
		ean := f.EAN
		product.EAN = &ean
	}
	return product
}

func (f ProductUpdateForm) PriceValue() decimal.Decimal {
	return decimal.RequireFromString(f.Price)
}

func (f SupplierForm) Supplier() *store.Supplier {
	supplier := &store.Supplier{
		TIN:     f.TIN,
		Name:    f.Name,
		Address: f.Address,
		SKU:     f.SKU,
	}
	if date, err := time.Parse(time.DateOnly, f.Date); err == nil {
		supplier.Date = &date
	}
	return supplier
}

func (f CustomerForm) Customer(custNo int64) *store.Customer {
	return &store.Customer{
		CustNo:  custNo,
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Address: f.Address,
	}
}

func (f LoginForm) CustomerNo() int64 {
	n, _ := strconv.ParseInt(f.CustNo, 10, 64)
	return n
}

// Lines pairs each quantity with its SKU. When the form carries no SKU
// list, quantities are matched by position against products, the listing
// the form was rendered from.
func (f OrderForm) Lines(products []store.Product) []store.LineItem {
	skus := f.SKUs
	if len(skus) == 0 {
		skus = make([]string, len(products))
		for i, p := range products {
			skus[i] = p.SKU
		}
	}

	lines := make([]store.LineItem, 0, len(f.Quantities))
	for i, raw := range f.Quantities {
		if i >= len(skus) {
			break
		}
		qty, _ := parseQty(raw)
		lines = append(lines, store.LineItem{SKU: skus[i], Qty: qty})
	}
	return lines
}

// parseQty reads a quantity column value: a non-negative integer that fits
// the INTEGER column. Blank means zero.
func parseQty(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("quantity %d is negative", n)
	}
	return int(n), nil
}

// HasQuantity reports whether any line asks for at least one unit.
func HasQuantity(lines []store.LineItem) bool {
	for _, line := range lines {
		if line.Qty > 0 {
			return true
		}
	}
	return false
}

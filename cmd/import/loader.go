package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/farxc/store_manager/internal/forms"
	"github.com/farxc/store_manager/internal/logger"
	"github.com/farxc/store_manager/internal/store"
)

type loadStats struct {
	Inserted int
	Skipped  int
	Failed   int
}

type loader struct {
	storage store.Storage
	logger  *logger.Logger
}

// insert records the outcome of one row. Constraint violations are
// counted as skipped rows, everything else as failures.
func (l *loader) insert(stats *loadStats, component, key string, err error) {
	switch {
	case err == nil:
		stats.Inserted++
	case errors.Is(err, store.ErrConflict):
		l.logger.Warn(component, "Row skipped: key=%s reason=%v", key, err)
		stats.Skipped++
	default:
		l.logger.Error(component, "Failed to insert row: key=%s error=%v", key, err)
		stats.Failed++
	}
}

func (l *loader) invalid(stats *loadStats, component string, row int, msgs []string) {
	l.logger.Warn(component, "Row skipped: row=%d reason=%s", row+2, strings.Join(msgs, " "))
	stats.Skipped++
}

func (l *loader) loadProducts(ctx context.Context, df dataframe.DataFrame) loadStats {
	const component = "ProductLoader"
	var stats loadStats

	for i := 0; i < df.Nrow(); i++ {
		form := forms.ProductForm{
			SKU:         cell(&df, "sku", i),
			Name:        cell(&df, "name", i),
			Description: cell(&df, "description", i),
			Price:       normalizePrice(cell(&df, "price", i)),
			EAN:         cell(&df, "ean", i),
		}
		if msgs := forms.Validate(form); msgs != nil {
			l.invalid(&stats, component, i, msgs)
			continue
		}
		l.insert(&stats, component, form.SKU, l.storage.Products.Create(ctx, form.Product()))
	}
	return stats
}

func (l *loader) loadSuppliers(ctx context.Context, df dataframe.DataFrame) loadStats {
	const component = "SupplierLoader"
	var stats loadStats

	for i := 0; i < df.Nrow(); i++ {
		form := forms.SupplierForm{
			TIN:     cell(&df, "tin", i),
			Name:    cell(&df, "name", i),
			Address: cell(&df, "address", i),
			SKU:     cell(&df, "sku", i),
			Date:    normalizeDate(cell(&df, "date", i)),
		}
		if msgs := forms.Validate(form); msgs != nil {
			l.invalid(&stats, component, i, msgs)
			continue
		}
		l.insert(&stats, component, form.TIN, l.storage.Suppliers.Create(ctx, form.Supplier()))
	}
	return stats
}

func (l *loader) loadCustomers(ctx context.Context, df dataframe.DataFrame) loadStats {
	const component = "CustomerLoader"
	var stats loadStats

	for i := 0; i < df.Nrow(); i++ {
		raw := cell(&df, "cust_no", i)
		custNo, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			l.invalid(&stats, component, i, []string{"cust_no must be a whole number, got " + strconv.Quote(raw) + "."})
			continue
		}

		form := forms.CustomerForm{
			Name:    cell(&df, "name", i),
			Email:   cell(&df, "email", i),
			Phone:   cell(&df, "phone", i),
			Address: cell(&df, "address", i),
		}
		if msgs := forms.Validate(form); msgs != nil {
			l.invalid(&stats, component, i, msgs)
			continue
		}
		l.insert(&stats, component, raw, l.storage.Customers.Create(ctx, form.Customer(custNo)))
	}
	return stats
}

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ProductStore struct {
	db *sqlx.DB
}

const productColumns = `sku, name, price, COALESCE(description, '') AS description`

func (ps *ProductStore) List(ctx context.Context) ([]Product, error) {
	return ps.list(ctx, `SELECT `+productColumns+` FROM product ORDER BY name ASC`)
}

// ListDesc is the listing used by the order form.
func (ps *ProductStore) ListDesc(ctx context.Context) ([]Product, error) {
	return ps.list(ctx, `SELECT `+productColumns+` FROM product ORDER BY name DESC`)
}

func (ps *ProductStore) list(ctx context.Context, query string) ([]Product, error) {
	products := []Product{}
	if err := ps.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

func (ps *ProductStore) Get(ctx context.Context, sku string) (*Product, error) {
	var product Product
	query := `SELECT ` + productColumns + ` FROM product WHERE sku = $1`
	if err := ps.db.GetContext(ctx, &product, query, sku); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", sku, mapError(err))
	}
	return &product, nil
}

func (ps *ProductStore) Create(ctx context.Context, product *Product) error {
	query := `INSERT INTO product (
		sku,
		name,
		description,
		price,
		ean
	) VALUES (
		:sku,
		:name,
		:description,
		:price,
		:ean
	)`

	if _, err := ps.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", product.SKU, mapError(err))
	}
	return nil
}

func (ps *ProductStore) Update(ctx context.Context, sku string, price decimal.Decimal, description string) error {
	query := `
	UPDATE product
	SET price = $1, description = $2
	WHERE sku = $3`

	result, err := ps.db.ExecContext(ctx, query, price, description, sku)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", sku, mapError(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update product %s: %w", sku, ErrNotFound)
	}
	return nil
}

// Delete removes a product together with everything that references it.
// Orders left without lines are removed along with their payment and
// processing records.
func (ps *ProductStore) Delete(ctx context.Context, sku string) (*Cascade, error) {
	cascade := newCascade()

	err := withTx(ctx, ps.db, func(tx *sqlx.Tx) error {
		orderNos := []int64{}
		if err := tx.SelectContext(ctx, &orderNos, `SELECT order_no FROM contains WHERE sku = $1`, sku); err != nil {
			return fmt.Errorf("failed to query orders containing %s: %w", sku, err)
		}

		for _, orderNo := range orderNos {
			var lines int
			if err := tx.GetContext(ctx, &lines, `SELECT COUNT(*) FROM contains WHERE order_no = $1`, orderNo); err != nil {
				return fmt.Errorf("failed to count lines of order %d: %w", orderNo, err)
			}

			if lines == 1 {
				if _, err := cascade.exec(ctx, tx, "pay", `DELETE FROM pay WHERE order_no = $1`, orderNo); err != nil {
					return err
				}
				if _, err := cascade.exec(ctx, tx, "process", `DELETE FROM process WHERE order_no = $1`, orderNo); err != nil {
					return err
				}
			}

			if _, err := cascade.exec(ctx, tx, "contains", `DELETE FROM contains WHERE sku = $1 AND order_no = $2`, sku, orderNo); err != nil {
				return err
			}
		}

		if len(orderNos) > 0 {
			removed := []int64{}
			query := `
			DELETE FROM orders
			WHERE order_no = ANY($1)
			AND NOT EXISTS (SELECT 1 FROM contains WHERE contains.order_no = orders.order_no)
			RETURNING order_no`
			if err := tx.SelectContext(ctx, &removed, query, pq.Array(orderNos)); err != nil {
				return fmt.Errorf("delete from orders: %w", mapError(err))
			}
			cascade.Deleted["orders"] += int64(len(removed))
			cascade.OrdersRemoved = removed
		}

		deliveries := `
		DELETE FROM delivery
		USING supplier
		INNER JOIN product USING (sku)
		WHERE delivery.tin = supplier.tin
		AND supplier.sku = $1`
		if _, err := cascade.exec(ctx, tx, "delivery", deliveries, sku); err != nil {
			return err
		}
		if _, err := cascade.exec(ctx, tx, "supplier", `DELETE FROM supplier WHERE sku = $1`, sku); err != nil {
			return err
		}

		n, err := cascade.exec(ctx, tx, "product", `DELETE FROM product WHERE sku = $1`, sku)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("failed to delete product %s: %w", sku, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cascade, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SupplierStore struct {
	db *sqlx.DB
}

func (ss *SupplierStore) List(ctx context.Context) ([]SupplierListing, error) {
	query := `
	SELECT supplier.tin, supplier.name AS sn, supplier.sku, product.name AS pn
	FROM supplier
	INNER JOIN product ON supplier.sku = product.sku
	ORDER BY supplier.tin ASC`

	suppliers := []SupplierListing{}
	if err := ss.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	return suppliers, nil
}

func (ss *SupplierStore) Create(ctx context.Context, supplier *Supplier) error {
	query := `INSERT INTO supplier (
		tin,
		name,
		address,
		sku,
		date
	) VALUES (
		:tin,
		:name,
		:address,
		:sku,
		:date
	)`

	if _, err := ss.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("failed to insert supplier %s: %w", supplier.TIN, mapError(err))
	}
	return nil
}

// Delete removes the supplier and its deliveries.
func (ss *SupplierStore) Delete(ctx context.Context, tin string) (*Cascade, error) {
	cascade := newCascade()

	err := withTx(ctx, ss.db, func(tx *sqlx.Tx) error {
		if _, err := cascade.exec(ctx, tx, "delivery", `DELETE FROM delivery WHERE tin = $1`, tin); err != nil {
			return err
		}
		n, err := cascade.exec(ctx, tx, "supplier", `DELETE FROM supplier WHERE tin = $1`, tin)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("failed to delete supplier %s: %w", tin, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cascade, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type CustomerStore struct {
	db *sqlx.DB
}

func (cs *CustomerStore) List(ctx context.Context) ([]Customer, error) {
	query := `
	SELECT name, cust_no, COALESCE(phone, '') AS phone, COALESCE(address, '') AS address
	FROM customer
	ORDER BY cust_no ASC`

	customers := []Customer{}
	if err := cs.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	return customers, nil
}

func (cs *CustomerStore) Exists(ctx context.Context, custNo int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customer WHERE cust_no = $1)`
	if err := cs.db.GetContext(ctx, &exists, query, custNo); err != nil {
		return false, fmt.Errorf("failed to look up customer %d: %w", custNo, err)
	}
	return exists, nil
}

func (cs *CustomerStore) Create(ctx context.Context, customer *Customer) error {
	query := `INSERT INTO customer (
		cust_no,
		name,
		email,
		phone,
		address
	) VALUES (
		:cust_no,
		:name,
		:email,
		:phone,
		:address
	)`

	if _, err := cs.db.NamedExecContext(ctx, query, customer); err != nil {
		return fmt.Errorf("failed to insert customer %d: %w", customer.CustNo, mapError(err))
	}
	return nil
}

// Delete removes the customer after its orders and everything hanging off
// them.
func (cs *CustomerStore) Delete(ctx context.Context, custNo int64) (*Cascade, error) {
	cascade := newCascade()

	steps := []struct {
		table string
		query string
	}{
		{"pay", `
		DELETE FROM pay
		USING orders
		INNER JOIN customer USING (cust_no)
		WHERE orders.order_no = pay.order_no
		AND customer.cust_no = $1`},
		{"contains", `
		DELETE FROM contains
		USING orders
		INNER JOIN customer USING (cust_no)
		WHERE orders.order_no = contains.order_no
		AND customer.cust_no = $1`},
		{"process", `
		DELETE FROM process
		USING orders
		INNER JOIN customer USING (cust_no)
		WHERE orders.order_no = process.order_no
		AND customer.cust_no = $1`},
		{"orders", `DELETE FROM orders WHERE cust_no = $1`},
	}

	err := withTx(ctx, cs.db, func(tx *sqlx.Tx) error {
		for _, step := range steps {
			if _, err := cascade.exec(ctx, tx, step.table, step.query, custNo); err != nil {
				return err
			}
		}
		n, err := cascade.exec(ctx, tx, "customer", `DELETE FROM customer WHERE cust_no = $1`, custNo)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("failed to delete customer %d: %w", custNo, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cascade, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type OrderStore struct {
	db *sqlx.DB
}

func (s *OrderStore) List(ctx context.Context, by OrderBy) ([]OrderSummary, error) {
	orderClause := `ORDER BY orders.cust_no ASC`
	if by == ByDateDesc {
		orderClause = `ORDER BY orders.date DESC`
	}

	query := `
	SELECT orders.cust_no, orders.order_no, orders.date, customer.name
	FROM orders INNER JOIN customer ON orders.cust_no = customer.cust_no
	` + orderClause

	orders := []OrderSummary{}
	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) ListByCustomer(ctx context.Context, custNo int64) ([]OrderSummary, error) {
	query := `
	SELECT cust_no, order_no, date, name
	FROM orders INNER JOIN customer USING (cust_no)
	WHERE cust_no = $1
	ORDER BY date DESC`

	orders := []OrderSummary{}
	if err := s.db.SelectContext(ctx, &orders, query, custNo); err != nil {
		return nil, fmt.Errorf("failed to query orders of customer %d: %w", custNo, err)
	}
	return orders, nil
}

func (s *OrderStore) Lines(ctx context.Context, orderNo int64) ([]OrderLine, error) {
	query := `
	SELECT sku, qty, price, name, cust_no, qty*price AS sub_total
	FROM orders INNER JOIN (contains INNER JOIN product USING (sku)) USING (order_no)
	WHERE order_no = $1
	ORDER BY order_no ASC`

	lines := []OrderLine{}
	if err := s.db.SelectContext(ctx, &lines, query, orderNo); err != nil {
		return nil, fmt.Errorf("failed to query lines of order %d: %w", orderNo, err)
	}
	return lines, nil
}

func (s *OrderStore) Totals(ctx context.Context, orderNo int64) ([]OrderTotal, error) {
	query := `
	SELECT cust_no, order_no, SUM(qty*price) AS total_value
	FROM orders INNER JOIN (contains INNER JOIN product USING (sku)) USING (order_no)
	WHERE order_no = $1
	GROUP BY cust_no, order_no`

	totals := []OrderTotal{}
	if err := s.db.SelectContext(ctx, &totals, query, orderNo); err != nil {
		return nil, fmt.Errorf("failed to query total of order %d: %w", orderNo, err)
	}
	return totals, nil
}

func (s *OrderStore) PaidOrders(ctx context.Context, custNo int64) ([]int64, error) {
	query := `
	SELECT order_no
	FROM pay
	WHERE cust_no = $1
	ORDER BY order_no ASC`

	paid := []int64{}
	if err := s.db.SelectContext(ctx, &paid, query, custNo); err != nil {
		return nil, fmt.Errorf("failed to query paid orders of customer %d: %w", custNo, err)
	}
	return paid, nil
}

func (s *OrderStore) MaxOrderNo(ctx context.Context) (int64, error) {
	return maxOrderNo(ctx, s.db)
}

func maxOrderNo(ctx context.Context, q sqlx.QueryerContext) (int64, error) {
	var highest int64
	if err := sqlx.GetContext(ctx, q, &highest, `SELECT COALESCE(MAX(order_no), 0) FROM orders`); err != nil {
		return 0, fmt.Errorf("failed to query max order number: %w", err)
	}
	return highest, nil
}

// Create inserts an order dated today with one line per item of positive
// quantity. orderNo is the number the caller was handed; when it is already
// taken the number after the current maximum is used instead. The number
// used is returned.
func (s *OrderStore) Create(ctx context.Context, orderNo, custNo int64, items []LineItem) (int64, error) {
	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Qty > 0 {
			lines = append(lines, item)
		}
	}
	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var taken bool
		if err := tx.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_no = $1)`, orderNo); err != nil {
			return fmt.Errorf("failed to check order number %d: %w", orderNo, err)
		}
		if taken || orderNo < 1 {
			highest, err := maxOrderNo(ctx, tx)
			if err != nil {
				return err
			}
			orderNo = highest + 1
		}

		query := `INSERT INTO orders (order_no, cust_no, date) VALUES ($1, $2, CURRENT_DATE)`
		if _, err := tx.ExecContext(ctx, query, orderNo, custNo); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", orderNo, mapError(err))
		}

		for _, line := range lines {
			line.OrderNo = orderNo
			query := `INSERT INTO contains (order_no, sku, qty) VALUES (:order_no, :sku, :qty)`
			if _, err := tx.NamedExecContext(ctx, query, line); err != nil {
				return fmt.Errorf("failed to insert line %s of order %d: %w", line.SKU, orderNo, mapError(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderNo, nil
}

func (s *OrderStore) Pay(ctx context.Context, orderNo, custNo int64) error {
	query := `INSERT INTO pay (order_no, cust_no) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, orderNo, custNo); err != nil {
		return fmt.Errorf("failed to pay order %d: %w", orderNo, mapError(err))
	}
	return nil
}

// Delete removes an order with its payment, processing records and lines.
func (s *OrderStore) Delete(ctx context.Context, orderNo int64) (*Cascade, error) {
	cascade := newCascade()

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"pay", "process", "contains"} {
			query := fmt.Sprintf(`DELETE FROM %s WHERE order_no = $1`, table)
			if _, err := cascade.exec(ctx, tx, table, query, orderNo); err != nil {
				return err
			}
		}
		n, err := cascade.exec(ctx, tx, "orders", `DELETE FROM orders WHERE order_no = $1`, orderNo)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("failed to delete order %d: %w", orderNo, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cascade, nil
}

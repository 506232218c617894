package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const orderCols = `id, patient_id, patient_name, ordered_at, status, payment_status, total_price, created_at, updated_at`
const itemCols = `id, order_id, test_id, code, name, price_at_order, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.PatientName, &o.OrderedAt, &o.Status,
		&o.PaymentStatus, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func scanTestItem(row pgx.Row) (*TestItem, error) {
	var ti TestItem
	err := row.Scan(&ti.ID, &ti.OrderID, &ti.TestID, &ti.Code, &ti.Name,
		&ti.PriceAtOrder, &ti.Status, &ti.CreatedAt, &ti.UpdatedAt)
	return &ti, err
}

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	o.ID = uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO lab_order (id, patient_id, patient_name, ordered_at, status, payment_status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.PatientID, o.PatientName, o.OrderedAt, o.Status, o.PaymentStatus, o.TotalPrice)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, ti := range o.Tests {
		ti.ID = uuid.New()
		ti.OrderID = o.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_test_item (id, order_id, test_id, code, name, price_at_order, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ti.ID, ti.OrderID, ti.TestID, ti.Code, ti.Name, ti.PriceAtOrder, ti.Status)
		if err != nil {
			return fmt.Errorf("insert test item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM lab_order WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	o.Tests, err = r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) loadItems(ctx context.Context, orderID uuid.UUID) ([]*TestItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM order_test_item WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TestItem
	for rows.Next() {
		ti, err := scanTestItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ti)
	}
	return items, rows.Err()
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, f.Status)
	}
	if f.PaymentStatus != "" {
		n++
		where += fmt.Sprintf(` AND payment_status = $%d`, n)
		args = append(args, f.PaymentStatus)
	}
	if f.PatientID != "" {
		n++
		where += fmt.Sprintf(` AND patient_id = $%d`, n)
		args = append(args, f.PatientID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lab_order`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+orderCols+` FROM lab_order`+where+` ORDER BY ordered_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range out {
		o.Tests, err = r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// ListAll loads every order with its test items. It backs the reconciliation
// view, which joins orders against payments in memory.
func (r *repoPG) ListAll(ctx context.Context) ([]*Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderCols+` FROM lab_order ORDER BY ordered_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	byID := make(map[uuid.UUID]*Order)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM order_test_item ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		ti, err := scanTestItem(itemRows)
		if err != nil {
			return nil, err
		}
		if o, ok := byID[ti.OrderID]; ok {
			o.Tests = append(o.Tests, ti)
		}
	}
	return out, itemRows.Err()
}

// UpdateTestStatus persists a test item transition, the recomputed order
// total, and the audit row in one transaction.
func (r *repoPG) UpdateTestStatus(ctx context.Context, o *Order, item *TestItem, change *StatusChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE order_test_item SET status=$2, updated_at=NOW() WHERE id = $1`,
		item.ID, item.Status)
	if err != nil {
		return fmt.Errorf("update test item: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE lab_order SET total_price=$2, status=$3, updated_at=NOW() WHERE id = $1`,
		o.ID, o.TotalPrice, o.Status)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	change.ID = uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (id, order_id, test_item_id, from_status, to_status, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		change.ID, change.OrderID, change.TestItemID, change.FromStatus, change.ToStatus, change.ChangedBy)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repoPG) MarkPaid(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE lab_order SET payment_status='paid', updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) History(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, test_item_id, from_status, to_status, changed_by, changed_at
		FROM order_status_history WHERE order_id = $1 ORDER BY changed_at DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.OrderID, &sc.TestItemID, &sc.FromStatus, &sc.ToStatus, &sc.ChangedBy, &sc.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, &sc)
	}
	return out, rows.Err()
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const tdCols = `id, code, name, price, active, created_at, updated_at`

func scanTestDefinition(row pgx.Row) (*TestDefinition, error) {
	var td TestDefinition
	err := row.Scan(&td.ID, &td.Code, &td.Name, &td.Price, &td.Active, &td.CreatedAt, &td.UpdatedAt)
	return &td, err
}

func (r *repoPG) Create(ctx context.Context, td *TestDefinition) error {
	td.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO test_definition (id, code, name, price, active)
		VALUES ($1, $2, $3, $4, $5)`,
		td.ID, td.Code, td.Name, td.Price, td.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*TestDefinition, error) {
	return scanTestDefinition(r.pool.QueryRow(ctx, `SELECT `+tdCols+` FROM test_definition WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*TestDefinition, error) {
	return scanTestDefinition(r.pool.QueryRow(ctx, `SELECT `+tdCols+` FROM test_definition WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, td *TestDefinition) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE test_definition SET name=$2, price=$3, active=$4, updated_at=NOW()
		WHERE id = $1`,
		td.ID, td.Name, td.Price, td.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM test_definition WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*TestDefinition, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM test_definition`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+tdCols+` FROM test_definition`+where+` ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*TestDefinition
	for rows.Next() {
		td, err := scanTestDefinition(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, td)
	}
	return items, total, rows.Err()
}

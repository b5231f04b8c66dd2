package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labcore/lims/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== ExternalLab Repository ===========

type externalLabRepoPG struct{ pool *pgxpool.Pool }

func NewExternalLabRepoPG(pool *pgxpool.Pool) ExternalLabRepository {
	return &externalLabRepoPG{pool: pool}
}

func (r *externalLabRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const extLabCols = `id, name, phone, created_at`

func (r *externalLabRepoPG) scanLab(row pgx.Row) (*ExternalLab, error) {
	var l ExternalLab
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.CreatedAt)
	return &l, err
}

func (r *externalLabRepoPG) Create(ctx context.Context, l *ExternalLab) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO external_labs (id, name, phone) VALUES ($1,$2,$3)`, l.ID, l.Name, l.Phone)
	return err
}

func (r *externalLabRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ExternalLab, error) {
	return r.scanLab(r.conn(ctx).QueryRow(ctx, `SELECT `+extLabCols+` FROM external_labs WHERE id = $1`, id))
}

func (r *externalLabRepoPG) Update(ctx context.Context, l *ExternalLab) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE external_labs SET name=$2, phone=$3 WHERE id = $1`, l.ID, l.Name, l.Phone)
	return err
}

func (r *externalLabRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM external_labs WHERE id = $1`, id)
	return err
}

func (r *externalLabRepoPG) List(ctx context.Context) ([]*ExternalLab, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+extLabCols+` FROM external_labs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ExternalLab
	for rows.Next() {
		l, err := r.scanLab(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// =========== LabPrice Repository ===========

type labPriceRepoPG struct{ pool *pgxpool.Pool }

func NewLabPriceRepoPG(pool *pgxpool.Pool) LabPriceRepository {
	return &labPriceRepoPG{pool: pool}
}

func (r *labPriceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *labPriceRepoPG) Upsert(ctx context.Context, p *LabPrice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_prices (test_id, lab_id, price) VALUES ($1,$2,$3)
		ON CONFLICT (test_id, lab_id) DO UPDATE SET price = EXCLUDED.price`,
		p.TestID, p.LabID, p.Price)
	return err
}

func (r *labPriceRepoPG) Delete(ctx context.Context, testID, labID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM lab_prices WHERE test_id = $1 AND lab_id = $2`, testID, labID)
	return err
}

func (r *labPriceRepoPG) ListByTest(ctx context.Context, testID uuid.UUID) ([]LabPrice, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT test_id, lab_id, price FROM lab_prices WHERE test_id = $1`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLabPrices(rows)
}

func (r *labPriceRepoPG) ListAll(ctx context.Context) ([]LabPrice, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT test_id, lab_id, price FROM lab_prices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLabPrices(rows)
}

func scanLabPrices(rows pgx.Rows) ([]LabPrice, error) {
	var items []LabPrice
	for rows.Next() {
		var p LabPrice
		if err := rows.Scan(&p.TestID, &p.LabID, &p.Price); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

package worklist

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

type assignmentRepoPG struct{ pool *pgxpool.Pool }

func NewAssignmentRepoPG(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepoPG{pool: pool}
}

func (r *assignmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const assignmentCols = `id, sale_id, sale_test_id, lab_id, created_at`

func scanAssignment(row pgx.Row) (*ReferralAssignment, error) {
	var a ReferralAssignment
	err := row.Scan(&a.ID, &a.SaleID, &a.SaleTestID, &a.LabID, &a.CreatedAt)
	return &a, err
}

func (r *assignmentRepoPG) Upsert(ctx context.Context, a *ReferralAssignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral_assignments (id, sale_id, sale_test_id, lab_id)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (sale_test_id) DO UPDATE SET lab_id = EXCLUDED.lab_id`,
		a.ID, a.SaleID, a.SaleTestID, a.LabID)
	return err
}

func (r *assignmentRepoPG) GetBySaleTest(ctx context.Context, saleTestID uuid.UUID) (*ReferralAssignment, error) {
	return scanAssignment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+assignmentCols+` FROM referral_assignments WHERE sale_test_id = $1`, saleTestID))
}

func (r *assignmentRepoPG) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*ReferralAssignment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+assignmentCols+` FROM referral_assignments WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ReferralAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *assignmentRepoPG) Delete(ctx context.Context, saleTestID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM referral_assignments WHERE sale_test_id = $1`, saleTestID)
	return err
}

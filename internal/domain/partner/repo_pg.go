package partner

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

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `id, name, license_number, phone, address, commission_percentage, total_earned, created_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.LicenseNumber, &d.Phone, &d.Address,
		&d.CommissionPercentage, &d.TotalEarned, &d.CreatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, name, license_number, phone, address, commission_percentage, total_earned)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.Name, d.LicenseNumber, d.Phone, d.Address, d.CommissionPercentage, d.TotalEarned)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET name=$2, license_number=$3, phone=$4, address=$5, commission_percentage=$6
		WHERE id = $1`,
		d.ID, d.Name, d.LicenseNumber, d.Phone, d.Address, d.CommissionPercentage)
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+doctorCols+` FROM doctors ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

func (r *doctorRepoPG) AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET total_earned = total_earned + $2 WHERE id = $1`, id, amount)
	return err
}

// =========== ReferralLab Repository ===========

type referralLabRepoPG struct{ pool *pgxpool.Pool }

func NewReferralLabRepoPG(pool *pgxpool.Pool) ReferralLabRepository {
	return &referralLabRepoPG{pool: pool}
}

func (r *referralLabRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const labCols = `id, name, phone, total_earned, created_at`

func (r *referralLabRepoPG) scanLab(row pgx.Row) (*ReferralLab, error) {
	var l ReferralLab
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.TotalEarned, &l.CreatedAt)
	return &l, err
}

func (r *referralLabRepoPG) Create(ctx context.Context, l *ReferralLab) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral_labs (id, name, phone, total_earned)
		VALUES ($1,$2,$3,$4)`,
		l.ID, l.Name, l.Phone, l.TotalEarned)
	return err
}

func (r *referralLabRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ReferralLab, error) {
	return r.scanLab(r.conn(ctx).QueryRow(ctx, `SELECT `+labCols+` FROM referral_labs WHERE id = $1`, id))
}

func (r *referralLabRepoPG) Update(ctx context.Context, l *ReferralLab) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE referral_labs SET name=$2, phone=$3 WHERE id = $1`, l.ID, l.Name, l.Phone)
	return err
}

func (r *referralLabRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM referral_labs WHERE id = $1`, id)
	return err
}

func (r *referralLabRepoPG) List(ctx context.Context, limit, offset int) ([]*ReferralLab, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM referral_labs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labCols+` FROM referral_labs ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ReferralLab
	for rows.Next() {
		l, err := r.scanLab(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}

func (r *referralLabRepoPG) AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE referral_labs SET total_earned = total_earned + $2 WHERE id = $1`, id, amount)
	return err
}

package sales

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

// =========== Sale Repository ===========

type saleRepoPG struct{ pool *pgxpool.Pool }

func NewSaleRepoPG(pool *pgxpool.Pool) SaleRepository {
	return &saleRepoPG{pool: pool}
}

func (r *saleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const saleCols = `id, client_id, client_name, client_code, doctor_id, doctor_name, doctor_commission,
	referral_lab_id, referral_lab_name, total, status,
	payment_amount_paid, payment_change, payment_type, payment_method, payment_observation, created_at`

const saleTestCols = `id, sale_id, test_id, test_name, category, price, status, delivery_date,
	repetition, control, calibration, result, completed_at, delivered`

func (r *saleRepoPG) scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	var amountPaid, change *float64
	var payType, payMethod, payObs *string
	err := row.Scan(&s.ID, &s.ClientID, &s.ClientName, &s.ClientCode,
		&s.DoctorID, &s.DoctorName, &s.DoctorCommission,
		&s.ReferralLabID, &s.ReferralLabName, &s.Total, &s.Status,
		&amountPaid, &change, &payType, &payMethod, &payObs, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if amountPaid != nil {
		s.Payment = &PaymentInfo{
			AmountPaid:    *amountPaid,
			Change:        *change,
			PaymentType:   *payType,
			PaymentMethod: *payMethod,
			Observation:   payObs,
		}
	}
	return &s, nil
}

func scanSaleTest(row pgx.Row) (*SaleTest, error) {
	var st SaleTest
	err := row.Scan(&st.ID, &st.SaleID, &st.TestID, &st.TestName, &st.Category, &st.Price,
		&st.Status, &st.DeliveryDate, &st.Repetition, &st.Control, &st.Calibration,
		&st.Result, &st.CompletedAt, &st.Delivered)
	return &st, err
}

func (r *saleRepoPG) Create(ctx context.Context, s *Sale) error {
	s.ID = uuid.New()
	var amountPaid, change *float64
	var payType, payMethod, payObs *string
	if s.Payment != nil {
		amountPaid = &s.Payment.AmountPaid
		change = &s.Payment.Change
		payType = &s.Payment.PaymentType
		payMethod = &s.Payment.PaymentMethod
		payObs = s.Payment.Observation
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sales (id, client_id, client_name, client_code, doctor_id, doctor_name, doctor_commission,
			referral_lab_id, referral_lab_name, total, status,
			payment_amount_paid, payment_change, payment_type, payment_method, payment_observation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		s.ID, s.ClientID, s.ClientName, s.ClientCode, s.DoctorID, s.DoctorName, s.DoctorCommission,
		s.ReferralLabID, s.ReferralLabName, s.Total, s.Status,
		amountPaid, change, payType, payMethod, payObs)
	if err != nil {
		return err
	}
	for i := range s.Tests {
		st := &s.Tests[i]
		st.SaleID = s.ID
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		if err := r.insertSaleTest(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (r *saleRepoPG) insertSaleTest(ctx context.Context, st *SaleTest) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sale_tests (id, sale_id, test_id, test_name, category, price, status, delivery_date,
			repetition, control, calibration, result, completed_at, delivered)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		st.ID, st.SaleID, st.TestID, st.TestName, st.Category, st.Price, st.Status, st.DeliveryDate,
		st.Repetition, st.Control, st.Calibration, st.Result, st.CompletedAt, st.Delivered)
	return err
}

func (r *saleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, err := r.scanSale(r.conn(ctx).QueryRow(ctx, `SELECT `+saleCols+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	s.Tests, err = r.ListSaleTests(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *saleRepoPG) List(ctx context.Context, limit, offset int) ([]*Sale, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+saleCols+` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collectSales(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *saleRepoPG) ListAll(ctx context.Context) ([]*Sale, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+saleCols+` FROM sales ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.collectSales(ctx, rows)
}

func (r *saleRepoPG) collectSales(ctx context.Context, rows pgx.Rows) ([]*Sale, error) {
	var items []*Sale
	for rows.Next() {
		s, err := r.scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range items {
		tests, err := r.ListSaleTests(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Tests = tests
	}
	return items, nil
}

func (r *saleRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE sales SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *saleRepoPG) GetSaleTest(ctx context.Context, saleID, saleTestID uuid.UUID) (*SaleTest, error) {
	return scanSaleTest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+saleTestCols+` FROM sale_tests WHERE sale_id = $1 AND id = $2`, saleID, saleTestID))
}

func (r *saleRepoPG) UpdateSaleTest(ctx context.Context, st *SaleTest) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE sale_tests SET status=$2, delivery_date=$3, repetition=$4, control=$5,
			calibration=$6, result=$7, completed_at=$8, delivered=$9
		WHERE id = $1`,
		st.ID, st.Status, st.DeliveryDate, st.Repetition, st.Control,
		st.Calibration, st.Result, st.CompletedAt, st.Delivered)
	return err
}

func (r *saleRepoPG) ListSaleTests(ctx context.Context, saleID uuid.UUID) ([]SaleTest, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+saleTestCols+` FROM sale_tests WHERE sale_id = $1 ORDER BY test_name`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tests []SaleTest
	for rows.Next() {
		st, err := scanSaleTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *st)
	}
	return tests, rows.Err()
}

func (r *saleRepoPG) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE client_id = $1`, clientID).Scan(&n)
	return n, err
}

// =========== Quote Repository ===========

type quoteRepoPG struct{ pool *pgxpool.Pool }

func NewQuoteRepoPG(pool *pgxpool.Pool) QuoteRepository {
	return &quoteRepoPG{pool: pool}
}

func (r *quoteRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const quoteCols = `id, total, expiration_date, created_at`

const quoteTestCols = `id, quote_id, test_id, test_name, category, price`

func (r *quoteRepoPG) scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.Total, &q.ExpirationDate, &q.CreatedAt)
	return &q, err
}

func (r *quoteRepoPG) Create(ctx context.Context, q *Quote) error {
	q.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO quotes (id, total, expiration_date)
		VALUES ($1,$2,$3)`,
		q.ID, q.Total, q.ExpirationDate)
	if err != nil {
		return err
	}
	for i := range q.Tests {
		st := &q.Tests[i]
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO quote_tests (id, quote_id, test_id, test_name, category, price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			st.ID, q.ID, st.TestID, st.TestName, st.Category, st.Price)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *quoteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, err := r.scanQuote(r.conn(ctx).QueryRow(ctx, `SELECT `+quoteCols+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	q.Tests, err = r.listQuoteTests(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *quoteRepoPG) listQuoteTests(ctx context.Context, quoteID uuid.UUID) ([]SaleTest, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+quoteTestCols+` FROM quote_tests WHERE quote_id = $1 ORDER BY test_name`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tests []SaleTest
	for rows.Next() {
		var st SaleTest
		var quoteID uuid.UUID
		if err := rows.Scan(&st.ID, &quoteID, &st.TestID, &st.TestName, &st.Category, &st.Price); err != nil {
			return nil, err
		}
		st.Status = StatusPending
		tests = append(tests, st)
	}
	return tests, rows.Err()
}

func (r *quoteRepoPG) List(ctx context.Context, limit, offset int) ([]*Quote, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+quoteCols+` FROM quotes ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	var items []*Quote
	for rows.Next() {
		q, err := r.scanQuote(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		items = append(items, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, q := range items {
		q.Tests, err = r.listQuoteTests(ctx, q.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *quoteRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM quote_tests WHERE quote_id = $1`, id); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	return err
}

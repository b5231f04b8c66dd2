package inventory

import (
	"context"
	"fmt"

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

// =========== Item Repository ===========

type itemRepoPG struct{ pool *pgxpool.Pool }

func NewItemRepoPG(pool *pgxpool.Pool) ItemRepository {
	return &itemRepoPG{pool: pool}
}

func (r *itemRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const itemCols = `id, nombre, descripcion, unidad, stock, stock_minimo_alerta, created_at, updated_at`

func scanItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	err := row.Scan(&it.ID, &it.Nombre, &it.Descripcion, &it.Unidad, &it.Stock,
		&it.StockMinimoAlerta, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *itemRepoPG) Create(ctx context.Context, it *InventoryItem) error {
	it.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO inventory_items (id, nombre, descripcion, unidad, stock, stock_minimo_alerta)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		it.ID, it.Nombre, it.Descripcion, it.Unidad, it.Stock, it.StockMinimoAlerta)
	return err
}

func (r *itemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM inventory_items WHERE id = $1`, id))
}

func (r *itemRepoPG) Update(ctx context.Context, it *InventoryItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE inventory_items
		SET nombre=$2, descripcion=$3, unidad=$4, stock_minimo_alerta=$5, updated_at=NOW()
		WHERE id = $1`,
		it.ID, it.Nombre, it.Descripcion, it.Unidad, it.StockMinimoAlerta)
	return err
}

func (r *itemRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	return err
}

func (r *itemRepoPG) List(ctx context.Context, limit, offset int) ([]*InventoryItem, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+itemCols+` FROM inventory_items ORDER BY nombre LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *itemRepoPG) AddStock(ctx context.Context, id uuid.UUID, amount float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE inventory_items SET stock = stock + $2, updated_at = NOW() WHERE id = $1`, id, amount)
	return err
}

// =========== Purchase Repository ===========

type purchaseRepoPG struct{ pool *pgxpool.Pool }

func NewPurchaseRepoPG(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepoPG{pool: pool}
}

func (r *purchaseRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const purchaseCols = `id, proveedor, fecha_compra, monto_total, observaciones, created_at, updated_at`

const lotCols = `id, compra_id, item_inventario_id, lote, cantidad_comprada, cantidad_consumida,
	costo_total, costo_unitario, precio_unitario, fecha_ingreso, fecha_terminado, fecha_vencimiento,
	alerta_vencimiento, observaciones, created_at`

func scanPurchase(row pgx.Row) (*Purchase, error) {
	var p Purchase
	err := row.Scan(&p.ID, &p.Proveedor, &p.FechaCompra, &p.MontoTotal, &p.Observaciones,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func scanLot(row pgx.Row) (*Lot, error) {
	var l Lot
	err := row.Scan(&l.ID, &l.CompraID, &l.ItemInventarioID, &l.Lote,
		&l.CantidadComprada, &l.CantidadConsumida,
		&l.CostoTotal, &l.CostoUnitario, &l.PrecioUnitario,
		&l.FechaIngreso, &l.FechaTerminado, &l.FechaVencimiento,
		&l.AlertaVencimiento, &l.Observaciones, &l.CreatedAt)
	return &l, err
}

func (r *purchaseRepoPG) Create(ctx context.Context, p *Purchase) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO purchases (id, proveedor, fecha_compra, monto_total, observaciones)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Proveedor, p.FechaCompra, p.MontoTotal, p.Observaciones)
	if err != nil {
		return err
	}
	for i := range p.Lotes {
		l := &p.Lotes[i]
		l.ID = uuid.New()
		l.CompraID = p.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO lots (id, compra_id, item_inventario_id, lote, cantidad_comprada, cantidad_consumida,
				costo_total, costo_unitario, precio_unitario, fecha_ingreso, fecha_terminado, fecha_vencimiento,
				alerta_vencimiento, observaciones)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			l.ID, l.CompraID, l.ItemInventarioID, l.Lote, l.CantidadComprada, l.CantidadConsumida,
			l.CostoTotal, l.CostoUnitario, l.PrecioUnitario, l.FechaIngreso, l.FechaTerminado,
			l.FechaVencimiento, l.AlertaVencimiento, l.Observaciones)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *purchaseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	p, err := scanPurchase(r.conn(ctx).QueryRow(ctx, `SELECT `+purchaseCols+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	p.Lotes, err = r.lotsFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *purchaseRepoPG) Update(ctx context.Context, p *Purchase) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE purchases
		SET proveedor=$2, fecha_compra=$3, monto_total=$4, observaciones=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Proveedor, p.FechaCompra, p.MontoTotal, p.Observaciones)
	return err
}

func (r *purchaseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	return err
}

func (r *purchaseRepoPG) lotsFor(ctx context.Context, purchaseID uuid.UUID) ([]Lot, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+lotCols+` FROM lots WHERE compra_id = $1 ORDER BY lote`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lots []Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *l)
	}
	return lots, rows.Err()
}

func (r *purchaseRepoPG) List(ctx context.Context, limit, offset int) ([]*Purchase, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+purchaseCols+` FROM purchases ORDER BY fecha_compra DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	var items []*Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		items = append(items, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, p := range items {
		p.Lotes, err = r.lotsFor(ctx, p.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// =========== Lot Repository ===========

type lotRepoPG struct{ pool *pgxpool.Pool }

func NewLotRepoPG(pool *pgxpool.Pool) LotRepository {
	return &lotRepoPG{pool: pool}
}

func (r *lotRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *lotRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Lot, error) {
	return scanLot(r.conn(ctx).QueryRow(ctx, `SELECT `+lotCols+` FROM lots WHERE id = $1`, id))
}

func (r *lotRepoPG) Update(ctx context.Context, l *Lot) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lots
		SET lote=$2, cantidad_comprada=$3, cantidad_consumida=$4, costo_total=$5, costo_unitario=$6,
			precio_unitario=$7, fecha_ingreso=$8, fecha_terminado=$9, fecha_vencimiento=$10,
			alerta_vencimiento=$11, observaciones=$12
		WHERE id = $1`,
		l.ID, l.Lote, l.CantidadComprada, l.CantidadConsumida, l.CostoTotal, l.CostoUnitario,
		l.PrecioUnitario, l.FechaIngreso, l.FechaTerminado, l.FechaVencimiento,
		l.AlertaVencimiento, l.Observaciones)
	return err
}

func (r *lotRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM lots WHERE id = $1`, id)
	return err
}

func (r *lotRepoPG) List(ctx context.Context, filter LotFilter, limit, offset int) ([]*Lot, int, error) {
	where := ""
	args := []interface{}{}
	if filter.CompraID != nil {
		args = append(args, *filter.CompraID)
		where = fmt.Sprintf(" WHERE compra_id = $%d", len(args))
	}
	if filter.ItemInventarioID != nil {
		args = append(args, *filter.ItemInventarioID)
		if where == "" {
			where = fmt.Sprintf(" WHERE item_inventario_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND item_inventario_id = $%d", len(args))
		}
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lots`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT `+lotCols+` FROM lots%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

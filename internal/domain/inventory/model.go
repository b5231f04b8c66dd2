package inventory

import (
	"time"

	"github.com/google/uuid"
)

// The inventory API keeps the Spanish field names the bench staff know from
// their purchase paperwork, hence the snake_case JSON tags.

// InventoryItem maps to the inventory_items table. Stock moves only through
// purchases and lot consumption, never through item updates.
type InventoryItem struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Nombre            string     `db:"nombre" json:"nombre"`
	Descripcion       *string    `db:"descripcion" json:"descripcion,omitempty"`
	Unidad            *string    `db:"unidad" json:"unidad,omitempty"`
	Stock             float64    `db:"stock" json:"stock"`
	StockMinimoAlerta *int       `db:"stock_minimo_alerta" json:"stock_minimo_alerta,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Lot maps to the lots table: one batch of one item within a purchase.
// CantidadConsumida tracks usage against the batch; the item's stock always
// equals the sum of every lot's remaining units.
type Lot struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	CompraID          uuid.UUID  `db:"compra_id" json:"compra_id"`
	ItemInventarioID  uuid.UUID  `db:"item_inventario_id" json:"item_inventario_id"`
	Lote              string     `db:"lote" json:"lote"`
	CantidadComprada  int        `db:"cantidad_comprada" json:"cantidad_comprada"`
	CantidadConsumida int        `db:"cantidad_consumida" json:"cantidad_consumida"`
	CostoTotal        float64    `db:"costo_total" json:"costo_total"`
	CostoUnitario     float64    `db:"costo_unitario" json:"costo_unitario"`
	PrecioUnitario    float64    `db:"precio_unitario" json:"precio_unitario"`
	FechaIngreso      time.Time  `db:"fecha_ingreso" json:"fecha_ingreso"`
	FechaTerminado    *time.Time `db:"fecha_terminado" json:"fecha_terminado,omitempty"`
	FechaVencimiento  *time.Time `db:"fecha_vencimiento" json:"fecha_vencimiento,omitempty"`
	AlertaVencimiento *int       `db:"alerta_vencimiento" json:"alerta_vencimiento,omitempty"`
	Observaciones     *string    `db:"observaciones" json:"observaciones,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Restante is the unconsumed part of the batch.
func (l *Lot) Restante() int {
	return l.CantidadComprada - l.CantidadConsumida
}

// Purchase maps to the purchases table, with its lots embedded.
type Purchase struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Proveedor     *string    `db:"proveedor" json:"proveedor,omitempty"`
	FechaCompra   time.Time  `db:"fecha_compra" json:"fecha_compra"`
	MontoTotal    float64    `db:"monto_total" json:"monto_total"`
	Observaciones *string    `db:"observaciones" json:"observaciones,omitempty"`
	Lotes         []Lot      `json:"lotes"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// LotFilter narrows lot listings by purchase or item.
type LotFilter struct {
	CompraID         *uuid.UUID
	ItemInventarioID *uuid.UUID
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxRunner runs fn atomically, same shape as the sales one.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	items     ItemRepository
	purchases PurchaseRepository
	lots      LotRepository
	runTx     TxRunner
	now       func() time.Time
}

func NewService(items ItemRepository, purchases PurchaseRepository, lots LotRepository, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{items: items, purchases: purchases, lots: lots, runTx: runTx, now: time.Now}
}

// -- Items --

func (s *Service) CreateItem(ctx context.Context, it *InventoryItem) error {
	if it.Nombre == "" {
		return fmt.Errorf("nombre is required")
	}
	if it.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	if it.StockMinimoAlerta != nil && *it.StockMinimoAlerta < 0 {
		return fmt.Errorf("stock_minimo_alerta must not be negative")
	}
	return s.items.Create(ctx, it)
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*InventoryItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, it *InventoryItem) error {
	if it.Nombre == "" {
		return fmt.Errorf("nombre is required")
	}
	if it.StockMinimoAlerta != nil && *it.StockMinimoAlerta < 0 {
		return fmt.Errorf("stock_minimo_alerta must not be negative")
	}
	existing, err := s.items.GetByID(ctx, it.ID)
	if err != nil {
		return fmt.Errorf("item not found")
	}
	// Stock only moves through purchases and lot consumption.
	it.Stock = existing.Stock
	return s.items.Update(ctx, it)
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.items.Delete(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, limit, offset int) ([]*InventoryItem, int, error) {
	return s.items.List(ctx, limit, offset)
}

// -- Purchases --

func validateLot(l *Lot, i int) error {
	if l.ItemInventarioID == uuid.Nil {
		return fmt.Errorf("lote %d: item_inventario_id is required", i)
	}
	if l.Lote == "" {
		return fmt.Errorf("lote %d: lote is required", i)
	}
	if l.CantidadComprada < 1 {
		return fmt.Errorf("lote %d: cantidad_comprada must be at least 1", i)
	}
	if l.CantidadConsumida < 0 || l.CantidadConsumida > l.CantidadComprada {
		return fmt.Errorf("lote %d: cantidad_consumida must be between 0 and cantidad_comprada", i)
	}
	if l.CostoTotal < 0 || l.CostoUnitario < 0 || l.PrecioUnitario < 0 {
		return fmt.Errorf("lote %d: amounts must not be negative", i)
	}
	return nil
}

// CreatePurchase validates the purchase, inserts it with its lots and bumps
// the stock of every item by the lot's remaining units, all in one
// transaction. A zero monto_total is computed from the lots' costo_total,
// and a zero costo_unitario from costo_total over cantidad_comprada.
func (s *Service) CreatePurchase(ctx context.Context, p *Purchase) error {
	if len(p.Lotes) == 0 {
		return fmt.Errorf("at least one lote is required")
	}
	if p.MontoTotal < 0 {
		return fmt.Errorf("monto_total must not be negative")
	}
	if p.FechaCompra.IsZero() {
		p.FechaCompra = s.now()
	}
	for i := range p.Lotes {
		l := &p.Lotes[i]
		if err := validateLot(l, i); err != nil {
			return err
		}
		if l.CostoUnitario == 0 && l.CostoTotal > 0 {
			l.CostoUnitario = l.CostoTotal / float64(l.CantidadComprada)
		}
		if l.FechaIngreso.IsZero() {
			l.FechaIngreso = p.FechaCompra
		}
	}
	if p.MontoTotal == 0 {
		for _, l := range p.Lotes {
			p.MontoTotal += l.CostoTotal
		}
	}

	return s.runTx(ctx, func(ctx context.Context) error {
		for _, l := range p.Lotes {
			if _, err := s.items.GetByID(ctx, l.ItemInventarioID); err != nil {
				return fmt.Errorf("item %s not found", l.ItemInventarioID)
			}
		}
		if err := s.purchases.Create(ctx, p); err != nil {
			return err
		}
		for i := range p.Lotes {
			l := &p.Lotes[i]
			if err := s.items.AddStock(ctx, l.ItemInventarioID, float64(l.Restante())); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetPurchase(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	return s.purchases.GetByID(ctx, id)
}

// UpdatePurchase changes the purchase header only; lots are edited through
// UpdateLot so the stock bookkeeping stays in one place.
func (s *Service) UpdatePurchase(ctx context.Context, p *Purchase) error {
	if p.MontoTotal < 0 {
		return fmt.Errorf("monto_total must not be negative")
	}
	existing, err := s.purchases.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("purchase not found")
	}
	if p.FechaCompra.IsZero() {
		p.FechaCompra = existing.FechaCompra
	}
	if err := s.purchases.Update(ctx, p); err != nil {
		return err
	}
	p.Lotes = existing.Lotes
	p.CreatedAt = existing.CreatedAt
	return nil
}

// DeletePurchase removes the purchase with its lots and takes the remaining
// units of every lot back out of stock.
func (s *Service) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	return s.runTx(ctx, func(ctx context.Context) error {
		p, err := s.purchases.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("purchase not found")
		}
		for i := range p.Lotes {
			l := &p.Lotes[i]
			if err := s.items.AddStock(ctx, l.ItemInventarioID, -float64(l.Restante())); err != nil {
				return err
			}
		}
		return s.purchases.Delete(ctx, id)
	})
}

func (s *Service) ListPurchases(ctx context.Context, limit, offset int) ([]*Purchase, int, error) {
	return s.purchases.List(ctx, limit, offset)
}

// -- Lots --

func (s *Service) GetLot(ctx context.Context, id uuid.UUID) (*Lot, error) {
	return s.lots.GetByID(ctx, id)
}

// UpdateLot edits a batch and keeps the item's stock in step with the lot's
// remaining units. The lot stays pinned to its purchase and item. A lot that
// becomes fully consumed gets fecha_terminado stamped; the stamp is kept if
// consumption is later corrected downward.
func (s *Service) UpdateLot(ctx context.Context, l *Lot) error {
	return s.runTx(ctx, func(ctx context.Context) error {
		existing, err := s.lots.GetByID(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("lot not found")
		}
		l.CompraID = existing.CompraID
		l.ItemInventarioID = existing.ItemInventarioID
		l.CreatedAt = existing.CreatedAt
		if l.FechaIngreso.IsZero() {
			l.FechaIngreso = existing.FechaIngreso
		}
		if err := validateLot(l, 0); err != nil {
			return err
		}
		if l.FechaTerminado == nil {
			if existing.FechaTerminado != nil {
				l.FechaTerminado = existing.FechaTerminado
			} else if l.Restante() == 0 {
				done := s.now()
				l.FechaTerminado = &done
			}
		}
		if delta := l.Restante() - existing.Restante(); delta != 0 {
			if err := s.items.AddStock(ctx, l.ItemInventarioID, float64(delta)); err != nil {
				return err
			}
		}
		return s.lots.Update(ctx, l)
	})
}

// DeleteLot removes a batch and its remaining units from stock.
func (s *Service) DeleteLot(ctx context.Context, id uuid.UUID) error {
	return s.runTx(ctx, func(ctx context.Context) error {
		l, err := s.lots.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lot not found")
		}
		if err := s.items.AddStock(ctx, l.ItemInventarioID, -float64(l.Restante())); err != nil {
			return err
		}
		return s.lots.Delete(ctx, id)
	})
}

func (s *Service) ListLots(ctx context.Context, filter LotFilter, limit, offset int) ([]*Lot, int, error) {
	return s.lots.List(ctx, filter, limit, offset)
}

package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo transacciones de inventario en memoria.
type TransactionRepo struct{ v *view }

// Create persiste la transacción; referencia duplicada devuelve ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.txns[txn.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.refs[txn.ReferenceNumber]; ok {
			return domain.ErrDuplicate
		}
		st.txns[txn.ID] = *txn
		st.refs[txn.ReferenceNumber] = txn.ID
		return nil
	})
}

// GetByID devuelve nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.v.do(ctx, func(st *state) error {
		if t, ok := st.txns[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID: dentro de Run el mutex del Store ya da exclusión.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza la transacción existente (la referencia no cambia).
func (r *TransactionRepo) Update(ctx context.Context, txn *entity.Transaction) error {
	return r.v.do(ctx, func(st *state) error {
		old, ok := st.txns[txn.ID]
		if !ok {
			return domain.ErrNotFound
		}
		t := *txn
		t.ReferenceNumber = old.ReferenceNumber
		st.txns[txn.ID] = t
		return nil
	})
}

// List filtra y ordena por fecha de creación descendente.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.v.do(ctx, func(st *state) error {
		for _, t := range st.txns {
			if filter.Type != "" && t.Type != filter.Type {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
			if filter.WarehouseID != "" && t.FromWarehouseID != filter.WarehouseID && t.ToWarehouseID != filter.WarehouseID {
				continue
			}
			if filter.FromWarehouseID != "" && t.FromWarehouseID != filter.FromWarehouseID {
				continue
			}
			if filter.ToWarehouseID != "" && t.ToWarehouseID != filter.ToWarehouseID {
				continue
			}
			if filter.Category != "" {
				p, ok := st.products[t.ProductID]
				if !ok || !strings.EqualFold(p.Category, filter.Category) {
					continue
				}
			}
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ReferenceNumber > out[j].ReferenceNumber
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

// NextSequence incrementa el contador de la clave.
func (r *TransactionRepo) NextSequence(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.v.do(ctx, func(st *state) error {
		st.sequences[key]++
		n = st.sequences[key]
		return nil
	})
	return n, err
}

package repository

import (
	"context"

	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// TransactionFilter filtros opcionales para listar transacciones (vacío = sin filtro).
type TransactionFilter struct {
	Type            string
	Status          string
	WarehouseID     string // origen o destino
	FromWarehouseID string
	ToWarehouseID   string
	Category        string // categoría del producto
}

// TransactionRepository define el puerto de persistencia para transacciones de inventario.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// GetForUpdate bloquea la fila de la transacción (evita doble validación concurrente).
	GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	// NextSequence incrementa y devuelve el contador de referencias de la clave dada.
	NextSequence(ctx context.Context, key string) (int64, error)
}

// Package memory implementa los repositorios y el TxRunner en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para las pruebas del motor.
// No es un backend de producción: cada Run copia todos los mapas del estado, así que el costo
// de una escritura crece con el tamaño del almacén, y los datos se pierden al reiniciar.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// state datos del almacén. Los mapas guardan valores, no punteros: cada lectura entrega una copia.
type state struct {
	products   map[string]entity.Product
	skus       map[string]string // sku -> id
	warehouses map[string]entity.Warehouse
	codes      map[string]string // short_code -> id
	stock      map[repository.StockKey]entity.StockRecord
	txns       map[string]entity.Transaction
	refs       map[string]string // reference_number -> id
	ledger     []entity.LedgerEntry
	sequences  map[string]int64
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		skus:       make(map[string]string),
		warehouses: make(map[string]entity.Warehouse),
		codes:      make(map[string]string),
		stock:      make(map[repository.StockKey]entity.StockRecord),
		txns:       make(map[string]entity.Transaction),
		refs:       make(map[string]string),
		sequences:  make(map[string]int64),
	}
}

// clone copia el estado para una transacción. El libro mayor comparte el arreglo base:
// solo se agrega al final y Run es exclusivo, así que un rollback simplemente lo descarta.
func (s *state) clone() *state {
	return &state{
		products:   maps.Clone(s.products),
		skus:       maps.Clone(s.skus),
		warehouses: maps.Clone(s.warehouses),
		codes:      maps.Clone(s.codes),
		stock:      maps.Clone(s.stock),
		txns:       maps.Clone(s.txns),
		refs:       maps.Clone(s.refs),
		ledger:     s.ledger[:len(s.ledger):len(s.ledger)],
		sequences:  maps.Clone(s.sequences),
	}
}

// Store almacén en memoria. Un solo mutex serializa cada Run y cada lectura fuera de transacción.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	v := &view{tx: work}
	if err := fn(inventory.Repos{
		Transactions: &TransactionRepo{v: v},
		Stock:        &StockRepo{v: v},
		Ledger:       &LedgerRepo{v: v},
		Products:     &ProductRepo{v: v},
		Warehouses:   &WarehouseRepo{v: v},
	}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: &view{store: s}} }

// Warehouses repositorio de bodegas fuera de transacción.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{v: &view{store: s}} }

// Stock repositorio de saldos fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{v: &view{store: s}} }

// Transactions repositorio de transacciones fuera de transacción.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{v: &view{store: s}} }

// Ledger repositorio del libro mayor fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{v: &view{store: s}} }

// view resuelve sobre qué estado opera un repositorio: el de la tx en curso o el publicado (con lock).
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

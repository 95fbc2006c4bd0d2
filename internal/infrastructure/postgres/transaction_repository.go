package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `t.id, t.type, t.status, t.product_id, t.quantity, t.counted_qty, t.system_qty,
	t.from_warehouse_id, t.to_warehouse_id, t.supplier, t.delivery_address, t.contact,
	t.scheduled_date, t.completion_date, t.reference_number, t.created_by, t.created_at, t.updated_at`

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la transacción. Referencia repetida devuelve ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO inventory_transactions (
			id, type, status, product_id, quantity, counted_qty, system_qty,
			from_warehouse_id, to_warehouse_id, supplier, delivery_address, contact,
			scheduled_date, completion_date, reference_number, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Type, t.Status, nullString(t.ProductID), t.Quantity, t.CountedQty, t.SystemQty,
		nullString(t.FromWarehouseID), nullString(t.ToWarehouseID), t.Supplier, t.DeliveryAddress, t.Contact,
		t.ScheduledDate, t.CompletionDate, t.ReferenceNumber, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID; nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM inventory_transactions t WHERE t.id = $1`, id)
}

// GetForUpdate obtiene la transacción y bloquea su fila (SELECT FOR UPDATE).
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM inventory_transactions t WHERE t.id = $1 FOR UPDATE`, id)
}

func (r *TransactionRepo) getOne(ctx context.Context, query, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Update reescribe los campos editables; la referencia y created_* no cambian.
func (r *TransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	query := `
		UPDATE inventory_transactions SET
			status = $2, product_id = $3, quantity = $4, counted_qty = $5, system_qty = $6,
			from_warehouse_id = $7, to_warehouse_id = $8, supplier = $9, delivery_address = $10,
			contact = $11, scheduled_date = $12, completion_date = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, t.Status, nullString(t.ProductID), t.Quantity, t.CountedQty, t.SystemQty,
		nullString(t.FromWarehouseID), nullString(t.ToWarehouseID), t.Supplier, t.DeliveryAddress,
		t.Contact, t.ScheduledDate, t.CompletionDate, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por tipo, estado, bodegas y categoría de producto; más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var w whereBuilder
	if filter.Type != "" {
		w.add("t.type = ?", filter.Type)
	}
	if filter.Status != "" {
		w.add("t.status = ?", filter.Status)
	}
	if filter.WarehouseID != "" {
		w.add("(t.from_warehouse_id = ? OR t.to_warehouse_id = ?)", filter.WarehouseID)
	}
	if filter.FromWarehouseID != "" {
		w.add("t.from_warehouse_id = ?", filter.FromWarehouseID)
	}
	if filter.ToWarehouseID != "" {
		w.add("t.to_warehouse_id = ?", filter.ToWarehouseID)
	}
	if filter.Category != "" {
		w.add("lower(p.category) = lower(?)", filter.Category)
	}
	query := `SELECT ` + transactionColumns + `
		FROM inventory_transactions t
		LEFT JOIN products p ON p.id = t.product_id` + w.sql() + `
		ORDER BY t.created_at DESC, t.reference_number DESC`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// NextSequence incrementa de forma atómica el contador de la clave y devuelve el nuevo valor.
func (r *TransactionRepo) NextSequence(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO reference_sequences (key, last_value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET last_value = reference_sequences.last_value + 1
		RETURNING last_value`, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next reference sequence: %w", err)
	}
	return n, nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var (
		t                   entity.Transaction
		productID, from, to *string
		counted, system     decimal.NullDecimal
	)
	err := row.Scan(
		&t.ID, &t.Type, &t.Status, &productID, &t.Quantity, &counted, &system,
		&from, &to, &t.Supplier, &t.DeliveryAddress, &t.Contact,
		&t.ScheduledDate, &t.CompletionDate, &t.ReferenceNumber, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ProductID = derefString(productID)
	t.FromWarehouseID = derefString(from)
	t.ToWarehouseID = derefString(to)
	t.CountedQty = decimalPtr(counted)
	t.SystemQty = decimalPtr(system)
	return &t, nil
}

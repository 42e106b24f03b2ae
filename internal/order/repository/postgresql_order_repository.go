// Package repository provides data persistence implementations for orders.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// PostgreSQLOrderRepository handles order persistence for PostgreSQL
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQLOrderRepository
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{
		db: db,
	}
}

// Create persists a new order.
func (r *PostgreSQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, customer_id, status, total_amount, currency,
								  payment_intent_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.Status, order.TotalAmount,
		order.Currency, order.PaymentIntentID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *PostgreSQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, customer_id, status, total_amount, currency,
					 payment_intent_id, created_at, updated_at
			  FROM orders WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.Status, &order.TotalAmount,
		&order.Currency, &order.PaymentIntentID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order")
	}

	return &order, nil
}

// TransitionStatus moves the order from one status to another with a guard on
// the current status, so concurrent deliveries cannot double-apply a
// transition. Returns ErrOrderNotPending when the guard does not match.
func (r *PostgreSQLOrderRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.OrderStatus,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = $1, updated_at = $2
			  WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return apperrors.Wrap(err, "failed to transition order status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read order transition result")
	}
	if rows == 0 {
		return domain.ErrOrderNotPending
	}

	return nil
}

// SetPaymentIntent records the payment reference on the order.
func (r *PostgreSQLOrderRepository) SetPaymentIntent(
	ctx context.Context,
	id uuid.UUID,
	paymentIntentID string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET payment_intent_id = $1, updated_at = $2 WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, paymentIntentID, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set order payment intent")
	}

	return nil
}

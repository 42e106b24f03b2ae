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

// MySQLOrderRepository handles order persistence for MySQL
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQLOrderRepository
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db: db,
	}
}

// Create persists a new order.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, customer_id, status, total_amount, currency,
								  payment_intent_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.Status, order.TotalAmount,
		order.Currency, order.PaymentIntentID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *MySQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, customer_id, status, total_amount, currency,
					 payment_intent_id, created_at, updated_at
			  FROM orders WHERE id = ?`

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
// the current status. Returns ErrOrderNotPending when the guard does not match.
func (r *MySQLOrderRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.OrderStatus,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = ?, updated_at = ?
			  WHERE id = ? AND status = ?`

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
func (r *MySQLOrderRepository) SetPaymentIntent(
	ctx context.Context,
	id uuid.UUID,
	paymentIntentID string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET payment_intent_id = ?, updated_at = ? WHERE id = ?`

	_, err := querier.ExecContext(ctx, query, paymentIntentID, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set order payment intent")
	}

	return nil
}

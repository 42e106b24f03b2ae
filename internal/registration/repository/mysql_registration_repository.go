package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// MySQLRegistrationRepository handles domain registration persistence for MySQL
type MySQLRegistrationRepository struct {
	db *sql.DB
}

// NewMySQLRegistrationRepository creates a new MySQLRegistrationRepository
func NewMySQLRegistrationRepository(db *sql.DB) *MySQLRegistrationRepository {
	return &MySQLRegistrationRepository{
		db: db,
	}
}

// Create persists a new registration record.
func (r *MySQLRegistrationRepository) Create(
	ctx context.Context,
	registration *domain.DomainRegistration,
) error {
	querier := database.GetTx(ctx, r.db)

	nameservers, err := json.Marshal(registration.Nameservers)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode nameservers")
	}

	query := `INSERT INTO domain_registrations (id, order_id, customer_id, domain_name, tld,
											    years, id_protect, nameservers, status,
											    registration_date, expiry_date,
											    external_registrar_id, last_error,
											    created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		registration.ID, registration.OrderID, registration.CustomerID,
		registration.DomainName, registration.TLD, registration.Years,
		registration.IDProtect, nameservers, registration.Status,
		registration.RegistrationDate, registration.ExpiryDate,
		registration.ExternalRegistrarID, registration.LastError,
		registration.CreatedAt, registration.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create domain registration")
	}

	return nil
}

// Update persists the registration's mutable outcome fields.
func (r *MySQLRegistrationRepository) Update(
	ctx context.Context,
	registration *domain.DomainRegistration,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE domain_registrations
			  SET status = ?, registration_date = ?, expiry_date = ?,
				  external_registrar_id = ?, last_error = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		registration.Status, registration.RegistrationDate, registration.ExpiryDate,
		registration.ExternalRegistrarID, registration.LastError,
		registration.UpdatedAt, registration.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update domain registration")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read domain registration update result")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// GetByOrderID retrieves the registration tied to an order.
func (r *MySQLRegistrationRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*domain.DomainRegistration, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, customer_id, domain_name, tld, years, id_protect,
					 nameservers, status, registration_date, expiry_date,
					 external_registrar_id, last_error, created_at, updated_at
			  FROM domain_registrations WHERE order_id = ?`

	return scanRegistration(querier.QueryRowContext(ctx, query, orderID))
}

// GetByID retrieves a registration by ID.
func (r *MySQLRegistrationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DomainRegistration, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, customer_id, domain_name, tld, years, id_protect,
					 nameservers, status, registration_date, expiry_date,
					 external_registrar_id, last_error, created_at, updated_at
			  FROM domain_registrations WHERE id = ?`

	return scanRegistration(querier.QueryRowContext(ctx, query, id))
}

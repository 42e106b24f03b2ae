// Package repository provides data persistence implementations for domain
// registrations.
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

// PostgreSQLRegistrationRepository handles domain registration persistence for PostgreSQL
type PostgreSQLRegistrationRepository struct {
	db *sql.DB
}

// NewPostgreSQLRegistrationRepository creates a new PostgreSQLRegistrationRepository
func NewPostgreSQLRegistrationRepository(db *sql.DB) *PostgreSQLRegistrationRepository {
	return &PostgreSQLRegistrationRepository{
		db: db,
	}
}

// Create persists a new registration record.
func (r *PostgreSQLRegistrationRepository) Create(
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
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

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
func (r *PostgreSQLRegistrationRepository) Update(
	ctx context.Context,
	registration *domain.DomainRegistration,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE domain_registrations
			  SET status = $1, registration_date = $2, expiry_date = $3,
				  external_registrar_id = $4, last_error = $5, updated_at = $6
			  WHERE id = $7`

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
func (r *PostgreSQLRegistrationRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*domain.DomainRegistration, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, customer_id, domain_name, tld, years, id_protect,
					 nameservers, status, registration_date, expiry_date,
					 external_registrar_id, last_error, created_at, updated_at
			  FROM domain_registrations WHERE order_id = $1`

	return scanRegistration(querier.QueryRowContext(ctx, query, orderID))
}

// GetByID retrieves a registration by ID.
func (r *PostgreSQLRegistrationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DomainRegistration, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, customer_id, domain_name, tld, years, id_protect,
					 nameservers, status, registration_date, expiry_date,
					 external_registrar_id, last_error, created_at, updated_at
			  FROM domain_registrations WHERE id = $1`

	return scanRegistration(querier.QueryRowContext(ctx, query, id))
}

func scanRegistration(row *sql.Row) (*domain.DomainRegistration, error) {
	var registration domain.DomainRegistration
	var nameservers []byte

	err := row.Scan(
		&registration.ID, &registration.OrderID, &registration.CustomerID,
		&registration.DomainName, &registration.TLD, &registration.Years,
		&registration.IDProtect, &nameservers, &registration.Status,
		&registration.RegistrationDate, &registration.ExpiryDate,
		&registration.ExternalRegistrarID, &registration.LastError,
		&registration.CreatedAt, &registration.UpdatedAt,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get domain registration")
	}

	if err := json.Unmarshal(nameservers, &registration.Nameservers); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode nameservers")
	}

	return &registration, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

type PgxContactRepository struct {
	pool *pgxpool.Pool
}

func newPgxContactRepository(pool *pgxpool.Pool) *PgxContactRepository {
	return &PgxContactRepository{pool: pool}
}

var _ portsrepo.ContactReader = (*PgxContactRepository)(nil)

func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID int64) (*domain.Contact, error) {
	query := `SELECT id, display_name, contact_service FROM contacts WHERE id = $1;`

	var c domain.Contact
	err := r.pool.QueryRow(ctx, query, contactID).Scan(&c.ID, &c.DisplayName, &c.ContactService)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by ID %d: %w", contactID, err)
	}
	return &c, nil
}

func (r *PgxContactRepository) FindContactsByIDs(ctx context.Context, contactIDs []int64) (map[int64]domain.Contact, error) {
	contacts := make(map[int64]domain.Contact, len(contactIDs))
	if len(contactIDs) == 0 {
		return contacts, nil
	}

	query := `SELECT id, display_name, contact_service FROM contacts WHERE id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.ContactService); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

type PgxManualJournalRepository struct {
	BaseRepository
}

func newPgxManualJournalRepository(pool *pgxpool.Pool) *PgxManualJournalRepository {
	return &PgxManualJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ManualJournalRepositoryFacade = (*PgxManualJournalRepository)(nil)

func (r *PgxManualJournalRepository) FindManualJournalByID(ctx context.Context, journalID int64) (*domain.ManualJournal, error) {
	query := `
		SELECT id, journal_number, journal_type, reference, date, description, amount,
		       published_at, user_id, created_at, created_by, updated_at
		FROM manual_journals
		WHERE id = $1;
	`
	var mj domain.ManualJournal
	err := r.Pool.QueryRow(ctx, query, journalID).Scan(
		&mj.ID,
		&mj.JournalNumber,
		&mj.JournalType,
		&mj.Reference,
		&mj.Date,
		&mj.Description,
		&mj.Amount,
		&mj.PublishedAt,
		&mj.UserID,
		&mj.CreatedAt,
		&mj.CreatedBy,
		&mj.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find manual journal by ID %d: %w", journalID, err)
	}

	entriesQuery := `
		SELECT line_index, account_id, contact_id, credit, debit, note
		FROM manual_journal_entries
		WHERE manual_journal_id = $1
		ORDER BY line_index;
	`
	rows, err := r.Pool.Query(ctx, entriesQuery, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries of manual journal %d: %w", journalID, err)
	}
	defer rows.Close()

	mj.Entries = []domain.ManualJournalEntry{}
	for rows.Next() {
		var e domain.ManualJournalEntry
		if err := rows.Scan(&e.Index, &e.AccountID, &e.ContactID, &e.Credit, &e.Debit, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan manual journal entry row: %w", err)
		}
		mj.Entries = append(mj.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manual journal entry rows: %w", err)
	}
	return &mj, nil
}

func (r *PgxManualJournalRepository) JournalNumberExists(ctx context.Context, number string, excludeID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM manual_journals
			WHERE journal_number = $1 AND ($2::BIGINT IS NULL OR id <> $2)
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, number, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check journal number %q: %w", number, err)
	}
	return exists, nil
}

func insertJournalEntries(ctx context.Context, tx pgx.Tx, journalID int64, entries []domain.ManualJournalEntry) error {
	query := `
		INSERT INTO manual_journal_entries (manual_journal_id, line_index, account_id, contact_id, credit, debit, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, journalID, e.Index, e.AccountID, e.ContactID, e.Credit, e.Debit, e.Note)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert entries of manual journal %d: %w", journalID, err)
	}
	return nil
}

// SaveManualJournal inserts a journal and its entries in one transaction.
func (r *PgxManualJournalRepository) SaveManualJournal(ctx context.Context, mj domain.ManualJournal) (*domain.ManualJournal, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO manual_journals (
				journal_number, journal_type, reference, date, description, amount,
				published_at, user_id, created_at, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id;
		`
		err := tx.QueryRow(ctx, query,
			mj.JournalNumber,
			mj.JournalType,
			mj.Reference,
			mj.Date,
			mj.Description,
			mj.Amount,
			mj.PublishedAt,
			mj.UserID,
			mj.CreatedAt,
			mj.CreatedBy,
		).Scan(&mj.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: journal number %s", apperrors.ErrDuplicate, mj.JournalNumber)
			}
			return fmt.Errorf("failed to insert manual journal: %w", err)
		}
		return insertJournalEntries(ctx, tx, mj.ID, mj.Entries)
	})
	if err != nil {
		return nil, err
	}
	return &mj, nil
}

// UpdateManualJournal replaces the journal row and all of its entries.
func (r *PgxManualJournalRepository) UpdateManualJournal(ctx context.Context, mj domain.ManualJournal) (*domain.ManualJournal, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE manual_journals
			SET journal_number = $2, journal_type = $3, reference = $4, date = $5, description = $6,
			    amount = $7, published_at = $8, updated_at = $9
			WHERE id = $1;
		`
		tag, err := tx.Exec(ctx, query,
			mj.ID,
			mj.JournalNumber,
			mj.JournalType,
			mj.Reference,
			mj.Date,
			mj.Description,
			mj.Amount,
			mj.PublishedAt,
			mj.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: journal number %s", apperrors.ErrDuplicate, mj.JournalNumber)
			}
			return fmt.Errorf("failed to update manual journal %d: %w", mj.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM manual_journal_entries WHERE manual_journal_id = $1;`, mj.ID); err != nil {
			return fmt.Errorf("failed to clear entries of manual journal %d: %w", mj.ID, err)
		}
		return insertJournalEntries(ctx, tx, mj.ID, mj.Entries)
	})
	if err != nil {
		return nil, err
	}
	return &mj, nil
}

func (r *PgxManualJournalRepository) DeleteManualJournal(ctx context.Context, journalID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM manual_journals WHERE id = $1;`, journalID)
	if err != nil {
		return fmt.Errorf("failed to delete manual journal %d: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxManualJournalRepository) PublishManualJournal(ctx context.Context, journalID int64, publishedAt time.Time) error {
	query := `UPDATE manual_journals SET published_at = $2 WHERE id = $1 AND published_at IS NULL;`
	if _, err := r.Pool.Exec(ctx, query, journalID, publishedAt); err != nil {
		return fmt.Errorf("failed to publish manual journal %d: %w", journalID, err)
	}
	return nil
}

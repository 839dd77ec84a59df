package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"promo-api/internal/domain"
	"promo-api/pkg/database"
	"promo-api/pkg/utils"
)

// PostgresLedger stores entries in an entries table with a unique constraint
// on receipt_number, so duplicate suppression is atomic at the database
// instead of a scan-then-append.
type PostgresLedger struct {
	db *database.PostgresDB
}

// NewPostgresLedger creates a ledger backed by Postgres
func NewPostgresLedger(db *database.PostgresDB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

const entryColumns = `
	submitted_at, segment, full_name, owner_id, phone, email,
	receipt_number, receipt_date, image_url, answer, status, is_winner`

// Append stores a new entry unconditionally
func (l *PostgresLedger) Append(ctx context.Context, entry *domain.Entry) (int64, error) {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int64
	err := l.db.Pool.QueryRow(ctx, query,
		entry.Timestamp,
		entry.Segment,
		entry.FullName,
		entry.OwnerID,
		entry.Phone,
		entry.Email,
		entry.ReceiptNumber,
		entry.ReceiptDate,
		entry.ImageURL,
		entry.Answer,
		entry.Status,
		entry.IsWinner,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	return id, nil
}

// AppendIfAbsent inserts the entry unless its receipt number is taken. The
// uniqueness decision rides on the receipt_number constraint, so concurrent
// submitters race safely.
func (l *PostgresLedger) AppendIfAbsent(ctx context.Context, entry *domain.Entry) (int64, bool, error) {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (receipt_number) DO NOTHING
		RETURNING id
	`

	var id int64
	err := l.db.Pool.QueryRow(ctx, query,
		entry.Timestamp,
		entry.Segment,
		entry.FullName,
		entry.OwnerID,
		entry.Phone,
		entry.Email,
		entry.ReceiptNumber,
		entry.ReceiptDate,
		entry.ImageURL,
		entry.Answer,
		entry.Status,
		entry.IsWinner,
	).Scan(&id)

	if err == pgx.ErrNoRows {
		// Conflict: fetch the existing row's id for the caller
		existing, err := l.FindByReceiptID(ctx, entry.ReceiptNumber)
		if err != nil {
			return 0, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert entry: %w", err)
	}
	return id, true, nil
}

// FindByReceiptID returns the row id for a receipt number, or 0 when absent
func (l *PostgresLedger) FindByReceiptID(ctx context.Context, receiptNumber string) (int64, error) {
	var id int64
	err := l.db.Pool.QueryRow(ctx,
		`SELECT id FROM entries WHERE receipt_number = $1`,
		utils.NormalizeReceiptNumber(receiptNumber),
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up entry id: %w", err)
	}
	return id, nil
}

// ScanAll returns every entry in insertion order
func (l *PostgresLedger) ScanAll(ctx context.Context) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		ORDER BY id
	`

	rows, err := l.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}
	return entries, nil
}

// FindByReceipt returns the entry for a receipt number, or nil when absent
func (l *PostgresLedger) FindByReceipt(ctx context.Context, receiptNumber string) (*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE receipt_number = $1
	`

	rows, err := l.db.Pool.Query(ctx, query, utils.NormalizeReceiptNumber(receiptNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to look up entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanEntry(rows)
}

// SetWinner flips the winner flag for the matching entry
func (l *PostgresLedger) SetWinner(ctx context.Context, receiptNumber string, isWinner bool) error {
	tag, err := l.db.Pool.Exec(ctx,
		`UPDATE entries SET is_winner = $2 WHERE receipt_number = $1`,
		utils.NormalizeReceiptNumber(receiptNumber), isWinner,
	)
	if err != nil {
		return fmt.Errorf("failed to update winner flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// UpdateStatus moves the matching entry to a new lifecycle status
func (l *PostgresLedger) UpdateStatus(ctx context.Context, receiptNumber, status string) error {
	tag, err := l.db.Pool.Exec(ctx,
		`UPDATE entries SET status = $2 WHERE receipt_number = $1`,
		utils.NormalizeReceiptNumber(receiptNumber), status,
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// Health checks database connectivity
func (l *PostgresLedger) Health(ctx context.Context) error {
	return l.db.Health(ctx)
}

func scanEntry(rows pgx.Rows) (*domain.Entry, error) {
	var entry domain.Entry
	err := rows.Scan(
		&entry.Timestamp,
		&entry.Segment,
		&entry.FullName,
		&entry.OwnerID,
		&entry.Phone,
		&entry.Email,
		&entry.ReceiptNumber,
		&entry.ReceiptDate,
		&entry.ImageURL,
		&entry.Answer,
		&entry.Status,
		&entry.IsWinner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry row: %w", err)
	}
	return &entry, nil
}

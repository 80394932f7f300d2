package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	"github.com/ceramtrade/fincore/internal/models"
	"github.com/ceramtrade/fincore/internal/utils/mapping"
	"github.com/ceramtrade/fincore/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for counterparty account
// ledgers.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const selectLedgerEntryColumns = `
	entry_id, counterparty_id, counterparty_role, direction, amount, balance,
	reference_kind, reference_id, description, created_at, created_by, last_updated_at, last_updated_by
`

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.CounterpartyID,
		&m.CounterpartyRole,
		&m.Direction,
		&m.Amount,
		&m.Balance,
		&m.ReferenceKind,
		&m.ReferenceID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AppendEntry appends one ledger entry in its own database transaction.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	appended, err := r.AppendEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return appended, nil
}

// AppendEntryInTx computes the new running balance from the counterparty's
// latest entry and inserts the row. An advisory xact lock on the
// counterparty ID serializes concurrent appends to the same ledger without
// blocking appends to other counterparties; the lock releases with the
// enclosing transaction.
func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, entry.CounterpartyID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to acquire ledger lock for counterparty "+entry.CounterpartyID, err)
	}

	var lastBalance decimal.Decimal
	lastQuery := `
		SELECT balance FROM account_ledger_entries
		WHERE counterparty_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT 1;
	`
	err := tx.QueryRow(ctx, lastQuery, entry.CounterpartyID).Scan(&lastBalance)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(500, "failed to read last balance for counterparty "+entry.CounterpartyID, err)
		}
		lastBalance = decimal.Zero
	}

	entry.Balance = lastBalance.Add(entry.SignedAmount())

	m := mapping.ToModelLedgerEntry(entry)
	insertQuery := `
		INSERT INTO account_ledger_entries (
			entry_id, counterparty_id, counterparty_role, direction, amount, balance,
			reference_kind, reference_id, description, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.EntryID,
		m.CounterpartyID,
		m.CounterpartyRole,
		m.Direction,
		m.Amount,
		m.Balance,
		m.ReferenceKind,
		m.ReferenceID,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert ledger entry for counterparty "+entry.CounterpartyID, err)
	}

	return &entry, nil
}

// GetLastBalance returns the counterparty's current running balance, zero
// when no entries exist.
func (r *PgxLedgerRepository) GetLastBalance(ctx context.Context, counterpartyID string) (decimal.Decimal, error) {
	query := `
		SELECT balance FROM account_ledger_entries
		WHERE counterparty_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT 1;
	`
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, counterpartyID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to read balance for counterparty "+counterpartyID, err)
	}
	return balance, nil
}

// ListEntries retrieves a paginated statement for a counterparty, oldest
// first so the running balance reads top to bottom.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, counterpartyID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + selectLedgerEntryColumns + `
		FROM account_ledger_entries
		WHERE counterparty_id = $1
	`
	orderByClause := `ORDER BY created_at, entry_id`

	var rows pgx.Rows
	var err error
	args := []interface{}{counterpartyID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, entry_id) > ($2, $3)`
		args = append(args, lastCreatedAt, lastID)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for counterparty "+counterpartyID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanLedgerEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for counterparty "+counterpartyID, scanErr)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for counterparty "+counterpartyID, err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		lastEntry := entries[limit-1]
		token := pagination.EncodeToken(lastEntry.CreatedAt, lastEntry.EntryID)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

// SummarizeAll aggregates debits, credits and the latest balance per
// counterparty for the given role.
func (r *PgxLedgerRepository) SummarizeAll(ctx context.Context, role domain.CounterpartyRole) ([]domain.LedgerSummary, error) {
	query := `
		SELECT e.counterparty_id,
		       e.counterparty_role,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'DEBIT'), 0) AS total_debit,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'CREDIT'), 0) AS total_credit,
		       COUNT(*) AS entry_count
		FROM account_ledger_entries e
		WHERE e.counterparty_role = $1
		GROUP BY e.counterparty_id, e.counterparty_role
		ORDER BY e.counterparty_id;
	`
	rows, err := r.Pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger summary for role "+string(role), err)
	}
	defer rows.Close()

	summaries := []domain.LedgerSummary{}
	for rows.Next() {
		var s domain.LedgerSummary
		var roleStr string
		if scanErr := rows.Scan(&s.CounterpartyID, &roleStr, &s.TotalDebit, &s.TotalCredit, &s.EntryCount); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger summary row", scanErr)
		}
		s.CounterpartyRole = domain.CounterpartyRole(roleStr)
		s.Balance = s.TotalDebit.Sub(s.TotalCredit)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger summary rows", err)
	}

	return summaries, nil
}

package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	"github.com/ceramtrade/fincore/internal/models"
	"github.com/ceramtrade/fincore/internal/utils/mapping"
	"github.com/ceramtrade/fincore/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContactRepository struct {
	BaseRepository
	treasuryRepo portsrepo.TreasuryRepositoryFacade
}

// newPgxContactRepository creates a new repository for financial contacts and
// their general receipts.
func newPgxContactRepository(pool *pgxpool.Pool, treasuryRepo portsrepo.TreasuryRepositoryFacade) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{
		BaseRepository: BaseRepository{Pool: pool},
		treasuryRepo:   treasuryRepo,
	}
}

// Ensure PgxContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const selectContactColumns = `
	contact_id, name, phone, notes, is_active, created_at, created_by, last_updated_at, last_updated_by
`

func scanContact(row pgx.Row) (*models.FinancialContact, error) {
	var m models.FinancialContact
	err := row.Scan(
		&m.ContactID,
		&m.Name,
		&m.Phone,
		&m.Notes,
		&m.IsActive,
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

// SaveContact inserts a new financial contact.
func (r *PgxContactRepository) SaveContact(ctx context.Context, contact domain.FinancialContact) error {
	m := mapping.ToModelFinancialContact(contact)
	query := `
		INSERT INTO financial_contacts (
			contact_id, name, phone, notes, is_active, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ContactID,
		m.Name,
		m.Phone,
		m.Notes,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert contact "+m.ContactID, err)
	}
	return nil
}

// FindContactByID retrieves a financial contact by its ID.
func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.FinancialContact, error) {
	query := `SELECT ` + selectContactColumns + ` FROM financial_contacts WHERE contact_id = $1;`

	m, err := scanContact(r.Pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find contact by ID "+contactID, err)
	}

	domainContact := mapping.ToDomainFinancialContact(*m)
	return &domainContact, nil
}

// ListContacts lists financial contacts, optionally including deactivated ones.
func (r *PgxContactRepository) ListContacts(ctx context.Context, includeInactive bool) ([]domain.FinancialContact, error) {
	query := `SELECT ` + selectContactColumns + ` FROM financial_contacts`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name, contact_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contacts", err)
	}
	defer rows.Close()

	contacts := []domain.FinancialContact{}
	for rows.Next() {
		m, scanErr := scanContact(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contact row", scanErr)
		}
		contacts = append(contacts, mapping.ToDomainFinancialContact(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contact rows", err)
	}

	return contacts, nil
}

// DeactivateContact marks a contact inactive; its receipt history stays.
func (r *PgxContactRepository) DeactivateContact(ctx context.Context, contactID string, userID string, now time.Time) error {
	query := `
		UPDATE financial_contacts
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE contact_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, contactID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate contact "+contactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("contact " + contactID + " not found for deactivation")
	}
	return nil
}

// SaveGeneralReceipt inserts the receipt and applies its treasury movement in
// one database transaction.
func (r *PgxContactRepository) SaveGeneralReceipt(ctx context.Context, receipt domain.GeneralReceipt, treasuryTxn domain.TreasuryTransaction) (*domain.GeneralReceipt, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGeneralReceipt(receipt)
	query := `
		INSERT INTO general_receipts (
			receipt_id, contact_id, treasury_id, kind, amount, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		m.ReceiptID,
		m.ContactID,
		m.TreasuryID,
		m.Kind,
		m.Amount,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert general receipt "+m.ReceiptID, err)
	}

	if _, err := r.treasuryRepo.ApplyMovementInTx(ctx, tx, treasuryTxn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetContactTotals aggregates the contact's general receipt history. Totals
// are derived on read, never stored.
func (r *PgxContactRepository) GetContactTotals(ctx context.Context, contactID string) (*domain.ContactTotals, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE kind = 'DEPOSIT'), 0) AS total_deposit,
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'WITHDRAWAL'), 0) AS total_withdrawal
		FROM general_receipts
		WHERE contact_id = $1;
	`
	var totals domain.ContactTotals
	err := r.Pool.QueryRow(ctx, query, contactID).Scan(&totals.TotalDeposit, &totals.TotalWithdrawal)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate totals for contact "+contactID, err)
	}
	totals.CurrentBalance = totals.TotalDeposit.Sub(totals.TotalWithdrawal)
	return &totals, nil
}

// ListGeneralReceipts retrieves a paginated page of a contact's general
// receipts, newest first.
func (r *PgxContactRepository) ListGeneralReceipts(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.GeneralReceipt, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT receipt_id, contact_id, treasury_id, kind, amount, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM general_receipts
		WHERE contact_id = $1
	`
	orderByClause := `ORDER BY created_at DESC, receipt_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{contactID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, receipt_id) < ($2, $3)`
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
		return nil, nil, apperrors.NewAppError(500, "failed to query general receipts for contact "+contactID, err)
	}
	defer rows.Close()

	receipts := make([]models.GeneralReceipt, 0, fetchLimit)
	for rows.Next() {
		var m models.GeneralReceipt
		scanErr := rows.Scan(
			&m.ReceiptID,
			&m.ContactID,
			&m.TreasuryID,
			&m.Kind,
			&m.Amount,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan general receipt row for contact "+contactID, scanErr)
		}
		receipts = append(receipts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating general receipt rows for contact "+contactID, err)
	}

	var nextTokenVal *string
	results := receipts
	if len(receipts) > limit {
		lastReceipt := receipts[limit-1]
		token := pagination.EncodeToken(lastReceipt.CreatedAt, lastReceipt.ReceiptID)
		nextTokenVal = &token
		results = receipts[:limit]
	}

	return mapping.ToDomainGeneralReceiptSlice(results), nextTokenVal, nil
}

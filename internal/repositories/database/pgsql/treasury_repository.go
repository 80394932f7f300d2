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
	"github.com/shopspring/decimal"
)

type PgxTreasuryRepository struct {
	BaseRepository
}

// newPgxTreasuryRepository creates a new repository for treasuries and their
// transaction log.
func newPgxTreasuryRepository(pool *pgxpool.Pool) portsrepo.TreasuryRepositoryFacade {
	return &PgxTreasuryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTreasuryRepository implements portsrepo.TreasuryRepositoryFacade
var _ portsrepo.TreasuryRepositoryFacade = (*PgxTreasuryRepository)(nil)

const insertTreasuryTxnQuery = `
	INSERT INTO treasury_transactions (
		transaction_id, treasury_id, transaction_type, source, amount, balance_after,
		description, reference_id, counterpart_treasury_id, created_at, created_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

// SaveTreasury inserts the treasury together with its OPENING_BALANCE
// transaction so the log replays to the stored balance from day one.
func (r *PgxTreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury, opening domain.TreasuryTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTreasury := mapping.ToModelTreasury(treasury)
	treasuryQuery := `
		INSERT INTO treasuries (
			treasury_id, name, treasury_type, company_id, bank_name, account_number,
			balance, is_active, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, treasuryQuery,
		modelTreasury.TreasuryID,
		modelTreasury.Name,
		modelTreasury.Type,
		modelTreasury.CompanyID,
		modelTreasury.BankName,
		modelTreasury.AccountNumber,
		modelTreasury.Balance,
		modelTreasury.IsActive,
		modelTreasury.CreatedAt,
		modelTreasury.CreatedBy,
		modelTreasury.LastUpdatedAt,
		modelTreasury.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert treasury "+modelTreasury.TreasuryID, err)
	}

	modelTxn := mapping.ToModelTreasuryTransaction(opening)
	_, err = tx.Exec(ctx, insertTreasuryTxnQuery,
		modelTxn.TransactionID,
		modelTxn.TreasuryID,
		modelTxn.Type,
		modelTxn.Source,
		modelTxn.Amount,
		modelTxn.BalanceAfter,
		modelTxn.Description,
		modelTxn.ReferenceID,
		modelTxn.CounterpartTreasuryID,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert opening balance transaction for treasury "+modelTreasury.TreasuryID, err)
	}

	return r.Commit(ctx, tx)
}

const selectTreasuryColumns = `
	treasury_id, name, treasury_type, company_id, bank_name, account_number,
	balance, is_active, created_at, created_by, last_updated_at, last_updated_by
`

func scanTreasury(row pgx.Row) (*models.Treasury, error) {
	var m models.Treasury
	err := row.Scan(
		&m.TreasuryID,
		&m.Name,
		&m.Type,
		&m.CompanyID,
		&m.BankName,
		&m.AccountNumber,
		&m.Balance,
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

// FindTreasuryByID retrieves a treasury by its ID.
func (r *PgxTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	query := `SELECT ` + selectTreasuryColumns + ` FROM treasuries WHERE treasury_id = $1;`

	m, err := scanTreasury(r.Pool.QueryRow(ctx, query, treasuryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find treasury by ID "+treasuryID, err)
	}

	domainTreasury := mapping.ToDomainTreasury(*m)
	return &domainTreasury, nil
}

// ListTreasuries lists treasuries, optionally including deactivated ones.
func (r *PgxTreasuryRepository) ListTreasuries(ctx context.Context, includeInactive bool) ([]domain.Treasury, error) {
	query := `SELECT ` + selectTreasuryColumns + ` FROM treasuries`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at, treasury_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query treasuries", err)
	}
	defer rows.Close()

	treasuries := []domain.Treasury{}
	for rows.Next() {
		m, scanErr := scanTreasury(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan treasury row", scanErr)
		}
		treasuries = append(treasuries, mapping.ToDomainTreasury(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating treasury rows", err)
	}

	return treasuries, nil
}

// UpdateTreasury updates descriptive details of a treasury. The balance is
// never touched here; it only moves through ApplyMovement.
func (r *PgxTreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) error {
	m := mapping.ToModelTreasury(treasury)
	query := `
		UPDATE treasuries
		SET name = $2,
		    bank_name = $3,
		    account_number = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE treasury_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TreasuryID,
		m.Name,
		m.BankName,
		m.AccountNumber,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update treasury "+m.TreasuryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("treasury " + m.TreasuryID + " not found for update")
	}
	return nil
}

// DeactivateTreasury marks a treasury inactive. Its log stays readable.
func (r *PgxTreasuryRepository) DeactivateTreasury(ctx context.Context, treasuryID string, userID string, now time.Time) error {
	query := `
		UPDATE treasuries
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE treasury_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, treasuryID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate treasury "+treasuryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("treasury " + treasuryID + " not found for deactivation")
	}
	return nil
}

// ApplyMovement applies one deposit or withdrawal atomically in its own
// database transaction.
func (r *PgxTreasuryRepository) ApplyMovement(ctx context.Context, txn domain.TreasuryTransaction) (*domain.TreasuryTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	applied, err := r.ApplyMovementInTx(ctx, tx, txn)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return applied, nil
}

// ApplyMovementInTx locks the treasury row, recomputes the balance and
// inserts the transaction row with BalanceAfter filled in. The caller owns
// the transaction; composing repositories (receipts, general receipts) call
// this to fold a treasury movement into their own atomic unit.
func (r *PgxTreasuryRepository) ApplyMovementInTx(ctx context.Context, tx pgx.Tx, txn domain.TreasuryTransaction) (*domain.TreasuryTransaction, error) {
	var balance decimal.Decimal
	var isActive bool
	lockQuery := `SELECT balance, is_active FROM treasuries WHERE treasury_id = $1 FOR UPDATE;`
	err := tx.QueryRow(ctx, lockQuery, txn.TreasuryID).Scan(&balance, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("treasury " + txn.TreasuryID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to lock treasury "+txn.TreasuryID, err)
	}
	if !isActive {
		return nil, apperrors.NewAppError(409, "treasury "+txn.TreasuryID+" is inactive", apperrors.ErrConflict)
	}

	newBalance := balance.Add(txn.SignedAmount())
	txn.BalanceAfter = newBalance

	updateQuery := `
		UPDATE treasuries
		SET balance = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE treasury_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, txn.TreasuryID, newBalance, txn.CreatedAt, txn.CreatedBy); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update balance for treasury "+txn.TreasuryID, err)
	}

	modelTxn := mapping.ToModelTreasuryTransaction(txn)
	_, err = tx.Exec(ctx, insertTreasuryTxnQuery,
		modelTxn.TransactionID,
		modelTxn.TreasuryID,
		modelTxn.Type,
		modelTxn.Source,
		modelTxn.Amount,
		modelTxn.BalanceAfter,
		modelTxn.Description,
		modelTxn.ReferenceID,
		modelTxn.CounterpartTreasuryID,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert transaction for treasury "+txn.TreasuryID, err)
	}

	return &txn, nil
}

// SaveTransfer applies the withdrawal and deposit legs in one database
// transaction. Both treasury rows are locked up front in treasury ID order
// so two concurrent opposite transfers cannot deadlock.
func (r *PgxTreasuryRepository) SaveTransfer(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction) (*domain.TreasuryTransaction, *domain.TreasuryTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT treasury_id FROM treasuries
		WHERE treasury_id = ANY($1)
		ORDER BY treasury_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, []string{out.TreasuryID, in.TreasuryID})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to lock treasuries for transfer", err)
	}
	locked := 0
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan locked treasury row", scanErr)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating locked treasury rows", err)
	}
	if locked != 2 {
		return nil, nil, apperrors.NewNotFoundError("one or both treasuries in transfer not found")
	}

	appliedOut, err := r.ApplyMovementInTx(ctx, tx, out)
	if err != nil {
		return nil, nil, err
	}
	appliedIn, err := r.ApplyMovementInTx(ctx, tx, in)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return appliedOut, appliedIn, nil
}

const selectTreasuryTxnColumns = `
	transaction_id, treasury_id, transaction_type, source, amount, balance_after,
	description, reference_id, counterpart_treasury_id, created_at, created_by
`

func scanTreasuryTxn(row pgx.Row) (*models.TreasuryTransaction, error) {
	var t models.TreasuryTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.TreasuryID,
		&t.Type,
		&t.Source,
		&t.Amount,
		&t.BalanceAfter,
		&t.Description,
		&t.ReferenceID,
		&t.CounterpartTreasuryID,
		&t.CreatedAt,
		&t.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions retrieves a paginated page of a treasury's transaction log
// using token-based pagination, newest first.
func (r *PgxTreasuryRepository) ListTransactions(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + selectTreasuryTxnColumns + `
		FROM treasury_transactions
		WHERE treasury_id = $1
	`
	// Ordering must be stable; transaction_id breaks created_at ties.
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{treasuryID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, transaction_id) < ($2, $3)`
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
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for treasury "+treasuryID, err)
	}
	defer rows.Close()

	transactions := make([]models.TreasuryTransaction, 0, fetchLimit)
	for rows.Next() {
		t, scanErr := scanTreasuryTxn(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for treasury "+treasuryID, scanErr)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for treasury "+treasuryID, err)
	}

	var nextTokenVal *string
	results := transactions
	if len(transactions) > limit {
		lastTxn := transactions[limit-1]
		token := pagination.EncodeToken(lastTxn.CreatedAt, lastTxn.TransactionID)
		nextTokenVal = &token
		results = transactions[:limit]
	}

	return mapping.ToDomainTreasuryTransactionSlice(results), nextTokenVal, nil
}

// FindAllTransactions returns a treasury's full log in creation order, for
// balance replay during reconciliation.
func (r *PgxTreasuryRepository) FindAllTransactions(ctx context.Context, treasuryID string) ([]domain.TreasuryTransaction, error) {
	query := `
		SELECT ` + selectTreasuryTxnColumns + `
		FROM treasury_transactions
		WHERE treasury_id = $1
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, treasuryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query full transaction log for treasury "+treasuryID, err)
	}
	defer rows.Close()

	transactions := []models.TreasuryTransaction{}
	for rows.Next() {
		t, scanErr := scanTreasuryTxn(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for treasury "+treasuryID, scanErr)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for treasury "+treasuryID, err)
	}

	return mapping.ToDomainTreasuryTransactionSlice(transactions), nil
}

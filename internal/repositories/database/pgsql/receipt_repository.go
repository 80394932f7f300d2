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

type PgxReceiptRepository struct {
	BaseRepository
	treasuryRepo portsrepo.TreasuryRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
}

// newPgxReceiptRepository creates a new repository for payment receipts and
// installments. It composes the treasury and ledger repositories so a
// settlement is one database transaction end to end.
func newPgxReceiptRepository(pool *pgxpool.Pool, treasuryRepo portsrepo.TreasuryRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{
		BaseRepository: BaseRepository{Pool: pool},
		treasuryRepo:   treasuryRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxReceiptRepository implements portsrepo.ReceiptRepositoryFacade
var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

const selectReceiptColumns = `
	receipt_id, counterparty_id, purchase_id, total, currency_code, exchange_rate,
	original_amount, paid, remaining, receipt_type, status, notes, cancel_reason,
	paid_at, created_at, created_by, last_updated_at, last_updated_by
`

func scanReceipt(row pgx.Row) (*models.PaymentReceipt, error) {
	var m models.PaymentReceipt
	err := row.Scan(
		&m.ReceiptID,
		&m.CounterpartyID,
		&m.PurchaseID,
		&m.Total,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.OriginalAmount,
		&m.Paid,
		&m.Remaining,
		&m.Type,
		&m.Status,
		&m.Notes,
		&m.CancelReason,
		&m.PaidAt,
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

// SaveReceipt inserts the receipt and posts its obligation entry to the
// counterparty's account ledger in one database transaction.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt, obligation domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPaymentReceipt(receipt)
	receiptQuery := `
		INSERT INTO payment_receipts (
			receipt_id, counterparty_id, purchase_id, total, currency_code, exchange_rate,
			original_amount, paid, remaining, receipt_type, status, notes, cancel_reason,
			paid_at, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, receiptQuery,
		m.ReceiptID,
		m.CounterpartyID,
		m.PurchaseID,
		m.Total,
		m.CurrencyCode,
		m.ExchangeRate,
		m.OriginalAmount,
		m.Paid,
		m.Remaining,
		m.Type,
		m.Status,
		m.Notes,
		m.CancelReason,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert receipt "+m.ReceiptID, err)
	}

	if _, err := r.ledgerRepo.AppendEntryInTx(ctx, tx, obligation); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindReceiptByID retrieves a receipt by its ID.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.PaymentReceipt, error) {
	query := `SELECT ` + selectReceiptColumns + ` FROM payment_receipts WHERE receipt_id = $1;`

	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt by ID "+receiptID, err)
	}

	domainReceipt := mapping.ToDomainPaymentReceipt(*m)
	return &domainReceipt, nil
}

// ListReceipts retrieves a paginated list of receipts, newest first,
// optionally filtered by counterparty and status.
func (r *PgxReceiptRepository) ListReceipts(ctx context.Context, params portsrepo.ListReceiptsParams) ([]domain.PaymentReceipt, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + selectReceiptColumns + ` FROM payment_receipts`

	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if params.CounterpartyID != "" {
		args = append(args, params.CounterpartyID)
		filterClause += ` AND counterparty_id = $` + strconv.Itoa(len(args))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY created_at DESC, receipt_id DESC`

	if params.NextToken != nil && *params.NextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*params.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		filterClause += ` AND (created_at, receipt_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query receipts", err)
	}
	defer rows.Close()

	receipts := make([]models.PaymentReceipt, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan receipt row", scanErr)
		}
		receipts = append(receipts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating receipt rows", err)
	}

	var nextTokenVal *string
	results := receipts
	if len(receipts) > limit {
		lastReceipt := receipts[limit-1]
		token := pagination.EncodeToken(lastReceipt.CreatedAt, lastReceipt.ReceiptID)
		nextTokenVal = &token
		results = receipts[:limit]
	}

	domainReceipts := make([]domain.PaymentReceipt, len(results))
	for i, m := range results {
		domainReceipts[i] = mapping.ToDomainPaymentReceipt(m)
	}
	return domainReceipts, nextTokenVal, nil
}

// SaveInstallment settles one installment atomically: lock and re-validate
// the receipt, withdraw from the treasury, insert the installment, recompute
// the receipt's paid/remaining/status and post the counterparty PAYMENT
// ledger entry. One failure rolls back everything.
func (r *PgxReceiptRepository) SaveInstallment(ctx context.Context, installment domain.PaymentInstallment, treasuryTxn domain.TreasuryTransaction, ledgerEntry domain.LedgerEntry) (*domain.PaymentReceipt, *domain.PaymentInstallment, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the receipt row and re-check state. The service validated
	// against a snapshot; a concurrent installment may have changed it since.
	lockQuery := `SELECT ` + selectReceiptColumns + ` FROM payment_receipts WHERE receipt_id = $1 FOR UPDATE;`
	m, err := scanReceipt(tx.QueryRow(ctx, lockQuery, installment.ReceiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFoundError("receipt " + installment.ReceiptID + " not found")
		}
		return nil, nil, apperrors.NewAppError(500, "failed to lock receipt "+installment.ReceiptID, err)
	}
	receipt := mapping.ToDomainPaymentReceipt(*m)

	if receipt.Status != domain.ReceiptPending {
		return nil, nil, apperrors.NewAppError(409, "receipt "+receipt.ReceiptID+" is "+string(receipt.Status)+", no further installments allowed", apperrors.ErrConflict)
	}
	if installment.Amount.GreaterThan(receipt.Remaining) {
		// The snapshot the caller validated against is stale.
		return nil, nil, apperrors.NewAppError(409, "installment exceeds remaining amount of receipt "+receipt.ReceiptID, apperrors.ErrConcurrency)
	}

	// 2. Withdraw the base-currency amount from the treasury.
	appliedTxn, err := r.treasuryRepo.ApplyMovementInTx(ctx, tx, treasuryTxn)
	if err != nil {
		return nil, nil, err
	}

	// 3. Insert the installment.
	mi := mapping.ToModelPaymentInstallment(installment)
	installmentQuery := `
		INSERT INTO payment_installments (
			installment_id, receipt_id, amount, exchange_rate, base_amount, treasury_id,
			payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, installmentQuery,
		mi.InstallmentID,
		mi.ReceiptID,
		mi.Amount,
		mi.ExchangeRate,
		mi.BaseAmount,
		mi.TreasuryID,
		mi.PaymentMethod,
		mi.ReferenceNumber,
		mi.Notes,
		mi.CreatedAt,
		mi.CreatedBy,
		mi.LastUpdatedAt,
		mi.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert installment for receipt "+receipt.ReceiptID, err)
	}

	// 4. Recompute the receipt. Paid and Remaining track the original
	// currency; Remaining hitting zero flips the status to PAID.
	receipt.Paid = receipt.Paid.Add(installment.Amount)
	receipt.Remaining = receipt.Total.Sub(receipt.Paid)
	receipt.LastUpdatedAt = installment.CreatedAt
	receipt.LastUpdatedBy = installment.CreatedBy
	if receipt.Remaining.IsZero() {
		receipt.Status = domain.ReceiptPaid
		paidAt := installment.CreatedAt
		receipt.PaidAt = &paidAt
	}

	updateQuery := `
		UPDATE payment_receipts
		SET paid = $2,
		    remaining = $3,
		    status = $4,
		    paid_at = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE receipt_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		receipt.ReceiptID,
		receipt.Paid,
		receipt.Remaining,
		string(receipt.Status),
		receipt.PaidAt,
		receipt.LastUpdatedAt,
		receipt.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update receipt "+receipt.ReceiptID, err)
	}

	// 5. Post the settlement to the counterparty's account ledger.
	if _, err := r.ledgerRepo.AppendEntryInTx(ctx, tx, ledgerEntry); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	installment.TreasuryID = appliedTxn.TreasuryID
	return &receipt, &installment, nil
}

// CancelReceipt flips a PENDING, unpaid receipt to CANCELLED. The guarded
// UPDATE means a receipt that was settled or cancelled concurrently is left
// untouched and reported as a conflict.
func (r *PgxReceiptRepository) CancelReceipt(ctx context.Context, receiptID string, reason string, userID string, now time.Time) error {
	query := `
		UPDATE payment_receipts
		SET status = 'CANCELLED',
		    cancel_reason = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE receipt_id = $1 AND status = 'PENDING' AND paid = 0;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, receiptID, reason, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel receipt "+receiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing from not-cancellable.
		var status string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM payment_receipts WHERE receipt_id = $1;`, receiptID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("receipt " + receiptID + " not found")
			}
			return apperrors.NewAppError(500, "failed to check receipt "+receiptID, err)
		}
		return apperrors.NewAppError(409, "receipt "+receiptID+" cannot be cancelled in status "+status+" or with recorded payments", apperrors.ErrConflict)
	}
	return nil
}

// ListInstallments returns a receipt's installments in settlement order.
func (r *PgxReceiptRepository) ListInstallments(ctx context.Context, receiptID string) ([]domain.PaymentInstallment, error) {
	query := `
		SELECT installment_id, receipt_id, amount, exchange_rate, base_amount, treasury_id,
		       payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_installments
		WHERE receipt_id = $1
		ORDER BY created_at, installment_id;
	`
	rows, err := r.Pool.Query(ctx, query, receiptID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query installments for receipt "+receiptID, err)
	}
	defer rows.Close()

	installments := []models.PaymentInstallment{}
	for rows.Next() {
		var m models.PaymentInstallment
		scanErr := rows.Scan(
			&m.InstallmentID,
			&m.ReceiptID,
			&m.Amount,
			&m.ExchangeRate,
			&m.BaseAmount,
			&m.TreasuryID,
			&m.PaymentMethod,
			&m.ReferenceNumber,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan installment row for receipt "+receiptID, scanErr)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating installment rows for receipt "+receiptID, err)
	}

	return mapping.ToDomainPaymentInstallmentSlice(installments), nil
}

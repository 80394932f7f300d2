package events

import (
	"context"
	"log/slog"

	"github.com/ceramtrade/fincore/internal/core/domain"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/middleware"
)

// LogPublisher emits settlement events as structured log records. Downstream
// modules (sales, purchasing) consume these from the log pipeline; swapping
// in a broker-backed publisher only needs this interface.
type LogPublisher struct{}

// NewLogPublisher creates a publisher that writes events to the
// request-scoped logger.
func NewLogPublisher() portssvc.EventPublisher {
	return &LogPublisher{}
}

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

// ReceiptPaid fires when a receipt's remaining amount reaches zero.
func (p *LogPublisher) ReceiptPaid(ctx context.Context, receipt domain.PaymentReceipt) {
	middleware.GetLoggerFromCtx(ctx).Info("event: receipt.paid",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("counterparty_id", receipt.CounterpartyID),
		slog.String("total", receipt.Total.String()),
		slog.String("currency", receipt.CurrencyCode),
	)
}

// TransferCompleted fires after both legs of a transfer commit.
func (p *LogPublisher) TransferCompleted(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction) {
	middleware.GetLoggerFromCtx(ctx).Info("event: transfer.completed",
		slog.String("transfer_id", out.ReferenceID),
		slog.String("from_treasury_id", out.TreasuryID),
		slog.String("to_treasury_id", in.TreasuryID),
		slog.String("amount", out.Amount.String()),
	)
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	"github.com/scroogebank/corebank/internal/utils/mapping"
)

// ledgerSumsQuery aggregates the whole ledger by kind in one pass so the
// caller always sees a single snapshot.
const ledgerSumsQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN kind = 'base_cash'      THEN amount_cents END), 0) AS base_cash,
		COALESCE(SUM(CASE WHEN kind = 'deposit'        THEN amount_cents END), 0) AS deposits_sum,
		COALESCE(SUM(CASE WHEN kind = 'withdrawal'     THEN amount_cents END), 0) AS withdrawals_sum,
		COALESCE(SUM(CASE WHEN kind = 'loan_disbursed' THEN amount_cents END), 0) AS disbursed_sum,
		COALESCE(SUM(CASE WHEN kind = 'loan_payment'   THEN amount_cents END), 0) AS payments_sum
	FROM bank_ledger;
`

type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a new repository for the append-only bank
// ledger.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// AppendEntryInTx appends one immutable ledger entry. There is no update or
// delete counterpart anywhere in this repository.
func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO bank_ledger (entry_id, kind, amount_cents, occurred_at, transaction_id, loan_disbursement_id, loan_payment_id, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query, m.EntryID, m.Kind, m.AmountCents, m.OccurredAt, m.TransactionID, m.LoanDisbursementID, m.LoanPaymentID, m.Memo)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// SumLedger returns the signed sum of every ledger entry.
func (r *PgxLedgerRepository) SumLedger(ctx context.Context) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM bank_ledger;`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}

// FetchLedgerSums aggregates the ledger by kind without locking.
func (r *PgxLedgerRepository) FetchLedgerSums(ctx context.Context) (domain.LedgerSums, error) {
	return scanLedgerSums(r.Pool.QueryRow(ctx, ledgerSumsQuery))
}

// FetchLedgerSumsInTx aggregates the ledger by kind inside the caller's
// transaction.
func (r *PgxLedgerRepository) FetchLedgerSumsInTx(ctx context.Context, tx pgx.Tx) (domain.LedgerSums, error) {
	return scanLedgerSums(tx.QueryRow(ctx, ledgerSumsQuery))
}

func scanLedgerSums(row rowScanner) (domain.LedgerSums, error) {
	var sums domain.LedgerSums
	err := row.Scan(&sums.BaseCashCents, &sums.DepositsCents, &sums.WithdrawalsCents, &sums.DisbursedCents, &sums.PaymentsCents)
	if err != nil {
		return domain.LedgerSums{}, fmt.Errorf("failed to scan ledger sums: %w", err)
	}
	return sums, nil
}

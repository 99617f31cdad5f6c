package domain

import "time"

// LedgerKind classifies a bank ledger entry by the cash event it records.
type LedgerKind string

const (
	LedgerBaseCash      LedgerKind = "base_cash"
	LedgerDeposit       LedgerKind = "deposit"
	LedgerWithdrawal    LedgerKind = "withdrawal"
	LedgerLoanDisbursed LedgerKind = "loan_disbursed"
	LedgerLoanPayment   LedgerKind = "loan_payment"
	LedgerAdjustment    LedgerKind = "adjustment"
)

// LedgerEntry is one row of the append-only bank ledger, the sole source of
// truth for aggregate bank cash. AmountCents is signed. Exactly one of the
// source references is set, except for BASE_CASH and ADJUSTMENT entries
// which reference nothing. Entries are never updated or deleted.
type LedgerEntry struct {
	EntryID            string     `json:"entryID"`
	Kind               LedgerKind `json:"kind"`
	AmountCents        int64      `json:"amountCents"`
	OccurredAt         time.Time  `json:"occurredAt"`
	TransactionID      string     `json:"transactionID,omitempty"`
	LoanDisbursementID string     `json:"loanDisbursementID,omitempty"`
	LoanPaymentID      string     `json:"loanPaymentID,omitempty"`
	Memo               string     `json:"memo,omitempty"`
}

// LedgerSums carries the per-kind aggregates of the bank ledger, read in a
// single snapshot query. Withdrawal and disbursement sums are negative as
// stored.
type LedgerSums struct {
	BaseCashCents    int64
	DepositsCents    int64
	WithdrawalsCents int64
	DisbursedCents   int64
	PaymentsCents    int64
}

// LendingPolicy parameterises how lending capacity is derived from the
// ledger. DepositShareDivisor is the fraction of net deposits the bank may
// lend (4 means a quarter). ClampNegativeBaseCash, when set, zeroes the
// whole capacity if base cash ever goes negative; the upstream business
// rule leaves this off.
type LendingPolicy struct {
	DepositShareDivisor   int64
	ClampNegativeBaseCash bool
}

// DefaultLendingPolicy mirrors the bank's standing policy: lend up to base
// cash plus a quarter of net deposits, less whatever is already out.
func DefaultLendingPolicy() LendingPolicy {
	return LendingPolicy{DepositShareDivisor: 4}
}

// BankFunds is the derived cash position used for underwriting decisions.
type BankFunds struct {
	BaseCashCents             int64
	DepositsOnHandCents       int64
	LoanableFromDepositsCents int64
	OutstandingLoansCents     int64
	AvailableForLoansCents    int64
}

// TotalCashCents is the bank's cash on hand. It may legitimately be
// negative: customer withdrawals are allowed to overdraw the bank even
// though loan approvals are not.
func (f BankFunds) TotalCashCents() int64 {
	return f.BaseCashCents + f.DepositsOnHandCents - f.OutstandingLoansCents
}

// ComputeBankFunds applies the lending policy to a ledger snapshot.
// depositsOnHand nets deposits against withdrawals (stored negative), and
// only a positive net figure contributes lending capacity. Outstanding is
// what has been disbursed (stored negative in the ledger) minus what has
// been repaid.
func ComputeBankFunds(sums LedgerSums, policy LendingPolicy) BankFunds {
	depositsOnHand := sums.DepositsCents + sums.WithdrawalsCents

	var loanable int64
	if depositsOnHand > 0 && policy.DepositShareDivisor > 0 {
		loanable = depositsOnHand / policy.DepositShareDivisor
	}

	outstanding := -sums.DisbursedCents - sums.PaymentsCents

	available := sums.BaseCashCents + loanable - outstanding
	if policy.ClampNegativeBaseCash && sums.BaseCashCents < 0 {
		available = 0
	}

	return BankFunds{
		BaseCashCents:             sums.BaseCashCents,
		DepositsOnHandCents:       depositsOnHand,
		LoanableFromDepositsCents: loanable,
		OutstandingLoansCents:     outstanding,
		AvailableForLoansCents:    available,
	}
}

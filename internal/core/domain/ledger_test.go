package domain_test

import (
	"testing"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeBankFunds(t *testing.T) {
	tests := []struct {
		name   string
		sums   domain.LedgerSums
		policy domain.LendingPolicy
		want   domain.BankFunds
	}{
		{
			name: "base cash plus quarter of net deposits",
			sums: domain.LedgerSums{
				BaseCashCents:    100000,
				DepositsCents:    50000,
				WithdrawalsCents: -10000,
			},
			policy: domain.DefaultLendingPolicy(),
			want: domain.BankFunds{
				BaseCashCents:             100000,
				DepositsOnHandCents:       40000,
				LoanableFromDepositsCents: 10000,
				OutstandingLoansCents:     0,
				AvailableForLoansCents:    110000,
			},
		},
		{
			name: "outstanding loans reduce capacity",
			sums: domain.LedgerSums{
				BaseCashCents:  100000,
				DisbursedCents: -30000,
				PaymentsCents:  10000,
			},
			policy: domain.DefaultLendingPolicy(),
			want: domain.BankFunds{
				BaseCashCents:          100000,
				OutstandingLoansCents:  20000,
				AvailableForLoansCents: 80000,
			},
		},
		{
			name: "negative net deposits add no capacity",
			sums: domain.LedgerSums{
				BaseCashCents:    100000,
				DepositsCents:    5000,
				WithdrawalsCents: -25000,
			},
			policy: domain.DefaultLendingPolicy(),
			want: domain.BankFunds{
				BaseCashCents:             100000,
				DepositsOnHandCents:       -20000,
				LoanableFromDepositsCents: 0,
				AvailableForLoansCents:    100000,
			},
		},
		{
			name: "negative base cash still lends by default",
			sums: domain.LedgerSums{
				BaseCashCents: -5000,
				DepositsCents: 40000,
			},
			policy: domain.DefaultLendingPolicy(),
			want: domain.BankFunds{
				BaseCashCents:             -5000,
				DepositsOnHandCents:       40000,
				LoanableFromDepositsCents: 10000,
				AvailableForLoansCents:    5000,
			},
		},
		{
			name: "clamp zeroes capacity on negative base cash",
			sums: domain.LedgerSums{
				BaseCashCents: -5000,
				DepositsCents: 40000,
			},
			policy: domain.LendingPolicy{DepositShareDivisor: 4, ClampNegativeBaseCash: true},
			want: domain.BankFunds{
				BaseCashCents:             -5000,
				DepositsOnHandCents:       40000,
				LoanableFromDepositsCents: 10000,
				AvailableForLoansCents:    0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeBankFunds(tt.sums, tt.policy)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Capacity boundary: with base cash 100000 and net deposits 40000 the bank
// can lend exactly 110000 and not a cent more.
func TestComputeBankFunds_CapacityBoundary(t *testing.T) {
	sums := domain.LedgerSums{
		BaseCashCents:    100000,
		DepositsCents:    40000,
		WithdrawalsCents: 0,
	}

	funds := domain.ComputeBankFunds(sums, domain.DefaultLendingPolicy())

	assert.EqualValues(t, 110000, funds.AvailableForLoansCents)
	assert.True(t, 110000 <= funds.AvailableForLoansCents)
	assert.False(t, 110001 <= funds.AvailableForLoansCents)
}

func TestBankFunds_TotalCashCents(t *testing.T) {
	funds := domain.BankFunds{
		BaseCashCents:         100000,
		DepositsOnHandCents:   -150000,
		OutstandingLoansCents: 20000,
	}
	// Withdrawals may overdraw the bank; the total is allowed to go negative.
	assert.EqualValues(t, -70000, funds.TotalCashCents())
}

func TestRemainingDue(t *testing.T) {
	assert.EqualValues(t, 4000, domain.RemainingDue(10000, 6000))
	assert.EqualValues(t, 0, domain.RemainingDue(10000, 10000))
	assert.EqualValues(t, 0, domain.RemainingDue(10000, 12000))
}

func TestTransaction_SignedAmount(t *testing.T) {
	dep := domain.Transaction{Type: domain.Deposit, AmountCents: 1500}
	wdr := domain.Transaction{Type: domain.Withdrawal, AmountCents: 1500}
	assert.EqualValues(t, 1500, dep.SignedAmount())
	assert.EqualValues(t, -1500, wdr.SignedAmount())
}

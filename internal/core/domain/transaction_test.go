package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scroogebank/corebank/internal/core/domain"
)

func TestTransactionMatches(t *testing.T) {
	txn := domain.Transaction{Type: domain.Deposit, AmountCents: 2500}

	assert.True(t, txn.Matches(domain.Deposit, 2500))
	assert.False(t, txn.Matches(domain.Deposit, 2501), "different amount is a conflict")
	assert.False(t, txn.Matches(domain.Withdrawal, 2500), "different type is a conflict")
}

func TestTransactionSignedAmount(t *testing.T) {
	deposit := domain.Transaction{Type: domain.Deposit, AmountCents: 2500}
	withdrawal := domain.Transaction{Type: domain.Withdrawal, AmountCents: 2500}

	assert.Equal(t, int64(2500), deposit.SignedAmount())
	assert.Equal(t, int64(-2500), withdrawal.SignedAmount())
}

func TestRemainingDueClampsAtZero(t *testing.T) {
	assert.Equal(t, int64(6000), domain.RemainingDue(10000, 4000))
	assert.Equal(t, int64(0), domain.RemainingDue(10000, 10000))
	assert.Equal(t, int64(0), domain.RemainingDue(10000, 12000), "overpayment never goes negative")
}

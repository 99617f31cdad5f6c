package mapping

import (
	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:            d.EntryID,
		Kind:               models.LedgerKind(d.Kind),
		AmountCents:        d.AmountCents,
		OccurredAt:         d.OccurredAt,
		TransactionID:      toNullableString(d.TransactionID),
		LoanDisbursementID: toNullableString(d.LoanDisbursementID),
		LoanPaymentID:      toNullableString(d.LoanPaymentID),
		Memo:               toNullableString(d.Memo),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:            m.EntryID,
		Kind:               domain.LedgerKind(m.Kind),
		AmountCents:        m.AmountCents,
		OccurredAt:         m.OccurredAt,
		TransactionID:      fromNullableString(m.TransactionID),
		LoanDisbursementID: fromNullableString(m.LoanDisbursementID),
		LoanPaymentID:      fromNullableString(m.LoanPaymentID),
		Memo:               fromNullableString(m.Memo),
	}
}

package mapping

import (
	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		Type:            models.TransactionType(d.Type),
		AmountCents:     d.AmountCents,
		IdempotencyKey:  toNullableString(d.IdempotencyKey),
		CreatedByUserID: d.CreatedByUserID,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		Type:            domain.TransactionType(m.Type),
		AmountCents:     m.AmountCents,
		IdempotencyKey:  fromNullableString(m.IdempotencyKey),
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

func toNullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

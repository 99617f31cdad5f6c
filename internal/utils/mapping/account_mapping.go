package mapping

import (
	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		UserID:       d.UserID,
		BalanceCents: d.BalanceCents,
		Status:       models.AccountStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		ClosedAt:     d.ClosedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		UserID:       m.UserID,
		BalanceCents: m.BalanceCents,
		Status:       domain.AccountStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		ClosedAt:     m.ClosedAt,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

package mapping

import (
	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:         d.LoanID,
		UserID:         d.UserID,
		PrincipalCents: d.PrincipalCents,
		Status:         models.LoanStatus(d.Status),
		ClientKey:      toNullableString(d.ClientKey),
		Reason:         toNullableString(d.Reason),
		CreatedAt:      d.CreatedAt,
		DecisionAt:     d.DecisionAt,
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:         m.LoanID,
		UserID:         m.UserID,
		PrincipalCents: m.PrincipalCents,
		Status:         domain.LoanStatus(m.Status),
		ClientKey:      fromNullableString(m.ClientKey),
		Reason:         fromNullableString(m.Reason),
		CreatedAt:      m.CreatedAt,
		DecisionAt:     m.DecisionAt,
	}
}

// ToDomainLoanSlice converts a slice of model Loans to a slice of domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}

// ToModelLoanDisbursement converts a domain LoanDisbursement to its model
func ToModelLoanDisbursement(d domain.LoanDisbursement) models.LoanDisbursement {
	return models.LoanDisbursement{
		DisbursementID: d.DisbursementID,
		LoanID:         d.LoanID,
		AmountCents:    d.AmountCents,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainLoanDisbursement converts a model LoanDisbursement to its domain form
func ToDomainLoanDisbursement(m models.LoanDisbursement) domain.LoanDisbursement {
	return domain.LoanDisbursement{
		DisbursementID: m.DisbursementID,
		LoanID:         m.LoanID,
		AmountCents:    m.AmountCents,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelLoanPayment converts a domain LoanPayment to its model
func ToModelLoanPayment(d domain.LoanPayment) models.LoanPayment {
	return models.LoanPayment{
		PaymentID:         d.PaymentID,
		LoanID:            d.LoanID,
		AmountCents:       d.AmountCents,
		PaidFromAccountID: d.PaidFromAccountID,
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainLoanPayment converts a model LoanPayment to its domain form
func ToDomainLoanPayment(m models.LoanPayment) domain.LoanPayment {
	return domain.LoanPayment{
		PaymentID:         m.PaymentID,
		LoanID:            m.LoanID,
		AmountCents:       m.AmountCents,
		PaidFromAccountID: m.PaidFromAccountID,
		CreatedAt:         m.CreatedAt,
	}
}

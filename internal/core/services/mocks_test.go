package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
)

// --- Stub pgx.Tx ---
// Services only hand the transaction through to mocked repositories, so a
// bare stub is enough.
type stubTx struct {
	pgx.Tx
}

func newStubTx() pgx.Tx { return &stubTx{} }

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryWithTx = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindOpenAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListOpenAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindOpenAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByIDInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindOpenAccountByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalanceCents int64) error {
	args := m.Called(ctx, tx, accountID, newBalanceCents)
	return args.Error(0)
}

func (m *MockAccountRepository) CloseAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, closedAt time.Time) error {
	args := m.Called(ctx, tx, accountID, closedAt)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) ListTransactionsByAccountBetweenInTx(ctx context.Context, tx pgx.Tx, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, tx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, accountID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SumLedger(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FetchLedgerSums(ctx context.Context) (domain.LedgerSums, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.LedgerSums), args.Error(1)
}

func (m *MockLedgerRepository) FetchLedgerSumsInTx(ctx context.Context, tx pgx.Tx) (domain.LedgerSums, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(domain.LedgerSums), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryWithTx = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLoanRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) AcquireApprovalLockInTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) AcquireLoanLockInTx(ctx context.Context, tx pgx.Tx, loanID string) error {
	args := m.Called(ctx, tx, loanID)
	return args.Error(0)
}

func (m *MockLoanRepository) ListLoansByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindApprovedLoanByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Loan, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindApprovedLoansByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Loan, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoanByClientKeyInTx(ctx context.Context, tx pgx.Tx, userID string, clientKey string) (*domain.Loan, error) {
	args := m.Called(ctx, tx, userID, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID string, userID string) (*domain.Loan, error) {
	args := m.Called(ctx, tx, loanID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindDisbursementByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.LoanDisbursement, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDisbursement), args.Error(1)
}

func (m *MockLoanRepository) FindPaymentByIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.LoanPayment, error) {
	args := m.Called(ctx, tx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPayment), args.Error(1)
}

func (m *MockLoanRepository) SumDisbursementsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) SumPaymentsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) SaveLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.LoanDisbursement) error {
	args := m.Called(ctx, tx, disbursement)
	return args.Error(0)
}

func (m *MockLoanRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.LoanPayment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockLoanRepository) CloseLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, decisionAt time.Time) error {
	args := m.Called(ctx, tx, loanID, decisionAt)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserRepository) FindRefreshTokenByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, jti)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *MockUserRepository) RevokeRefreshToken(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

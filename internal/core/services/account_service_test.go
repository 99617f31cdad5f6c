package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/core/services"
	"github.com/scroogebank/corebank/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockLedgerRepo  *MockLedgerRepository
	mockLoanRepo    *MockLoanRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context
	tx              pgx.Tx

	userID    string
	accountID string
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockLoanRepo = new(MockLoanRepository)
	s.service = services.NewAccountService(s.mockAccountRepo, s.mockTxnRepo, s.mockLedgerRepo, s.mockLoanRepo)
	s.ctx = context.Background()
	s.tx = newStubTx()

	s.userID = uuid.NewString()
	s.accountID = uuid.NewString()
}

// expectUnitOfWork wires Begin and the deferred Rollback that every engine
// flow performs.
func (s *AccountServiceTestSuite) expectUnitOfWork() {
	s.mockAccountRepo.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.mockAccountRepo.On("Rollback", s.ctx, s.tx).Return(nil)
}

func (s *AccountServiceTestSuite) openAccount(balanceCents int64) *domain.Account {
	return &domain.Account{
		AccountID:    s.accountID,
		UserID:       s.userID,
		BalanceCents: balanceCents,
		Status:       domain.AccountOpen,
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(s.userID, account.UserID)
	s.Equal(int64(0), account.BalanceCents)
	s.Equal(domain.AccountOpen, account.Status)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_SecondOpenAccountRejected() {
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(account)
}

func (s *AccountServiceTestSuite) TestGetAccount_MasksForeignOwnership() {
	foreign := s.openAccount(5000)
	foreign.UserID = uuid.NewString()
	s.mockAccountRepo.On("FindOpenAccountByID", s.ctx, s.accountID).Return(foreign, nil).Once()

	account, err := s.service.GetAccount(s.ctx, s.userID, s.accountID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(account)
}

func (s *AccountServiceTestSuite) TestDeposit_Success() {
	account := s.openAccount(1000)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", s.ctx, s.tx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("UpdateBalanceInTx", s.ctx, s.tx, s.accountID, int64(3500)).Return(nil).Once()
	s.mockLedgerRepo.On("AppendEntryInTx", s.ctx, s.tx, mock.MatchedBy(func(entry domain.LedgerEntry) bool {
		return entry.Kind == domain.LedgerDeposit && entry.AmountCents == 2500 && entry.TransactionID != ""
	})).Return(nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.NewFromInt(25),
	})

	s.Require().NoError(err)
	s.Equal(int64(3500), result.NewBalanceCents)
	s.NotEmpty(result.TransactionID)
	s.mockAccountRepo.AssertExpectations(s.T())
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestDeposit_NonPositiveAmountRejectedBeforeLocking() {
	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.Zero,
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(result)
	s.mockAccountRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeposit_IdempotentReplayReturnsRecordedResult() {
	account := s.openAccount(3500)
	existing := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      s.accountID,
		Type:           domain.Deposit,
		AmountCents:    2500,
		IdempotencyKey: "client-key-1",
		CreatedAt:      time.Now().UTC().Add(-time.Minute),
	}
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("FindTransactionByIdempotencyKeyInTx", s.ctx, s.tx, s.accountID, "client-key-1").Return(existing, nil).Once()
	s.mockAccountRepo.On("FindAccountByIDInTx", s.ctx, s.tx, s.accountID).Return(account, nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID:      s.accountID,
		Amount:         decimal.NewFromInt(25),
		IdempotencyKey: "client-key-1",
	})

	s.Require().NoError(err)
	s.Equal(existing.TransactionID, result.TransactionID)
	s.Equal(existing.CreatedAt, result.CreatedAt)
	s.Equal(int64(3500), result.NewBalanceCents)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeposit_KeyReuseWithDifferentAmountConflicts() {
	account := s.openAccount(3500)
	existing := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      s.accountID,
		Type:           domain.Deposit,
		AmountCents:    2500,
		IdempotencyKey: "client-key-1",
	}
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("FindTransactionByIdempotencyKeyInTx", s.ctx, s.tx, s.accountID, "client-key-1").Return(existing, nil).Once()

	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID:      s.accountID,
		Amount:         decimal.NewFromInt(99),
		IdempotencyKey: "client-key-1",
	})

	s.Require().ErrorIs(err, apperrors.ErrIdempotencyConflict)
	s.Nil(result)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeposit_KeyReuseAcrossOperationTypesConflicts() {
	account := s.openAccount(3500)
	existing := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      s.accountID,
		Type:           domain.Withdrawal,
		AmountCents:    2500,
		IdempotencyKey: "client-key-1",
	}
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("FindTransactionByIdempotencyKeyInTx", s.ctx, s.tx, s.accountID, "client-key-1").Return(existing, nil).Once()

	_, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID:      s.accountID,
		Amount:         decimal.NewFromInt(25),
		IdempotencyKey: "client-key-1",
	})

	s.Require().ErrorIs(err, apperrors.ErrIdempotencyConflict)
}

func (s *AccountServiceTestSuite) TestDeposit_InsertRaceReconciledAsReplay() {
	account := s.openAccount(1000)
	winner := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      s.accountID,
		Type:           domain.Deposit,
		AmountCents:    2500,
		IdempotencyKey: "client-key-1",
		CreatedAt:      time.Now().UTC(),
	}
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	// Nothing on first lookup, then the concurrent writer wins the insert.
	s.mockTxnRepo.On("FindTransactionByIdempotencyKeyInTx", s.ctx, s.tx, s.accountID, "client-key-1").Return(nil, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", s.ctx, s.tx, mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()
	s.mockTxnRepo.On("FindTransactionByIdempotencyKeyInTx", s.ctx, s.tx, s.accountID, "client-key-1").Return(winner, nil).Once()
	s.mockAccountRepo.On("FindAccountByIDInTx", s.ctx, s.tx, s.accountID).Return(s.openAccount(3500), nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID:      s.accountID,
		Amount:         decimal.NewFromInt(25),
		IdempotencyKey: "client-key-1",
	})

	s.Require().NoError(err)
	s.Equal(winner.TransactionID, result.TransactionID)
	s.Equal(int64(3500), result.NewBalanceCents)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestWithdraw_Success() {
	account := s.openAccount(10000)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", s.ctx, s.tx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("UpdateBalanceInTx", s.ctx, s.tx, s.accountID, int64(7500)).Return(nil).Once()
	s.mockLedgerRepo.On("AppendEntryInTx", s.ctx, s.tx, mock.MatchedBy(func(entry domain.LedgerEntry) bool {
		return entry.Kind == domain.LedgerWithdrawal && entry.AmountCents == -2500
	})).Return(nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	result, err := s.service.Withdraw(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.NewFromInt(25),
	})

	s.Require().NoError(err)
	s.Equal(int64(7500), result.NewBalanceCents)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestWithdraw_InsufficientFundsLeavesStateUntouched() {
	account := s.openAccount(2000)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()

	result, err := s.service.Withdraw(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.NewFromInt(25),
	})

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.Nil(result)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "AppendEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestWithdraw_ExactBalanceDrainsToZero() {
	account := s.openAccount(2500)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", s.ctx, s.tx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("UpdateBalanceInTx", s.ctx, s.tx, s.accountID, int64(0)).Return(nil).Once()
	s.mockLedgerRepo.On("AppendEntryInTx", s.ctx, s.tx, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	result, err := s.service.Withdraw(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.NewFromInt(25),
	})

	s.Require().NoError(err)
	s.Equal(int64(0), result.NewBalanceCents)
}

func (s *AccountServiceTestSuite) TestMovement_UnknownAccountMasked() {
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := s.service.Deposit(s.ctx, s.userID, dto.MovementRequest{
		AccountID: s.accountID,
		Amount:    decimal.NewFromInt(25),
	})

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(result)
}

func (s *AccountServiceTestSuite) TestCloseAccount_Success() {
	account := s.openAccount(0)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockLoanRepo.On("FindApprovedLoansByUserIDInTx", s.ctx, s.tx, s.userID).Return([]domain.Loan{}, nil).Once()
	s.mockAccountRepo.On("CloseAccountInTx", s.ctx, s.tx, s.accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	closed, err := s.service.CloseAccount(s.ctx, s.userID, s.accountID)

	s.Require().NoError(err)
	s.Equal(domain.AccountClosed, closed.Status)
	s.NotNil(closed.ClosedAt)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCloseAccount_NonZeroBalanceRejected() {
	account := s.openAccount(100)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()

	closed, err := s.service.CloseAccount(s.ctx, s.userID, s.accountID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(closed)
	s.mockAccountRepo.AssertNotCalled(s.T(), "CloseAccountInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCloseAccount_OpenLoanRejected() {
	account := s.openAccount(0)
	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindOpenAccountForUpdateInTx", s.ctx, s.tx, s.accountID, s.userID).Return(account, nil).Once()
	s.mockLoanRepo.On("FindApprovedLoansByUserIDInTx", s.ctx, s.tx, s.userID).Return([]domain.Loan{
		{LoanID: uuid.NewString(), UserID: s.userID, Status: domain.LoanApproved, PrincipalCents: 5000},
	}, nil).Once()

	closed, err := s.service.CloseAccount(s.ctx, s.userID, s.accountID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(closed)
	s.mockAccountRepo.AssertNotCalled(s.T(), "CloseAccountInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestGetStatement_SingleSnapshot() {
	account := s.openAccount(7500)
	from := time.Now().UTC().Add(-24 * time.Hour)
	to := time.Now().UTC()
	loans := []domain.Loan{{LoanID: uuid.NewString(), UserID: s.userID, Status: domain.LoanApproved, PrincipalCents: 10000}}
	txns := []domain.Transaction{{TransactionID: uuid.NewString(), AccountID: s.accountID, Type: domain.Deposit, AmountCents: 7500}}

	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindAccountByIDInTx", s.ctx, s.tx, s.accountID).Return(account, nil).Once()
	s.mockLoanRepo.On("FindApprovedLoansByUserIDInTx", s.ctx, s.tx, s.userID).Return(loans, nil).Once()
	s.mockTxnRepo.On("ListTransactionsByAccountBetweenInTx", s.ctx, s.tx, s.accountID, from, to).Return(txns, nil).Once()
	s.mockAccountRepo.On("Commit", s.ctx, s.tx).Return(nil).Once()

	statement, err := s.service.GetStatement(s.ctx, s.userID, s.accountID, from, to)

	s.Require().NoError(err)
	s.Len(statement.Loans, 1)
	s.Len(statement.Transactions, 1)
}

func (s *AccountServiceTestSuite) TestGetStatement_ClosedAccountMasked() {
	account := s.openAccount(0)
	account.Status = domain.AccountClosed
	from := time.Now().UTC().Add(-24 * time.Hour)
	to := time.Now().UTC()

	s.expectUnitOfWork()
	s.mockAccountRepo.On("FindAccountByIDInTx", s.ctx, s.tx, s.accountID).Return(account, nil).Once()

	statement, err := s.service.GetStatement(s.ctx, s.userID, s.accountID, from, to)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(statement)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

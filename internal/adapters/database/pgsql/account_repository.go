package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	"github.com/scroogebank/corebank/internal/models"
	"github.com/scroogebank/corebank/internal/utils/mapping"
)

const accountColumns = `account_id, user_id, balance_cents, status, created_at, closed_at`

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.UserID, &m.BalanceCents, &m.Status, &m.CreatedAt, &m.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account. The partial unique index on open
// ownership turns a second open account for the same user into a duplicate
// error even when two create calls race.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, user_id, balance_cents, status, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.AccountID, m.UserID, m.BalanceCents, m.Status, m.CreatedAt, m.ClosedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s already has an open account", apperrors.ErrDuplicate, m.UserID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindOpenAccountByID retrieves an open account by its identifier.
func (r *PgxAccountRepository) FindOpenAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND status = 'open';`
	return scanAccount(r.Pool.QueryRow(ctx, query, accountID))
}

// ListOpenAccountsByUserID retrieves all open accounts owned by a user.
func (r *PgxAccountRepository) ListOpenAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND status = 'open' ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading account rows: %w", err)
	}
	return accounts, nil
}

// FindOpenAccountForUpdateInTx loads and locks the account scoped to
// (id, owner, open). Absence, a different owner and a closed account all
// surface as the same not-found condition.
func (r *PgxAccountRepository) FindOpenAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2 AND status = 'open' FOR UPDATE;`
	return scanAccount(tx.QueryRow(ctx, query, accountID, userID))
}

// FindAccountForUpdateInTx loads and locks the account by id alone.
func (r *PgxAccountRepository) FindAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	return scanAccount(tx.QueryRow(ctx, query, accountID))
}

// FindAccountByIDInTx reads the account without locking.
func (r *PgxAccountRepository) FindAccountByIDInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(tx.QueryRow(ctx, query, accountID))
}

// FindOpenAccountByUserIDInTx retrieves the user's open account, or nil
// when there is none.
func (r *PgxAccountRepository) FindOpenAccountByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND status = 'open';`
	acc, err := scanAccount(tx.QueryRow(ctx, query, userID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return acc, err
}

// UpdateBalanceInTx persists a new balance for the locked account.
func (r *PgxAccountRepository) UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalanceCents int64) error {
	query := `UPDATE accounts SET balance_cents = $2 WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, newBalanceCents)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CloseAccountInTx marks the account closed.
func (r *PgxAccountRepository) CloseAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, closedAt time.Time) error {
	query := `UPDATE accounts SET status = 'closed', closed_at = $2 WHERE account_id = $1 AND status = 'open';`
	tag, err := tx.Exec(ctx, query, accountID, closedAt)
	if err != nil {
		return fmt.Errorf("failed to close account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

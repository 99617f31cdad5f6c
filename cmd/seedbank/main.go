package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scroogebank/corebank/internal/adapters/database/pgsql"
	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/utils"
	"github.com/scroogebank/corebank/pkg/config"
	"github.com/scroogebank/corebank/pkg/database"
)

// seedbank capitalizes a fresh bank: it appends the initial BASE_CASH
// ledger entry and optionally creates an operator user. It refuses to run
// against a ledger that already holds base cash.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	baseCashStr := os.Getenv("BANK_BASE_CASH_AMOUNT")
	if baseCashStr == "" {
		logger.Error("BANK_BASE_CASH_AMOUNT is not set")
		os.Exit(1)
	}
	baseCashUnits, err := strconv.ParseInt(baseCashStr, 10, 64)
	if err != nil || baseCashUnits <= 0 {
		logger.Error("BANK_BASE_CASH_AMOUNT must be a positive whole number of currency units", slog.String("value", baseCashStr))
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	ledgerRepo := pgsql.NewLedgerRepository(pool)

	sums, err := ledgerRepo.FetchLedgerSums(ctx)
	if err != nil {
		logger.Error("Failed to read ledger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if sums.BaseCashCents != 0 {
		logger.Error("Ledger already capitalized", slog.Int64("base_cash_cents", sums.BaseCashCents))
		os.Exit(1)
	}

	tx, err := ledgerRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer ledgerRepo.Rollback(ctx, tx) //nolint:errcheck

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Kind:        domain.LedgerBaseCash,
		AmountCents: baseCashUnits * 100,
		OccurredAt:  time.Now().UTC(),
		Memo:        fmt.Sprintf("Initial capitalization (%s)", baseCashStr),
	}
	if err := ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		logger.Error("Failed to append base cash entry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := ledgerRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Bank ledger seeded", slog.Int64("base_cash_cents", entry.AmountCents))

	if err := seedOperator(ctx, pool, logger); err != nil {
		os.Exit(1)
	}
}

// seedOperator creates the operator user named by OPERATOR_EMAIL and
// OPERATOR_PASSWORD. Skipped when the variables are absent.
func seedOperator(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	email := os.Getenv("OPERATOR_EMAIL")
	password := os.Getenv("OPERATOR_PASSWORD")
	if email == "" || password == "" {
		logger.Info("OPERATOR_EMAIL/OPERATOR_PASSWORD not set, skipping operator user")
		return nil
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash operator password", slog.String("error", err.Error()))
		return err
	}

	userRepo := pgsql.NewUserRepository(pool)
	operator := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        []domain.UserRole{domain.RoleUser, domain.RoleOperator},
		CreatedAt:    time.Now().UTC(),
	}
	if err := userRepo.SaveUser(ctx, operator); err != nil {
		logger.Error("Failed to create operator user", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Operator user created", slog.String("user_id", operator.UserID))
	return nil
}

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration

	// Lending policy
	LendingDepositShareDivisor   int64
	LendingClampNegativeBaseCash bool

	// Advisory lock keyspace
	LoanApprovalLockKey int64
	LoanPaymentLockKey  int64

	// Rate limiting, in ulule/limiter format (e.g. "100-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "corebank")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("LENDING_DEPOSIT_SHARE_DIVISOR", 4)
	viper.SetDefault("LENDING_CLAMP_NEGATIVE_BASE_CASH", false)
	viper.SetDefault("LOAN_APPROVAL_LOCK_KEY", 42)
	viper.SetDefault("LOAN_PAYMENT_LOCK_KEY", 1)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiryDuration, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiryDuration = time.Hour * 24 * 7
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiryDuration.String())
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiryDuration

	cfg.LendingDepositShareDivisor = viper.GetInt64("LENDING_DEPOSIT_SHARE_DIVISOR")
	if cfg.LendingDepositShareDivisor <= 0 {
		cfg.LendingDepositShareDivisor = 4
		log.Println("Warning: LENDING_DEPOSIT_SHARE_DIVISOR must be positive. Defaulting to 4.")
	}
	cfg.LendingClampNegativeBaseCash = viper.GetBool("LENDING_CLAMP_NEGATIVE_BASE_CASH")

	cfg.LoanApprovalLockKey = viper.GetInt64("LOAN_APPROVAL_LOCK_KEY")
	cfg.LoanPaymentLockKey = viper.GetInt64("LOAN_PAYMENT_LOCK_KEY")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

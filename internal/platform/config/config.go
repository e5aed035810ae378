package config

import (
	"fmt"
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

	// Session token
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	JWTAudience       string

	// One-time secrets
	VerificationCodeTTL time.Duration
	ResetTokenTTL       time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Mail
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	MailFromAddress string
	MailFromName    string

	// Observability
	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
// JWT_SECRET is required: token signing must never fall back to a built-in key.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "auth-backend")
	viper.SetDefault("JWT_AUDIENCE", "")
	viper.SetDefault("VERIFICATION_CODE_TTL", "10m")
	viper.SetDefault("RESET_TOKEN_TTL", "1h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("MAIL_FROM_ADDRESS", "")
	viper.SetDefault("MAIL_FROM_NAME", "Auth Backend")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}

	verificationTTLStr := viper.GetString("VERIFICATION_CODE_TTL")
	verificationTTL, err := time.ParseDuration(verificationTTLStr)
	if err != nil {
		verificationTTL = 10 * time.Minute
		log.Printf("Warning: Invalid value for VERIFICATION_CODE_TTL ('%s'). Defaulting to %s.\n", verificationTTLStr, verificationTTL.String())
	}

	resetTTLStr := viper.GetString("RESET_TOKEN_TTL")
	resetTTL, err := time.ParseDuration(resetTTLStr)
	if err != nil {
		resetTTL = time.Hour
		log.Printf("Warning: Invalid value for RESET_TOKEN_TTL ('%s'). Defaulting to %s.\n", resetTTLStr, resetTTL.String())
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.JWTAudience = viper.GetString("JWT_AUDIENCE")
	cfg.VerificationCodeTTL = verificationTTL
	cfg.ResetTokenTTL = resetTTL

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google login will not function.")
	}

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetString("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.MailFromAddress = viper.GetString("MAIL_FROM_ADDRESS")
	cfg.MailFromName = viper.GetString("MAIL_FROM_NAME")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Outbound mail will fail.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

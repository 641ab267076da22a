package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DBDSN       string
	FrontendURL string // checkout redirect target, e.g. https://meetro.app

	Paystack  PaystackConfig
	Reconcile ReconcileConfig
	SMTP      SMTPConfig
	Session   SessionConfig
	Storage   StorageConfig
}

type StorageConfig struct {
	Driver       string // "local" or "s3"
	LocalDir     string
	LocalURLBase string
	S3Region     string
	S3Bucket     string
	S3Prefix     string
	S3PublicBase string
}

type PaystackConfig struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

type ReconcileConfig struct {
	LookbackDays int
	Interval     time.Duration
	PageSize     int
	TxnPageSize  int
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "tls", "starttls"
	SkipVerifyTLS bool
	FromName      string
	FromAddress   string
}

type SessionConfig struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// FromEnv builds the config from environment variables. Only DB_DSN and
// PAYSTACK_SECRET_KEY are mandatory; everything else has a sane default.
func FromEnv() (Config, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return Config{}, fmt.Errorf("DB_DSN environment variable is required")
	}

	secret := os.Getenv("PAYSTACK_SECRET_KEY")
	if secret == "" {
		return Config{}, fmt.Errorf("PAYSTACK_SECRET_KEY environment variable is required")
	}

	cfg := Config{
		Port:        envOr("PORT", "8080"),
		DBDSN:       dsn,
		FrontendURL: envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
		Paystack: PaystackConfig{
			SecretKey: secret,
			BaseURL:   envOr("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			Timeout:   time.Duration(envInt("PAYSTACK_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Reconcile: ReconcileConfig{
			LookbackDays: envInt("RECONCILE_LOOKBACK_DAYS", 1),
			Interval:     time.Duration(envInt("RECONCILE_INTERVAL_MINUTES", 60)) * time.Minute,
			PageSize:     envInt("RECONCILE_PAGE_SIZE", 50),
			TxnPageSize:  envInt("RECONCILE_TXN_PAGE_SIZE", 100),
		},
		SMTP: SMTPConfig{
			Host:          envOr("SMTP_HOST", ""),
			Port:          envOr("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       os.Getenv("SMTP_TLS_MODE"),
			SkipVerifyTLS: envBool("SMTP_SKIP_VERIFY_TLS", false),
			FromName:      envOr("MAIL_FROM_NAME", "Meetro"),
			FromAddress:   envOr("MAIL_FROM_ADDRESS", "no-reply@meetro.app"),
		},
		Session: SessionConfig{
			CookieName: envOr("SESSION_COOKIE_NAME", "meetro_session"),
			Secure:     envBool("SESSION_COOKIE_SECURE", false),
			TTL:        time.Duration(envInt("SESSION_TTL_HOURS", 24*7)) * time.Hour,
		},
		Storage: StorageConfig{
			Driver:       envOr("STORAGE_DRIVER", "local"),
			LocalDir:     envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLBase: envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:     os.Getenv("S3_REGION"),
			S3Bucket:     os.Getenv("S3_BUCKET"),
			S3Prefix:     envOr("S3_PREFIX", "events"),
			S3PublicBase: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

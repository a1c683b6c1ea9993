package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultHTTPAddr = ":8080"
const defaultChannelID = "GreyApp"
const defaultChannelKey = "GreyhoundKey001"
const defaultFraudThreshold = "1000"
const defaultPeerTimeout = 5 * time.Second

const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr   string
	ChannelID  string
	ChannelKey string

	// DBDriver selects the transaction journal. Empty disables it.
	DBDriver    string
	DatabaseDSN string

	FraudThreshold         decimal.Decimal
	FraudReferenceCurrency string
	EncryptionSecret       string

	PeerURLs    []string
	PeerTimeout time.Duration

	// SettlementFunding moves batch totals between ledger accounts when set.
	SettlementFunding bool
}

// Load reads the process environment after applying an optional .env file.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTPAddr:               getenv("HTTP_ADDR", defaultHTTPAddr),
		ChannelID:              getenv("CHANNEL_ID", defaultChannelID),
		ChannelKey:             getenv("CHANNEL_KEY", defaultChannelKey),
		DBDriver:               strings.ToLower(getenv("DB_DRIVER", DriverNone)),
		FraudReferenceCurrency: strings.ToUpper(getenv("FRAUD_REFERENCE_CURRENCY", "")),
		EncryptionSecret:       getenv("ENCRYPTION_SECRET", ""),
		PeerTimeout:            defaultPeerTimeout,
	}

	switch cfg.DBDriver {
	case DriverNone:
	case DriverPostgres:
		cfg.DatabaseDSN = normalizeConnectionString(getenv("DATABASE_DSN", ""))
	case DriverSQLite:
		cfg.DatabaseDSN = getenv("DATABASE_DSN", "file:journal.db?_pragma=busy_timeout(5000)")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver == DriverPostgres && cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required for DB_DRIVER=postgres")
	}

	threshold, err := decimal.NewFromString(getenv("FRAUD_THRESHOLD", defaultFraudThreshold))
	if err != nil || !threshold.IsPositive() {
		return Config{}, fmt.Errorf("FRAUD_THRESHOLD must be a positive decimal")
	}
	cfg.FraudThreshold = threshold

	if raw := getenv("PEER_URLS", ""); raw != "" {
		for _, url := range strings.Split(raw, ",") {
			if url = strings.TrimSpace(url); url != "" {
				cfg.PeerURLs = append(cfg.PeerURLs, url)
			}
		}
	}
	if raw := getenv("PEER_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("PEER_TIMEOUT must be a positive duration")
		}
		cfg.PeerTimeout = timeout
	}

	switch strings.ToLower(getenv("SETTLEMENT_FUNDING", "")) {
	case "", "none", "false":
	case "ledger", "true":
		cfg.SettlementFunding = true
	default:
		return Config{}, fmt.Errorf("SETTLEMENT_FUNDING must be none or ledger")
	}

	return cfg, nil
}

func getenv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// normalizeConnectionString accepts both libpq key=value strings and the
// semicolon style Host=...;Database=... form.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}

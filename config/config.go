package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds everything the server reads from its environment
type Config struct {
	Port                 string        `env:"PORT" envDefault:"8080"`
	AWSRegion            string        `env:"AWS_REGION" envDefault:"ap-south-1"`
	DynamoDBEndpoint     string        `env:"DYNAMODB_ENDPOINT"` // local DynamoDB, empty in AWS
	ProfilesTable        string        `env:"PROFILES_TABLE" envDefault:"Profiles"`
	InvitationsTable     string        `env:"INVITATIONS_TABLE" envDefault:"Invitations"`
	InvitationPairsTable string        `env:"INVITATION_PAIRS_TABLE" envDefault:"InvitationPairs"`
	S3BucketName         string        `env:"S3_BUCKET_NAME"`
	PhotoBaseURL         string        `env:"PHOTO_BASE_URL"`
	JWTSecret            string        `env:"JWT_SECRET,required,notEmpty"`
	StoreBackend         string        `env:"STORE_BACKEND" envDefault:"dynamodb"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	InviteRatePerMinute  int           `env:"INVITE_RATE_PER_MINUTE" envDefault:"10"`
	InviteRateBurst      int           `env:"INVITE_RATE_BURST" envDefault:"5"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SocketEnabled        bool          `env:"SOCKET_ENABLED" envDefault:"true"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then parses the environment
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendDynamoDB, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendDynamoDB, BackendMemory, c.StoreBackend)
	}
	if c.InviteRatePerMinute <= 0 || c.InviteRateBurst <= 0 {
		return errors.New("INVITE_RATE_PER_MINUTE and INVITE_RATE_BURST must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

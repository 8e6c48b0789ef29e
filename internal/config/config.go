package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Host             string
	Port             int
	BrowseRoot       string
	DataPath         string
	DBPath           string
	JWTSecret        string
	SecretHash       string
	SessionTTL       time.Duration
	SessionRateLimit int      // session requests per IP per minute; 0 disables the limit
	CORSOrigins      []string // empty means the desktop webview origins
	BodyLimit        int64
	JournalKeep      int // 0 keeps every journal row
}

// ErrWildcardOrigin is returned when "*" is allowed as a CORS origin while
// the bridge runs without session auth.
var ErrWildcardOrigin = errors.New(`CORS origin "*" requires SECRET_HASH`)

// fileConfig mirrors Config in the optional YAML file named by FILEFINDER_CONFIG.
// Durations and sizes are strings ("12h", "64KiB"). Integers are pointers so
// an explicit 0 is told apart from an absent key.
type fileConfig struct {
	Host             string   `yaml:"host"`
	Port             *int     `yaml:"port"`
	BrowseRoot       string   `yaml:"browse_root"`
	DataPath         string   `yaml:"data_path"`
	DBPath           string   `yaml:"db_path"`
	JWTSecret        string   `yaml:"jwt_secret"`
	SecretHash       string   `yaml:"secret_hash"`
	SessionTTL       string   `yaml:"session_ttl"`
	SessionRateLimit *int     `yaml:"session_rate_limit"`
	CORSOrigins      []string `yaml:"cors_origins"`
	BodyLimit        string   `yaml:"body_limit"`
	JournalKeep      *int     `yaml:"journal_keep"`
}

// Load builds the configuration from defaults, then the YAML file (if any),
// then environment variables.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("FILEFINDER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	dataPath := getEnv("DATA_PATH", or(fc.DataPath, filepath.Join(home, ".filefinder")))

	port, err := strconv.Atoi(getEnv("PORT", intOr(fc.Port, "7420")))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", or(fc.SessionTTL, "12h")))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("SESSION_RATE_LIMIT", intOr(fc.SessionRateLimit, "10")))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_RATE_LIMIT: %w", err)
	}
	bodyLimit, err := humanize.ParseBytes(getEnv("BODY_LIMIT", or(fc.BodyLimit, "64KiB")))
	if err != nil {
		return nil, fmt.Errorf("invalid BODY_LIMIT: %w", err)
	}
	journalKeep, err := strconv.Atoi(getEnv("JOURNAL_KEEP", intOr(fc.JournalKeep, "1000")))
	if err != nil {
		return nil, fmt.Errorf("invalid JOURNAL_KEEP: %w", err)
	}
	if rateLimit < 0 || journalKeep < 0 {
		return nil, fmt.Errorf("invalid SESSION_RATE_LIMIT/JOURNAL_KEEP: must not be negative")
	}

	// JWT secret: require explicit setting or generate random
	jwtSecret := getEnv("JWT_SECRET", fc.JWTSecret)
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		jwtSecret = hex.EncodeToString(b)
	}

	secretHash := getEnv("SECRET_HASH", fc.SecretHash)
	if secretHash == "" {
		log.Println("WARNING: SECRET_HASH not set, the command bridge accepts unauthenticated requests. Run `filefinder hash-secret` and set SECRET_HASH to require a session.")
	}

	// CORS origins: comma-separated list; unset leaves the webview defaults
	corsOrigins := fc.CORSOrigins
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		corsOrigins = splitList(v)
	}
	if secretHash == "" {
		for _, o := range corsOrigins {
			if o == "*" {
				return nil, fmt.Errorf("invalid CORS_ORIGINS: %w", ErrWildcardOrigin)
			}
		}
	}

	return &Config{
		Host:             getEnv("HOST", or(fc.Host, "127.0.0.1")),
		Port:             port,
		BrowseRoot:       getEnv("BROWSE_ROOT", or(fc.BrowseRoot, home)),
		DataPath:         dataPath,
		DBPath:           getEnv("DB_PATH", or(fc.DBPath, filepath.Join(dataPath, "filefinder.db"))),
		JWTSecret:        jwtSecret,
		SecretHash:       secretHash,
		SessionTTL:       sessionTTL,
		SessionRateLimit: rateLimit,
		CORSOrigins:      corsOrigins,
		BodyLimit:        int64(bodyLimit),
		JournalKeep:      journalKeep,
	}, nil
}

// Addr is the listen address for the HTTP bridge.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthRequired reports whether bridge routes demand a session token.
func (c *Config) AuthRequired() bool {
	return c.SecretHash != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func intOr(p *int, fallback string) string {
	if p == nil {
		return fallback
	}
	return strconv.Itoa(*p)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config centralizes how the service reads environment variables and
// exposes them as strongly typed values.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Asset backends understood by the server.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config represents runtime configuration for the service.
type Config struct {
	Address string

	DBDriver   string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBMaxConns int

	// JWTSecret signs session tokens. GeneratedSecret is true when no secret
	// was configured and a random one was created for this process.
	JWTSecret       []byte
	GeneratedSecret bool

	PublicBaseURL  string
	UploadDir      string
	MaxUploadBytes int64

	AssetBackend string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3Bucket     string
	S3Region     string
	S3UseSSL     bool

	RequireAuth     bool
	CORSOrigins     []string
	LogMode         string
	ShutdownTimeout time.Duration
}

const (
	defaultPort            = 8080
	defaultDBPort          = 5432
	defaultDBMaxConns      = 10
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultUploadDir       = "./uploads"
	defaultMaxUploadBytes  = 50 << 20 // 50 MiB
	defaultS3Bucket        = "dbzmanager-uploads"
	defaultShutdownTimeout = 10 * time.Second
)

// Load reads configuration from environment variables falling back to defaults.
func Load() (*Config, error) {
	port, err := parseInt("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	dbPort, err := parseInt("DB_PORT", defaultDBPort)
	if err != nil {
		return nil, err
	}
	maxConns, err := parseInt("DB_MAX_CONNS", defaultDBMaxConns)
	if err != nil {
		return nil, err
	}
	maxUpload, err := parseInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	useSSL, err := parseBool("S3_USE_SSL", false)
	if err != nil {
		return nil, err
	}
	requireAuth, err := parseBool("REQUIRE_AUTH", true)
	if err != nil {
		return nil, err
	}
	shutdown, err := parseDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Address:         fmt.Sprintf(":%d", port),
		DBDriver:        strings.ToLower(readEnv("DB_DRIVER", DriverPostgres)),
		DBHost:          readEnv("DB_HOST", ""),
		DBPort:          dbPort,
		DBUser:          readEnv("DB_USER", ""),
		DBPassword:      readEnv("DB_PASSWORD", ""),
		DBName:          readEnv("DB_NAME", ""),
		DBSSLMode:       readEnv("DB_SSLMODE", "disable"),
		DBMaxConns:      maxConns,
		JWTSecret:       parseSecret("JWT_SECRET"),
		PublicBaseURL:   strings.TrimRight(readEnv("PUBLIC_BASE_URL", defaultPublicBaseURL), "/"),
		UploadDir:       readEnv("UPLOAD_DIR", defaultUploadDir),
		MaxUploadBytes:  maxUpload,
		AssetBackend:    strings.ToLower(readEnv("ASSET_BACKEND", BackendDisk)),
		S3Endpoint:      readEnv("S3_ENDPOINT", ""),
		S3AccessKey:     readEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     readEnv("S3_SECRET_KEY", ""),
		S3Bucket:        readEnv("S3_BUCKET", defaultS3Bucket),
		S3Region:        readEnv("S3_REGION", ""),
		S3UseSSL:        useSSL,
		RequireAuth:     requireAuth,
		CORSOrigins:     parseList("CORS_ORIGINS", "*"),
		LogMode:         readEnv("LOG_MODE", "development"),
		ShutdownTimeout: shutdown,
	}
	if cfg.JWTSecret == nil {
		cfg.JWTSecret = randomSecret()
		cfg.GeneratedSecret = true
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = defaultDBMaxConns
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		for key, val := range map[string]string{"DB_HOST": c.DBHost, "DB_USER": c.DBUser, "DB_NAME": c.DBName} {
			if val == "" {
				return fmt.Errorf("%s is required for the %s driver", key, DriverPostgres)
			}
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported value %q", c.DBDriver)
	}
	switch c.AssetBackend {
	case BackendDisk:
	case BackendS3:
		if c.S3Endpoint == "" {
			return fmt.Errorf("S3_ENDPOINT is required for the %s asset backend", BackendS3)
		}
	default:
		return fmt.Errorf("ASSET_BACKEND: unsupported value %q", c.AssetBackend)
	}
	if _, err := url.Parse(c.PublicBaseURL); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL: %w", err)
	}
	return nil
}

// DatabaseDSN returns the pgx connection string.
func (c *Config) DatabaseDSN() string {
	return c.databaseURL("postgres")
}

// MigrationURL returns the golang-migrate URL for the pgx/v5 driver.
func (c *Config) MigrationURL() string {
	return c.databaseURL("pgx5")
}

func (c *Config) databaseURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseList(key, def string) []string {
	val := readEnv(key, def)
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt64(key string, def int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(hex.EncodeToString([]byte("fallbacksecret")))
	}
	return buf
}

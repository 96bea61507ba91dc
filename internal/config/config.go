package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	DB        DBConfig
	S3        S3Config
	Redis     RedisConfig
	Log       LogConfig
	CORS      CORSConfig
	Reception ReceptionConfig
}

// Store drivers.
const (
	StoreDriverXLSX     = "xlsx"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects and locates the inventory store.
type StoreConfig struct {
	Driver         string `mapstructure:"driver"`
	WorkbookPath   string `mapstructure:"workbook_path"`
	InventorySheet string `mapstructure:"inventory_sheet"`
	SalesSheet     string `mapstructure:"sales_sheet"`
	PurchasesSheet string `mapstructure:"purchases_sheet"`
}

// ReceptionConfig holds invoice reception workflow settings.
type ReceptionConfig struct {
	// BlindCount starts every received quantity at zero instead of the invoiced amount.
	BlindCount        bool          `mapstructure:"blind_count"`
	DuplicateSKU      string        `mapstructure:"duplicate_sku"`
	DedupApply        bool          `mapstructure:"dedup_apply"`
	DedupTTL          time.Duration `mapstructure:"dedup_ttl"`
	ApplyLockTTL      time.Duration `mapstructure:"apply_lock_ttl"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb"`
	ArchiveInvoices   bool          `mapstructure:"archive_invoices"`
	ArchivePresignTTL int64         `mapstructure:"archive_presign_ttl"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds the invoice archive bucket settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// RedisConfig holds Redis settings. An empty Addr disables Redis and the
// server falls back to in-process sessions and locks.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Enabled reports whether a Redis address is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TIENDAPOS_
// prefix. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TIENDAPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Store defaults
	v.SetDefault("store.driver", StoreDriverXLSX)
	v.SetDefault("store.workbook_path", "data/tienda.xlsx")
	v.SetDefault("store.inventory_sheet", "Inventario")
	v.SetDefault("store.sales_sheet", "Ventas")
	v.SetDefault("store.purchases_sheet", "Compras")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tiendapos")
	v.SetDefault("db.password", "tiendapos_secret")
	v.SetDefault("db.name", "tiendapos_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tiendapos-invoices")
	v.SetDefault("s3.endpoint", "")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "tiendapos:")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Reception defaults
	v.SetDefault("reception.blind_count", false)
	v.SetDefault("reception.duplicate_sku", "first_match")
	v.SetDefault("reception.dedup_apply", false)
	v.SetDefault("reception.dedup_ttl", "2160h")
	v.SetDefault("reception.apply_lock_ttl", "30s")
	v.SetDefault("reception.session_ttl", "12h")
	v.SetDefault("reception.max_upload_mb", 5)
	v.SetDefault("reception.archive_invoices", false)
	v.SetDefault("reception.archive_presign_ttl", 900)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "TIENDAPOS_SERVER_PORT",
		"server.read_timeout":           "TIENDAPOS_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "TIENDAPOS_SERVER_WRITE_TIMEOUT",
		"server.environment":            "TIENDAPOS_SERVER_ENVIRONMENT",
		"store.driver":                  "TIENDAPOS_STORE_DRIVER",
		"store.workbook_path":           "TIENDAPOS_STORE_WORKBOOK_PATH",
		"store.inventory_sheet":         "TIENDAPOS_STORE_INVENTORY_SHEET",
		"store.sales_sheet":             "TIENDAPOS_STORE_SALES_SHEET",
		"store.purchases_sheet":         "TIENDAPOS_STORE_PURCHASES_SHEET",
		"db.host":                       "TIENDAPOS_DB_HOST",
		"db.port":                       "TIENDAPOS_DB_PORT",
		"db.user":                       "TIENDAPOS_DB_USER",
		"db.password":                   "TIENDAPOS_DB_PASSWORD",
		"db.name":                       "TIENDAPOS_DB_NAME",
		"db.sslmode":                    "TIENDAPOS_DB_SSLMODE",
		"db.max_open":                   "TIENDAPOS_DB_MAX_OPEN",
		"db.max_idle":                   "TIENDAPOS_DB_MAX_IDLE",
		"s3.region":                     "TIENDAPOS_S3_REGION",
		"s3.bucket":                     "TIENDAPOS_S3_BUCKET",
		"s3.endpoint":                   "TIENDAPOS_S3_ENDPOINT",
		"s3.access_key":                 "TIENDAPOS_S3_ACCESS_KEY",
		"s3.secret_key":                 "TIENDAPOS_S3_SECRET_KEY",
		"redis.addr":                    "TIENDAPOS_REDIS_ADDR",
		"redis.password":                "TIENDAPOS_REDIS_PASSWORD",
		"redis.db":                      "TIENDAPOS_REDIS_DB",
		"redis.key_prefix":              "TIENDAPOS_REDIS_KEY_PREFIX",
		"log.level":                     "TIENDAPOS_LOG_LEVEL",
		"log.format":                    "TIENDAPOS_LOG_FORMAT",
		"cors.allowed_origins":          "TIENDAPOS_CORS_ALLOWED_ORIGINS",
		"reception.blind_count":         "TIENDAPOS_RECEPTION_BLIND_COUNT",
		"reception.duplicate_sku":       "TIENDAPOS_RECEPTION_DUPLICATE_SKU",
		"reception.dedup_apply":         "TIENDAPOS_RECEPTION_DEDUP_APPLY",
		"reception.dedup_ttl":           "TIENDAPOS_RECEPTION_DEDUP_TTL",
		"reception.apply_lock_ttl":      "TIENDAPOS_RECEPTION_APPLY_LOCK_TTL",
		"reception.session_ttl":         "TIENDAPOS_RECEPTION_SESSION_TTL",
		"reception.max_upload_mb":       "TIENDAPOS_RECEPTION_MAX_UPLOAD_MB",
		"reception.archive_invoices":    "TIENDAPOS_RECEPTION_ARCHIVE_INVOICES",
		"reception.archive_presign_ttl": "TIENDAPOS_RECEPTION_ARCHIVE_PRESIGN_TTL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TIENDAPOS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Driver:         strings.ToLower(v.GetString("store.driver")),
		WorkbookPath:   v.GetString("store.workbook_path"),
		InventorySheet: v.GetString("store.inventory_sheet"),
		SalesSheet:     v.GetString("store.sales_sheet"),
		PurchasesSheet: v.GetString("store.purchases_sheet"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Reception = ReceptionConfig{
		BlindCount:        v.GetBool("reception.blind_count"),
		DuplicateSKU:      v.GetString("reception.duplicate_sku"),
		DedupApply:        v.GetBool("reception.dedup_apply"),
		DedupTTL:          v.GetDuration("reception.dedup_ttl"),
		ApplyLockTTL:      v.GetDuration("reception.apply_lock_ttl"),
		SessionTTL:        v.GetDuration("reception.session_ttl"),
		MaxUploadMB:       v.GetInt64("reception.max_upload_mb"),
		ArchiveInvoices:   v.GetBool("reception.archive_invoices"),
		ArchivePresignTTL: v.GetInt64("reception.archive_presign_ttl"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverXLSX, StoreDriverPostgres:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch c.Reception.DuplicateSKU {
	case "first_match", "reject":
	default:
		return fmt.Errorf("config: unknown duplicate sku policy %q", c.Reception.DuplicateSKU)
	}
	return nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

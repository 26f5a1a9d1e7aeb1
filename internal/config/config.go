package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"docinsight/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	LLM     LLMConfig
	Prepare PrepareConfig
	Upload  UploadConfig
	Workers WorkersConfig
	Storage StorageConfig
	S3      S3Config
	DB      DBConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single language model provider.
type ProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds language model settings with multi-provider support.
type LLMConfig struct {
	// Legacy flat fields
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`

	VisionModel string `mapstructure:"vision_model"`
	ImageModel  string `mapstructure:"image_model"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (l *LLMConfig) PrimaryConfig() *ProviderConfig {
	if l.Primary.Provider != "" {
		return &l.Primary
	}
	return &ProviderConfig{
		Provider:     l.Provider,
		APIKey:       l.APIKey,
		DefaultModel: l.DefaultModel,
		BaseURL:      l.BaseURL,
		TimeoutSecs:  l.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (l *LLMConfig) SecondaryConfig() *ProviderConfig {
	if l.Secondary.Provider != "" {
		return &l.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (l *LLMConfig) TertiaryConfig() *ProviderConfig {
	if l.Tertiary.Provider != "" {
		return &l.Tertiary
	}
	return nil
}

// Providers returns the configured providers in failover order.
func (l *LLMConfig) Providers() []*ProviderConfig {
	out := []*ProviderConfig{l.PrimaryConfig()}
	if s := l.SecondaryConfig(); s != nil {
		out = append(out, s)
	}
	if t := l.TertiaryConfig(); t != nil {
		out = append(out, t)
	}
	return out
}

// PrepareConfig holds the per-tool document size policies.
type PrepareConfig struct {
	Insights    domain.SizePolicy
	Quality     domain.SizePolicy
	Categorize  domain.SizePolicy
	Stock       domain.SizePolicy
	Encoding    string `mapstructure:"encoding"`
	MaxPDFPages int    `mapstructure:"max_pdf_pages"`
	PreviewRows int    `mapstructure:"preview_rows"`
}

// UploadConfig limits multipart uploads.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// MaxFileBytes returns the per-file size limit in bytes.
func (u *UploadConfig) MaxFileBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// WorkersConfig bounds concurrent per-file work.
type WorkersConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// StorageConfig selects where exported reports go.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
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

var providerKeys = []string{"provider", "api_key", "default_model", "base_url", "timeout_secs"}

var policyTools = []string{"insights", "quality", "categorize", "stock"}

// Load reads configuration from environment variables with the DOCINSIGHT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.shutdown_timeout", "20s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (local widget origins)
	v.SetDefault("cors.allowed_origins", "http://localhost:8501,http://127.0.0.1:8501,http://localhost:3000")

	// LLM defaults (legacy flat)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.default_model", "gpt-4o")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout_secs", 120)
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("llm."+tier+".provider", "")
		v.SetDefault("llm."+tier+".api_key", "")
		v.SetDefault("llm."+tier+".default_model", "")
		v.SetDefault("llm."+tier+".base_url", "")
		v.SetDefault("llm."+tier+".timeout_secs", 120)
	}
	v.SetDefault("llm.vision_model", "gpt-4o")
	v.SetDefault("llm.image_model", "dall-e-3")

	// Prepare defaults
	v.SetDefault("prepare.insights.max_characters", 5000)
	v.SetDefault("prepare.insights.max_tokens", 1500)
	v.SetDefault("prepare.quality.max_characters", 48000)
	v.SetDefault("prepare.quality.max_tokens", 12000)
	v.SetDefault("prepare.categorize.max_characters", 8000)
	v.SetDefault("prepare.categorize.max_tokens", 2000)
	v.SetDefault("prepare.stock.max_characters", 12000)
	v.SetDefault("prepare.stock.max_tokens", 3000)
	v.SetDefault("prepare.encoding", "cl100k_base")
	v.SetDefault("prepare.max_pdf_pages", 10)
	v.SetDefault("prepare.preview_rows", 10)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_files", 10)

	// Worker defaults
	v.SetDefault("workers.concurrency", 4)

	// Storage defaults
	v.SetDefault("storage.provider", "noop")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docinsight-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docinsight")
	v.SetDefault("db.password", "docinsight_secret")
	v.SetDefault("db.name", "docinsight_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "DOCINSIGHT_SERVER_PORT",
		"server.read_timeout":     "DOCINSIGHT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DOCINSIGHT_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "DOCINSIGHT_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "DOCINSIGHT_SERVER_ENVIRONMENT",
		"log.level":               "DOCINSIGHT_LOG_LEVEL",
		"log.format":              "DOCINSIGHT_LOG_FORMAT",
		"cors.allowed_origins":    "DOCINSIGHT_CORS_ALLOWED_ORIGINS",
		"llm.vision_model":        "DOCINSIGHT_LLM_VISION_MODEL",
		"llm.image_model":         "DOCINSIGHT_LLM_IMAGE_MODEL",
		"prepare.encoding":        "DOCINSIGHT_PREPARE_ENCODING",
		"prepare.max_pdf_pages":   "DOCINSIGHT_PREPARE_MAX_PDF_PAGES",
		"prepare.preview_rows":    "DOCINSIGHT_PREPARE_PREVIEW_ROWS",
		"upload.max_file_size_mb": "DOCINSIGHT_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_files":        "DOCINSIGHT_UPLOAD_MAX_FILES",
		"workers.concurrency":     "DOCINSIGHT_WORKERS_CONCURRENCY",
		"storage.provider":        "DOCINSIGHT_STORAGE_PROVIDER",
		"s3.region":               "DOCINSIGHT_S3_REGION",
		"s3.bucket":               "DOCINSIGHT_S3_BUCKET",
		"s3.endpoint":             "DOCINSIGHT_S3_ENDPOINT",
		"s3.access_key":           "DOCINSIGHT_S3_ACCESS_KEY",
		"s3.secret_key":           "DOCINSIGHT_S3_SECRET_KEY",
		"s3.presign_expiry":       "DOCINSIGHT_S3_PRESIGN_EXPIRY",
		"db.enabled":              "DOCINSIGHT_DB_ENABLED",
		"db.host":                 "DOCINSIGHT_DB_HOST",
		"db.port":                 "DOCINSIGHT_DB_PORT",
		"db.user":                 "DOCINSIGHT_DB_USER",
		"db.password":             "DOCINSIGHT_DB_PASSWORD",
		"db.name":                 "DOCINSIGHT_DB_NAME",
		"db.sslmode":              "DOCINSIGHT_DB_SSLMODE",
		"db.max_open":             "DOCINSIGHT_DB_MAX_OPEN",
		"db.max_idle":             "DOCINSIGHT_DB_MAX_IDLE",
	}
	for _, k := range providerKeys {
		envBindings["llm."+k] = "DOCINSIGHT_LLM_" + strings.ToUpper(k)
		for _, tier := range []string{"primary", "secondary", "tertiary"} {
			envBindings["llm."+tier+"."+k] = "DOCINSIGHT_LLM_" + strings.ToUpper(tier) + "_" + strings.ToUpper(k)
		}
	}
	for _, tool := range policyTools {
		envBindings["prepare."+tool+".max_characters"] = "DOCINSIGHT_PREPARE_" + strings.ToUpper(tool) + "_MAX_CHARACTERS"
		envBindings["prepare."+tool+".max_tokens"] = "DOCINSIGHT_PREPARE_" + strings.ToUpper(tool) + "_MAX_TOKENS"
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if DOCINSIGHT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCINSIGHT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.LLM = LLMConfig{
		Provider:     v.GetString("llm.provider"),
		APIKey:       v.GetString("llm.api_key"),
		DefaultModel: v.GetString("llm.default_model"),
		BaseURL:      v.GetString("llm.base_url"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
		Primary:      loadProvider(v, "llm.primary"),
		Secondary:    loadProvider(v, "llm.secondary"),
		Tertiary:     loadProvider(v, "llm.tertiary"),
		VisionModel:  v.GetString("llm.vision_model"),
		ImageModel:   v.GetString("llm.image_model"),
	}

	cfg.Prepare = PrepareConfig{
		Insights:    loadPolicy(v, "prepare.insights"),
		Quality:     loadPolicy(v, "prepare.quality"),
		Categorize:  loadPolicy(v, "prepare.categorize"),
		Stock:       loadPolicy(v, "prepare.stock"),
		Encoding:    v.GetString("prepare.encoding"),
		MaxPDFPages: v.GetInt("prepare.max_pdf_pages"),
		PreviewRows: v.GetInt("prepare.preview_rows"),
	}
	for name, p := range map[string]domain.SizePolicy{
		"insights":   cfg.Prepare.Insights,
		"quality":    cfg.Prepare.Quality,
		"categorize": cfg.Prepare.Categorize,
		"stock":      cfg.Prepare.Stock,
	} {
		if p.MaxCharacters <= 0 {
			return nil, fmt.Errorf("prepare.%s: %w", name, domain.ErrInvalidPolicy)
		}
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxFiles:      v.GetInt("upload.max_files"),
	}
	cfg.Workers = WorkersConfig{Concurrency: v.GetInt("workers.concurrency")}
	cfg.Storage = StorageConfig{Provider: v.GetString("storage.provider")}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

func loadPolicy(v *viper.Viper, prefix string) domain.SizePolicy {
	return domain.SizePolicy{
		MaxCharacters: v.GetInt(prefix + ".max_characters"),
		MaxTokens:     v.GetInt(prefix + ".max_tokens"),
	}
}

// =============================================================================
// Freight Tracker - Configuration Module
// =============================================================================
//
// This module loads the two kinds of configuration the tracker needs:
//
//   1. Application config (config.yaml + .env + FREIGHT_* environment):
//      where the request sheet lives and how to fetch it.
//   2. Column mapping (columns.yaml, embedded default in columns.go):
//      which headers feed which logical fields.
//
// PRECEDENCE (highest first):
//   command-line flag > environment variable > .env file > config.yaml > default
//
// ENVIRONMENT:
//   Keys map to FREIGHT_<SECTION>_<NAME>, e.g. source.path -> FREIGHT_SOURCE_PATH.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig marks configuration that parsed but cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// =============================================================================
// APPLICATION CONFIGURATION STRUCTURE
// =============================================================================

// AppConfig holds the runtime configuration of the CLI and API server.
type AppConfig struct {
	// Source describes where the request sheet is fetched from.
	Source SourceConfig

	// CSV holds parsing settings used when Source.Format is "csv".
	CSV CSVSettings

	// HTTP controls the HTTP source.
	HTTP HTTPSettings

	// Server controls the JSON API.
	Server ServerSettings

	// ColumnsFile overrides the built-in column mapping when set.
	ColumnsFile string

	// Debug lowers the log level to debug.
	Debug bool
}

// SourceConfig names one explicit data source. Nothing is guessed: the kind
// and the format are always configured.
type SourceConfig struct {
	// Kind is one of "file", "http", "s3".
	Kind string

	// Format is one of "csv", "xlsx".
	Format string

	// Path is the local file (kind=file).
	Path string

	// URL is fetched with GET (kind=http).
	URL string

	// Bucket, Key, Region and Endpoint locate the object (kind=s3).
	// Endpoint is optional and targets S3-compatible stores.
	Bucket   string
	Key      string
	Region   string
	Endpoint string

	// Sheet overrides the column mapping's sheet name (xlsx only).
	Sheet string
}

// CSVSettings contains settings for parsing CSV exports.
type CSVSettings struct {
	// Delimiter separates fields. Accepts ",", ";", "|", "tab".
	// Default: ","
	Delimiter string

	// Encoding of the export: "UTF-8", "ISO-8859-1" or "Windows-1252".
	// Default: "UTF-8"
	Encoding string

	// HeaderRows is the number of header lines merged into column names.
	// Default: 1
	HeaderRows int
}

// HTTPSettings controls fetching over HTTP.
type HTTPSettings struct {
	// Timeout applies to each attempt.
	Timeout time.Duration

	// Retries is the number of extra attempts after a failed one.
	Retries int
}

// ServerSettings controls the JSON API.
type ServerSettings struct {
	Addr string
}

// =============================================================================
// LOADING
// =============================================================================

// NewViper returns a viper instance wired for FREIGHT_* environment variables
// with every default set. A .env file in the working directory is loaded
// first when present.
func NewViper() *viper.Viper {
	// Missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FREIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers default values. Registering every key also lets
// AutomaticEnv resolve keys that appear in no config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", "file")
	v.SetDefault("source.format", "xlsx")
	v.SetDefault("source.path", "BASE.xlsx")
	v.SetDefault("source.url", "")
	v.SetDefault("source.bucket", "")
	v.SetDefault("source.key", "")
	v.SetDefault("source.region", "us-east-2")
	v.SetDefault("source.endpoint", "")
	v.SetDefault("source.sheet", "")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.encoding", "UTF-8")
	v.SetDefault("csv.header_rows", 1)
	v.SetDefault("http.timeout", "20s")
	v.SetDefault("http.retries", 1)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("columns.file", "")
	v.SetDefault("debug", false)
}

// Load reads the application configuration.
//
// PARAMETERS:
//   - v: a viper instance from NewViper, possibly with cobra flags bound.
//   - cfgFile: optional YAML config file. A missing file is not an error.
//
// RETURNS:
//   - The validated AppConfig.
//   - An error wrapping ErrInvalidConfig when a value is unusable.
func Load(v *viper.Viper, cfgFile string) (*AppConfig, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		Source: SourceConfig{
			Kind:     strings.ToLower(strings.TrimSpace(v.GetString("source.kind"))),
			Format:   strings.ToLower(strings.TrimSpace(v.GetString("source.format"))),
			Path:     v.GetString("source.path"),
			URL:      v.GetString("source.url"),
			Bucket:   v.GetString("source.bucket"),
			Key:      v.GetString("source.key"),
			Region:   v.GetString("source.region"),
			Endpoint: v.GetString("source.endpoint"),
			Sheet:    v.GetString("source.sheet"),
		},
		CSV: CSVSettings{
			Delimiter:  v.GetString("csv.delimiter"),
			Encoding:   v.GetString("csv.encoding"),
			HeaderRows: v.GetInt("csv.header_rows"),
		},
		HTTP: HTTPSettings{
			Timeout: v.GetDuration("http.timeout"),
			Retries: v.GetInt("http.retries"),
		},
		Server: ServerSettings{
			Addr: v.GetString("server.addr"),
		},
		ColumnsFile: v.GetString("columns.file"),
		Debug:       v.GetBool("debug"),
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// applyDefaults fills values that may have been blanked by the environment.
func applyDefaults(cfg *AppConfig) {
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}
	if cfg.CSV.HeaderRows <= 0 {
		cfg.CSV.HeaderRows = 1
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = 20 * time.Second
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// validate checks that the configured source can actually be built.
func validate(cfg *AppConfig) error {
	switch cfg.Source.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("source.format must be csv or xlsx, got %q", cfg.Source.Format)
	}

	switch cfg.Source.Kind {
	case "file":
		if cfg.Source.Path == "" {
			return fmt.Errorf("source.path is required for file sources")
		}
	case "http":
		if !strings.HasPrefix(cfg.Source.URL, "http://") && !strings.HasPrefix(cfg.Source.URL, "https://") {
			return fmt.Errorf("source.url must be an http(s) URL, got %q", cfg.Source.URL)
		}
	case "s3":
		if cfg.Source.Bucket == "" || cfg.Source.Key == "" {
			return fmt.Errorf("source.bucket and source.key are required for s3 sources")
		}
	default:
		return fmt.Errorf("source.kind must be file, http or s3, got %q", cfg.Source.Kind)
	}

	switch strings.ToUpper(cfg.CSV.Encoding) {
	case "UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252":
	default:
		return fmt.Errorf("csv.encoding %q is not supported", cfg.CSV.Encoding)
	}

	if cfg.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries cannot be negative")
	}

	return nil
}

// Package config provides environment-driven configuration with an
// optional YAML overlay file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the service.
type Config struct {
	AppName string        `yaml:"app_name"`
	Version string        `yaml:"-"`
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Mongo   MongoConfig   `yaml:"mongo"`
	OCR     OCRConfig     `yaml:"ocr"`
	Catalog CatalogConfig `yaml:"catalog"`
	LogsDir string        `yaml:"logs_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	BodyLimit    string `yaml:"body_limit"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
}

// MongoConfig contains MongoDB connection settings.
type MongoConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// URI assembles the connection string from the parts.
func (m MongoConfig) URI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s?authSource=admin",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

// OCRConfig contains extraction pipeline settings.
type OCRConfig struct {
	CredentialsPath        string   `yaml:"credentials_path"`
	LanguageHints          []string `yaml:"language_hints"`
	DownloadTimeoutSeconds int      `yaml:"download_timeout_seconds"`
	PDFMaxPages            int      `yaml:"pdf_max_pages"`
	PDFRenderDPI           float64  `yaml:"pdf_render_dpi"`
	TextLayerMinChars      int      `yaml:"text_layer_min_chars"`
	CacheDir               string   `yaml:"cache_dir"`
	CacheTTLMinutes        int      `yaml:"cache_ttl_minutes"`
	UploadDir              string   `yaml:"upload_dir"`
}

// CatalogConfig contains product catalog settings.
type CatalogConfig struct {
	ProductsFile string `yaml:"products_file"`
}

// Default returns the configuration matching the shipped deployment:
// port 8008, root/root Mongo credentials, credential file under ./config.
func Default() *Config {
	return &Config{
		AppName: "Invoice Agent API",
		Version: "0.1.0",
		Debug:   true,
		Server: ServerConfig{
			Port:         8008,
			BindAddress:  "0.0.0.0",
			BodyLimit:    "32M",
			ReadTimeout:  60,
			WriteTimeout: 120,
			IdleTimeout:  120,
		},
		Mongo: MongoConfig{
			User:     "root",
			Password: "root",
			Host:     "localhost",
			Port:     27017,
			Database: "invoice_db",
		},
		OCR: OCRConfig{
			CredentialsPath:        "./config/vision-credentials.json",
			LanguageHints:          []string{"zh-Hant", "en"},
			DownloadTimeoutSeconds: 15,
			PDFMaxPages:            5,
			PDFRenderDPI:           400,
			TextLayerMinChars:      50,
			CacheDir:               "./data/ocr-cache",
			CacheTTLMinutes:        1440,
			UploadDir:              "./data/uploads",
		},
		Catalog: CatalogConfig{
			ProductsFile: "./products_list.csv",
		},
		LogsDir: "./logs",
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables on top.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.AppName, "APP_NAME")
	setBool(&c.Debug, "DEBUG")
	setInt(&c.Server.Port, "PORT")
	setString(&c.Server.BindAddress, "BIND_ADDRESS")
	setString(&c.Mongo.User, "MONGO_USER")
	setString(&c.Mongo.Password, "MONGO_PASSWORD")
	setString(&c.Mongo.Host, "MONGO_HOST")
	setInt(&c.Mongo.Port, "MONGO_PORT")
	setString(&c.Mongo.Database, "MONGO_DB")
	setString(&c.OCR.CredentialsPath, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.OCR.CacheDir, "OCR_CACHE_DIR")
	setString(&c.OCR.UploadDir, "OCR_UPLOAD_DIR")
	setString(&c.Catalog.ProductsFile, "PRODUCTS_FILE")
	setString(&c.LogsDir, "LOGS_DIR")
}

// Validate checks settings the server cannot run without. A missing
// Vision credential file is fatal here so startup fails fast instead of
// every OCR call failing later.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := os.Stat(c.OCR.CredentialsPath); err != nil {
		return fmt.Errorf("vision credential file %q not accessible: %w "+
			"(check the ./config volume mount and GOOGLE_APPLICATION_CREDENTIALS)",
			c.OCR.CredentialsPath, err)
	}
	return nil
}

// EnsureDirectories creates the writable directories the service needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.LogsDir, c.OCR.CacheDir, c.OCR.UploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// ServerAddr returns the host:port the server binds to.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		switch strings.ToLower(v) {
		case "1", "t", "true":
			*dst = true
		case "0", "f", "false":
			*dst = false
		}
	}
}

package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Input       InputConfig
	Acquisition AcquisitionConfig
	Parsing     ParsingConfig
	Output      OutputConfig
	Ledger      LedgerConfig
	Runtime     RuntimeConfig
}

// InputConfig holds input directory configuration
type InputConfig struct {
	Dir           string
	SkipProcessed bool
	WatchDebounce time.Duration
}

// AcquisitionConfig holds text backend configuration
type AcquisitionConfig struct {
	Pdftotext        string
	Pdftoppm         string
	Tesseract        string
	OCREnabled       bool
	OCRLang          string
	OCRDPI           int
	OCRPSM           int
	OCROEM           int
	OCRMaxPages      int
	TessdataDir      string
	EmbeddedMaxPages int
	Timeout          time.Duration
}

// ParsingConfig holds candidate parsing and scoring configuration
type ParsingConfig struct {
	NarrowWindow    int
	WideWindow      int
	MinScore        int
	BrandMarker     string
	HeaderScanLines int
	LabelsFile      string
}

// OutputConfig holds output table configuration
type OutputConfig struct {
	CSVPath     string
	XLSXPath    string
	Diagnostics bool
}

// LedgerConfig holds run ledger configuration. A postgres:// DSN selects
// pgx, anything else is a SQLite path.
type LedgerConfig struct {
	Enabled         bool
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// RuntimeConfig holds process-wide settings
type RuntimeConfig struct {
	Workers         int
	DocumentTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file first when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Input: InputConfig{
			Dir:           getEnv("INPUT_DIR", "."),
			SkipProcessed: getEnvAsBool("SKIP_PROCESSED", false),
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
		Acquisition: AcquisitionConfig{
			Pdftotext:        getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:         getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			OCREnabled:       getEnvAsBool("OCR_ENABLED", true),
			OCRLang:          getEnv("OCR_LANG", "fra+eng"),
			OCRDPI:           getEnvAsInt("OCR_DPI", 450),
			OCRPSM:           getEnvAsInt("OCR_PSM", 6),
			OCROEM:           getEnvAsInt("OCR_OEM", 1),
			OCRMaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			EmbeddedMaxPages: getEnvAsInt("EMBEDDED_MAX_PAGES", 0),
			Timeout:          getEnvAsDuration("BACKEND_TIMEOUT", 2*time.Minute),
		},
		Parsing: ParsingConfig{
			NarrowWindow:    getEnvAsInt("NARROW_WINDOW", 400),
			WideWindow:      getEnvAsInt("WIDE_WINDOW", 800),
			MinScore:        getEnvAsInt("MIN_SCORE", 6),
			BrandMarker:     getEnv("BRAND_MARKER", "TOUCH"),
			HeaderScanLines: getEnvAsInt("HEADER_SCAN_LINES", 150),
			LabelsFile:      getEnv("LABELS_FILE", ""),
		},
		Output: OutputConfig{
			CSVPath:     getEnv("OUTPUT_CSV", "extraction.csv"),
			XLSXPath:    getEnv("OUTPUT_XLSX", ""),
			Diagnostics: getEnvAsBool("DIAGNOSTICS", true),
		},
		Ledger: LedgerConfig{
			Enabled:         getEnvAsBool("LEDGER_ENABLED", true),
			DSN:             getEnv("LEDGER_DSN", "file:ledger.db"),
			MaxConns:        getEnvAsInt32("LEDGER_MAX_CONNS", 4),
			MinConns:        getEnvAsInt32("LEDGER_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("LEDGER_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("LEDGER_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("LEDGER_DIAL_TIMEOUT", 3*time.Second),
		},
		Runtime: RuntimeConfig{
			Workers:         getEnvAsInt("WORKERS", 1),
			DocumentTimeout: getEnvAsDuration("DOCUMENT_TIMEOUT", 10*time.Minute),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			LogFormat:       getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("INPUT_DIR", c.Input.Dir, Required).
		Field("OUTPUT_CSV", c.Output.CSVPath, Required).
		Field("OCR_DPI", c.Acquisition.OCRDPI, MinInt(72)).
		Field("OCR_LANG", c.Acquisition.OCRLang, Required).
		Field("NARROW_WINDOW", c.Parsing.NarrowWindow, MinInt(1)).
		Field("WIDE_WINDOW", c.Parsing.WideWindow, MinInt(c.Parsing.NarrowWindow)).
		Field("MIN_SCORE", c.Parsing.MinScore, MinInt(0)).
		Field("HEADER_SCAN_LINES", c.Parsing.HeaderScanLines, MinInt(1)).
		Field("WORKERS", c.Runtime.Workers, MinInt(1)).
		Field("LOG_LEVEL", c.Runtime.LogLevel, OneOf("debug", "info", "warn", "error")).
		Field("LOG_FORMAT", c.Runtime.LogFormat, OneOf("text", "json"))
	if c.Ledger.Enabled {
		v.Field("LEDGER_DSN", c.Ledger.DSN, Required)
	}
	if c.Acquisition.Timeout <= 0 {
		return NewAppError(CodeConfig, "BACKEND_TIMEOUT must be positive", ErrInvalidInput)
	}
	return ValidateAndReturnError(v)
}

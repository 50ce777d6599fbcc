// Package config loads the program configuration from defaults, environment
// variables and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"charsync/internal/layout"
	"charsync/internal/pdf"
)

const (
	// Defaults matching the spreadsheet template this tool was built for
	DefaultSheetName   = "Scratch 5E Character Sheet 2024"
	DefaultPDFPath     = "character_export.pdf"
	DefaultTemplate    = "5e-2024"
	DefaultCredentials = "google-credentials.json"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for one conversion run
type Config struct {
	// Source and destination
	PDFPath   string
	SheetName string

	// Extraction and layout
	ExtractMode     pdf.Mode
	TemplateVersion string

	// Writer configuration
	CredentialsFile string
	WorkbookPath    string // non-empty switches to the local .xlsx writer

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PDFPath:         DefaultPDFPath,
		SheetName:       DefaultSheetName,
		ExtractMode:     pdf.ModeAuto,
		TemplateVersion: DefaultTemplate,
		CredentialsFile: DefaultCredentials,
		Version:         "1.0.0",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
// Positional arguments are accepted in the original invocation order:
// first the spreadsheet name, then the PDF path.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	args := pflag.Args()
	if len(args) > 0 {
		cfg.SheetName = args[0]
	}
	if len(args) > 1 {
		cfg.PDFPath = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CHARSYNC")
	viper.AutomaticEnv()

	viper.SetDefault("pdf", cfg.PDFPath)
	viper.SetDefault("sheet", cfg.SheetName)
	viper.SetDefault("extractor", string(cfg.ExtractMode))
	viper.SetDefault("template", cfg.TemplateVersion)
	viper.SetDefault("credentials", cfg.CredentialsFile)
	viper.SetDefault("xlsx", cfg.WorkbookPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("pdf", cfg.PDFPath, "Path to the exported character-sheet PDF")
	pflag.String("sheet", cfg.SheetName, "Name of the destination Google Spreadsheet")
	pflag.String("extractor", string(cfg.ExtractMode), "Extraction strategy: auto, form, text")
	pflag.String("template", cfg.TemplateVersion, "Spreadsheet template version")
	pflag.String("credentials", cfg.CredentialsFile, "Path to the service-account credential file")
	pflag.String("xlsx", cfg.WorkbookPath, "Write into a local .xlsx workbook instead of Google Sheets")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("pdf", pflag.Lookup("pdf"))
	_ = viper.BindPFlag("sheet", pflag.Lookup("sheet"))
	_ = viper.BindPFlag("extractor", pflag.Lookup("extractor"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("credentials", pflag.Lookup("credentials"))
	_ = viper.BindPFlag("xlsx", pflag.Lookup("xlsx"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ncharsync - copy a character-sheet PDF export into a spreadsheet template\n\n")
		fmt.Fprintf(os.Stderr, "  %s [OPTIONS] [SHEET_NAME] [PDF_PATH]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          # defaults: %q, %q\n",
			os.Args[0], DefaultSheetName, DefaultPDFPath)
		fmt.Fprintf(os.Stderr, "  %s \"My Sheet\" export.pdf                    # positional arguments\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --pdf=export.pdf --xlsx=local-copy.xlsx  # offline, local workbook\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CHARSYNC_PDF          Source PDF path\n")
		fmt.Fprintf(os.Stderr, "  CHARSYNC_SHEET        Destination spreadsheet name\n")
		fmt.Fprintf(os.Stderr, "  CHARSYNC_CREDENTIALS  Credential file path\n")
		fmt.Fprintf(os.Stderr, "  CHARSYNC_TEMPLATE     Template version\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.PDFPath = viper.GetString("pdf")
	cfg.SheetName = viper.GetString("sheet")
	cfg.ExtractMode = pdf.Mode(viper.GetString("extractor"))
	cfg.TemplateVersion = viper.GetString("template")
	cfg.CredentialsFile = viper.GetString("credentials")
	cfg.WorkbookPath = viper.GetString("xlsx")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.PDFPath == "" {
		return errors.New("PDF path cannot be empty")
	}

	if c.SheetName == "" && c.WorkbookPath == "" {
		return errors.New("destination spreadsheet name cannot be empty")
	}

	validMode := false
	for _, mode := range pdf.ValidModes() {
		if c.ExtractMode == mode {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("extractor must be one of auto, form, text; got %q", c.ExtractMode)
	}

	if _, ok := layout.ForVersion(c.TemplateVersion); !ok {
		return fmt.Errorf("unknown template version %q (supported: %v)", c.TemplateVersion, layout.Versions())
	}

	if c.WorkbookPath == "" && c.CredentialsFile == "" {
		return errors.New("credential file path cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maxFileSize must be greater than 0")
	}

	return nil
}

// IsDebug reports whether debug logging was requested
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultWorkers      = 4
	DefaultTimeout      = 60 * time.Second
	DefaultKIEThreshold = 0.8

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form structuring server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory string
	MaxFileSize       int64 // Maximum input file size in bytes

	// Pipeline configuration
	Workers      int
	FailFast     bool
	Timeout      time.Duration
	KIEThreshold float64
	KIERulesPath string
	Template     string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio, // Default to stdio mode for MCP compatibility
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		Workers:           DefaultWorkers,
		FailFast:          false,
		Timeout:           DefaultTimeout,
		KIEThreshold:      DefaultKIEThreshold,
		KIERulesPath:      "",
		Template:          "",
		Version:           "1.0.0",
		ServerName:        "formlens",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}
	if cfg.KIERulesPath != "" {
		if expandedPath, err := filepath.Abs(cfg.KIERulesPath); err == nil {
			cfg.KIERulesPath = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("FORMLENS")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("failfast", cfg.FailFast)
	viper.SetDefault("timeout", cfg.Timeout)
	viper.SetDefault("kiethreshold", cfg.KIEThreshold)
	viper.SetDefault("kierules", cfg.KIERulesPath)
	viper.SetDefault("template", cfg.Template)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing input documents")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input file size in bytes")
	pflag.Int("workers", cfg.Workers, "Maximum number of pages processed concurrently")
	pflag.Bool("failfast", cfg.FailFast, "Abort the whole document when any page fails")
	pflag.Duration("timeout", cfg.Timeout, "Per-document processing deadline (0 disables)")
	pflag.Float64("kiethreshold", cfg.KIEThreshold, "Fuzzy label-matching threshold for field extraction (0..1)")
	pflag.String("kierules", cfg.KIERulesPath, "Path to a JSON file with additional field extraction rules")
	pflag.String("template", cfg.Template, "Default prompt template: claude, gpt, gemini, or empty for none")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("failfast", pflag.Lookup("failfast"))
	_ = viper.BindPFlag("timeout", pflag.Lookup("timeout"))
	_ = viper.BindPFlag("kiethreshold", pflag.Lookup("kiethreshold"))
	_ = viper.BindPFlag("kierules", pflag.Lookup("kierules"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFormLens - A Model Context Protocol server for form document structuring\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/documents                "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/documents  # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --template=claude --kierules=rules.json # custom extraction setup\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_DIR           Document directory\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_MAXFILESIZE   Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_WORKERS       Concurrent page workers\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_FAILFAST      Abort on page failure\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_TIMEOUT       Per-document deadline\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_KIETHRESHOLD  Fuzzy matching threshold\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_KIERULES      Extraction rules file\n")
		fmt.Fprintf(os.Stderr, "  FORMLENS_TEMPLATE      Default prompt template\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Workers = viper.GetInt("workers")
	cfg.FailFast = viper.GetBool("failfast")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.KIEThreshold = viper.GetFloat64("kiethreshold")
	cfg.KIERulesPath = viper.GetString("kierules")
	cfg.Template = viper.GetString("template")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate document directory
	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Check if document directory exists, create if it doesn't
	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}

	if c.KIEThreshold < 0 || c.KIEThreshold > 1 {
		return errors.New("kiethreshold must be between 0 and 1")
	}

	// Validate prompt template
	validTemplates := map[string]bool{
		"":       true,
		"claude": true,
		"gpt":    true,
		"gemini": true,
	}
	if !validTemplates[c.Template] {
		return fmt.Errorf("invalid template: %s (must be one of: claude, gpt, gemini, or empty)", c.Template)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, Workers: %d, FailFast: %t, Timeout: %s, KIEThreshold: %.2f, Template: %q}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.LogLevel,
		c.MaxFileSize, c.Workers, c.FailFast, c.Timeout, c.KIEThreshold, c.Template)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

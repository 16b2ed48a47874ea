package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/filler"
	"github.com/vredrick/cofa-passport/internal/pdf/template"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"
	ModeFill   = "fill"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxTemplateSize = template.DefaultMaxSize
	DefaultFinalize        = "lock"
	DefaultTemplateCache   = 4

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "PASSPORT"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the passport filler
type Config struct {
	// Server configuration
	Mode string // "stdio", "server" or "fill"
	Host string
	Port int

	// Template configuration. Template is a file path or an http(s) origin;
	// for an origin the asset is requested under BasePath.
	Template        string
	BasePath        string
	MaxTemplateSize int64
	Finalize        string

	// Output configuration
	OutputDirectory string
	// Record is the JSON or YAML application read in fill mode.
	Record string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	// Trace writes finished trace spans to stderr.
	Trace bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio,
		Host:            DefaultHost,
		Port:            DefaultPort,
		Template:        filepath.Join(currentDir, fieldmap.FSMTemplateName),
		MaxTemplateSize: DefaultMaxTemplateSize,
		Finalize:        DefaultFinalize,
		OutputDirectory: currentDir,
		Version:         "1.0.0",
		ServerName:      "cofa-passport",
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.OutputDirectory != "" {
		if expanded, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expanded
		}
	}
	if cfg.Template != "" && !cfg.IsRemoteTemplate() {
		if expanded, err := filepath.Abs(cfg.Template); err == nil {
			cfg.Template = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("template", cfg.Template)
	viper.SetDefault("basepath", cfg.BasePath)
	viper.SetDefault("maxtemplatesize", cfg.MaxTemplateSize)
	viper.SetDefault("finalize", cfg.Finalize)
	viper.SetDefault("outdir", cfg.OutputDirectory)
	viper.SetDefault("record", cfg.Record)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("trace", cfg.Trace)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE, 'fill' for a single record")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("template", cfg.Template, "Template PDF: a file path or an http(s) origin serving the template")
	pflag.String("basepath", cfg.BasePath, "Path prefix under the template origin (sub-path hosting)")
	pflag.Int64("maxtemplatesize", cfg.MaxTemplateSize, "Maximum template size in bytes")
	pflag.String("finalize", cfg.Finalize, "How the form layer is disabled: 'lock' or 'strip'")
	pflag.String("outdir", cfg.OutputDirectory, "Directory filled documents are written to")
	pflag.String("record", cfg.Record, "Application record (JSON or YAML) to fill (fill mode only)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Bool("trace", cfg.Trace, "Write trace spans to stderr")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "template", "basepath", "maxtemplatesize",
		"finalize", "outdir", "record", "loglevel", "trace",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCOFA Passport - fills the FSM passport application from a structured record\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --template=./%s                 # stdio MCP server\n",
			os.Args[0], fieldmap.FSMTemplateName)
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081              # SSE server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=fill --record=app.json --outdir=out\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --template=https://example.org --basepath=/cofa-passport\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_MODE            Run mode\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_HOST            Server host\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_PORT            Server port\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_TEMPLATE        Template path or origin\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_BASEPATH        Template path prefix\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_MAXTEMPLATESIZE Maximum template size\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_FINALIZE        lock or strip\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_OUTDIR          Output directory\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_RECORD          Record file (fill mode)\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_LOGLEVEL        Log level\n")
		fmt.Fprintf(os.Stderr, "  PASSPORT_TRACE           Write trace spans to stderr\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Template = viper.GetString("template")
	cfg.BasePath = viper.GetString("basepath")
	cfg.MaxTemplateSize = viper.GetInt64("maxtemplatesize")
	cfg.Finalize = viper.GetString("finalize")
	cfg.OutputDirectory = viper.GetString("outdir")
	cfg.Record = viper.GetString("record")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.Trace = viper.GetBool("trace")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeStdio, ModeServer, ModeFill:
	default:
		return errors.New("mode must be one of 'stdio', 'server' or 'fill'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if strings.TrimSpace(c.Template) == "" {
		return errors.New("template cannot be empty")
	}

	if c.Mode == ModeFill && strings.TrimSpace(c.Record) == "" {
		return errors.New("fill mode requires a record")
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	if c.MaxTemplateSize <= 0 {
		return errors.New("maximum template size must be positive")
	}

	if _, err := filler.ParseFinalize(c.Finalize); err != nil {
		return err
	}

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

// IsRemoteTemplate reports whether the template is fetched over HTTP.
func (c *Config) IsRemoteTemplate() bool {
	t := strings.ToLower(c.Template)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}

// TemplateSource builds the template source the configuration describes.
// The source is cached so repeated fills read the template once.
func (c *Config) TemplateSource() template.Source {
	var src template.Source
	if c.IsRemoteTemplate() {
		h := template.NewHTTPSource(c.Template, c.BasePath, fieldmap.FSMTemplateName)
		h.MaxSize = c.MaxTemplateSize
		src = h
	} else {
		f := template.NewFileSource(c.Template)
		f.MaxSize = c.MaxTemplateSize
		src = f
	}
	return template.NewCachedSource(src, template.NewLRU(DefaultTemplateCache))
}

// FinalizeStrategy returns the parsed finalize setting, defaulting to lock.
func (c *Config) FinalizeStrategy() filler.Finalize {
	s, err := filler.ParseFinalize(c.Finalize)
	if err != nil {
		return filler.Lock
	}
	return s
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Template: %s, BasePath: %s, OutputDirectory: %s, Finalize: %s, LogLevel: %s, MaxTemplateSize: %d}",
		c.Mode, c.Host, c.Port, c.Template, c.BasePath, c.OutputDirectory, c.Finalize, c.LogLevel, c.MaxTemplateSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsFillMode returns true for a one-shot fill of a record file
func (c *Config) IsFillMode() bool {
	return c.Mode == ModeFill
}

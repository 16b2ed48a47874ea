package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/filler"
	"github.com/vredrick/cofa-passport/internal/pdf/template"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Mode:            ModeStdio,
		Host:            "127.0.0.1",
		Port:            8080,
		Template:        "/tmp/template.pdf",
		MaxTemplateSize: 1024,
		Finalize:        "lock",
		OutputDirectory: t.TempDir(),
		LogLevel:        "info",
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "cofa-passport" {
		t.Errorf("Expected default server name to be 'cofa-passport', got '%s'", cfg.ServerName)
	}
	if cfg.Finalize != "lock" {
		t.Errorf("Expected default finalize to be 'lock', got '%s'", cfg.Finalize)
	}
	if cfg.MaxTemplateSize != template.DefaultMaxSize {
		t.Errorf("Expected default max template size %d, got %d", template.DefaultMaxSize, cfg.MaxTemplateSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.OutputDirectory != currentDir {
		t.Errorf("Expected default output directory to be '%s', got '%s'", currentDir, cfg.OutputDirectory)
	}
	if filepath.Base(cfg.Template) != fieldmap.FSMTemplateName {
		t.Errorf("Expected default template to be %s, got '%s'", fieldmap.FSMTemplateName, cfg.Template)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid stdio", mutate: func(c *Config) {}},
		{name: "valid server", mutate: func(c *Config) { c.Mode = ModeServer }},
		{name: "valid fill", mutate: func(c *Config) { c.Mode = ModeFill; c.Record = "app.json" }},
		{name: "invalid mode", mutate: func(c *Config) { c.Mode = "batch" }, wantErr: "mode must be"},
		{name: "server port zero", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, wantErr: "port"},
		{name: "server port too high", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, wantErr: "port"},
		{name: "stdio ignores port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "empty template", mutate: func(c *Config) { c.Template = " " }, wantErr: "template"},
		{name: "fill without record", mutate: func(c *Config) { c.Mode = ModeFill }, wantErr: "record"},
		{name: "empty output directory", mutate: func(c *Config) { c.OutputDirectory = "" }, wantErr: "output directory"},
		{name: "zero template size", mutate: func(c *Config) { c.MaxTemplateSize = 0 }, wantErr: "template size"},
		{name: "unknown finalize", mutate: func(c *Config) { c.Finalize = "flatten" }, wantErr: "finalize"},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_CreatesOutputDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.OutputDirectory = filepath.Join(t.TempDir(), "nested", "out")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if info, err := os.Stat(cfg.OutputDirectory); err != nil || !info.IsDir() {
		t.Errorf("Expected output directory to be created, stat error: %v", err)
	}
}

func TestConfig_TemplateSource(t *testing.T) {
	cfg := validConfig(t)
	cfg.Template = "https://example.org"
	cfg.BasePath = "/cofa-passport"

	if !cfg.IsRemoteTemplate() {
		t.Fatal("Expected https template to be remote")
	}
	want := "https://example.org/cofa-passport/" + fieldmap.FSMTemplateName
	if got := cfg.TemplateSource().Name(); got != want {
		t.Errorf("TemplateSource().Name() = %s, want %s", got, want)
	}

	cfg.Template = "/srv/template.pdf"
	if cfg.IsRemoteTemplate() {
		t.Error("Expected file template not to be remote")
	}
	if got := cfg.TemplateSource().Name(); got != "/srv/template.pdf" {
		t.Errorf("TemplateSource().Name() = %s, want /srv/template.pdf", got)
	}
}

func TestConfig_FinalizeStrategy(t *testing.T) {
	cfg := validConfig(t)
	if cfg.FinalizeStrategy() != filler.Lock {
		t.Error("Expected lock strategy")
	}
	cfg.Finalize = "strip"
	if cfg.FinalizeStrategy() != filler.Strip {
		t.Error("Expected strip strategy")
	}
	cfg.Finalize = "bogus"
	if cfg.FinalizeStrategy() != filler.Lock {
		t.Error("Expected invalid strategy to fall back to lock")
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := validConfig(t)
	cfg.Host = "0.0.0.0"
	cfg.Port = 9090

	if cfg.Address() != "0.0.0.0:9090" {
		t.Errorf("Address() = %s", cfg.Address())
	}
	if !cfg.IsStdioMode() || cfg.IsServerMode() || cfg.IsFillMode() {
		t.Error("Expected stdio mode only")
	}
	cfg.Mode = ModeFill
	if !cfg.IsFillMode() {
		t.Error("Expected fill mode")
	}
	if cfg.IsDebug() {
		t.Error("Expected info level not to be debug")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected debug level")
	}
	if !strings.Contains(cfg.String(), "Finalize: lock") {
		t.Errorf("String() = %s", cfg.String())
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/config"
	"github.com/vredrick/cofa-passport/internal/filename"
	"github.com/vredrick/cofa-passport/internal/mcp"
	"github.com/vredrick/cofa-passport/internal/metrics"
	"github.com/vredrick/cofa-passport/internal/pdf/filler"
	"github.com/vredrick/cofa-passport/internal/pdf/security"
	"github.com/vredrick/cofa-passport/internal/validation"
	"github.com/vredrick/cofa-passport/internal/wizard"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// errInvalidRecord is returned by runFill when the record does not validate.
var errInvalidRecord = errors.New("record has validation errors")

// newLogger builds the process logger. Output always goes to w (stderr in
// main) so stdout stays free for the MCP protocol. In stdio mode only
// warnings and errors are logged unless debug is enabled.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsServerMode() {
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runFill walks the record named in the configuration through the wizard
// steps, generates the document and writes it into the output directory.
// The saved path is printed to out; on a rejected step its problems are.
func runFill(ctx context.Context, cfg *config.Config, f *filler.Filler, clock filename.Clock, logger *slog.Logger, m *metrics.Metrics, out io.Writer) error {
	file, err := os.Open(cfg.Record)
	if err != nil {
		return fmt.Errorf("failed to open record: %w", err)
	}
	defer file.Close()

	rec, err := application.Decode(file, application.FormatFromPath(cfg.Record))
	if err != nil {
		return err
	}

	session := wizard.NewSession(f, filename.NewDeriver(clock),
		wizard.WithLogger(logger), wizard.WithMetrics(m))
	session.Update(func(r *application.Record) { *r = rec })

	for session.Step() != wizard.StepReview {
		if err := session.Submit(); err != nil {
			printErrors(out, session.Step(), session.Errors())
			return fmt.Errorf("%w: %v", errInvalidRecord, err)
		}
	}

	art, err := session.Generate(ctx)
	if errors.Is(err, wizard.ErrStepInvalid) {
		printErrors(out, wizard.StepReview, session.Errors())
		return fmt.Errorf("%w: %v", errInvalidRecord, err)
	}
	if err != nil {
		return err
	}
	defer art.Release()

	output, err := security.NewPathValidator(cfg.OutputDirectory)
	if err != nil {
		return err
	}
	path, err := output.WriteFile(art.Filename, art.Bytes)
	if err != nil {
		return err
	}

	logger.Info("document saved", "session", session.ID(), "path", path, "bytes", len(art.Bytes))
	fmt.Fprintln(out, path)
	return nil
}

func printErrors(w io.Writer, step wizard.Step, errs validation.Errors) {
	fmt.Fprintf(w, "%s: %d problem(s)\n", step, len(errs))
	for _, k := range errs.Keys() {
		fmt.Fprintf(w, "  %s: %s\n", k, errs[k])
	}
}

// newTracerProvider installs the global tracer provider. With cfg.Trace set,
// finished spans are written to w.
func newTracerProvider(cfg *config.Config, w io.Writer) (*sdktrace.TracerProvider, error) {
	var opts []sdktrace.TracerProviderOption
	if cfg.Trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *slog.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.Error("server shutdown with error", "error", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, logger *slog.Logger) {
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("starting", "config", cfg.String())

	tp, err := newTracerProvider(cfg, os.Stderr)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	m := metrics.New(nil)
	f := filler.New(cfg.TemplateSource(),
		filler.WithFinalize(cfg.FinalizeStrategy()),
		filler.WithLogger(logger),
		filler.WithMetrics(m),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsFillMode() {
		if err := runFill(ctx, cfg, f, filename.SystemClock{}, logger, m, os.Stdout); err != nil {
			logger.Error("fill failed", "error", err)
			_ = tp.Shutdown(context.Background())
			os.Exit(1)
		}
		return
	}

	server, err := mcp.NewServer(cfg, f, mcp.WithLogger(logger), mcp.WithMetrics(m, nil))
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server, logger)
	} else {
		runStdioMode(ctx, server, logger)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "COFA Passport Filler\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/config"
	"github.com/vredrick/cofa-passport/internal/descriptions"
	"github.com/vredrick/cofa-passport/internal/filename"
	"github.com/vredrick/cofa-passport/internal/metrics"
	"github.com/vredrick/cofa-passport/internal/pdf/filler"
	"github.com/vredrick/cofa-passport/internal/pdf/inspect"
	"github.com/vredrick/cofa-passport/internal/pdf/security"
	"github.com/vredrick/cofa-passport/internal/validation"
	"github.com/vredrick/cofa-passport/internal/wizard"
)

// maxInspectSize bounds documents read back by passport_inspect.
const maxInspectSize = 50 * 1024 * 1024

const shutdownTimeout = 10 * time.Second

// sections maps the validate tool's section argument to the step that owns it.
var sections = map[string]wizard.Step{
	"passportType": wizard.StepType,
	"applicant":    wizard.StepApplicant,
	"father":       wizard.StepFather,
	"mother":       wizard.StepMother,
	"record":       wizard.StepReview,
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	filler    *filler.Filler
	deriver   *filename.Deriver
	output    *security.PathValidator
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	mcpServer *server.MCPServer
	tools     []string
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records validation failures on m and serves g on /metrics in
// server mode. A nil g keeps the default gatherer.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithClock replaces the clock used to date output filenames.
func WithClock(c filename.Clock) Option {
	return func(s *Server) { s.deriver = filename.NewDeriver(c) }
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, f *filler.Filler, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if f == nil {
		return nil, fmt.Errorf("filler cannot be nil")
	}

	output, err := security.NewPathValidator(cfg.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid output directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		filler:    f,
		deriver:   filename.NewDeriver(nil),
		output:    output,
		gatherer:  prometheus.DefaultGatherer,
		logger:    slog.Default(),
		mcpServer: mcpServer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	return s, nil
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

// Tools returns the registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	recordArg := mcp.WithString("record",
		mcp.Required(),
		mcp.Description("The application record as a JSON (or YAML) document"),
	)
	formatArg := mcp.WithString("format",
		mcp.Description("Record format: json (default) or yaml"),
		mcp.Enum(string(application.FormatJSON), string(application.FormatYAML)),
	)

	s.addTool(mcp.NewTool(
		"passport_validate",
		mcp.WithDescription(descriptions.GetToolDescription("passport_validate")),
		mcp.WithString("section",
			mcp.Description("Section to validate; defaults to record"),
			mcp.Enum("passportType", "applicant", "father", "mother", "record"),
		),
		recordArg,
		formatArg,
	), s.handleValidate)

	s.addTool(mcp.NewTool(
		"passport_fill",
		mcp.WithDescription(descriptions.GetToolDescription("passport_fill")),
		recordArg,
		formatArg,
	), s.handleFill)

	s.addTool(mcp.NewTool(
		"passport_filename",
		mcp.WithDescription(descriptions.GetToolDescription("passport_filename")),
		recordArg,
		formatArg,
	), s.handleFilename)

	s.addTool(mcp.NewTool(
		"passport_inspect",
		mcp.WithDescription(descriptions.GetToolDescription("passport_inspect")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("File name of a document in the output directory"),
		),
		mcp.WithBoolean("text",
			mcp.Description("Also extract the page text"),
		),
	), s.handleInspect)

	s.addTool(mcp.NewTool(
		"passport_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("passport_server_info")),
	), s.handleServerInfo)
}

func decodeRecord(request mcp.CallToolRequest) (application.Record, error) {
	raw, err := request.RequireString("record")
	if err != nil {
		return application.Record{}, err
	}
	format := application.Format(strings.ToLower(request.GetString("format", string(application.FormatJSON))))
	return application.Decode(strings.NewReader(raw), format)
}

func formatErrors(errs validation.Errors) string {
	var b strings.Builder
	for _, k := range errs.Keys() {
		fmt.Fprintf(&b, "  • %s: %s\n", k, errs[k])
	}
	return b.String()
}

// Handler functions
func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := request.GetString("section", "record")
	step, ok := sections[section]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", section)), nil
	}
	rec, err := decodeRecord(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	errs := wizard.Validate(step, rec)
	if !errs.Has() {
		return mcp.NewToolResultText(fmt.Sprintf("✅ %s: no problems found", section)), nil
	}
	s.metrics.IncrementValidationFailure(step.Section())

	text := fmt.Sprintf("❌ %s: %d problem(s)\n", section, len(errs))
	text += formatErrors(errs)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := decodeRecord(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if errs := validation.Record(rec); errs.Has() {
		s.metrics.IncrementValidationFailure(wizard.StepReview.Section())
		return mcp.NewToolResultError(
			fmt.Sprintf("Record is not complete, %d problem(s):\n%s", len(errs), formatErrors(errs))), nil
	}

	res, err := s.filler.FillWithReport(ctx, rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Generation failed, please retry: %v", err)), nil
	}

	name := s.deriver.Filename(rec)
	path, err := s.output.WriteFile(name, res.PDF)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save %s: %v", name, err)), nil
	}
	s.logger.Info("document saved", "path", path, "bytes", len(res.PDF))

	text := fmt.Sprintf("Saved %s\n", path)
	text += fmt.Sprintf("Filename: %s\n", name)
	text += fmt.Sprintf("Size: %d bytes\n", len(res.PDF))
	text += fmt.Sprintf("Form layer: %s\n", s.config.FinalizeStrategy())
	if _, warnings := res.Warnings.Count(); warnings > 0 {
		text += fmt.Sprintf("\n⚠️  %d field(s) could not be filled:\n", warnings)
		for _, w := range res.Warnings.Warnings {
			text += fmt.Sprintf("  • %s\n", w.Error())
		}
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFilename(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := decodeRecord(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.deriver.Filename(rec)), nil
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.output.ReadFile(name, maxInspectSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := inspect.Inspect(data, request.GetBool("text", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read %s: %v", name, err)), nil
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg := s.filler.Registry()

	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📄 Template: %s\n", s.config.TemplateSource().Name())
	text += fmt.Sprintf("🗺️  Field registry: %s (%d fields, page %d)\n", reg.Name(), len(reg.Entries()), reg.Page())
	text += fmt.Sprintf("📁 Output Directory: %s\n", s.output.Directory())
	text += fmt.Sprintf("🔒 Finalize: %s\n", s.config.FinalizeStrategy())
	text += fmt.Sprintf("📏 Max Template Size: %d MB\n\n", s.config.MaxTemplateSize/(1024*1024))

	text += "🛠️  Available Tools:\n"
	for _, name := range s.tools {
		desc := descriptions.GetToolDescription(name)
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		text += fmt.Sprintf("• %s: %s\n", name, desc)
	}
	return mcp.NewToolResultText(text), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "outdir", s.output.Directory())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// Handler returns the HTTP surface of server mode: the SSE transport, a
// health check and the metrics endpoint.
func (s *Server) Handler(sse *server.SSEServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// runServerMode serves the SSE transport over HTTP until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(sse),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server", "addr", addr, "sse", "/sse", "metrics", "/metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("SSE shutdown failed", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

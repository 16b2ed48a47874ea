// Package filler renders an application record onto the blank form template
// and returns a finalized, non-interactive PDF.
//
// Values are drawn as static page content. Text goes to the coordinates the
// registry records; checkmarks are stroked inside the widget rectangle of the
// named checkbox. The form layer is then locked or stripped.
package filler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/metrics"
	pdferrors "github.com/vredrick/cofa-passport/internal/pdf/errors"
	"github.com/vredrick/cofa-passport/internal/pdf/form"
	"github.com/vredrick/cofa-passport/internal/pdf/template"
)

const tracerName = "github.com/vredrick/cofa-passport/internal/pdf/filler"

// Filler fills records against one template. It holds no per-fill state and
// may be used concurrently.
type Filler struct {
	source   template.Source
	registry *fieldmap.Registry
	finalize Finalize
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Filler.
type Option func(*Filler)

// WithRegistry replaces the default FSM registry.
func WithRegistry(r *fieldmap.Registry) Option {
	return func(f *Filler) { f.registry = r }
}

// WithFinalize selects how the form layer is disabled.
func WithFinalize(s Finalize) Option {
	return func(f *Filler) { f.finalize = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Filler) { f.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Filler) { f.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(f *Filler) { f.tracer = t }
}

// New creates a Filler reading its template from src.
func New(src template.Source, opts ...Option) *Filler {
	f := &Filler{
		source:   src,
		registry: fieldmap.FSM(),
		finalize: Lock,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the registry the filler draws with.
func (f *Filler) Registry() *fieldmap.Registry { return f.registry }

// Result is a filled document and the field problems met on the way.
type Result struct {
	PDF      []byte
	Warnings *pdferrors.ErrorCollection
}

// Fill renders rec and returns the finalized document bytes. Template load
// failures are returned as errors; per-field problems are logged and skipped.
func (f *Filler) Fill(ctx context.Context, rec application.Record) ([]byte, error) {
	res, err := f.FillWithReport(ctx, rec)
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// FillWithReport is Fill that also returns the per-field warnings.
func (f *Filler) FillWithReport(ctx context.Context, rec application.Record) (*Result, error) {
	ctx, span := f.tracer.Start(ctx, "filler.Fill",
		trace.WithAttributes(attribute.String("template", f.source.Name())))
	defer span.End()

	start := time.Now()
	res, outcome, err := f.fill(ctx, rec)
	f.metrics.IncrementFill(outcome)
	f.metrics.ObserveFillLatency(time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.logger.Error("fill failed", "template", f.source.Name(), "outcome", outcome, "error", err)
		return nil, err
	}

	_, warnings := res.Warnings.Count()
	span.SetAttributes(attribute.Int("field_warnings", warnings))
	f.logger.Debug("fill complete",
		"template", f.source.Name(),
		"bytes", len(res.PDF),
		"field_warnings", warnings,
		"duration", time.Since(start))
	return res, nil
}

func (f *Filler) fill(ctx context.Context, rec application.Record) (*Result, string, error) {
	raw, err := f.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, metrics.OutcomeCancelled, err
		}
		return nil, metrics.OutcomeTemplateFailure, err
	}

	doc, err := form.Open(raw)
	if err != nil {
		return nil, metrics.OutcomeTemplateFailure,
			pdferrors.WrapError(pdferrors.ErrorTypeTemplateMalformed, err).WithSource(f.source.Name())
	}

	page, err := openPage(doc, f.registry.Page())
	if err != nil {
		return nil, metrics.OutcomeTemplateFailure,
			pdferrors.WrapError(pdferrors.ErrorTypeTemplateMalformed, err).
				WithSource(f.source.Name()).WithPage(f.registry.Page())
	}

	warnings := pdferrors.NewErrorCollection(f.source.Name())
	for _, op := range Plan(rec) {
		if err := page.apply(f.registry, op); err != nil {
			f.warn(warnings, op, err)
		}
	}

	if err := page.commit(); err != nil {
		return nil, metrics.OutcomeSerializeError,
			pdferrors.WrapError(pdferrors.ErrorTypeSerialize, err).WithSource(f.source.Name())
	}
	if err := f.finalize.apply(doc); err != nil {
		return nil, metrics.OutcomeSerializeError,
			pdferrors.WrapError(pdferrors.ErrorTypeSerialize, fmt.Errorf("finalize %s: %w", f.finalize, err))
	}

	if err := api.OptimizeContext(doc); err != nil {
		return nil, metrics.OutcomeSerializeError, pdferrors.WrapError(pdferrors.ErrorTypeSerialize, err)
	}
	var buf bytes.Buffer
	if err := api.WriteContext(doc, &buf); err != nil {
		return nil, metrics.OutcomeSerializeError, pdferrors.WrapError(pdferrors.ErrorTypeSerialize, err)
	}

	return &Result{PDF: buf.Bytes(), Warnings: warnings}, metrics.OutcomeSuccess, nil
}

func (f *Filler) warn(warnings *pdferrors.ErrorCollection, op Op, err error) {
	pe, ok := err.(*pdferrors.PDFError)
	if !ok {
		pe = pdferrors.WrapError(pdferrors.ErrorTypeFieldWrite, err)
	}
	if pe.Field == "" {
		pe.Field = op.Field.String()
	}
	warnings.Add(pe)
	f.metrics.IncrementFieldWarning(pe.Type.String())
	f.logger.Warn("Failed to fill field",
		"field", pe.Field,
		"id", pe.Context,
		"type", pe.Type.String(),
		"error", pe.Message)
}

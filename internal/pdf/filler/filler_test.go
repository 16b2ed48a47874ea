package filler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/application/apptest"
	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/metrics"
	pdferrors "github.com/vredrick/cofa-passport/internal/pdf/errors"
	"github.com/vredrick/cofa-passport/internal/pdf/form"
	"github.com/vredrick/cofa-passport/internal/pdf/inspect"
	"github.com/vredrick/cofa-passport/internal/pdf/pdftest"
	"github.com/vredrick/cofa-passport/internal/pdf/template"
	"github.com/vredrick/cofa-passport/internal/pdf/template/mocks"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newFiller(tpl []byte, opts ...Option) *Filler {
	src := &template.BytesSource{Label: "test-template", Data: tpl}
	return New(src, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestFill_LocksEveryField(t *testing.T) {
	out, err := newFiller(pdftest.FSMTemplate()).Fill(context.Background(), apptest.Full())
	require.NoError(t, err)
	require.NoError(t, template.Check(out, 0))

	fields, err := inspect.Fields(out)
	require.NoError(t, err)
	require.Len(t, fields, len(fieldmap.AllFields()))
	for _, f := range fields {
		assert.True(t, f.ReadOnly, f.Name)
		assert.Empty(t, f.Value, f.Name)
	}
}

func TestFill_DrawsValuesAsPageText(t *testing.T) {
	out, err := newFiller(pdftest.FSMTemplate()).Fill(context.Background(), apptest.Full())
	require.NoError(t, err)

	text, err := inspect.Text(out)
	require.NoError(t, err)

	for _, want := range []string{
		pdftest.Heading,
		"ROBERT",
		"SANTOS",
		"01/15/1990",
		"WENO, CHUUK",
		"123 MAIN ST, HONOLULU, HI, 96819, USA",
		"sau@example.com",
		"FSM, 06/01/2015, A12345678",
		"PHILIPPINES",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "SAU@EXAMPLE.COM")
	assert.NotContains(t, text, "Robert")
}

func TestFill_StripRemovesForm(t *testing.T) {
	out, err := newFiller(pdftest.FSMTemplate(), WithFinalize(Strip)).Fill(context.Background(), apptest.Full())
	require.NoError(t, err)

	rep, err := inspect.Inspect(out, true)
	require.NoError(t, err)
	assert.False(t, rep.HasForm)
	assert.Empty(t, rep.Fields)
	assert.Contains(t, rep.Text, "ROBERT")
}

func TestFill_SameRecordSameText(t *testing.T) {
	f := newFiller(pdftest.FSMTemplate())

	first, err := f.Fill(context.Background(), apptest.Full())
	require.NoError(t, err)
	second, err := f.Fill(context.Background(), apptest.Full())
	require.NoError(t, err)

	a, err := inspect.Text(first)
	require.NoError(t, err)
	b, err := inspect.Text(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFill_BlankRecordLeavesTemplateBlank(t *testing.T) {
	out, err := newFiller(pdftest.FSMTemplate()).Fill(context.Background(), application.NewRecord())
	require.NoError(t, err)

	text, err := inspect.Text(out)
	require.NoError(t, err)
	assert.Equal(t, pdftest.Heading, strings.TrimSpace(text))

	fields, err := inspect.Fields(out)
	require.NoError(t, err)
	for _, f := range fields {
		assert.True(t, f.ReadOnly, f.Name)
	}
}

func TestFill_MissingCheckboxIsNotFatal(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	reg := prometheus.NewRegistry()

	f := newFiller(pdftest.FSMTemplate("checkbox_12bgnn"),
		WithLogger(logger), WithMetrics(metrics.New(reg)))

	res, err := f.FillWithReport(context.Background(), apptest.Full())
	require.NoError(t, err)
	require.NotEmpty(t, res.PDF)

	assert.Equal(t, []string{"GENDER_MR"}, res.Warnings.Fields())
	assert.Equal(t, pdferrors.ErrorTypeFieldUnresolved, res.Warnings.Warnings[0].Type)
	assert.False(t, res.Warnings.HasCriticalErrors())
	assert.Contains(t, logs.String(), "Failed to fill field")
	assert.Contains(t, logs.String(), "field=GENDER_MR")
	assert.Contains(t, logs.String(), "id=checkbox_12bgnn")

	text, err := inspect.Text(res.PDF)
	require.NoError(t, err)
	assert.Contains(t, text, "ROBERT")
}

func TestFill_FetchFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Name().Return("remote.pdf").AnyTimes()

	fetchErr := pdferrors.WrapError(pdferrors.ErrorTypeTemplateUnavailable, errors.New("connection refused"))
	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any()).Return(nil, fetchErr),
		src.EXPECT().Fetch(gomock.Any()).Return(pdftest.FSMTemplate(), nil),
	)

	f := New(src, WithLogger(quietLogger()))

	_, err := f.Fill(context.Background(), apptest.Full())
	require.Error(t, err)
	assert.True(t, pdferrors.IsTemplateLoad(err))
	assert.Contains(t, err.Error(), "connection refused")

	out, err := f.Fill(context.Background(), apptest.Full())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFill_MalformedTemplate(t *testing.T) {
	_, err := newFiller([]byte("%PDF-1.4\nthis is not a document")).Fill(context.Background(), apptest.Full())
	require.Error(t, err)
	assert.True(t, pdferrors.IsTemplateLoad(err))
}

func TestFill_PageOutOfRange(t *testing.T) {
	reg, err := fieldmap.New("two pages", 2, fieldmap.Entry{
		Field: fieldmap.LastName, Kind: fieldmap.Text, Mode: fieldmap.Coordinate,
		Pos: fieldmap.Pos{X: 10, Y: 10, MaxWidth: 100},
	})
	require.NoError(t, err)

	_, err = newFiller(pdftest.FSMTemplate(), WithRegistry(reg)).Fill(context.Background(), apptest.Full())
	require.Error(t, err)
	assert.True(t, pdferrors.IsType(err, pdferrors.ErrorTypeTemplateMalformed))
}

func TestFill_RegistryGapsAreWarnings(t *testing.T) {
	reg, err := fieldmap.New("sparse", 1,
		fieldmap.Entry{
			Field: fieldmap.LastName, Kind: fieldmap.Text, Mode: fieldmap.Coordinate,
			Pos: fieldmap.Pos{X: 50, Y: 600, MaxWidth: 150},
		},
		fieldmap.Entry{
			Field: fieldmap.GenderMr, Kind: fieldmap.Check, Mode: fieldmap.Coordinate,
			Box: fieldmap.Rect{X1: 50, Y1: 700, X2: 60, Y2: 710},
		},
		fieldmap.Entry{
			Field: fieldmap.FirstName, Kind: fieldmap.Text, Mode: fieldmap.Named, ID: "given_name",
		},
	)
	require.NoError(t, err)

	tpl := pdftest.Template(pdftest.Field{
		Name: "given_name", Kind: pdftest.Text, Rect: [4]float64{300, 600, 450, 614},
	})

	res, err := newFiller(tpl, WithRegistry(reg)).FillWithReport(context.Background(), apptest.Full())
	require.NoError(t, err)

	_, warnings := res.Warnings.Count()
	assert.Equal(t, len(Plan(apptest.Full()))-3, warnings)
	assert.NotContains(t, res.Warnings.Fields(), "LAST_NAME")
	assert.NotContains(t, res.Warnings.Fields(), "FIRST_NAME")

	fields, err := inspect.Fields(res.PDF)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Empty(t, fields[0].Value)
	assert.True(t, fields[0].ReadOnly)

	text, err := inspect.Text(res.PDF)
	require.NoError(t, err)
	assert.Contains(t, text, "ROBERT")
	assert.Contains(t, text, "SAU")
}

var strokeRE = regexp.MustCompile(`(-?[\d.]+) (-?[\d.]+) m (-?[\d.]+) (-?[\d.]+) l s`)

type stroke struct{ x1, y1, x2, y2 float64 }

func pageStrokes(t *testing.T, pdf []byte) []stroke {
	t.Helper()
	doc, err := form.Open(pdf)
	require.NoError(t, err)
	d, _, _, err := doc.PageDict(1, false)
	require.NoError(t, err)
	raw, err := doc.PageContent(d, 1)
	require.NoError(t, err)

	var out []stroke
	for _, m := range strokeRE.FindAllStringSubmatch(string(raw), -1) {
		var v [4]float64
		for i := range v {
			v[i], err = strconv.ParseFloat(m[i+1], 64)
			require.NoError(t, err)
		}
		out = append(out, stroke{v[0], v[1], v[2], v[3]})
	}
	return out
}

func inside(r [4]float64, x, y float64) bool {
	return x >= r[0] && x <= r[2] && y >= r[1] && y <= r[3]
}

func TestFill_CheckmarksInsideWidgets(t *testing.T) {
	rec := apptest.Full()
	out, err := newFiller(pdftest.FSMTemplate()).Fill(context.Background(), rec)
	require.NoError(t, err)

	strokes := pageStrokes(t, out)
	tpl := pdftest.RegistryFields(fieldmap.FSM())

	checks := 0
	for _, op := range Plan(rec) {
		if op.Kind != fieldmap.Check {
			continue
		}
		checks++
		e, ok := fieldmap.FSM().Lookup(op.Field)
		require.True(t, ok, op.Field.String())
		rect, ok := pdftest.RectOf(tpl, e.ID)
		require.True(t, ok, e.ID)

		n := 0
		for _, s := range strokes {
			if inside(rect, s.x1, s.y1) && inside(rect, s.x2, s.y2) {
				n++
			}
		}
		assert.Equal(t, 2, n, "%s (%s)", op.Field, e.ID)
	}
	assert.Equal(t, 8, checks)
	assert.Len(t, strokes, 2*checks)
}

func TestFill_BlankRecordStrokesNothing(t *testing.T) {
	out, err := newFiller(pdftest.FSMTemplate()).Fill(context.Background(), application.NewRecord())
	require.NoError(t, err)
	assert.Empty(t, pageStrokes(t, out))
}

func TestFill_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")

	_, err := newFiller(pdftest.FSMTemplate("checkbox_12bgnn"), WithTracer(tracer)).
		Fill(context.Background(), apptest.Full())
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "filler.Fill", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "test-template", attrs["template"].AsString())
	assert.Equal(t, int64(1), attrs["field_warnings"].AsInt64())
}

func TestFill_SpanRecordsTemplateFailure(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	_, err := newFiller([]byte("not a pdf"), WithTracer(tp.Tracer("test"))).
		Fill(context.Background(), apptest.Full())
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "filler.Fill", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, err.Error(), spans[0].Status().Description)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestParseFinalize(t *testing.T) {
	s, err := ParseFinalize("STRIP")
	require.NoError(t, err)
	assert.Equal(t, Strip, s)

	s, err = ParseFinalize("")
	require.NoError(t, err)
	assert.Equal(t, Lock, s)

	_, err = ParseFinalize("flatten")
	assert.Error(t, err)

	assert.Equal(t, "lock", Lock.String())
	assert.Equal(t, "strip", Strip.String())
}

package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vredrick/cofa-passport/internal/pdf/pdftest"
)

func sample() []byte {
	return pdftest.Template(
		pdftest.Field{Name: "text_a", Kind: pdftest.Text, Rect: [4]float64{50, 600, 150, 612}},
		pdftest.Field{Name: "checkbox_b", Kind: pdftest.Check, Rect: [4]float64{60, 710, 50, 700}, Split: true},
	)
}

func TestWalk(t *testing.T) {
	ctx, err := Open(sample())
	require.NoError(t, err)

	var got []Field
	require.NoError(t, Walk(ctx, func(f Field) error {
		got = append(got, f)
		return nil
	}))

	require.Len(t, got, 2)
	assert.Equal(t, "text_a", got[0].Name)
	assert.Equal(t, "Tx", got[0].Type)
	assert.True(t, got[0].Terminal)
	assert.Len(t, got[0].Widgets, 1)

	assert.Equal(t, "checkbox_b", got[1].Name)
	assert.Equal(t, "Btn", got[1].Type)
	assert.Len(t, got[1].Widgets, 1)
}

func TestFindAndWidgetRect(t *testing.T) {
	ctx, err := Open(sample())
	require.NoError(t, err)

	f, ok, err := Find(ctx, "checkbox_b")
	require.NoError(t, err)
	require.True(t, ok)

	r, ok := WidgetRect(ctx, f.Widgets[0])
	require.True(t, ok)
	assert.Equal(t, Rect{X1: 50, Y1: 700, X2: 60, Y2: 710}, r)

	_, ok, err = Find(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetReadOnly(t *testing.T) {
	ctx, err := Open(sample())
	require.NoError(t, err)

	f, ok, err := Find(ctx, "text_a")
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, ReadOnly(ctx, f.Dict))

	SetReadOnly(ctx, f.Dict)
	assert.True(t, ReadOnly(ctx, f.Dict))
	assert.Equal(t, 1, Flags(ctx, f.Dict))

	again, _, _ := Find(ctx, "text_a")
	assert.True(t, ReadOnly(ctx, again.Dict))
}

func TestOpen_RejectsGarbage(t *testing.T) {
	_, err := Open([]byte("%PDF-1.4\nnot really"))
	assert.Error(t, err)
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "a", qualify("", "a"))
	assert.Equal(t, "a", qualify("a", ""))
	assert.Equal(t, "a.b", qualify("a", "b"))
}

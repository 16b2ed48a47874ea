package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vredrick/cofa-passport/internal/application"
)

func TestFSM_CoversEveryField(t *testing.T) {
	reg := FSM()

	for _, f := range AllFields() {
		_, ok := reg.Lookup(f)
		assert.True(t, ok, "missing %s", f)
	}
	assert.Len(t, reg.Entries(), len(AllFields()))
	assert.Equal(t, 1, reg.Page())
	assert.Equal(t, FSMTemplateName, reg.Name())
}

func TestFSM_Verify(t *testing.T) {
	require.NoError(t, FSM().Verify())
}

func TestFSM_IdentifiersAreUnique(t *testing.T) {
	ids := FSM().IDs()
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, len(AllFields()))
}

func TestFSM_TextBaselineIsBoxBottom(t *testing.T) {
	e, ok := FSM().Lookup(LastName)
	require.True(t, ok)
	assert.Equal(t, Text, e.Kind)
	assert.Equal(t, Coordinate, e.Mode)
	assert.Equal(t, "text_4dr", e.ID)
	assert.Equal(t, Pos{X: 77, Y: 599, MaxWidth: 152}, e.Pos)

	e, ok = FSM().Lookup(MotherNationality)
	require.True(t, ok)
	assert.Equal(t, Pos{X: 119, Y: 242, MaxWidth: 287}, e.Pos)
}

func TestFSM_CheckboxesAreNamed(t *testing.T) {
	for _, e := range FSM().Entries() {
		if e.Kind != Check {
			continue
		}
		assert.Equal(t, Named, e.Mode, e.Field.String())
		assert.Contains(t, e.ID, "checkbox_", e.Field.String())
	}

	e, _ := FSM().Lookup(GenderMr)
	assert.Equal(t, "checkbox_12bgnn", e.ID)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{
			name: "same field twice",
			entries: []Entry{
				text(LastName, "a", 1, 1, 10),
				text(LastName, "b", 2, 2, 10),
			},
			want: "registered twice",
		},
		{
			name: "shared identifier",
			entries: []Entry{
				check(GenderMr, "checkbox_x"),
				check(GenderMs, "checkbox_x"),
			},
			want: "checkbox_x shared by",
		},
		{
			name: "shared coordinate",
			entries: []Entry{
				text(LastName, "a", 10, 20, 50),
				text(FirstName, "b", 10, 20, 50),
			},
			want: "text@10,22 shared by",
		},
		{
			name: "shared check box",
			entries: []Entry{
				{Field: GenderMr, Kind: Check, Mode: Coordinate, Box: Rect{1, 1, 9, 9}},
				{Field: GenderMs, Kind: Check, Mode: Coordinate, Box: Rect{1, 1, 5, 5}},
			},
			want: "check@1,1 shared by",
		},
		{
			name:    "named without identifier",
			entries: []Entry{check(GenderMr, "")},
			want:    "has no identifier",
		},
		{
			name:    "text without width",
			entries: []Entry{text(LastName, "a", 1, 1, 0)},
			want:    "has no width",
		},
		{
			name:    "empty check box",
			entries: []Entry{{Field: GenderMr, Kind: Check, Mode: Coordinate}},
			want:    "empty box",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", 1, tt.entries...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEntries_SortedByField(t *testing.T) {
	reg, err := New("test", 1,
		text(Phone, "p", 5, 5, 10),
		text(LastName, "l", 1, 1, 10),
		check(TypeOrdinary, "o"),
	)
	require.NoError(t, err)

	var got []Field
	for _, e := range reg.Entries() {
		got = append(got, e.Field)
	}
	assert.Equal(t, []Field{TypeOrdinary, LastName, Phone}, got)
}

func TestChoiceFields(t *testing.T) {
	f, ok := DocumentTypeField(application.Diplomatic)
	assert.True(t, ok)
	assert.Equal(t, TypeDiplomatic, f)
	_, ok = DocumentTypeField(application.DocumentUnset)
	assert.False(t, ok)

	f, ok = GenderField(application.Mrs)
	assert.True(t, ok)
	assert.Equal(t, GenderMrs, f)
	_, ok = GenderField(application.GenderUnset)
	assert.False(t, ok)

	f, ok = CitizenshipField(application.ByNaturalization)
	assert.True(t, ok)
	assert.Equal(t, CitizenNaturalization, f)
	_, ok = CitizenshipField(application.CitizenshipUnset)
	assert.False(t, ok)

	f, ok = TriStateField(application.No, Father.CitizenYes, Father.CitizenNo)
	assert.True(t, ok)
	assert.Equal(t, FatherCitizenNo, f)
	_, ok = TriStateField(application.TriUnset, ConvictedYes, ConvictedNo)
	assert.False(t, ok)
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "LAST_NAME", LastName.String())
	assert.Equal(t, "MOTHER_FSM_NO", MotherCitizenNo.String())
	assert.Equal(t, "UNKNOWN_FIELD", Field(0).String())
}

package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

func testTable() DTO {
	return DTO{
		VisRelease: "3-4a",
		Items: []ItemDTO{
			{Code: "N", Name: "number"},
			{Code: "P", Name: "port"},
			{Code: "C", Name: "centre"},
			{Code: "S", Name: "starboard"},
			{Code: "U", Name: "upper"},
			{Code: "M", Name: "middle"},
			{Code: "L", Name: "lower"},
			{Code: "I", Name: "inside"},
			{Code: "O", Name: "outside"},
			{Code: "F", Name: "forward"},
			{Code: "A", Name: "aft"},
		},
	}
}

func newTestLocations(t *testing.T) *Locations {
	t.Helper()
	locs, err := NewLocations(vis.Version3_4a, testTable())
	require.NoError(t, err)
	return locs
}

func TestParseValid(t *testing.T) {
	locs := newTestLocations(t)
	for _, s := range []string{"P", "FS", "1021FS", "F", "411A", "1", "CU", "1FIPU"} {
		loc, err := locs.Parse(s)
		require.NoError(t, err, "input %q", s)
		assert.Equal(t, s, loc.Value())
	}
}

func TestParseInvalid(t *testing.T) {
	locs := newTestLocations(t)
	tests := []struct {
		in     string
		result ValidationResult
	}{
		{"", ResultNullOrWhiteSpace},
		{"   ", ResultNullOrWhiteSpace},
		{"P1", ResultInvalid},
		{"1P2", ResultInvalid},
		{"PS1", ResultInvalid},
		{"PX", ResultInvalidCode},
		{"z", ResultInvalidCode},
		{"PC", ResultInvalid},
		{"UM", ResultInvalid},
		{"FA", ResultInvalid},
		{"PS", ResultInvalid},
		{"UP", ResultInvalidOrder},
		{"SF", ResultInvalidOrder},
		{"1UCF", ResultInvalidOrder},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok, errs := locs.TryParseWithErrors(tt.in)
			assert.False(t, ok)
			require.True(t, errs.HasErrors())
			assert.Equal(t, tt.result, errs[0].Result)

			_, err := locs.Parse(tt.in)
			require.Error(t, err)
			assert.True(t, verrors.IsInvalidStructure(err))
		})
	}
}

func TestRepeatedSameLetterAllowed(t *testing.T) {
	// The grammar rejects two different letters of one group but tolerates
	// a repeated identical letter, matching the release tables.
	locs := newTestLocations(t)
	_, ok := locs.TryParse("PP")
	assert.True(t, ok)
}

func TestUnknownTableCode(t *testing.T) {
	dto := testTable()
	dto.Items = append(dto.Items, ItemDTO{Code: "X", Name: "bogus"})
	_, err := NewLocations(vis.Version3_4a, dto)
	require.Error(t, err)
	assert.True(t, verrors.IsConfigurationFault(err))
}

func TestGroupMembers(t *testing.T) {
	locs := newTestLocations(t)
	side := locs.GroupMembers(GroupSide)
	require.Len(t, side, 3)
	codes := []string{side[0].Code, side[1].Code, side[2].Code}
	assert.Equal(t, []string{"P", "C", "S"}, codes)
	assert.Len(t, locs.GroupMembers(GroupTransverse), 2)
	assert.Len(t, locs.RelativeLocations(), 11)
}

func TestBuilderCanonicalForm(t *testing.T) {
	locs := newTestLocations(t)
	b := NewBuilder(locs)

	b, err := b.WithNumber(1021)
	require.NoError(t, err)
	b, err = b.WithSide("S")
	require.NoError(t, err)
	b, err = b.WithVertical("U")
	require.NoError(t, err)
	b, err = b.WithLongitudinal("F")
	require.NoError(t, err)

	// Letters sort alphabetically regardless of insertion order.
	assert.Equal(t, "1021FSU", b.Build().Value())
}

func TestBuilderRoundTrip(t *testing.T) {
	locs := newTestLocations(t)
	for _, s := range []string{"1021FS", "P", "411A", "1FIPU"} {
		loc, err := locs.Parse(s)
		require.NoError(t, err)
		b, err := NewBuilder(locs).WithLocation(loc)
		require.NoError(t, err)
		got, err := locs.Parse(b.Build().Value())
		require.NoError(t, err)
		// Canonical rendering sorts letters, so re-parse must succeed and
		// carry the same components.
		reparsed, err := NewBuilder(locs).WithLocation(got)
		require.NoError(t, err)
		assert.Equal(t, b.String(), reparsed.String())
	}
}

func TestBuilderRejections(t *testing.T) {
	locs := newTestLocations(t)
	b := NewBuilder(locs)

	_, err := b.WithNumber(0)
	assert.Error(t, err)

	_, err = b.WithSide("U")
	assert.Error(t, err)

	_, err = b.WithValue("X")
	assert.Error(t, err)

	_, err = b.WithValue("PS")
	assert.Error(t, err)
}

func TestBuilderWithoutValue(t *testing.T) {
	locs := newTestLocations(t)
	b, err := NewBuilder(locs).WithNumber(2)
	require.NoError(t, err)
	b, err = b.WithSide("P")
	require.NoError(t, err)

	assert.Equal(t, "2P", b.String())
	assert.Equal(t, "P", b.WithoutNumber().String())
	assert.Equal(t, "2", b.WithoutValue(GroupSide).String())

	n, ok := b.Number()
	require.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestLocationEquality(t *testing.T) {
	locs := newTestLocations(t)
	a, err := locs.Parse("FS")
	require.NoError(t, err)
	b, err := locs.Parse("FS")
	require.NoError(t, err)
	c, err := locs.Parse("P")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.IsEmpty())
	assert.True(t, Location{}.IsEmpty())
}

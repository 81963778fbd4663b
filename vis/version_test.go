package vis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/c360/vismodel/errors"
)

func TestParseRoundTrip(t *testing.T) {
	for _, v := range All() {
		got, err := Parse(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestParseUnknown(t *testing.T) {
	for _, s := range []string{"", "3-4", "3-9a", "vis-3-4a", "3_4a"} {
		_, err := Parse(s)
		require.Error(t, err, "input %q", s)
		assert.True(t, verrors.IsNotFound(err))
	}
}

func TestOrdering(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1], all[i])
	}
	assert.Equal(t, all[len(all)-1], Latest())
}

func TestNextPrev(t *testing.T) {
	next, ok := Version3_4a.Next()
	require.True(t, ok)
	assert.Equal(t, Version3_5a, next)

	_, ok = Latest().Next()
	assert.False(t, ok)

	prev, ok := Version3_5a.Prev()
	require.True(t, ok)
	assert.Equal(t, Version3_4a, prev)

	_, ok = Version3_4a.Prev()
	assert.False(t, ok)

	_, ok = VersionInvalid.Next()
	assert.False(t, ok)
}

func TestInvalidString(t *testing.T) {
	assert.Equal(t, "invalid", VersionInvalid.String())
	assert.False(t, VersionInvalid.IsValid())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("3-6a") })
}

func TestIsISOString(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", true},
		{"propeller.pitch", true},
		{"sea.water", true},
		{"MainEngine_1~x", true},
		{"high-high", true},
		{"with space", false},
		{"slash/sep", false},
		{"plus+", false},
		{"ångström", false},
		{"tab\tsep", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsISOString(tt.in), "input %q", tt.in)
	}
}

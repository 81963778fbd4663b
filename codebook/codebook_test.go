package codebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

func testCollection() CollectionDTO {
	return CollectionDTO{
		VisRelease: "3-4a",
		Items: []DTO{
			{
				Name: "quantities",
				Values: map[string][]string{
					"Temperature": {"temperature"},
					"Pressure":    {"pressure", "absolute.pressure"},
					"Level":       {"level"},
				},
			},
			{
				Name: "contents",
				Values: map[string][]string{
					"Fuel":  {"fuel.oil", "heavy.fuel.oil", "diesel.oil"},
					"Water": {"sea.water", "fresh.water"},
				},
			},
			{
				Name: "states",
				Values: map[string][]string{
					"Alarm": {"high", "high.high", "low", "low.low"},
				},
			},
			{
				Name: "positions",
				Values: map[string][]string{
					"Vertical":      {"upper", "lower"},
					"Side":          {"port", "starboard", "centre"},
					"Longitudinal":  {"aft", "fore"},
					"DEFAULT_GROUP": {"inlet", "outlet", "<number>"},
				},
			},
		},
	}
}

func newTestCodebooks(t *testing.T) *Codebooks {
	t.Helper()
	books, err := NewCodebooks(vis.Version3_4a, testCollection())
	require.NoError(t, err)
	return books
}

func TestPrefixRoundTrip(t *testing.T) {
	for _, name := range AllNames() {
		got, err := NameFromPrefix(name.Prefix())
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestNameFromPrefixUnknown(t *testing.T) {
	for _, prefix := range []string{"", "quantity", "qty ", "POS", "svc"} {
		_, err := NameFromPrefix(prefix)
		require.Error(t, err, "prefix %q", prefix)
		assert.True(t, verrors.IsUnknownVocabulary(err))
	}
}

func TestPrefixPanicsOnUndefinedName(t *testing.T) {
	assert.Panics(t, func() { Name(0).Prefix() })
	assert.Panics(t, func() { Name(42).Prefix() })
}

func TestStandardAndCustomTags(t *testing.T) {
	books := newTestCodebooks(t)

	tag, ok := books.TryCreateTag(NameQuantity, "temperature")
	require.True(t, ok)
	assert.False(t, tag.IsCustom())
	assert.Equal(t, byte('-'), tag.Separator())

	tag, ok = books.TryCreateTag(NameQuantity, "vibration.amplitude")
	require.True(t, ok)
	assert.True(t, tag.IsCustom())
	assert.Equal(t, byte('~'), tag.Separator())

	_, ok = books.TryCreateTag(NameQuantity, "not valid")
	assert.False(t, ok)

	_, ok = books.TryCreateTag(NameQuantity, "")
	assert.False(t, ok)
}

func TestDetailAcceptsAnyISOValue(t *testing.T) {
	books := newTestCodebooks(t)

	tag, ok := books.TryCreateTag(NameDetail, "anything.goes_here~1")
	require.True(t, ok)
	assert.False(t, tag.IsCustom())

	_, ok = books.TryCreateTag(NameDetail, "no spaces")
	assert.False(t, ok)
}

func TestDetailAlwaysPresent(t *testing.T) {
	books, err := NewCodebooks(vis.Version3_4a, CollectionDTO{VisRelease: "3-4a"})
	require.NoError(t, err)
	detail, err := books.Codebook(NameDetail)
	require.NoError(t, err)
	assert.Empty(t, detail.StandardValues())
}

func TestMissingCodebook(t *testing.T) {
	books := newTestCodebooks(t)
	_, err := books.Codebook(NameCommand)
	require.Error(t, err)
	assert.True(t, verrors.IsNotFound(err))

	_, err = books.Codebook(Name(99))
	require.Error(t, err)
	assert.True(t, verrors.IsUnknownVocabulary(err))
}

func TestValidatePosition(t *testing.T) {
	books := newTestCodebooks(t)
	pos, err := books.Codebook(NamePosition)
	require.NoError(t, err)

	tests := []struct {
		value string
		want  PositionValidation
	}{
		{"port", PositionValid},
		{"1", PositionValid},
		{"42", PositionValid},
		{"centre-1", PositionValid},
		{"port-upper", PositionValid},
		{"port-upper-1", PositionValid},
		{"inlet-outlet", PositionValid},
		{"phase.w.u", PositionCustom},
		{"juice-orange", PositionCustom},
		{"orange-juice", PositionInvalidOrder},
		{"1-port", PositionInvalidOrder},
		{"upper-port", PositionInvalidOrder},
		{"port-starboard", PositionInvalidGrouping},
		{"", PositionInvalid},
		{"  ", PositionInvalid},
		{" port", PositionInvalid},
		{"port!", PositionInvalid},
		{"port-sta rboard", PositionInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, pos.ValidatePosition(tt.value))
		})
	}
}

func TestPositionTagCreation(t *testing.T) {
	books := newTestCodebooks(t)

	tag, ok := books.TryCreateTag(NamePosition, "port")
	require.True(t, ok)
	assert.False(t, tag.IsCustom())

	tag, ok = books.TryCreateTag(NamePosition, "somewhere.odd")
	require.True(t, ok)
	assert.True(t, tag.IsCustom())

	_, ok = books.TryCreateTag(NamePosition, "upper-port")
	assert.False(t, ok)
}

func TestTagEquality(t *testing.T) {
	books := newTestCodebooks(t)

	a, err := books.CreateTag(NameQuantity, "temperature")
	require.NoError(t, err)
	b, err := books.CreateTag(NameQuantity, "temperature")
	require.NoError(t, err)
	c, err := books.CreateTag(NameQuantity, "pressure")
	require.NoError(t, err)
	other, err := books.CreateTag(NameContent, "sea.water")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Panics(t, func() { a.Equal(other) })
}

func TestHasStandardValue(t *testing.T) {
	books := newTestCodebooks(t)
	qty, err := books.Codebook(NameQuantity)
	require.NoError(t, err)

	assert.True(t, qty.HasStandardValue("pressure"))
	assert.False(t, qty.HasStandardValue("42"))
	assert.True(t, qty.HasGroup("Pressure"))
	assert.False(t, qty.HasGroup("Bogus"))

	pos, err := books.Codebook(NamePosition)
	require.NoError(t, err)
	assert.True(t, pos.HasStandardValue("42"))
}

func TestGroupValues(t *testing.T) {
	books := newTestCodebooks(t)
	pos, err := books.Codebook(NamePosition)
	require.NoError(t, err)

	values, ok := pos.GroupValues("DEFAULT_GROUP")
	require.True(t, ok)
	assert.Equal(t, []string{"<number>", "inlet", "outlet"}, values)

	values, ok = pos.GroupValues("Side")
	require.True(t, ok)
	assert.Equal(t, []string{"centre", "port", "starboard"}, values)

	_, ok = pos.GroupValues("Bogus")
	assert.False(t, ok)

	// Returned slices are copies of the table.
	values[0] = "clobbered"
	again, ok := pos.GroupValues("Side")
	require.True(t, ok)
	assert.Equal(t, "centre", again[0])
}

func TestEachOrder(t *testing.T) {
	books := newTestCodebooks(t)
	var names []Name
	books.Each(func(n Name, _ *Codebook) bool {
		names = append(names, n)
		return true
	})
	assert.Equal(t, []Name{NameQuantity, NameContent, NameState, NamePosition, NameDetail}, names)
}

func TestCreateTagError(t *testing.T) {
	books := newTestCodebooks(t)
	_, err := books.CreateTag(NamePosition, "upper-port")
	require.Error(t, err)
	assert.True(t, verrors.IsUnknownVocabulary(err))
}

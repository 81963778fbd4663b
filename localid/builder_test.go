package localid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/vismodel/codebook"
	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/localid"
	"github.com/c360/vismodel/testutil"
	"github.com/c360/vismodel/vis"
)

func TestBuilderAssembly(t *testing.T) {
	g := testutil.Gmod(t, vis.Version3_4a)
	books := testutil.Codebooks(t, vis.Version3_4a)

	path, err := g.ParsePath("621.11i-P/H135")
	require.NoError(t, err)
	qty, err := books.CreateTag(codebook.NameQuantity, "temperature")
	require.NoError(t, err)
	cnt, err := books.CreateTag(codebook.NameContent, "heavy.fuel.oil")
	require.NoError(t, err)

	builder := localid.New(vis.Version3_4a).WithPrimaryItem(path)
	builder, err = builder.WithMetadataTag(qty)
	require.NoError(t, err)
	builder, err = builder.WithMetadataTag(cnt)
	require.NoError(t, err)

	assert.True(t, builder.IsValid())
	assert.False(t, builder.IsEmpty())
	assert.Equal(t,
		"/dnv-v2/vis-3-4a/621.11i-P/H135/meta/qty-temperature/cnt-heavy.fuel.oil",
		builder.String())

	id, err := builder.Build()
	require.NoError(t, err)
	assert.Equal(t, vis.Version3_4a, id.Version())
	assert.Equal(t, "H135", id.PrimaryItem().Node().Code())
	assert.Nil(t, id.SecondaryItem())

	got, ok := id.Quantity()
	require.True(t, ok)
	assert.Equal(t, "temperature", got.Value())
	assert.False(t, got.IsCustom())
	_, ok = id.Position()
	assert.False(t, ok)
	assert.False(t, id.HasCustomTag())
	assert.Equal(t, builder.String(), id.String())
}

func TestBuilderImmutability(t *testing.T) {
	books := testutil.Codebooks(t, vis.Version3_4a)
	qty, err := books.CreateTag(codebook.NameQuantity, "pressure")
	require.NoError(t, err)

	base := localid.New(vis.Version3_4a)
	withTag, err := base.WithMetadataTag(qty)
	require.NoError(t, err)

	_, ok := base.Quantity()
	assert.False(t, ok, "base builder unchanged")
	_, ok = withTag.Quantity()
	assert.True(t, ok)

	cleared := withTag.WithoutMetadataTag(codebook.NameQuantity)
	_, ok = withTag.Quantity()
	assert.True(t, ok, "source builder unchanged")
	_, ok = cleared.Quantity()
	assert.False(t, ok)
}

func TestBuilderValidation(t *testing.T) {
	g := testutil.Gmod(t, vis.Version3_4a)
	books := testutil.Codebooks(t, vis.Version3_4a)

	_, err := localid.New(vis.Version3_4a).Build()
	require.Error(t, err)
	assert.True(t, verrors.IsInvalidStructure(err), "empty builder")

	path, err := g.ParsePath("411.1")
	require.NoError(t, err)
	_, err = localid.New(vis.Version3_4a).WithPrimaryItem(path).Build()
	require.Error(t, err)
	assert.True(t, verrors.IsIncomplete(err), "no metadata tags")

	qty, err := books.CreateTag(codebook.NameQuantity, "temperature")
	require.NoError(t, err)
	builder, err := localid.New(vis.Version3_4a).WithMetadataTag(qty)
	require.NoError(t, err)
	_, err = builder.Build()
	require.Error(t, err)
	assert.True(t, verrors.IsIncomplete(err), "no primary item")

	builder, err = localid.Builder{}.WithPrimaryItem(path).WithMetadataTag(qty)
	require.NoError(t, err)
	_, err = builder.Build()
	require.Error(t, err)
	assert.True(t, verrors.IsIncomplete(err), "no release")
}

func TestBuilderRejectsSlotlessCodebook(t *testing.T) {
	tag, err := codebook.CustomTag(codebook.NameFunctionalServices, "propulsion")
	require.NoError(t, err)

	_, err = localid.New(vis.Version3_4a).WithMetadataTag(tag)
	require.Error(t, err)
	assert.True(t, verrors.IsUnknownVocabulary(err))
}

func TestMetadataTagsOrder(t *testing.T) {
	books := testutil.Codebooks(t, vis.Version3_4a)

	detail, err := codebook.CustomTag(codebook.NameDetail, "sensor.1")
	require.NoError(t, err)
	qty, err := books.CreateTag(codebook.NameQuantity, "temperature")
	require.NoError(t, err)
	pos, err := books.CreateTag(codebook.NamePosition, "inlet")
	require.NoError(t, err)

	builder := localid.New(vis.Version3_4a)
	for _, tag := range []codebook.Tag{detail, pos, qty} {
		next, err := builder.WithMetadataTag(tag)
		require.NoError(t, err)
		builder = next
	}

	tags := builder.MetadataTags()
	require.Len(t, tags, 3)
	assert.Equal(t, codebook.NameQuantity, tags[0].Name())
	assert.Equal(t, codebook.NamePosition, tags[1].Name())
	assert.Equal(t, codebook.NameDetail, tags[2].Name())
	assert.True(t, builder.HasCustomTag())
}

func TestBuilderEqual(t *testing.T) {
	g := testutil.Gmod(t, vis.Version3_4a)
	books := testutil.Codebooks(t, vis.Version3_4a)

	path, err := g.ParsePath("411.1")
	require.NoError(t, err)
	qty, err := books.CreateTag(codebook.NameQuantity, "temperature")
	require.NoError(t, err)

	a, err := localid.New(vis.Version3_4a).WithPrimaryItem(path).WithMetadataTag(qty)
	require.NoError(t, err)
	b, err := localid.New(vis.Version3_4a).WithPrimaryItem(path).WithMetadataTag(qty)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(b.WithoutMetadataTag(codebook.NameQuantity)))
	assert.False(t, a.Equal(a.WithVersion(vis.Version3_5a)))
	assert.True(t, a.Equal(a.WithVerboseMode(true)), "verbose mode is presentation only")
}

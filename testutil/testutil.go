// Package testutil loads the embedded release fixtures shared by the model
// packages' tests: a small taxonomy in three structural variants, the
// standard location table, a codebook bundle, and the conversion rule
// tables between the variants.
package testutil

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/vis"
)

//go:embed testdata/*.json
var fixtures embed.FS

func load(t *testing.T, name string, v any) {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

// gmodFixtureFor maps each release onto one of the three structural
// variants; releases after 3-6a share its shape.
func gmodFixtureFor(version vis.Version) string {
	switch version {
	case vis.Version3_4a:
		return "gmod-3-4a.json"
	case vis.Version3_5a:
		return "gmod-3-5a.json"
	default:
		return "gmod-3-6a.json"
	}
}

// GmodDTO returns the decoded taxonomy fixture for a release.
func GmodDTO(t *testing.T, version vis.Version) gmod.DTO {
	t.Helper()
	var dto gmod.DTO
	load(t, gmodFixtureFor(version), &dto)
	dto.VisRelease = version.String()
	return dto
}

// LocationsDTO returns the decoded location table fixture.
func LocationsDTO(t *testing.T, version vis.Version) location.DTO {
	t.Helper()
	var dto location.DTO
	load(t, "locations.json", &dto)
	dto.VisRelease = version.String()
	return dto
}

// CodebooksDTO returns the decoded codebook bundle fixture.
func CodebooksDTO(t *testing.T, version vis.Version) codebook.CollectionDTO {
	t.Helper()
	var dto codebook.CollectionDTO
	load(t, "codebooks.json", &dto)
	dto.VisRelease = version.String()
	return dto
}

// VersioningDTOs returns the decoded conversion rule tables, keyed by
// target release.
func VersioningDTOs(t *testing.T) map[string]gmod.VersioningDTO {
	t.Helper()
	dtos := make(map[string]gmod.VersioningDTO)
	load(t, "versioning.json", &dtos)
	return dtos
}

// Locations builds the location vocabulary of a release.
func Locations(t *testing.T, version vis.Version) *location.Locations {
	t.Helper()
	locs, err := location.NewLocations(version, LocationsDTO(t, version))
	require.NoError(t, err)
	return locs
}

// Gmod builds the taxonomy of a release.
func Gmod(t *testing.T, version vis.Version) *gmod.Gmod {
	t.Helper()
	g, err := gmod.New(version, GmodDTO(t, version), Locations(t, version))
	require.NoError(t, err)
	return g
}

// Codebooks builds the codebook collection of a release.
func Codebooks(t *testing.T, version vis.Version) *codebook.Codebooks {
	t.Helper()
	books, err := codebook.NewCodebooks(version, CodebooksDTO(t, version))
	require.NoError(t, err)
	return books
}

// FixtureProvider serves prebuilt taxonomies and codebooks for every
// release.
type FixtureProvider struct {
	gmods map[vis.Version]*gmod.Gmod
	books map[vis.Version]*codebook.Codebooks
}

// Provider builds a FixtureProvider covering all releases.
func Provider(t *testing.T) *FixtureProvider {
	t.Helper()
	p := &FixtureProvider{
		gmods: make(map[vis.Version]*gmod.Gmod),
		books: make(map[vis.Version]*codebook.Codebooks),
	}
	for _, v := range vis.All() {
		p.gmods[v] = Gmod(t, v)
		p.books[v] = Codebooks(t, v)
	}
	return p
}

// Gmod implements gmod.Provider.
func (p *FixtureProvider) Gmod(version vis.Version) (*gmod.Gmod, error) {
	g, ok := p.gmods[version]
	if !ok {
		return nil, errNoFixture(version)
	}
	return g, nil
}

// Codebooks returns the codebook collection of a release.
func (p *FixtureProvider) Codebooks(version vis.Version) (*codebook.Codebooks, error) {
	books, ok := p.books[version]
	if !ok {
		return nil, errNoFixture(version)
	}
	return books, nil
}

type errNoFixture vis.Version

func (e errNoFixture) Error() string {
	return "no fixture gmod for " + vis.Version(e).String()
}

// Versioning builds the conversion engine over the fixture releases.
func Versioning(t *testing.T) *gmod.Versioning {
	t.Helper()
	v, err := gmod.NewVersioning(Provider(t), VersioningDTOs(t))
	require.NoError(t, err)
	return v
}

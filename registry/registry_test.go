package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/vismodel/codebook"
	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/registry"
	"github.com/c360/vismodel/testutil"
	"github.com/c360/vismodel/vis"
)

// fixtureLoader serves pre-decoded fixture tables and counts how often each
// table kind is requested.
type fixtureLoader struct {
	gmods      map[vis.Version]gmod.DTO
	locations  map[vis.Version]location.DTO
	books      map[vis.Version]codebook.CollectionDTO
	versioning map[string]gmod.VersioningDTO

	mu    sync.Mutex
	calls map[string]int
}

func newFixtureLoader(t *testing.T) *fixtureLoader {
	t.Helper()
	l := &fixtureLoader{
		gmods:      make(map[vis.Version]gmod.DTO),
		locations:  make(map[vis.Version]location.DTO),
		books:      make(map[vis.Version]codebook.CollectionDTO),
		versioning: testutil.VersioningDTOs(t),
		calls:      make(map[string]int),
	}
	for _, v := range vis.All() {
		l.gmods[v] = testutil.GmodDTO(t, v)
		l.locations[v] = testutil.LocationsDTO(t, v)
		l.books[v] = testutil.CodebooksDTO(t, v)
	}
	return l
}

func (l *fixtureLoader) count(kind string) {
	l.mu.Lock()
	l.calls[kind]++
	l.mu.Unlock()
}

func (l *fixtureLoader) callCount(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[kind]
}

func (l *fixtureLoader) GmodDTO(_ context.Context, version vis.Version) (gmod.DTO, error) {
	l.count("gmod")
	dto, ok := l.gmods[version]
	if !ok {
		return gmod.DTO{}, verrors.NotFound("no gmod table for %s", version)
	}
	return dto, nil
}

func (l *fixtureLoader) LocationsDTO(_ context.Context, version vis.Version) (location.DTO, error) {
	l.count("locations")
	dto, ok := l.locations[version]
	if !ok {
		return location.DTO{}, verrors.NotFound("no location table for %s", version)
	}
	return dto, nil
}

func (l *fixtureLoader) CodebooksDTO(_ context.Context, version vis.Version) (codebook.CollectionDTO, error) {
	l.count("codebooks")
	dto, ok := l.books[version]
	if !ok {
		return codebook.CollectionDTO{}, verrors.NotFound("no codebook table for %s", version)
	}
	return dto, nil
}

func (l *fixtureLoader) VersioningDTOs(_ context.Context) (map[string]gmod.VersioningDTO, error) {
	l.count("versioning")
	return l.versioning, nil
}

func newRegistry(t *testing.T, opts ...registry.Option) *registry.Registry {
	t.Helper()
	r, err := registry.New(newFixtureLoader(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRegistryBuildsArtifactsOnce(t *testing.T) {
	loader := newFixtureLoader(t)
	r, err := registry.New(loader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	first, err := r.Gmod(vis.Version3_4a)
	require.NoError(t, err)
	second, err := r.Gmod(vis.Version3_4a)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.callCount("gmod"))

	books1, err := r.Codebooks(vis.Version3_4a)
	require.NoError(t, err)
	books2, err := r.Codebooks(vis.Version3_4a)
	require.NoError(t, err)
	assert.Same(t, books1, books2)

	locs, err := r.Locations(vis.Version3_4a)
	require.NoError(t, err)
	assert.Same(t, first.Locations(), locs)
}

func TestRegistryConcurrentBuildsShareOneInstance(t *testing.T) {
	loader := newFixtureLoader(t)
	r, err := registry.New(loader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	const callers = 8
	results := make([]*gmod.Gmod, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := range callers {
		go func() {
			defer wg.Done()
			g, err := r.Gmod(vis.Version3_4a)
			assert.NoError(t, err)
			results[i] = g
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, g := range results[1:] {
		assert.Same(t, results[0], g)
	}
	assert.Equal(t, 1, loader.callCount("gmod"), "one build for concurrent callers")
	assert.Equal(t, 1, loader.callCount("locations"))
}

func TestRegistryRejectsInvalidVersion(t *testing.T) {
	r := newRegistry(t)

	_, err := r.Gmod(vis.VersionInvalid)
	assert.True(t, verrors.IsNotFound(err))
	_, err = r.Codebooks(vis.VersionInvalid)
	assert.True(t, verrors.IsNotFound(err))
	_, err = r.Locations(vis.VersionInvalid)
	assert.True(t, verrors.IsNotFound(err))
}

func TestRegistryPreload(t *testing.T) {
	loader := newFixtureLoader(t)
	r, err := registry.New(loader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Preload(context.Background()))
	assert.Equal(t, len(vis.All()), loader.callCount("gmod"))
	assert.Equal(t, 1, loader.callCount("versioning"))

	// Later lookups are all cache hits.
	_, err = r.Gmod(vis.Version3_5a)
	require.NoError(t, err)
	assert.Equal(t, len(vis.All()), loader.callCount("gmod"))
}

func TestRegistryParsePath(t *testing.T) {
	r := newRegistry(t)

	path, err := r.ParsePath(vis.Version3_4a, "411.1/C101.63/S206")
	require.NoError(t, err)
	assert.Equal(t, "S206", path.Node().Code())

	full, err := r.ParseFullPath(vis.Version3_4a, "VE/400a/410/411/411.1/C101/C101.6/C101.63/S206")
	require.NoError(t, err)
	assert.True(t, path.Equal(full))
}

func TestRegistryParseLocalIdCaching(t *testing.T) {
	r := newRegistry(t, registry.WithLocalIdCache(8, 0))

	const input = "/dnv-v2/vis-3-4a/621.11i-P/H135/meta/qty-temperature"
	first, err := r.ParseLocalId(input)
	require.NoError(t, err)
	second, err := r.ParseLocalId(input)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = r.ParseLocalId("/dnv-v2/vis-3-4a/999.9/meta/qty-temperature")
	assert.True(t, verrors.IsInvalidStructure(err))
}

func TestRegistryConvertPath(t *testing.T) {
	r := newRegistry(t)

	path, err := r.ParsePath(vis.Version3_4a, "411.1/C101.63/S206")
	require.NoError(t, err)

	converted, err := r.ConvertPath(path, vis.Version3_5a)
	require.NoError(t, err)
	assert.Equal(t, vis.Version3_5a, converted.Version())
	assert.Equal(t, "411.1/C101.93/S206", converted.String())
}

func TestRegistryConvertNode(t *testing.T) {
	r := newRegistry(t)

	g, err := r.Gmod(vis.Version3_4a)
	require.NoError(t, err)
	node, err := g.Node("C101.63")
	require.NoError(t, err)

	converted, err := r.ConvertNode(node, vis.Version3_5a)
	require.NoError(t, err)
	assert.Equal(t, "C101.93", converted.Code())

	same, err := r.ConvertNode(node, vis.Version3_4a)
	require.NoError(t, err)
	assert.Same(t, node, same)
}

func TestRegistryConvertLocalId(t *testing.T) {
	r := newRegistry(t)

	id, err := r.ParseLocalId("/dnv-v2/vis-3-4a/411.1/C101.63/S206/meta/qty-temperature")
	require.NoError(t, err)

	converted, err := r.ConvertLocalId(id, vis.Version3_5a)
	require.NoError(t, err)
	assert.Equal(t,
		"/dnv-v2/vis-3-5a/411.1/C101.93/S206/meta/qty-temperature",
		converted.String())

	same, err := r.ConvertLocalId(id, vis.Version3_4a)
	require.NoError(t, err)
	assert.Same(t, id, same)
}

func TestRegistryTraverse(t *testing.T) {
	r := newRegistry(t)

	count := 0
	completed, err := r.Traverse(vis.Version3_4a, func(_ []*gmod.Node, _ *gmod.Node) gmod.HandlerResult {
		count++
		return gmod.Continue
	})
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Positive(t, count)
}

func TestRegistryMetricsExported(t *testing.T) {
	promRegistry := prometheus.NewRegistry()
	r := newRegistry(t, registry.WithMetrics(promRegistry))

	_, err := r.Gmod(vis.Version3_4a)
	require.NoError(t, err)

	families, err := promRegistry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["vismodel_registry_builds_total"])
	assert.True(t, names["vismodel_registry_build_duration_seconds"])
	assert.True(t, names["vismodel_cache_sets_total"])
}

func TestNewRequiresLoader(t *testing.T) {
	_, err := registry.New(nil)
	assert.True(t, verrors.IsConfigurationFault(err))
}

package registry_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/registry"
	"github.com/c360/vismodel/testutil"
	"github.com/c360/vismodel/vis"
)

// writeResourceDir lays the fixture tables out on disk the way a resource
// distribution would, gzipping one table to cover both encodings.
func writeResourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeJSON := func(name string, v any) {
		t.Helper()
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	writeGzipJSON := func(name string, v any) {
		t.Helper()
		data, err := json.Marshal(v)
		require.NoError(t, err)
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		zw := gzip.NewWriter(f)
		_, err = zw.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())
	}

	for _, v := range vis.All() {
		writeJSON("gmod-"+v.String()+".json", testutil.GmodDTO(t, v))
		writeJSON("locations-"+v.String()+".json", testutil.LocationsDTO(t, v))
		writeJSON("codebooks-"+v.String()+".json", testutil.CodebooksDTO(t, v))
	}
	first := true
	for target, dto := range testutil.VersioningDTOs(t) {
		if first {
			writeGzipJSON("gmod-vis-versioning-"+target+".json.gz", dto)
			first = false
			continue
		}
		writeJSON("gmod-vis-versioning-"+target+".json", dto)
	}
	return dir
}

func TestFileLoaderReadsTables(t *testing.T) {
	loader := registry.NewFileLoader(writeResourceDir(t))
	ctx := context.Background()

	dto, err := loader.GmodDTO(ctx, vis.Version3_4a)
	require.NoError(t, err)
	assert.Equal(t, "3-4a", dto.VisRelease)
	assert.NotEmpty(t, dto.Items)

	locs, err := loader.LocationsDTO(ctx, vis.Version3_4a)
	require.NoError(t, err)
	assert.NotEmpty(t, locs.Items)

	books, err := loader.CodebooksDTO(ctx, vis.Version3_4a)
	require.NoError(t, err)
	assert.NotEmpty(t, books.Items)
}

func TestFileLoaderReadsGzippedVersioningTables(t *testing.T) {
	loader := registry.NewFileLoader(writeResourceDir(t))

	tables, err := loader.VersioningDTOs(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Contains(t, tables, "3-5a")
	assert.Contains(t, tables, "3-6a")
}

func TestFileLoaderMissingResource(t *testing.T) {
	loader := registry.NewFileLoader(t.TempDir())

	_, err := loader.GmodDTO(context.Background(), vis.Version3_4a)
	assert.True(t, verrors.IsNotFound(err))
}

func TestFileLoaderCancelledContext(t *testing.T) {
	loader := registry.NewFileLoader(writeResourceDir(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.GmodDTO(ctx, vis.Version3_4a)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromConfigEndToEnd(t *testing.T) {
	cfg := registry.Config{
		Resources: writeResourceDir(t),
		Versions:  []string{"3-4a", "3-5a"},
		Cache:     registry.CacheConfig{LocalIdCapacity: 4},
	}
	r, err := registry.FromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Preload(context.Background()))

	id, err := r.ParseLocalId("/dnv-v2/vis-3-4a/411.1/C101.63/S206/meta/qty-temperature")
	require.NoError(t, err)

	converted, err := r.ConvertLocalId(id, vis.Version3_5a)
	require.NoError(t, err)
	assert.Equal(t,
		"/dnv-v2/vis-3-5a/411.1/C101.93/S206/meta/qty-temperature",
		converted.String())
}

package registry

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/vis"
)

// Loader supplies the decoded resource tables a release is built from.
// Implementations may read embedded resources, a directory, or a remote
// store; the registry does not care where tables come from.
type Loader interface {
	GmodDTO(ctx context.Context, version vis.Version) (gmod.DTO, error)
	LocationsDTO(ctx context.Context, version vis.Version) (location.DTO, error)
	CodebooksDTO(ctx context.Context, version vis.Version) (codebook.CollectionDTO, error)

	// VersioningDTOs returns every conversion rule table, keyed by the
	// target release's canonical version string.
	VersioningDTOs(ctx context.Context) (map[string]gmod.VersioningDTO, error)
}

const versioningPrefix = "gmod-vis-versioning-"

// FileLoader reads resource tables from a filesystem tree laid out as
// gmod-<version>.json, locations-<version>.json, codebooks-<version>.json
// and gmod-vis-versioning-<version>.json, each optionally gzipped with a
// .gz suffix.
type FileLoader struct {
	fsys fs.FS
}

// NewFileLoader reads resources from the directory at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{fsys: os.DirFS(dir)}
}

// NewFSLoader reads resources from an fs.FS, such as an embed.FS.
func NewFSLoader(fsys fs.FS) *FileLoader {
	return &FileLoader{fsys: fsys}
}

// GmodDTO decodes the taxonomy table for a release.
func (l *FileLoader) GmodDTO(ctx context.Context, version vis.Version) (gmod.DTO, error) {
	var dto gmod.DTO
	err := l.read(ctx, "gmod-"+version.String(), &dto)
	return dto, err
}

// LocationsDTO decodes the location table for a release.
func (l *FileLoader) LocationsDTO(ctx context.Context, version vis.Version) (location.DTO, error) {
	var dto location.DTO
	err := l.read(ctx, "locations-"+version.String(), &dto)
	return dto, err
}

// CodebooksDTO decodes the codebook bundle for a release.
func (l *FileLoader) CodebooksDTO(ctx context.Context, version vis.Version) (codebook.CollectionDTO, error) {
	var dto codebook.CollectionDTO
	err := l.read(ctx, "codebooks-"+version.String(), &dto)
	return dto, err
}

// VersioningDTOs decodes every conversion rule table present in the tree.
func (l *FileLoader) VersioningDTOs(ctx context.Context) (map[string]gmod.VersioningDTO, error) {
	names, err := fs.Glob(l.fsys, versioningPrefix+"*")
	if err != nil {
		return nil, errors.ConfigurationFault("scan versioning tables: %v", err)
	}
	tables := make(map[string]gmod.VersioningDTO, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".json")
		var dto gmod.VersioningDTO
		if err := l.read(ctx, base, &dto); err != nil {
			return nil, err
		}
		if dto.VisRelease == "" {
			return nil, errors.ConfigurationFault("versioning table %s carries no visRelease", name)
		}
		tables[dto.VisRelease] = dto
	}
	return tables, nil
}

// read decodes the table stored under base, trying the plain name first
// and the gzipped name second.
func (l *FileLoader) read(ctx context.Context, base string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := l.fsys.Open(base + ".json")
	var reader io.ReadCloser
	switch {
	case err == nil:
		reader = f
	default:
		gz, gzErr := l.fsys.Open(base + ".json.gz")
		if gzErr != nil {
			return errors.NotFound("resource %s: %v", base, err)
		}
		unzipped, gzErr := gzip.NewReader(gz)
		if gzErr != nil {
			_ = gz.Close()
			return errors.ConfigurationFault("resource %s: bad gzip stream: %v", base, gzErr)
		}
		reader = &gzipFile{file: gz, Reader: unzipped}
	}
	defer func() { _ = reader.Close() }()

	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return errors.ConfigurationFault("resource %s: decode: %v", filepath.Base(base), err)
	}
	return nil
}

// gzipFile closes both the gzip stream and the underlying file.
type gzipFile struct {
	file fs.File
	*gzip.Reader
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if fileErr := g.file.Close(); err == nil {
		err = fileErr
	}
	return err
}

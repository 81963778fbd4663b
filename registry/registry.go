package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/localid"
	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/pkg/cache"
	"github.com/c360/vismodel/vis"
)

// Option configures a Registry at construction time.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	registerer      prometheus.Registerer
	localIdCapacity int
	localIdTTL      time.Duration
	maxOccurrence   int
	preload         []vis.Version
}

// WithLogger sets the logger the registry reports builds and preloads to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics exports build and cache metrics to registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *options) { o.registerer = registerer }
}

// WithLocalIdCache caches parsed identifiers, bounded to capacity entries.
// A positive ttl additionally expires cached identifiers.
func WithLocalIdCache(capacity int, ttl time.Duration) Option {
	return func(o *options) {
		if capacity > 0 {
			o.localIdCapacity = capacity
			o.localIdTTL = ttl
		}
	}
}

// WithMaxTraversalOccurrence sets the default revisit limit for Traverse.
func WithMaxTraversalOccurrence(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOccurrence = n
		}
	}
}

func withPreloadSet(versions []vis.Version) Option {
	return func(o *options) { o.preload = versions }
}

// Registry builds and caches one immutable model artifact set per release.
// Safe for concurrent use; every accessor builds its artifact on first use.
type Registry struct {
	loader  Loader
	logger  *slog.Logger
	metrics *registryMetrics

	maxOccurrence int
	preload       []vis.Version

	locations cache.Cache[vis.Version, *location.Locations]
	gmods     cache.Cache[vis.Version, *gmod.Gmod]
	books     cache.Cache[vis.Version, *codebook.Codebooks]
	localIds  cache.Cache[string, *localid.LocalId]

	parser *localid.Parser

	versioningOnce sync.Once
	versioning     *gmod.Versioning
	versioningErr  error
}

// New builds a registry over loader. The zero option set gives an
// unbounded artifact cache, no identifier cache, and the default logger.
func New(loader Loader, opts ...Option) (*Registry, error) {
	if loader == nil {
		return nil, errors.ConfigurationFault("registry built without loader")
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	r := &Registry{
		loader:        loader,
		logger:        o.logger,
		maxOccurrence: o.maxOccurrence,
		preload:       o.preload,
	}

	var err error
	if o.registerer != nil {
		if r.metrics, err = newRegistryMetrics(o.registerer); err != nil {
			return nil, errors.ConfigurationFault("registry metrics registration: %v", err)
		}
	}

	if r.locations, err = newArtifactCache[*location.Locations](o, "locations"); err != nil {
		return nil, err
	}
	if r.gmods, err = newArtifactCache[*gmod.Gmod](o, "gmod"); err != nil {
		return nil, err
	}
	if r.books, err = newArtifactCache[*codebook.Codebooks](o, "codebooks"); err != nil {
		return nil, err
	}
	if o.localIdCapacity > 0 {
		idOpts := []cache.Option[string, *localid.LocalId]{
			cache.WithCapacity[string, *localid.LocalId](o.localIdCapacity),
			cache.WithMetrics[string, *localid.LocalId](o.registerer, "localid"),
		}
		if o.localIdTTL > 0 {
			idOpts = append(idOpts, cache.WithTTL[string, *localid.LocalId](o.localIdTTL))
		}
		if r.localIds, err = cache.New(idOpts...); err != nil {
			return nil, err
		}
	}

	r.parser = localid.NewParser(r)
	return r, nil
}

func newArtifactCache[V any](o *options, name string) (cache.Cache[vis.Version, V], error) {
	return cache.New(cache.WithMetrics[vis.Version, V](o.registerer, name))
}

// FromConfig builds a file-backed registry from a validated configuration.
// Explicit options override configuration-derived ones.
func FromConfig(cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	versions, err := cfg.preloadVersions()
	if err != nil {
		return nil, err
	}

	derived := []Option{withPreloadSet(versions)}
	if cfg.MaxTraversalOccurrence > 0 {
		derived = append(derived, WithMaxTraversalOccurrence(cfg.MaxTraversalOccurrence))
	}
	if cfg.Cache.LocalIdCapacity > 0 {
		derived = append(derived, WithLocalIdCache(cfg.Cache.LocalIdCapacity, time.Duration(cfg.Cache.LocalIdTTL)))
	}
	return New(NewFileLoader(cfg.Resources), append(derived, opts...)...)
}

// Locations returns the location table of a release, building it on first
// use.
func (r *Registry) Locations(version vis.Version) (*location.Locations, error) {
	if !version.IsValid() {
		return nil, errors.NotFound("unknown release")
	}
	return r.locations.GetOrCompute(version, func() (*location.Locations, error) {
		return r.buildLocations(context.Background(), version)
	})
}

// Gmod returns the taxonomy of a release, building it on first use.
func (r *Registry) Gmod(version vis.Version) (*gmod.Gmod, error) {
	if !version.IsValid() {
		return nil, errors.NotFound("unknown release")
	}
	return r.gmods.GetOrCompute(version, func() (*gmod.Gmod, error) {
		return r.buildGmod(context.Background(), version)
	})
}

// Codebooks returns the codebook bundle of a release, building it on first
// use.
func (r *Registry) Codebooks(version vis.Version) (*codebook.Codebooks, error) {
	if !version.IsValid() {
		return nil, errors.NotFound("unknown release")
	}
	return r.books.GetOrCompute(version, func() (*codebook.Codebooks, error) {
		return r.buildCodebooks(context.Background(), version)
	})
}

// Versioning returns the conversion engine, built at most once from every
// rule table the loader can supply.
func (r *Registry) Versioning() (*gmod.Versioning, error) {
	r.versioningOnce.Do(func() {
		start := time.Now()
		dtos, err := r.loader.VersioningDTOs(context.Background())
		if err == nil {
			r.versioning, err = gmod.NewVersioning(r, dtos)
		}
		r.observe("versioning", "all", start, err)
		if err != nil {
			r.versioningErr = err
			return
		}
		r.logger.Debug("built conversion engine",
			"tables", len(dtos), "duration", time.Since(start))
	})
	return r.versioning, r.versioningErr
}

func (r *Registry) buildLocations(ctx context.Context, version vis.Version) (*location.Locations, error) {
	start := time.Now()
	dto, err := r.loader.LocationsDTO(ctx, version)
	var locations *location.Locations
	if err == nil {
		locations, err = location.NewLocations(version, dto)
	}
	r.observe("locations", version.String(), start, err)
	if err != nil {
		return nil, errors.Wrap(err, "registry", "Locations", version.String())
	}
	r.logger.Debug("built location table", "version", version, "duration", time.Since(start))
	return locations, nil
}

func (r *Registry) buildGmod(ctx context.Context, version vis.Version) (*gmod.Gmod, error) {
	locations, err := r.Locations(version)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dto, err := r.loader.GmodDTO(ctx, version)
	var g *gmod.Gmod
	if err == nil {
		g, err = gmod.New(version, dto, locations)
	}
	r.observe("gmod", version.String(), start, err)
	if err != nil {
		return nil, errors.Wrap(err, "registry", "Gmod", version.String())
	}
	r.logger.Debug("built taxonomy",
		"version", version, "nodes", g.NodeCount(), "duration", time.Since(start))
	return g, nil
}

func (r *Registry) buildCodebooks(ctx context.Context, version vis.Version) (*codebook.Codebooks, error) {
	start := time.Now()
	dto, err := r.loader.CodebooksDTO(ctx, version)
	var books *codebook.Codebooks
	if err == nil {
		books, err = codebook.NewCodebooks(version, dto)
	}
	r.observe("codebooks", version.String(), start, err)
	if err != nil {
		return nil, errors.Wrap(err, "registry", "Codebooks", version.String())
	}
	r.logger.Debug("built codebooks", "version", version, "duration", time.Since(start))
	return books, nil
}

func (r *Registry) observe(artifact, version string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.observeBuild(artifact, version, time.Since(start).Seconds(), err)
	}
}

// Preload builds the artifacts of every given release concurrently. With no
// versions it builds the configured preload set, defaulting to every known
// release.
func (r *Registry) Preload(ctx context.Context, versions ...vis.Version) error {
	if len(versions) == 0 {
		versions = r.preload
	}
	if len(versions) == 0 {
		versions = vis.All()
	}

	start := time.Now()
	group, ctx := errgroup.WithContext(ctx)
	for _, version := range versions {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := r.Gmod(version); err != nil {
				return err
			}
			_, err := r.Codebooks(version)
			return err
		})
	}
	group.Go(func() error {
		_, err := r.Versioning()
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}
	r.logger.Info("preloaded releases", "count", len(versions), "duration", time.Since(start))
	return nil
}

// ParseLocalId parses an identifier against the releases this registry can
// load, serving repeated inputs from the identifier cache when enabled.
func (r *Registry) ParseLocalId(s string) (*localid.LocalId, error) {
	if r.localIds == nil {
		return r.parser.Parse(s)
	}
	return r.localIds.GetOrCompute(s, func() (*localid.LocalId, error) {
		return r.parser.Parse(s)
	})
}

// ParsePath parses a short-form taxonomy path in a release.
func (r *Registry) ParsePath(version vis.Version, s string) (*gmod.Path, error) {
	g, err := r.Gmod(version)
	if err != nil {
		return nil, err
	}
	return g.ParsePath(s)
}

// ParseFullPath parses a root-to-target taxonomy path in a release.
func (r *Registry) ParseFullPath(version vis.Version, s string) (*gmod.Path, error) {
	g, err := r.Gmod(version)
	if err != nil {
		return nil, err
	}
	return g.ParseFullPath(s)
}

// Traverse walks a release's taxonomy from the root with the registry's
// configured revisit limit.
func (r *Registry) Traverse(version vis.Version, handler gmod.Handler) (bool, error) {
	g, err := r.Gmod(version)
	if err != nil {
		return false, err
	}
	var opts []gmod.TraversalOption
	if r.maxOccurrence > 0 {
		opts = append(opts, gmod.WithMaxOccurrence(r.maxOccurrence))
	}
	return g.Traverse(handler, opts...)
}

// ConvertNode migrates a node into the target release.
func (r *Registry) ConvertNode(node *gmod.Node, target vis.Version) (*gmod.Node, error) {
	if node == nil {
		return nil, errors.InvalidStructure("cannot convert a nil node")
	}
	versioning, err := r.Versioning()
	if err != nil {
		return nil, err
	}
	return versioning.ConvertNode(node.Version(), node, target)
}

// ConvertPath migrates a path into the target release.
func (r *Registry) ConvertPath(path *gmod.Path, target vis.Version) (*gmod.Path, error) {
	if path == nil {
		return nil, errors.InvalidStructure("cannot convert a nil path")
	}
	versioning, err := r.Versioning()
	if err != nil {
		return nil, err
	}
	return versioning.ConvertPath(path.Version(), path, target)
}

// ConvertLocalId migrates an identifier into the target release by
// converting its items and carrying metadata tags over unchanged.
func (r *Registry) ConvertLocalId(id *localid.LocalId, target vis.Version) (*localid.LocalId, error) {
	if id == nil {
		return nil, errors.InvalidStructure("cannot convert a nil local id")
	}
	if id.Version() == target {
		return id, nil
	}
	versioning, err := r.Versioning()
	if err != nil {
		return nil, err
	}

	builder := id.Builder().WithVersion(target)
	if primary := id.PrimaryItem(); primary != nil {
		converted, err := versioning.ConvertPath(id.Version(), primary, target)
		if err != nil {
			return nil, err
		}
		builder = builder.WithPrimaryItem(converted)
	}
	if secondary := id.SecondaryItem(); secondary != nil {
		converted, err := versioning.ConvertPath(id.Version(), secondary, target)
		if err != nil {
			return nil, err
		}
		builder = builder.WithSecondaryItem(converted)
	}
	return builder.Build()
}

// Close releases the registry's caches.
func (r *Registry) Close() error {
	caches := []interface{ Close() error }{r.locations, r.gmods, r.books}
	if r.localIds != nil {
		caches = append(caches, r.localIds)
	}
	var firstErr error
	for _, c := range caches {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

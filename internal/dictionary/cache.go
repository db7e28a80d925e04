package dictionary

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
)

// MaxResidentVersions bounds how many index-version snapshots stay cached.
// Insertion beyond the bound evicts the least-recently-used version.
const MaxResidentVersions = 5

// SnapshotLoader builds a complete dictionary snapshot for an environment.
type SnapshotLoader[V any] func(ctx context.Context, envType domain.EnvironmentType) (map[string]V, error)

// VersionedCache holds immutable dictionary snapshots keyed by deployed index
// version. Readers see either a whole snapshot or none: a refresh builds the
// replacement map off to the side and swaps it in with a single Add, and a
// resident map is never mutated after insertion. Lookups on a non-resident
// version fail open.
type VersionedCache[V any] struct {
	name       string
	entries    *lru.Cache[string, map[string]V]
	load       SnapshotLoader[V]
	envs       EnvironmentResolver
	lookupsVec *prometheus.CounterVec
	refreshVec *prometheus.CounterVec
	logger     *zap.Logger
}

// NewVersionedCache creates a bounded versioned cache.
// lookups is a counter vec with labels "dictionary" and "result" ("hit"/"miss"),
// refreshes one with labels "dictionary" and "status" ("ok"/"error"); both may be nil.
func NewVersionedCache[V any](
	name string,
	load SnapshotLoader[V],
	envs EnvironmentResolver,
	lookups, refreshes *prometheus.CounterVec,
	logger *zap.Logger,
) (*VersionedCache[V], error) {
	entries, err := lru.New[string, map[string]V](MaxResidentVersions)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &VersionedCache[V]{
		name:       name,
		entries:    entries,
		load:       load,
		envs:       envs,
		lookupsVec: lookups,
		refreshVec: refreshes,
		logger:     logger,
	}, nil
}

// Lookup reads a key from the snapshot resident for version. It returns
// found=false, never an error, when the version is not resident or the key is
// absent: search traffic degrades to the unmodified term.
func (c *VersionedCache[V]) Lookup(version, key string) (V, bool) {
	snap, ok := c.entries.Get(version)
	if !ok {
		c.countLookup("miss")
		var zero V
		return zero, false
	}
	v, ok := snap[key]
	if ok {
		c.countLookup("hit")
	} else {
		c.countLookup("miss")
	}
	return v, ok
}

// Snapshot returns the whole resident map for a version, or found=false.
// Callers must treat the map as read-only.
func (c *VersionedCache[V]) Snapshot(version string) (map[string]V, bool) {
	return c.entries.Get(version)
}

// Load builds a snapshot from the dictionary store for the environment
// currently at version and inserts it. Idempotent: reloading the same version
// swaps in an equivalent snapshot.
func (c *VersionedCache[V]) Load(ctx context.Context, version string, envType domain.EnvironmentType) error {
	snap, err := c.load(ctx, envType)
	if err != nil {
		return fmt.Errorf("load %s snapshot for %s: %w", c.name, envType, err)
	}
	if snap == nil {
		snap = map[string]V{}
	}
	c.entries.Add(version, snap)
	c.logger.Info("Dictionary snapshot loaded",
		zap.String("dictionary", c.name),
		zap.String("version", version),
		zap.String("env", string(envType)),
		zap.Int("entries", len(snap)),
	)
	return nil
}

// Refresh resolves the environment's current version, rebuilds the snapshot
// and atomically replaces the cache entry for that version. A failed rebuild
// leaves the previous snapshot untouched; in-flight search traffic keeps
// serving from it.
func (c *VersionedCache[V]) Refresh(ctx context.Context, envType domain.EnvironmentType) error {
	version, err := c.envs.CurrentVersion(ctx, envType)
	if err != nil {
		c.logger.Warn("Dictionary refresh skipped: version unresolved",
			zap.String("dictionary", c.name),
			zap.String("env", string(envType)),
			zap.Error(err),
		)
		c.countRefresh("error")
		return fmt.Errorf("resolve version for %s: %w", envType, err)
	}
	if err := c.Load(ctx, version, envType); err != nil {
		c.logger.Warn("Dictionary refresh failed, previous snapshot kept",
			zap.String("dictionary", c.name),
			zap.String("version", version),
			zap.Error(err),
		)
		c.countRefresh("error")
		return err
	}
	c.countRefresh("ok")
	return nil
}

// InvalidateAndRefresh is the realtime-sync entry point for dictionary edits
// made outside the deploy flow. The entry is replaced, not dropped first, so
// no reader ever observes a gap or a half-updated map.
func (c *VersionedCache[V]) InvalidateAndRefresh(ctx context.Context, envType domain.EnvironmentType) error {
	c.logger.Info("Realtime dictionary sync requested",
		zap.String("dictionary", c.name),
		zap.String("env", string(envType)),
	)
	return c.Refresh(ctx, envType)
}

// WarmUp loads snapshots for every known environment/version pair. Individual
// failures are logged and skipped; the fail-open lookup contract covers gaps.
func (c *VersionedCache[V]) WarmUp(ctx context.Context) error {
	envs, err := c.envs.Environments(ctx)
	if err != nil {
		return fmt.Errorf("list environments: %w", err)
	}
	for _, env := range envs {
		if env.Version == "" {
			continue
		}
		if err := c.Load(ctx, env.Version, env.EnvType); err != nil {
			c.logger.Warn("Dictionary warm-up failed for environment",
				zap.String("dictionary", c.name),
				zap.String("env", string(env.EnvType)),
				zap.String("version", env.Version),
				zap.Error(err),
			)
		}
	}
	return nil
}

// ResidentVersions lists the currently cached versions, most recent last.
func (c *VersionedCache[V]) ResidentVersions() []string {
	return c.entries.Keys()
}

func (c *VersionedCache[V]) countLookup(result string) {
	if c.lookupsVec != nil {
		c.lookupsVec.WithLabelValues(c.name, result).Inc()
	}
}

func (c *VersionedCache[V]) countRefresh(status string) {
	if c.refreshVec != nil {
		c.refreshVec.WithLabelValues(c.name, status).Inc()
	}
}

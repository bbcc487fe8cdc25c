// Package cache provides byte-level caching for pipeline results.
//
// Canvas layouts and rendered artifacts are cached under content-derived
// keys: the canvas key hashes the normalized project tree plus the layout
// geometry, and the artifact key hashes the canvas bytes plus the output
// format. Identical input therefore always hits the same entry, and any
// change to the tree or the geometry invalidates it naturally.
//
// Three backends are provided:
//   - FileCache: hash-sharded directory, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached stage.
const (
	// TTLCanvas is how long computed canvas layouts stay valid.
	TTLCanvas = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay valid.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-level cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Derivation
// =============================================================================

// CanvasKeyOpts are the layout inputs that distinguish canvas cache entries.
type CanvasKeyOpts struct {
	HeaderHeight float64 `json:"header_height"`
	RowHeight    float64 `json:"row_height"`
	ColumnPitch  float64 `json:"column_pitch"`
	NodeGap      float64 `json:"node_gap"`
	GroupGap     float64 `json:"group_gap"`
	MarginX      float64 `json:"margin_x"`
	MarginY      float64 `json:"margin_y"`
}

// ArtifactKeyOpts are the render inputs that distinguish artifact cache entries.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// CanvasKey returns the key for a computed canvas, derived from the
	// content hash of the normalized project tree and the layout geometry.
	CanvasKey(treeHash string, opts CanvasKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact, derived from the
	// content hash of the canvas and the output format.
	ArtifactKey(canvasHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CanvasKey implements Keyer.
func (k *DefaultKeyer) CanvasKey(treeHash string, opts CanvasKeyOpts) string {
	return hashKey("canvas", treeHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(canvasHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", canvasHash, opts)
}

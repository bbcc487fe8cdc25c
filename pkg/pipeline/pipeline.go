// Package pipeline provides the core canvas pipeline for VishMaker.
//
// This package implements the ingest → layout → render pipeline shared by the
// CLI and the HTTP API. Centralizing it keeps behavior identical across entry
// points and gives both of them the same caching semantics.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: normalize the project's flow tree (absent child collections
//     become empty) and validate identities
//  2. Layout: run the hierarchy-to-graph transformer, producing positioned
//     table nodes and row-to-table edges
//  3. Render: serialize the canvas into the requested output formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ProjectID: "p1",
//	    Flows:     proj.Flows,
//	    Formats:   []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["json"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gauravm26/vishmaker/pkg/cache"
	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	// FormatJSON is the node/edge document for the web canvas renderer.
	FormatJSON = "json"

	// FormatDOT is Graphviz text for external tooling.
	FormatDOT = "dot"

	// FormatSVG is the standalone SVG drawing of the positioned tables.
	FormatSVG = "svg"

	// FormatDOTSVG is the DOT output rasterized through the embedded
	// Graphviz engine.
	FormatDOTSVG = "dot-svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:   true,
	FormatDOT:    true,
	FormatSVG:    true,
	FormatDOTSVG: true,
}

// DefaultFormats is used when no formats are requested.
var DefaultFormats = []string{FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the canvas pipeline.
// The serializable fields double as the API request body.
type Options struct {
	// Ingest options
	ProjectID string         `json:"project_id"`
	Flows     []project.Flow `json:"flows"`

	// Layout options; zero values fall back to canvas.DefaultGeometry.
	Geometry *canvas.Geometry `json:"geometry,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cached canvases and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canvas is the computed layout.
	Canvas canvas.Canvas

	// CanvasHash is the content hash of the serialized canvas.
	CanvasHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the canvas came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, dot-svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGeometry rejects non-positive layout constants. Nil geometry is
// valid and means defaults.
func ValidateGeometry(g *canvas.Geometry) error {
	if g == nil {
		return nil
	}
	if g.HeaderHeight <= 0 || g.RowHeight <= 0 || g.ColumnPitch <= 0 || g.NodeGap <= 0 || g.GroupGap <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "geometry constants must be positive")
	}
	if g.MarginX < 0 || g.MarginY < 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "margins must be non-negative")
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ProjectID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "project_id is required")
	}
	if err := errors.ValidateEntityID(o.ProjectID); err != nil {
		return err
	}
	if err := ValidateGeometry(o.Geometry); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// EffectiveGeometry returns the requested geometry or the defaults.
func (o *Options) EffectiveGeometry() canvas.Geometry {
	if o.Geometry != nil {
		return *o.Geometry
	}
	return canvas.DefaultGeometry()
}

// CanvasKeyOpts returns cache key options for the layout stage.
func (o *Options) CanvasKeyOpts() cache.CanvasKeyOpts {
	g := o.EffectiveGeometry()
	return cache.CanvasKeyOpts{
		HeaderHeight: g.HeaderHeight,
		RowHeight:    g.RowHeight,
		ColumnPitch:  g.ColumnPitch,
		NodeGap:      g.NodeGap,
		GroupGap:     g.GroupGap,
		MarginX:      g.MarginX,
		MarginY:      g.MarginY,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

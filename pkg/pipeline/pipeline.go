// Package pipeline provides the end-to-end render pipeline for Sectorviz.
//
// This package implements the complete load → style → layout → render flow
// that both the CLI and the preview server use. Centralizing it keeps the
// two entry points byte-identical in their output and shares one caching
// layer.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse and validate the disk listing
//  2. Layout: Compute the radial coordinate system for the listing
//  3. Render: Composite the primitive stream and encode each format
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    ListingPath: "disk.json",
//	    Formats:     []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sectorviz/sectorviz/pkg/cache"
	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/style"
)

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultSupersample is the default raster supersampling factor.
	DefaultSupersample = 2
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Input options. Exactly one of ListingPath or Disk must be set.
	ListingPath string     `json:"listing_path,omitempty"`
	Disk        *disk.Disk `json:"-"`

	// Style options. StylePath loads a TOML style file; when empty the
	// stock style is used.
	StylePath string `json:"style_path,omitempty"`

	// Layout options.
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	MinRadiusRatio float64 `json:"min_radius_ratio,omitempty"`
	IndexAngle     float64 `json:"index_angle,omitempty"`

	// Sides selects which disk sides to render into separate artifacts.
	// Empty means every side the listing has.
	Sides []int `json:"sides,omitempty"`

	// Render options.
	Formats     []string `json:"formats,omitempty"`
	Supersample int      `json:"supersample,omitempty"`
	Title       string   `json:"title,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs.
	RunID uuid.UUID

	// Disk is the loaded listing.
	Disk *disk.Disk

	// ListingHash is the content hash of the listing.
	ListingHash string

	// Artifacts contains rendered outputs. Nested both-sides renders are
	// keyed by bare format ("png"); per-side renders by "format:side"
	// ("svg:1").
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TrackCount int
	SideCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	// RenderHits counts artifacts served from cache.
	RenderHits int
	// RenderMisses counts artifacts that had to be rendered.
	RenderMisses int
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ListingPath == "" && o.Disk == nil {
		return errors.New(errors.ErrCodeInvalidInput, "listing path or disk is required")
	}
	if o.ListingPath != "" && o.Disk != nil {
		return errors.New(errors.ErrCodeInvalidInput, "listing path and disk are mutually exclusive")
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas %gx%g is negative", o.Width, o.Height)
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	switch o.Supersample {
	case 1, 2, 4, 8:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"supersample must be 1, 2, 4, or 8, got %d", o.Supersample)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	for _, s := range o.Sides {
		if s != 0 && s != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "side must be 0 or 1, got %d", s)
		}
	}

	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered artifact.
func (o *Options) ArtifactKeyOpts(styleHash string, side int, format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		StyleHash:      styleHash,
		Side:           side,
		Format:         format,
		Width:          o.Width,
		Height:         o.Height,
		Supersample:    o.Supersample,
		MinRadiusRatio: o.MinRadiusRatio,
		IndexAngle:     o.IndexAngle,
		Title:          o.Title,
	}
}

// loadStyle resolves the style spec for a run.
func (o *Options) loadStyle() (*style.Spec, error) {
	if o.StylePath == "" {
		return style.Default(), nil
	}
	return style.LoadFile(o.StylePath)
}

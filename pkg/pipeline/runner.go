package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sectorviz/sectorviz/pkg/cache"
	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/render/sink"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// nestedSide marks an artifact that shows every side in one nested render,
// in cache keys and artifact map keys.
const nestedSide = -1

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete load → layout → render pipeline with caching.
//
// With no side selection the whole disk renders into one nested artifact per
// format, keyed by the bare format name. With explicit sides each selected
// side renders separately, keyed "format:side".
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}
	logger = logger.With("run", result.RunID.String())

	// Stage 1: load and fingerprint the listing.
	loadStart := time.Now()
	d, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Disk = d
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TrackCount = d.TrackCount()
	result.Stats.SideCount = d.SideCount()

	var listingBuf bytes.Buffer
	if err := disk.WriteListing(d, &listingBuf); err != nil {
		return nil, err
	}
	result.ListingHash = cache.Hash(listingBuf.Bytes())

	spec, err := opts.loadStyle()
	if err != nil {
		return nil, err
	}
	styleData, err := json.Marshal(spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "fingerprinting style")
	}
	styleHash := cache.Hash(styleData)

	logger.Info("loaded listing",
		"name", d.Name,
		"sides", result.Stats.SideCount,
		"tracks", result.Stats.TrackCount,
		"duration", result.Stats.LoadTime)

	// Stage 2+3: layout and render each requested artifact.
	renderStart := time.Now()
	for _, side := range r.artifactSides(d, opts) {
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(result.ListingHash, opts.ArtifactKeyOpts(styleHash, side, format))

			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					result.Artifacts[artifactName(format, side)] = data
					result.CacheInfo.RenderHits++
					continue
				}
			}

			layoutStart := time.Now()
			plan, sides, err := r.planFor(d, spec, opts, side)
			if err != nil {
				return nil, err
			}
			result.Stats.LayoutTime += time.Since(layoutStart)

			data, err := r.renderOne(plan, d, spec, sides, opts, format)
			if err != nil {
				return nil, err
			}
			result.Artifacts[artifactName(format, side)] = data
			result.CacheInfo.RenderMisses++
			_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart) - result.Stats.LayoutTime

	logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHits,
		"rendered", result.CacheInfo.RenderMisses,
		"duration", time.Since(renderStart))

	return result, nil
}

// Load parses the listing from a file or takes the in-memory disk as-is.
func (r *Runner) Load(ctx context.Context, opts Options) (*disk.Disk, error) {
	if opts.Disk != nil {
		return opts.Disk, nil
	}
	return disk.ReadListingFile(opts.ListingPath)
}

// artifactSides expands the side selection against the loaded disk.
func (r *Runner) artifactSides(d *disk.Disk, opts Options) []int {
	if len(opts.Sides) == 0 {
		return []int{nestedSide}
	}
	return opts.Sides
}

// planFor computes the layout plan for one artifact. A nested artifact plans
// every disk side; a single-side artifact plans one ring stack.
func (r *Runner) planFor(d *disk.Disk, spec *style.Spec, opts Options, side int) (*geom.Plan, []int, error) {
	params := geom.Params{
		TrackCount:     d.TrackCount(),
		Margins:        spec.Margins,
		SideSpacing:    spec.SideSpacing,
		TrackGap:       spec.TrackGap,
		MinRadiusRatio: opts.MinRadiusRatio,
		IndexAngle:     opts.IndexAngle,
		Canvas:         geom.Size{W: opts.Width, H: opts.Height},
	}

	var sides []int
	if side == nestedSide {
		params.SideCount = d.SideCount()
		for s := 0; s < d.SideCount(); s++ {
			sides = append(sides, s)
		}
	} else {
		if side >= d.SideCount() {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput,
				"listing has %d sides, cannot render side %d", d.SideCount(), side)
		}
		params.SideCount = 1
		sides = []int{side}
	}

	plan, err := geom.Layout(params)
	if err != nil {
		return nil, nil, err
	}
	return plan, sides, nil
}

// renderOne composites and encodes a single artifact.
func (r *Runner) renderOne(plan *geom.Plan, d *disk.Disk, spec *style.Spec, sides []int, opts Options, format string) ([]byte, error) {
	prims, err := render.Composite(plan, d, spec, sides)
	if err != nil {
		return nil, err
	}

	var s render.Sink
	switch format {
	case FormatPNG:
		s = sink.NewRaster(sink.WithSupersample(opts.Supersample))
	case FormatSVG:
		title := opts.Title
		if title == "" {
			title = d.Name
		}
		s = sink.NewSVG(sink.WithDocumentTitle(title))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}

	return render.Render(s, plan, prims, spec.Background, spec.Blend)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func artifactName(format string, side int) string {
	if side == nestedSide {
		return format
	}
	return fmt.Sprintf("%s:%d", format, side)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sectorviz/sectorviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple outputs)
	formats     []string // output formats: "png", "svg"
	sides       []int    // sides to render separately; empty means nested
	style       string   // TOML style file path
	width       float64  // canvas width in pixels
	height      float64  // canvas height in pixels
	supersample int      // raster supersampling factor
	indexAngle  float64  // index position rotation in radians
	minRadius   float64  // hub fraction of the available radius
	title       string   // SVG document title
	noCache     bool     // disable the artifact cache
	refresh     bool     // re-render even on a cache hit
}

// newRenderCmd creates the render command for generating visualizations.
//
// Default settings:
//   - format: png
//   - canvas: 800x800
//   - supersample: 2
//   - sides: nested both-sides render
func newRenderCmd() *cobra.Command {
	var formatsStr, sidesStr string
	opts := renderOpts{
		width:       pipeline.DefaultWidth,
		height:      pipeline.DefaultHeight,
		supersample: pipeline.DefaultSupersample,
	}

	cmd := &cobra.Command{
		Use:   "render [listing]",
		Short: "Render a disk listing to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			var err error
			if opts.sides, err = parseSides(sidesStr); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg (comma-separated)")
	cmd.Flags().StringVar(&sidesStr, "side", "", "side(s) to render separately: 0, 1, or 0,1 (default: both nested)")
	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "TOML style file")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().IntVar(&opts.supersample, "supersample", opts.supersample, "raster supersampling factor: 1, 2, 4, or 8")
	cmd.Flags().Float64Var(&opts.indexAngle, "index-angle", 0, "index position rotation in radians")
	cmd.Flags().Float64Var(&opts.minRadius, "min-radius", 0, "hub fraction of the drawing radius, in [0, 1)")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title (default: listing name)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// parseSides parses the --side flag into a side index slice.
// Empty means a nested both-sides render.
func parseSides(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var sides []int
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "0":
			sides = append(sides, 0)
		case "1":
			sides = append(sides, 1)
		default:
			return nil, fmt.Errorf("invalid side: %q (must be 0 or 1)", part)
		}
	}
	return sides, nil
}

// runRender executes the pipeline for the listing and writes each artifact
// to its own file.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := newRunner(ctx, opts.noCache)
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		ListingPath:    input,
		StylePath:      opts.style,
		Width:          opts.width,
		Height:         opts.height,
		MinRadiusRatio: opts.minRadius,
		IndexAngle:     opts.indexAngle,
		Sides:          opts.sides,
		Formats:        opts.formats,
		Supersample:    opts.supersample,
		Title:          opts.title,
		Refresh:        opts.refresh,
		Logger:         logger,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spin.Stop()

	base := basePath(opts.output, input)
	single := len(result.Artifacts) == 1 && opts.output != "" && !strings.HasSuffix(opts.output, string(os.PathSeparator))

	for name, data := range result.Artifacts {
		path := artifactPath(base, name, single, opts.output)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.SideCount, result.Stats.TrackCount,
		result.CacheInfo.RenderHits, result.CacheInfo.RenderMisses)
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))
	return nil
}

// artifactPath builds the output filename for one artifact. Artifact names
// are "format" or "format:side"; sides become a _sideN suffix.
func artifactPath(base, name string, single bool, output string) string {
	if single {
		return output
	}
	format, side, found := strings.Cut(name, ":")
	if !found {
		return fmt.Sprintf("%s.%s", base, format)
	}
	return fmt.Sprintf("%s_side%s.%s", base, side, format)
}

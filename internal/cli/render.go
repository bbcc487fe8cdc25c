package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauravm26/vishmaker/internal/config"
	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/pipeline"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // output formats: "json", "dot", "svg", "dot-svg"
	configPath string   // optional config file for geometry overrides
	refresh    bool     // recompute even when cached
	noCache    bool     // disable the local cache entirely
}

// renderInput is the accepted shape of a requirements file: a full project
// document or a bare {"id": ..., "flows": [...]} object.
type renderInput struct {
	ID    string         `json:"id"`
	Flows []project.Flow `json:"flows"`
}

// renderCommand creates the render command for generating canvas artifacts
// from a requirements file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a requirements file to canvas artifacts",
		Long: `Render reads a JSON requirements file (a project document or a bare
{"id": ..., "flows": [...]} object), lays the tree out as a four-column
canvas, and writes the requested artifact formats next to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, dot-svg (comma-separated)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file for layout geometry overrides")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute layout and artifacts even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the local layout cache")

	return cmd
}

// runRender loads the requirements file, executes the pipeline, and writes
// one artifact file per requested format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	geometry, err := loadGeometry(opts.configPath)
	if err != nil {
		return err
	}

	in, err := loadInput(input)
	if err != nil {
		return err
	}
	flows, hlrs, llrs, tests := countTree(in.Flows)
	logger.Infof("Loaded %s: %d flows, %d HLRs, %d LLRs, %d test cases", input, flows, hlrs, llrs, tests)

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	spin := newSpinner(ctx, "Computing canvas layout")
	spin.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ProjectID: in.ID,
		Flows:     in.Flows,
		Geometry:  geometry,
		Formats:   opts.formats,
		Refresh:   opts.refresh,
		Logger:    logger,
	})
	if err != nil {
		spin.StopWithError("Layout failed")
		return err
	}
	if spin.Cancelled() {
		return ctx.Err()
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	printSuccess("Canvas computed")
	printStats(len(result.Canvas.Nodes), len(result.Canvas.Edges), result.CacheInfo.LayoutHit)
	printDetail("hash: %s", result.CanvasHash)

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + artifactExt(format)
		if opts.output != "" && len(opts.formats) == 1 {
			path = opts.output
		}
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// loadInput reads and decodes a requirements file. A file without an explicit
// project id falls back to its own base name.
func loadInput(path string) (*renderInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "requirements file %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read requirements file %s", path)
	}

	var in renderInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse requirements file %s", path)
	}
	if in.ID == "" {
		name := filepath.Base(path)
		in.ID = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return &in, nil
}

// loadGeometry returns geometry overrides from a config file, or nil when no
// file is given.
func loadGeometry(path string) (*canvas.Geometry, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	g := cfg.Geometry()
	return &g, nil
}

// countTree tallies entities per level for the load summary.
func countTree(flows []project.Flow) (nFlows, nHLRs, nLLRs, nTests int) {
	p := project.Project{Flows: flows}
	return p.CountEntities()
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["json"].
func parseFormats(s string) []string {
	if s == "" {
		return append([]string(nil), pipeline.DefaultFormats...)
	}
	return strings.Split(s, ",")
}

// artifactExt maps a pipeline format to a file extension.
func artifactExt(format string) string {
	if format == pipeline.FormatDOTSVG {
		return "dot.svg"
	}
	return format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in a
// known artifact extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

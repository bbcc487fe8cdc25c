package pipeline

import (
	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/canvas/sink"
	"github.com/gauravm26/vishmaker/pkg/errors"
)

// RenderCanvas serializes a canvas into the requested formats.
// Formats must have been validated; unknown formats are rejected here as a
// backstop for callers that skip Options validation.
func RenderCanvas(c canvas.Canvas, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(c, format, opts)
		if err != nil {
			return nil, err
		}
		out[format] = data
	}
	return out, nil
}

func renderFormat(c canvas.Canvas, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(c)
	case FormatDOT:
		return []byte(sink.ToDOT(c)), nil
	case FormatSVG:
		return sink.RenderSVG(c, opts.EffectiveGeometry()), nil
	case FormatDOTSVG:
		return sink.RenderDOTSVG(sink.ToDOT(c))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

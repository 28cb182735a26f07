package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/farepath/pkg/diag"
	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/pricing"
	"github.com/matzehuels/farepath/pkg/render"
)

// Render generates the artifacts of opts.Formats from a built matrix.
// The DOT source is generated once and shared by dot, svg and png.
func Render(ctx context.Context, m *pricing.Matrix, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeAborted, err, "render")
		}
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatText:
			var buf bytes.Buffer
			err = diag.Write(&buf, m, diag.Options{Flags: opts.Detailed, Limit: opts.MaxPaths})
			data = buf.Bytes()
		case FormatJSON:
			data, err = render.JSON(m)
		case FormatDOT, FormatSVG, FormatPNG:
			if dot == "" {
				dot = render.ToDOT(m, render.Options{Detailed: opts.Detailed, MaxPaths: opts.MaxPaths})
			}
			switch format {
			case FormatDOT:
				data = []byte(dot)
			case FormatSVG:
				data, err = render.RenderSVG(ctx, dot)
			default:
				data, err = render.RenderPNG(ctx, dot)
			}
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Package render exports a built pricing unit path matrix.
//
// # Formats
//
//   - [ToDOT] writes Graphviz DOT source: one node per pricing unit path,
//     one node per canonical pricing unit and one node per fare market.
//   - [RenderSVG] and [RenderPNG] lay the DOT source out with the
//     embedded Graphviz of github.com/goccy/go-graphviz.
//   - [JSON] writes a self-contained document of the matrix.
//
// Usage:
//
//	dot := render.ToDOT(m, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
package render

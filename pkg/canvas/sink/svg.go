package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gauravm26/vishmaker/pkg/canvas"
)

// SVG style constants. Purely cosmetic; positions come from the canvas.
const (
	svgFontFamily  = "Helvetica, Arial, sans-serif"
	svgTableFill   = "#ffffff"
	svgHeaderFill  = "#eef2f7"
	svgStroke      = "#94a3b8"
	svgEdgeStroke  = "#64748b"
	svgTitleColor  = "#1e293b"
	svgRowColor    = "#334155"
	svgTableWidth  = 280.0
	svgCornerRadius = 8.0
	svgTextPadding = 12.0
)

// RenderSVG draws the canvas directly as a standalone SVG document: one
// rounded rectangle per table with a header band and row separators, plus
// cubic connectors from each edge's source row to its target table.
func RenderSVG(c canvas.Canvas, geo canvas.Geometry) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		c.Width, c.Height, c.Width, c.Height)

	rowCenters := writeEdgeAnchors(c, geo)
	for _, e := range c.Edges {
		writeEdge(&buf, c, e, rowCenters, geo)
	}
	for _, n := range c.Nodes {
		writeTable(&buf, n, geo)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// writeEdgeAnchors precomputes the vertical center of every row handle.
func writeEdgeAnchors(c canvas.Canvas, geo canvas.Geometry) map[string]float64 {
	centers := make(map[string]float64)
	for _, n := range c.Nodes {
		for i, r := range n.Rows {
			centers[r.Handle()] = n.Y + geo.HeaderHeight + (float64(i)+0.5)*geo.RowHeight
		}
	}
	return centers
}

// writeEdge draws a cubic path from the source row's right edge to the
// target table's left edge.
func writeEdge(buf *bytes.Buffer, c canvas.Canvas, e canvas.Edge, rowCenters map[string]float64, geo canvas.Geometry) {
	src := c.Node(e.Source)
	dst := c.Node(e.Target)
	if src == nil || dst == nil {
		return
	}
	y1, ok := rowCenters[e.SourceHandle]
	if !ok {
		return
	}
	x1 := src.X + svgTableWidth
	x2 := dst.X
	y2 := dst.Y + geo.HeaderHeight/2 // Aim at the header band, not the table top edge
	mid := (x1 + x2) / 2

	fmt.Fprintf(buf,
		`  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		x1, y1, mid, y1, mid, y2, x2, y2, svgEdgeStroke)
}

// writeTable draws one table: background, header band, title, and rows.
func writeTable(buf *bytes.Buffer, n canvas.TableNode, geo canvas.Geometry) {
	fmt.Fprintf(buf,
		`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
		n.X, n.Y, svgTableWidth, n.Height, svgCornerRadius, svgTableFill, svgStroke)
	fmt.Fprintf(buf,
		`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
		n.X, n.Y, svgTableWidth, geo.HeaderHeight, svgCornerRadius, svgHeaderFill, svgStroke)
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" font-family="%s" font-size="14" font-weight="bold" fill="%s">%s</text>`+"\n",
		n.X+svgTextPadding, n.Y+geo.HeaderHeight/2+5, svgFontFamily, svgTitleColor, escapeXML(n.Title))

	for i, r := range n.Rows {
		rowTop := n.Y + geo.HeaderHeight + float64(i)*geo.RowHeight
		if i > 0 {
			fmt.Fprintf(buf,
				`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>`+"\n",
				n.X, rowTop, n.X+svgTableWidth, rowTop, svgStroke)
		}
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-family="%s" font-size="12" fill="%s">%d. %s</text>`+"\n",
			n.X+svgTextPadding, rowTop+geo.RowHeight/2+4, svgFontFamily, svgRowColor, r.Seq,
			escapeXML(truncate(r.Name, 38)))
	}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

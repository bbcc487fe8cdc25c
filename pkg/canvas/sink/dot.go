package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gauravm26/vishmaker/pkg/canvas"
)

// ToDOT converts a canvas to Graphviz DOT format. Each table becomes a
// record-shaped node with one field per row; edges connect table to table
// (DOT has no per-row connection handles). The result can be rendered with
// [RenderDOTSVG] or any external Graphviz installation.
func ToDOT(c canvas.Canvas) string {
	var buf bytes.Buffer
	buf.WriteString("digraph requirements {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range c.Nodes {
		// Record labels carry their own backslash escapes, so the label is
		// quoted manually instead of via %q.
		fmt.Fprintf(&buf, "  %q [label=\"%s\"];\n", n.ID, recordLabel(n))
	}

	buf.WriteString("\n")
	for _, e := range c.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// recordLabel builds a DOT record label: the title followed by one field per row.
func recordLabel(n canvas.TableNode) string {
	parts := make([]string, 0, len(n.Rows)+1)
	parts = append(parts, escapeRecord(n.Title))
	for _, r := range n.Rows {
		parts = append(parts, fmt.Sprintf("%d. %s", r.Seq, escapeRecord(r.Name)))
	}
	return strings.Join(parts, "|")
}

// escapeRecord escapes the characters DOT record labels treat specially.
func escapeRecord(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"{", "\\{",
		"}", "\\}",
		"|", "\\|",
		"<", "\\<",
		">", "\\>",
		`"`, `\"`,
	)
	return r.Replace(s)
}

// RenderDOTSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderDOTSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render SVG: %w", err)
	}
	return buf.Bytes(), nil
}

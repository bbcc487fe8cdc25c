// Package sink serializes a canvas into renderer-facing formats.
//
// Three sinks are provided:
//   - JSON: the node/edge document consumed by the web canvas renderer
//   - DOT: Graphviz text, optionally rasterized to SVG via go-graphviz
//   - SVG: a standalone drawing of the tables at their computed positions
//
// All sinks are deterministic: identical canvases produce byte-identical
// output.
package sink

import (
	"encoding/json"

	"github.com/gauravm26/vishmaker/pkg/canvas"
)

// =============================================================================
// Renderer Document Types
// =============================================================================

// Document is the node/edge payload handed to the diagram renderer. Node
// positions are absolute pixel coordinates; the renderer owns panning,
// zooming, and interactivity.
type Document struct {
	Nodes []DocumentNode `json:"nodes"`
	Edges []DocumentEdge `json:"edges"`
}

// DocumentNode is one table node in renderer shape.
type DocumentNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position is an absolute pixel coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the table contents rendered inside the node.
type NodeData struct {
	Title  string            `json:"title"`
	Column int               `json:"column"`
	Rows   []canvas.TableRow `json:"rows"`
}

// DocumentEdge is one parent-row-to-child-table connector in renderer shape.
type DocumentEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	Type         string `json:"type"`
}

// NodeTypeTable is the renderer node type for requirement tables.
const NodeTypeTable = "table"

// EdgeTypeSmooth is the renderer edge type used for all connectors.
const EdgeTypeSmooth = "smoothstep"

// =============================================================================
// JSON Rendering
// =============================================================================

// RenderJSON serializes the canvas as a pretty-printed renderer document.
func RenderJSON(c canvas.Canvas) ([]byte, error) {
	return json.MarshalIndent(ToDocument(c), "", "  ")
}

// ToDocument converts a canvas into the renderer document shape.
func ToDocument(c canvas.Canvas) Document {
	doc := Document{
		Nodes: make([]DocumentNode, len(c.Nodes)),
		Edges: make([]DocumentEdge, len(c.Edges)),
	}
	for i, n := range c.Nodes {
		doc.Nodes[i] = DocumentNode{
			ID:       n.ID,
			Type:     NodeTypeTable,
			Position: Position{X: n.X, Y: n.Y},
			Data: NodeData{
				Title:  n.Title,
				Column: n.Column,
				Rows:   n.Rows,
			},
		}
	}
	for i, e := range c.Edges {
		doc.Edges[i] = DocumentEdge{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			Type:         EdgeTypeSmooth,
		}
	}
	return doc
}

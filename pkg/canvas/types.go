package canvas

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Column indices, left to right.
const (
	ColumnFlow = iota
	ColumnHLR
	ColumnLLR
	ColumnTest
)

// Table ID prefixes per column. Row handle IDs use the same prefixes without
// the "-table" suffix, so "hlr-table-f1" holds rows with handles "hlr-<id>".
const (
	prefixFlow = "flow"
	prefixHLR  = "hlr"
	prefixLLR  = "llr"
	prefixTest = "test"
)

// =============================================================================
// Geometry
// =============================================================================

// Geometry holds the layout constants for table placement. The values are
// cosmetic tuning knobs: any positive constants produce a correct,
// non-overlapping canvas.
type Geometry struct {
	HeaderHeight float64 `json:"header_height"` // Fixed table header band
	RowHeight    float64 `json:"row_height"`    // Per-row band
	ColumnPitch  float64 `json:"column_pitch"`  // Horizontal distance between columns
	NodeGap      float64 `json:"node_gap"`      // Vertical gap between sibling tables
	GroupGap     float64 `json:"group_gap"`     // Vertical gap after a finished subtree
	MarginX      float64 `json:"margin_x"`      // Left margin of the first column
	MarginY      float64 `json:"margin_y"`      // Top margin of the first table
}

// DefaultGeometry returns the standard layout constants.
func DefaultGeometry() Geometry {
	return Geometry{
		HeaderHeight: 44,
		RowHeight:    36,
		ColumnPitch:  360,
		NodeGap:      28,
		GroupGap:     40,
		MarginX:      40,
		MarginY:      40,
	}
}

// columnX returns the x coordinate of a column.
func (g Geometry) columnX(col int) float64 {
	return g.MarginX + float64(col)*g.ColumnPitch
}

// tableHeight returns the estimated height of a table with n rows.
func (g Geometry) tableHeight(n int) float64 {
	return g.HeaderHeight + float64(n)*g.RowHeight
}

// =============================================================================
// Canvas - Transformer Output
// =============================================================================

// Canvas is the renderer-ready output of the transformer: positioned table
// nodes in four vertical columns plus directed edges from parent rows to
// child tables. It is rebuilt in full on every Build call and never persisted
// incrementally.
type Canvas struct {
	ProjectID string      `json:"project_id" bson:"project_id"`
	Nodes     []TableNode `json:"nodes" bson:"nodes"`
	Edges     []Edge      `json:"edges" bson:"edges"`
	Width     float64     `json:"width" bson:"width"`
	Height    float64     `json:"height" bson:"height"`
}

// TableNode is one positioned table in the canvas. Column identifies the
// vertical band (0=flows, 1=HLRs, 2=LLRs, 3=test cases).
type TableNode struct {
	ID     string     `json:"id" bson:"id"`
	Title  string     `json:"title" bson:"title"`
	Column int        `json:"column" bson:"column"`
	X      float64    `json:"x" bson:"x"`
	Y      float64    `json:"y" bson:"y"`
	Height float64    `json:"height" bson:"height"`
	Rows   []TableRow `json:"rows" bson:"rows"`
}

// TableRow is one entity rendered as a row inside a TableNode. Handle is the
// deterministic connection point ID referenced by edges originating at this
// row. EntityID points back at the originating domain entity.
type TableRow struct {
	ID          string `json:"id" bson:"id"`         // Row handle ID (unique across the canvas)
	Seq         int    `json:"seq" bson:"seq"`       // 1-based position within the table
	Name        string `json:"name" bson:"name"`     // Display text
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	EntityID    string `json:"entity_id" bson:"entity_id"`
}

// Handle returns the row's connection point ID. It is the row ID itself; the
// method exists to make edge-wiring call sites read naturally.
func (r TableRow) Handle() string { return r.ID }

// Edge is a directed connector from a specific row of a source table to a
// target table. Its ID composes the source row handle and the target table ID
// so identical input always yields identical edge identities.
type Edge struct {
	ID           string `json:"id" bson:"id"`
	Source       string `json:"source" bson:"source"`                // Source table ID
	SourceHandle string `json:"source_handle" bson:"source_handle"` // Row handle within the source table
	Target       string `json:"target" bson:"target"`               // Target table ID
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a Canvas to pretty-printed JSON bytes. Node and edge
// order is the deterministic traversal order produced by Build.
func Marshal(c Canvas) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Canvas.
func Unmarshal(data []byte) (Canvas, error) {
	var c Canvas
	if err := json.Unmarshal(data, &c); err != nil {
		return Canvas{}, fmt.Errorf("unmarshal canvas: %w", err)
	}
	return c, nil
}

// Node returns the table with the given ID, or nil if absent.
func (c *Canvas) Node(id string) *TableNode {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// TablesInColumn returns the tables assigned to a column, in layout order.
func (c *Canvas) TablesInColumn(col int) []TableNode {
	var out []TableNode
	for _, n := range c.Nodes {
		if n.Column == col {
			out = append(out, n)
		}
	}
	return out
}

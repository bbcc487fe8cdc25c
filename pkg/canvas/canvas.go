// Package canvas converts a project's requirements tree into a layered
// node/edge diagram.
//
// The four-level ownership hierarchy (Flow → HighLevelRequirement →
// LowLevelRequirement → TestCase) maps onto four fixed vertical columns. Each
// table node aggregates the children of one parent entity: a single table
// lists all flows, one table per flow lists its HLRs, one table per HLR lists
// its LLRs, and one table per LLR lists its test cases. Edges run from the
// parent's row to the child table.
//
// The transformer is a pure, single-pass tree traversal: no shared state
// survives a call, and identical input produces structurally identical
// output including absolute coordinates.
package canvas

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/gauravm26/vishmaker/pkg/project"
)

// =============================================================================
// Options
// =============================================================================

// Option configures a Build call.
type Option func(*builder)

// WithGeometry overrides the default layout constants.
func WithGeometry(g Geometry) Option {
	return func(b *builder) { b.geo = g }
}

// WithLogger attaches a logger for skip diagnostics. Without it, diagnostics
// are discarded.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// =============================================================================
// Build - Hierarchy-to-Graph Transformation
// =============================================================================

// Build converts a project's flow tree into a Canvas.
//
// A nil flows slice is the single recognized malformed input and yields an
// empty canvas rather than an error. Missing or empty child collections at
// any depth are normal branch termination: the branch contributes no child
// table and no edge, and sibling branches are unaffected.
func Build(projectID string, flows []project.Flow, opts ...Option) Canvas {
	b := &builder{
		geo:    DefaultGeometry(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		rows:   map[string]string{},
	}
	for _, opt := range opts {
		opt(b)
	}

	if flows == nil {
		b.logger.Warn("canvas build skipped: missing flows list", "project", projectID)
		return Canvas{ProjectID: projectID, Nodes: []TableNode{}, Edges: []Edge{}}
	}

	b.layoutFlows(projectID, flows)

	c := Canvas{
		ProjectID: projectID,
		Nodes:     b.nodes,
		Edges:     b.edges,
	}
	if c.Nodes == nil {
		c.Nodes = []TableNode{}
	}
	if c.Edges == nil {
		c.Edges = []Edge{}
	}
	c.Width, c.Height = b.extent()
	return c
}

// =============================================================================
// Builder - Single-Invocation Layout State
// =============================================================================

// builder holds the per-invocation accumulator state: emitted nodes/edges and
// the identity map used to wire parent rows to child tables. It is created
// fresh for every Build call and never shared.
//
// The map is keyed by row handle, not bare entity ID: identities are only
// unique within a level, so a flow and an HLR may legitimately carry the
// same raw ID. The level prefix in the handle keeps them apart.
type builder struct {
	geo    Geometry
	logger *log.Logger

	nodes []TableNode
	edges []Edge

	rows map[string]string // row handle → owning table ID
}

// layoutFlows runs the four-column traversal. Each column scope owns a
// running vertical cursor; after a subtree finishes, the parent cursor
// advances to at least the deepest descendant cursor so sibling tables in
// the same column never overlap, however unbalanced the tree.
func (b *builder) layoutFlows(projectID string, flows []project.Flow) {
	flowTable := b.emitTable(tableID(prefixFlow, projectID), "Flows", ColumnFlow, b.geo.MarginY, flowRows(flows))
	for i := range flows {
		b.register(prefixFlow, flows[i].ID, flowTable)
	}

	hlrY := b.geo.MarginY
	for _, flow := range flows {
		if len(flow.Requirements) == 0 {
			b.logger.Debug("flow has no requirements, skipping subtree", "flow", flow.ID)
			continue
		}

		table := b.emitTable(tableID(prefixHLR, flow.ID), flow.Name, ColumnHLR, hlrY, hlrRows(flow.Requirements))
		for i := range flow.Requirements {
			b.register(prefixHLR, flow.Requirements[i].ID, table)
		}
		b.emitEdge(prefixFlow, flow.ID, table)

		deepest := b.layoutLLRs(flow.Requirements, hlrY)
		hlrY = max(hlrY+b.geo.tableHeight(len(flow.Requirements))+b.geo.NodeGap, deepest) + b.geo.GroupGap
	}
}

// layoutLLRs lays out one LLR table per HLR, returning the deepest cursor
// reached in the LLR and test columns.
func (b *builder) layoutLLRs(hlrs []project.HighLevelRequirement, startY float64) float64 {
	llrY := startY
	for _, hlr := range hlrs {
		if len(hlr.Requirements) == 0 {
			b.logger.Debug("requirement has no low-level requirements, skipping subtree", "hlr", hlr.ID)
			continue
		}

		table := b.emitTable(tableID(prefixLLR, hlr.ID), hlr.Text, ColumnLLR, llrY, llrRows(hlr.Requirements))
		for i := range hlr.Requirements {
			b.register(prefixLLR, hlr.Requirements[i].ID, table)
		}
		b.emitEdge(prefixHLR, hlr.ID, table)

		deepest := b.layoutTests(hlr.Requirements, llrY)
		llrY = max(llrY+b.geo.tableHeight(len(hlr.Requirements))+b.geo.NodeGap, deepest) + b.geo.GroupGap
	}
	return llrY
}

// layoutTests lays out one test table per LLR, returning the test column
// cursor after the last emitted table.
func (b *builder) layoutTests(llrs []project.LowLevelRequirement, startY float64) float64 {
	testY := startY
	for _, llr := range llrs {
		if len(llr.TestCases) == 0 {
			b.logger.Debug("low-level requirement has no test cases, skipping table", "llr", llr.ID)
			continue
		}

		table := b.emitTable(tableID(prefixTest, llr.ID), llr.Text, ColumnTest, testY, testRows(llr.TestCases))
		for i := range llr.TestCases {
			b.register(prefixTest, llr.TestCases[i].ID, table)
		}
		b.emitEdge(prefixLLR, llr.ID, table)

		testY += b.geo.tableHeight(len(llr.TestCases)) + b.geo.NodeGap
	}
	return testY
}

// =============================================================================
// Emission Helpers
// =============================================================================

// emitTable appends a positioned table node and returns its ID.
func (b *builder) emitTable(id, title string, col int, y float64, rows []TableRow) string {
	b.nodes = append(b.nodes, TableNode{
		ID:     id,
		Title:  title,
		Column: col,
		X:      b.geo.columnX(col),
		Y:      y,
		Height: b.geo.tableHeight(len(rows)),
		Rows:   rows,
	})
	return id
}

// register records which table renders an entity's row. Entities are keyed by
// their level-qualified row handle.
func (b *builder) register(prefix, entityID, table string) {
	b.rows[rowHandle(prefix, entityID)] = table
}

// emitEdge wires the parent entity's row to the child table. The prefix names
// the parent's level, so a child sharing a raw ID with its parent cannot be
// mistaken for it. An unknown parent means the input was inconsistent; the
// edge is skipped and the traversal continues.
func (b *builder) emitEdge(prefix, parentID, targetTable string) {
	handle := rowHandle(prefix, parentID)
	source, ok := b.rows[handle]
	if !ok {
		b.logger.Debug("no rendered row for parent, skipping edge", "parent", parentID, "target", targetTable)
		return
	}
	b.edges = append(b.edges, Edge{
		ID:           fmt.Sprintf("e-%s-%s", handle, targetTable),
		Source:       source,
		SourceHandle: handle,
		Target:       targetTable,
	})
}

// extent returns the bounding box of all emitted tables plus margins.
func (b *builder) extent() (w, h float64) {
	for _, n := range b.nodes {
		if right := n.X + b.geo.ColumnPitch; right > w {
			w = right
		}
		if bottom := n.Y + n.Height; bottom > h {
			h = bottom
		}
	}
	if w > 0 {
		w += b.geo.MarginX
	}
	if h > 0 {
		h += b.geo.MarginY
	}
	return w, h
}

// =============================================================================
// Identity Derivation
// =============================================================================

func tableID(prefix, ownerID string) string {
	return fmt.Sprintf("%s-table-%s", prefix, ownerID)
}

func rowHandle(prefix, entityID string) string {
	return fmt.Sprintf("%s-%s", prefix, entityID)
}

// =============================================================================
// Row Construction
// =============================================================================

func flowRows(flows []project.Flow) []TableRow {
	rows := make([]TableRow, len(flows))
	for i, f := range flows {
		rows[i] = TableRow{
			ID:          rowHandle(prefixFlow, f.ID),
			Seq:         i + 1,
			Name:        f.Name,
			Description: f.Description,
			EntityID:    f.ID,
		}
	}
	return rows
}

func hlrRows(hlrs []project.HighLevelRequirement) []TableRow {
	rows := make([]TableRow, len(hlrs))
	for i, r := range hlrs {
		rows[i] = TableRow{
			ID:       rowHandle(prefixHLR, r.ID),
			Seq:      i + 1,
			Name:     r.Text,
			EntityID: r.ID,
		}
	}
	return rows
}

func llrRows(llrs []project.LowLevelRequirement) []TableRow {
	rows := make([]TableRow, len(llrs))
	for i, r := range llrs {
		rows[i] = TableRow{
			ID:          rowHandle(prefixLLR, r.ID),
			Seq:         i + 1,
			Name:        r.Text,
			Description: r.Detail,
			EntityID:    r.ID,
		}
	}
	return rows
}

func testRows(tcs []project.TestCase) []TableRow {
	rows := make([]TableRow, len(tcs))
	for i, tc := range tcs {
		rows[i] = TableRow{
			ID:          rowHandle(prefixTest, tc.ID),
			Seq:         i + 1,
			Name:        tc.Description,
			Description: tc.Expected,
			EntityID:    tc.ID,
		}
	}
	return rows
}

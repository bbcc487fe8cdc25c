package canvas

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gauravm26/vishmaker/pkg/project"
)

// buildTree constructs a flow tree where each flow has hlrs HLRs, each HLR
// has llrs LLRs, and each LLR has tests test cases.
func buildTree(flows, hlrs, llrs, tests int) []project.Flow {
	out := make([]project.Flow, flows)
	for f := range out {
		flow := project.Flow{ID: id("f", f), Name: "Flow"}
		for h := 0; h < hlrs; h++ {
			hlr := project.HighLevelRequirement{ID: id("h", f*100+h), Text: "HLR"}
			for l := 0; l < llrs; l++ {
				llr := project.LowLevelRequirement{ID: id("l", f*10000+h*100+l), Text: "LLR"}
				for t := 0; t < tests; t++ {
					llr.TestCases = append(llr.TestCases, project.TestCase{
						ID:          id("t", f*1000000+h*10000+l*100+t),
						Description: "check",
					})
				}
				hlr.Requirements = append(hlr.Requirements, llr)
			}
			flow.Requirements = append(flow.Requirements, hlr)
		}
		out[f] = flow
	}
	return out
}

func id(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

func TestBuildNilFlows(t *testing.T) {
	c := Build("p1", nil)
	if len(c.Nodes) != 0 || len(c.Edges) != 0 {
		t.Errorf("nil flows: got %d nodes, %d edges, want empty canvas", len(c.Nodes), len(c.Edges))
	}
	if c.Nodes == nil || c.Edges == nil {
		t.Error("empty canvas should carry non-nil slices for serialization")
	}
}

func TestBuildEmptyFlows(t *testing.T) {
	c := Build("p1", []project.Flow{})
	// An empty (but present) flow list still renders the flow table with zero rows.
	if len(c.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1 empty flow table", len(c.Nodes))
	}
	if got := len(c.Nodes[0].Rows); got != 0 {
		t.Errorf("flow table rows = %d, want 0", got)
	}
	if len(c.Edges) != 0 {
		t.Errorf("got %d edges, want 0", len(c.Edges))
	}
}

func TestTestTableCount(t *testing.T) {
	tests := []struct {
		name  string
		flows []project.Flow
	}{
		{"Balanced", buildTree(2, 2, 2, 2)},
		{"DeepSingle", buildTree(1, 1, 1, 5)},
		{"NoTests", buildTree(3, 2, 2, 0)},
		{"NoLLRs", buildTree(2, 3, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Build("p1", tt.flows)

			wantTables := 0
			for _, f := range tt.flows {
				for _, h := range f.Requirements {
					for _, l := range h.Requirements {
						if len(l.TestCases) > 0 {
							wantTables++
						}
					}
				}
			}
			if got := len(c.TablesInColumn(ColumnTest)); got != wantTables {
				t.Errorf("test tables = %d, want %d", got, wantTables)
			}
		})
	}
}

func TestNoDanglingEdges(t *testing.T) {
	c := Build("p1", buildTree(3, 2, 2, 2))

	ids := map[string]bool{}
	handles := map[string]bool{}
	for _, n := range c.Nodes {
		ids[n.ID] = true
		for _, r := range n.Rows {
			handles[r.Handle()] = true
		}
	}

	for _, e := range c.Edges {
		if !ids[e.Source] {
			t.Errorf("edge %s: source table %s not in node list", e.ID, e.Source)
		}
		if !ids[e.Target] {
			t.Errorf("edge %s: target table %s not in node list", e.ID, e.Target)
		}
		if !handles[e.SourceHandle] {
			t.Errorf("edge %s: source handle %s not rendered as a row", e.ID, e.SourceHandle)
		}
	}
}

func TestDeterminism(t *testing.T) {
	flows := buildTree(2, 3, 1, 2)
	a := Build("p1", flows)
	b := Build("p1", flows)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated builds over identical input differ")
	}
}

func TestColumnNoOverlap(t *testing.T) {
	tests := []struct {
		name  string
		flows []project.Flow
	}{
		{"Balanced", buildTree(2, 2, 2, 2)},
		{"Unbalanced", unbalancedTree()},
		{"WideTests", buildTree(1, 2, 3, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Build("p1", tt.flows)
			for col := ColumnFlow; col <= ColumnTest; col++ {
				tables := c.TablesInColumn(col)
				for i := 0; i < len(tables); i++ {
					for j := i + 1; j < len(tables); j++ {
						a, b := tables[i], tables[j]
						if a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
							t.Errorf("column %d: tables %s and %s overlap ([%v,%v) vs [%v,%v))",
								col, a.ID, b.ID, a.Y, a.Y+a.Height, b.Y, b.Y+b.Height)
						}
					}
				}
			}
		})
	}
}

// unbalancedTree pairs a heavy first branch with shallow siblings, the
// worst case for cursor propagation between columns.
func unbalancedTree() []project.Flow {
	heavy := buildTree(1, 1, 4, 5)[0]
	shallow := project.Flow{
		ID:   "f-shallow",
		Name: "Shallow",
		Requirements: []project.HighLevelRequirement{
			{ID: "h-shallow", Text: "only HLR"},
		},
	}
	leaf := project.Flow{ID: "f-leaf", Name: "Leaf"}
	return []project.Flow{heavy, shallow, leaf}
}

func TestSingleHLRWithoutLLRs(t *testing.T) {
	flows := []project.Flow{{
		ID:   "f1",
		Name: "Login",
		Requirements: []project.HighLevelRequirement{
			{ID: "h1", Text: "User can sign in"},
		},
	}}
	c := Build("p1", flows)

	if got := len(c.TablesInColumn(ColumnFlow)); got != 1 {
		t.Errorf("flow tables = %d, want 1", got)
	}
	if got := len(c.TablesInColumn(ColumnHLR)); got != 1 {
		t.Errorf("hlr tables = %d, want 1", got)
	}
	if got := len(c.TablesInColumn(ColumnLLR)); got != 0 {
		t.Errorf("llr tables = %d, want 0", got)
	}
	if got := len(c.TablesInColumn(ColumnTest)); got != 0 {
		t.Errorf("test tables = %d, want 0", got)
	}

	hlrTable := c.TablesInColumn(ColumnHLR)[0]
	if len(hlrTable.Rows) != 1 {
		t.Errorf("hlr table rows = %d, want 1", len(hlrTable.Rows))
	}

	if len(c.Edges) != 1 {
		t.Fatalf("edges = %d, want 1 (flow row → hlr table)", len(c.Edges))
	}
	e := c.Edges[0]
	if e.SourceHandle != "flow-f1" || e.Target != "hlr-table-f1" {
		t.Errorf("edge = %+v, want flow-f1 → hlr-table-f1", e)
	}
}

func TestSharedIDAcrossLevels(t *testing.T) {
	// Identity uniqueness holds per level only, so a flow and its HLR may
	// legitimately share a raw ID. Edges must still source from the flow's
	// own row, not the HLR's.
	flows := []project.Flow{{
		ID:   "x",
		Name: "Checkout",
		Requirements: []project.HighLevelRequirement{
			{
				ID:   "x",
				Text: "User can pay",
				Requirements: []project.LowLevelRequirement{
					{ID: "x", Text: "Card form validates"},
				},
			},
		},
	}}
	c := Build("p1", flows)

	if len(c.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(c.Edges))
	}

	flowEdge := c.Edges[0]
	if flowEdge.Source != "flow-table-p1" || flowEdge.SourceHandle != "flow-x" || flowEdge.Target != "hlr-table-x" {
		t.Errorf("flow edge = %+v, want flow-table-p1 / flow-x → hlr-table-x", flowEdge)
	}

	hlrEdge := c.Edges[1]
	if hlrEdge.Source != "hlr-table-x" || hlrEdge.SourceHandle != "hlr-x" || hlrEdge.Target != "llr-table-x" {
		t.Errorf("hlr edge = %+v, want hlr-table-x / hlr-x → llr-table-x", hlrEdge)
	}

	for _, e := range c.Edges {
		if e.Source == e.Target {
			t.Errorf("self-edge %+v", e)
		}
	}
}

func TestTwoHLRScenario(t *testing.T) {
	// One flow, two HLRs, each with one LLR carrying two test cases.
	flows := buildTree(1, 2, 1, 2)
	c := Build("p1", flows)

	counts := map[int]int{}
	for _, n := range c.Nodes {
		counts[n.Column]++
	}
	if counts[ColumnFlow] != 1 || counts[ColumnHLR] != 1 || counts[ColumnLLR] != 2 || counts[ColumnTest] != 2 {
		t.Errorf("table counts = %v, want {flow:1 hlr:1 llr:2 test:2}", counts)
	}

	hlrTable := c.TablesInColumn(ColumnHLR)[0]
	if len(hlrTable.Rows) != 2 {
		t.Errorf("hlr rows = %d, want 2", len(hlrTable.Rows))
	}
	for _, tbl := range c.TablesInColumn(ColumnTest) {
		if len(tbl.Rows) != 2 {
			t.Errorf("test table %s rows = %d, want 2", tbl.ID, len(tbl.Rows))
		}
	}

	// One edge per parent-row/child-table pair: flow→hlr ×1, hlr→llr ×2, llr→test ×2.
	if len(c.Edges) != 5 {
		t.Errorf("edges = %d, want 5", len(c.Edges))
	}
}

func TestMissingEqualsEmpty(t *testing.T) {
	withNil := []project.Flow{{
		ID:   "f1",
		Name: "Flow",
		Requirements: []project.HighLevelRequirement{
			{ID: "h1", Text: "HLR", Requirements: nil},
		},
	}}
	withEmpty := []project.Flow{{
		ID:   "f1",
		Name: "Flow",
		Requirements: []project.HighLevelRequirement{
			{ID: "h1", Text: "HLR", Requirements: []project.LowLevelRequirement{}},
		},
	}}

	a := Build("p1", withNil)
	b := Build("p1", withEmpty)
	if !reflect.DeepEqual(a, b) {
		t.Error("absent child collection behaves differently from explicit empty collection")
	}
}

func TestSkipsAreIndependent(t *testing.T) {
	// Second flow has no HLRs; it must still appear as a flow row while the
	// third flow's subtree renders normally.
	full := buildTree(1, 1, 1, 1)[0]
	bare := project.Flow{ID: "f-bare", Name: "Bare"}
	other := buildTree(1, 1, 1, 1)[0]
	other.ID = "f-other"
	for i := range other.Requirements {
		other.Requirements[i].ID = "h-other"
		for j := range other.Requirements[i].Requirements {
			other.Requirements[i].Requirements[j].ID = "l-other"
			for k := range other.Requirements[i].Requirements[j].TestCases {
				other.Requirements[i].Requirements[j].TestCases[k].ID = "t-other"
			}
		}
	}

	c := Build("p1", []project.Flow{full, bare, other})

	flowTable := c.TablesInColumn(ColumnFlow)[0]
	if len(flowTable.Rows) != 3 {
		t.Errorf("flow rows = %d, want 3 (bare flow still renders a row)", len(flowTable.Rows))
	}
	if got := len(c.TablesInColumn(ColumnHLR)); got != 2 {
		t.Errorf("hlr tables = %d, want 2", got)
	}
	if got := len(c.TablesInColumn(ColumnTest)); got != 2 {
		t.Errorf("test tables = %d, want 2", got)
	}
}

func TestColumnAssignment(t *testing.T) {
	geo := DefaultGeometry()
	c := Build("p1", buildTree(1, 1, 1, 1), WithGeometry(geo))
	for _, n := range c.Nodes {
		if want := geo.MarginX + float64(n.Column)*geo.ColumnPitch; n.X != want {
			t.Errorf("table %s: x = %v, want %v", n.ID, n.X, want)
		}
	}
}

func TestCustomGeometry(t *testing.T) {
	geo := Geometry{HeaderHeight: 10, RowHeight: 5, ColumnPitch: 100, NodeGap: 4, GroupGap: 6, MarginX: 0, MarginY: 0}
	c := Build("p1", buildTree(1, 2, 1, 1), WithGeometry(geo))

	flowTable := c.TablesInColumn(ColumnFlow)[0]
	if flowTable.Height != 10+1*5 {
		t.Errorf("flow table height = %v, want 15", flowTable.Height)
	}
	hlrTable := c.TablesInColumn(ColumnHLR)[0]
	if hlrTable.Height != 10+2*5 {
		t.Errorf("hlr table height = %v, want 20", hlrTable.Height)
	}
}

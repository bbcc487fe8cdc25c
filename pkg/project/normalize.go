package project

// Normalize coerces absent child collections to empty slices at every level
// of the tree. Downstream consumers (the canvas transformer in particular)
// can then assume collections are always present, possibly empty, and never
// need per-field nil checks.
//
// Normalize mutates the project in place and returns it for chaining.
func Normalize(p *Project) *Project {
	if p == nil {
		return nil
	}
	p.Flows = NormalizeFlows(p.Flows)
	return p
}

// NormalizeFlows coerces absent child collections to empty slices for a flow
// slice. It is the entry point used when flows arrive without an enclosing
// Project (e.g. a PUT /flows request body).
func NormalizeFlows(flows []Flow) []Flow {
	if flows == nil {
		return []Flow{}
	}
	for i := range flows {
		f := &flows[i]
		if f.Requirements == nil {
			f.Requirements = []HighLevelRequirement{}
		}
		for j := range f.Requirements {
			hlr := &f.Requirements[j]
			if hlr.Requirements == nil {
				hlr.Requirements = []LowLevelRequirement{}
			}
			for k := range hlr.Requirements {
				llr := &hlr.Requirements[k]
				if llr.TestCases == nil {
					llr.TestCases = []TestCase{}
				}
			}
		}
	}
	return flows
}

// Clone returns a deep copy of the project. Stores hand out clones so callers
// can mutate results without racing the store's internal state.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.Flows = CloneFlows(p.Flows)
	return &out
}

// CloneFlows returns a deep copy of a flow slice.
func CloneFlows(flows []Flow) []Flow {
	if flows == nil {
		return nil
	}
	out := make([]Flow, len(flows))
	for i, f := range flows {
		out[i] = f
		out[i].Requirements = make([]HighLevelRequirement, len(f.Requirements))
		for j, hlr := range f.Requirements {
			out[i].Requirements[j] = hlr
			out[i].Requirements[j].Requirements = make([]LowLevelRequirement, len(hlr.Requirements))
			for k, llr := range hlr.Requirements {
				out[i].Requirements[j].Requirements[k] = llr
				out[i].Requirements[j].Requirements[k].TestCases = append([]TestCase(nil), llr.TestCases...)
			}
		}
	}
	return out
}

// Package project defines the VishMaker requirements domain model.
//
// A Project owns an ordered list of Flows (user journeys). Each Flow owns
// HighLevelRequirements, each of which owns LowLevelRequirements, each of
// which owns TestCases. Ownership is strictly tree-shaped: an entity belongs
// to exactly one parent, and identities are unique within their level across
// the whole project.
//
// The types in this package are the canonical serialization format for both
// the HTTP API and the store. They carry json and bson tags so the same
// structs round-trip through API responses and MongoDB documents.
package project

import (
	"fmt"
	"time"
)

// =============================================================================
// Project - Top-Level Aggregate
// =============================================================================

// Project is the top-level aggregate owning the full requirements tree.
type Project struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Flows       []Flow    `json:"flows" bson:"flows"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Flow is a top-level user-journey grouping owning high-level requirements.
type Flow struct {
	ID           string                 `json:"id" bson:"id"`
	Name         string                 `json:"name" bson:"name"`
	Description  string                 `json:"description,omitempty" bson:"description,omitempty"`
	Requirements []HighLevelRequirement `json:"requirements" bson:"requirements"`
}

// HighLevelRequirement is a coarse requirement statement under a Flow.
type HighLevelRequirement struct {
	ID           string                `json:"id" bson:"id"`
	Text         string                `json:"text" bson:"text"`
	Requirements []LowLevelRequirement `json:"requirements" bson:"requirements"`
}

// LowLevelRequirement is a fine-grained, implementation-oriented requirement
// under a HighLevelRequirement.
type LowLevelRequirement struct {
	ID        string     `json:"id" bson:"id"`
	Text      string     `json:"text" bson:"text"`
	Detail    string     `json:"detail,omitempty" bson:"detail,omitempty"` // Technical detail
	TestCases []TestCase `json:"test_cases" bson:"test_cases"`
}

// TestCase is a verification scenario under a LowLevelRequirement.
type TestCase struct {
	ID          string `json:"id" bson:"id"`
	Description string `json:"description" bson:"description"`
	Expected    string `json:"expected,omitempty" bson:"expected,omitempty"` // Expected result
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural invariants of the project tree: non-empty
// identities and identity uniqueness within each level. It does not reject
// empty child collections - those are valid everywhere.
func (p *Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project id is required")
	}

	flowIDs := map[string]bool{}
	hlrIDs := map[string]bool{}
	llrIDs := map[string]bool{}
	tcIDs := map[string]bool{}

	for _, f := range p.Flows {
		if err := checkID("flow", f.ID, flowIDs); err != nil {
			return err
		}
		for _, hlr := range f.Requirements {
			if err := checkID("high-level requirement", hlr.ID, hlrIDs); err != nil {
				return err
			}
			for _, llr := range hlr.Requirements {
				if err := checkID("low-level requirement", llr.ID, llrIDs); err != nil {
					return err
				}
				for _, tc := range llr.TestCases {
					if err := checkID("test case", tc.ID, tcIDs); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func checkID(level, id string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("%s id is required", level)
	}
	if seen[id] {
		return fmt.Errorf("duplicate %s id: %s", level, id)
	}
	seen[id] = true
	return nil
}

// =============================================================================
// Counting Helpers
// =============================================================================

// CountEntities returns the number of flows, HLRs, LLRs, and test cases in the tree.
func (p *Project) CountEntities() (flows, hlrs, llrs, tests int) {
	flows = len(p.Flows)
	for _, f := range p.Flows {
		hlrs += len(f.Requirements)
		for _, hlr := range f.Requirements {
			llrs += len(hlr.Requirements)
			for _, llr := range hlr.Requirements {
				tests += len(llr.TestCases)
			}
		}
	}
	return flows, hlrs, llrs, tests
}

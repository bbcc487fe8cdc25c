package project

import (
	"strings"
	"testing"
)

func sampleProject() *Project {
	return &Project{
		ID:   "p1",
		Name: "Webshop",
		Flows: []Flow{
			{
				ID:   "f1",
				Name: "Checkout",
				Requirements: []HighLevelRequirement{
					{
						ID:   "h1",
						Text: "User can pay",
						Requirements: []LowLevelRequirement{
							{
								ID:   "l1",
								Text: "Card form validates input",
								TestCases: []TestCase{
									{ID: "t1", Description: "rejects short numbers"},
									{ID: "t2", Description: "accepts valid cards"},
								},
							},
						},
					},
					{ID: "h2", Text: "User gets a receipt"},
				},
			},
			{ID: "f2", Name: "Returns"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Project)
		wantErr string
	}{
		{
			name:   "valid tree",
			mutate: func(p *Project) {},
		},
		{
			name:    "missing project id",
			mutate:  func(p *Project) { p.ID = "" },
			wantErr: "project id is required",
		},
		{
			name:    "missing flow id",
			mutate:  func(p *Project) { p.Flows[0].ID = "" },
			wantErr: "flow id is required",
		},
		{
			name:    "duplicate flow id",
			mutate:  func(p *Project) { p.Flows[1].ID = "f1" },
			wantErr: "duplicate flow id",
		},
		{
			name: "duplicate hlr id across flows",
			mutate: func(p *Project) {
				p.Flows[1].Requirements = []HighLevelRequirement{{ID: "h1", Text: "dup"}}
			},
			wantErr: "duplicate high-level requirement id",
		},
		{
			name: "duplicate test case id",
			mutate: func(p *Project) {
				p.Flows[0].Requirements[0].Requirements[0].TestCases[1].ID = "t1"
			},
			wantErr: "duplicate test case id",
		},
		{
			name: "missing llr id",
			mutate: func(p *Project) {
				p.Flows[0].Requirements[0].Requirements[0].ID = ""
			},
			wantErr: "low-level requirement id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProject()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAllowsEmptyChildren(t *testing.T) {
	p := &Project{ID: "p1", Name: "Empty", Flows: []Flow{{ID: "f1", Name: "Bare"}}}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for flow without requirements", err)
	}
}

func TestNormalize(t *testing.T) {
	p := &Project{
		ID:   "p1",
		Name: "Webshop",
		Flows: []Flow{
			{
				ID:   "f1",
				Name: "Checkout",
				Requirements: []HighLevelRequirement{
					{
						ID:   "h1",
						Text: "pay",
						Requirements: []LowLevelRequirement{
							{ID: "l1", Text: "validate"},
						},
					},
				},
			},
		},
	}
	Normalize(p)

	llr := p.Flows[0].Requirements[0].Requirements[0]
	if llr.TestCases == nil {
		t.Error("TestCases still nil after Normalize")
	}
	if len(llr.TestCases) != 0 {
		t.Errorf("TestCases = %d entries, want 0", len(llr.TestCases))
	}
}

func TestNormalizeNilFlows(t *testing.T) {
	p := &Project{ID: "p1", Name: "Empty"}
	Normalize(p)
	if p.Flows == nil {
		t.Error("Flows still nil after Normalize")
	}
}

func TestNormalizeFlowsNilInput(t *testing.T) {
	if got := NormalizeFlows(nil); got == nil {
		t.Error("NormalizeFlows(nil) = nil, want empty slice")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleProject()
	cp := orig.Clone()

	cp.Flows[0].Name = "Mutated"
	cp.Flows[0].Requirements[0].Requirements[0].TestCases[0].Description = "mutated"

	if orig.Flows[0].Name != "Checkout" {
		t.Error("clone shares flow slice with original")
	}
	if orig.Flows[0].Requirements[0].Requirements[0].TestCases[0].Description != "rejects short numbers" {
		t.Error("clone shares test case slice with original")
	}
}

func TestCountEntities(t *testing.T) {
	p := sampleProject()
	flows, hlrs, llrs, tcs := p.CountEntities()
	if flows != 2 || hlrs != 2 || llrs != 1 || tcs != 2 {
		t.Errorf("CountEntities() = (%d, %d, %d, %d), want (2, 2, 1, 2)", flows, hlrs, llrs, tcs)
	}
}

package models

import "strings"

// SourceType records where a set of precedents came from
type SourceType string

const (
	SourceGeneralKnowledgeBase   SourceType = "GeneralKnowledgeBase"
	SourceCustomUserLibrary      SourceType = "CustomUserLibrary"
	SourceHostedRetrievalService SourceType = "HostedRetrievalService"
)

// Precedent represents a past case considered relevant to a query
type Precedent struct {
	CaseName    string  `json:"caseName"`
	Citation    string  `json:"citation"`
	Summary     string  `json:"summary"`
	Differences *string `json:"differences,omitempty"`
}

// LawsResult lists statutes, sections or articles in relevance order
type LawsResult struct {
	Laws []string `json:"laws"`
}

// PrecedentsResult lists precedents together with their provenance
type PrecedentsResult struct {
	Precedents []Precedent `json:"precedents"`
	SourceType SourceType  `json:"sourceType"`
}

// ChecklistResult lists procedural steps in the order they should be taken
type ChecklistResult struct {
	Checklist []string `json:"checklist"`
}

// StructuredLegalInfo is the shape produced by parsing a raw retrieval answer
type StructuredLegalInfo struct {
	Laws       []string    `json:"laws"`
	Precedents []Precedent `json:"precedents"`
	Checklist  []string    `json:"checklist"`
}

// Outcome summarizes how many capability slices produced a result
type Outcome string

const (
	OutcomeComplete   Outcome = "complete"
	OutcomePartial    Outcome = "partial"
	OutcomeNoInsights Outcome = "no_insights"
)

// Slice names one of the three capability calls of a query
type Slice string

const (
	SliceLaws       Slice = "laws"
	SlicePrecedents Slice = "precedents"
	SliceChecklist  Slice = "checklist"
)

// Notice is a human-readable report of a failed slice
type Notice struct {
	Slice   Slice  `json:"slice,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Insights is the merged answer to one legal query
type Insights struct {
	Laws       LawsResult       `json:"laws"`
	Precedents PrecedentsResult `json:"precedents"`
	Checklist  ChecklistResult  `json:"checklist"`
	Notices    []Notice         `json:"notices"`
	Outcome    Outcome          `json:"outcome"`
	Sequence   uint64           `json:"sequence"`
}

// EmptyInsights returns an Insights value whose every collection is non-nil
func EmptyInsights(source SourceType) *Insights {
	return &Insights{
		Laws:       LawsResult{Laws: []string{}},
		Precedents: PrecedentsResult{Precedents: []Precedent{}, SourceType: source},
		Checklist:  ChecklistResult{Checklist: []string{}},
		Notices:    []Notice{},
		Outcome:    OutcomeComplete,
	}
}

// EmptyStructuredLegalInfo returns a StructuredLegalInfo with empty, non-nil sections
func EmptyStructuredLegalInfo() *StructuredLegalInfo {
	return &StructuredLegalInfo{
		Laws:       []string{},
		Precedents: []Precedent{},
		Checklist:  []string{},
	}
}

// Insights converts extracted information into the shape returned by the fan-out path
func (s *StructuredLegalInfo) Insights(source SourceType) *Insights {
	out := EmptyInsights(source)
	if s == nil {
		return out
	}
	out.Laws.Laws = append(out.Laws.Laws, s.Laws...)
	out.Precedents.Precedents = append(out.Precedents.Precedents, s.Precedents...)
	out.Checklist.Checklist = append(out.Checklist.Checklist, s.Checklist...)
	return out
}

// CleanStrings trims every entry and drops the blank ones. The result is never nil.
func CleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CleanPrecedents trims fields, drops precedents without a case name and
// removes blank differences. The result is never nil.
func CleanPrecedents(in []Precedent) []Precedent {
	out := make([]Precedent, 0, len(in))
	for _, p := range in {
		p.CaseName = strings.TrimSpace(p.CaseName)
		if p.CaseName == "" {
			continue
		}
		p.Citation = strings.TrimSpace(p.Citation)
		p.Summary = strings.TrimSpace(p.Summary)
		if p.Differences != nil {
			d := strings.TrimSpace(*p.Differences)
			if d == "" {
				p.Differences = nil
			} else {
				p.Differences = &d
			}
		}
		out = append(out, p)
	}
	return out
}

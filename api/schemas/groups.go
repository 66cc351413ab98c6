package schemas

import (
	"time"
)

// -- Grouping Schemas --

// Level is the discrete three-step scale used for a group's derived
// severity, fix effort and business impact.
type Level string

// Constants defining the standard levels, lowest to highest.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// IssueGroup is a cluster of findings that share a normalized issue type
// key, i.e. the same underlying defect observed on one or more pages.
// Groups are finalized in a second pass once all findings for a key have
// been collected; IsTemplateIssue is never flagged incrementally.
type IssueGroup struct {
	ID        string `json:"id"`         // Unique group identifier.
	IssueType string `json:"issue_type"` // Normalized issue type key.

	// Pages lists affected page URLs in the order findings arrived.
	// Invariant: len(Pages) equals the number of findings in the group.
	Pages []string `json:"pages"`

	Severity       Level `json:"severity"`
	Effort         Level `json:"effort"`
	BusinessImpact Level `json:"business_impact"`

	// IsTemplateIssue marks defects rooted in a shared page template:
	// fixable once to resolve every affected page.
	IsTemplateIssue bool `json:"is_template_issue"`

	// Evidence records which detection conditions fired (URL pattern
	// similarity, template-efficient type, severity escalation).
	Evidence []string `json:"evidence,omitempty"`

	// PriorityScore is derived from severity, business impact, effort and
	// page impact; it exists only as an attribute of the group.
	PriorityScore float64 `json:"priority_score"`
}

// EfficiencySummary quantifies the effort saved by fixing template issues
// at the template instead of page by page.
type EfficiencySummary struct {
	// PagesFixedByTemplates counts pages resolved "for free" beyond the
	// single template fix in each template group.
	PagesFixedByTemplates int `json:"pages_fixed_by_templates"`

	// EffortReductionPct is the percentage of per-page fix effort avoided
	// versus treating every affected page individually.
	EffortReductionPct float64 `json:"effort_reduction_pct"`
}

// GroupingReport aggregates a whole audit's issue groups for the report
// renderer and API layer.
type GroupingReport struct {
	TotalGroups        int               `json:"total_groups"`
	TemplateGroups     int               `json:"template_groups"`
	IndividualGroups   int               `json:"individual_groups"`
	HighSeverityGroups int               `json:"high_severity_groups"`
	TotalAffectedPages int               `json:"total_affected_pages"`
	TopGroups          []IssueGroup      `json:"top_groups"`
	Efficiency         EfficiencySummary `json:"efficiency"`
}

// ClassificationReport summarizes classifier verdicts across an audit.
type ClassificationReport struct {
	Total                int     `json:"total"`
	PriorityCount        int     `json:"priority_count"`
	StandardCount        int     `json:"standard_count"`
	FlaggedForValidation int     `json:"flagged_for_validation"`
	PriorityRatio        float64 `json:"priority_ratio"`

	// Recommendations carries qualitative guidance when the priority ratio
	// drifts outside expected bounds.
	Recommendations []string `json:"recommendations,omitempty"`
}

// ClassifiedFinding pairs an input finding with its classification result.
type ClassifiedFinding struct {
	Finding Finding              `json:"finding"`
	Result  ClassificationResult `json:"result"`
}

// TriageEnvelope is the top level wrapper for the whole-audit triage output.
type TriageEnvelope struct {
	AuditID     string               `json:"audit_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Findings    []ClassifiedFinding  `json:"findings"`
	Groups      []IssueGroup         `json:"groups"`
	Grouping    GroupingReport       `json:"grouping"`
	Summary     ClassificationReport `json:"summary"`
}

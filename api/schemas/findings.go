package schemas

// -- Finding Schemas --

// Importance is the coarse severity supplied by the crawler alongside a
// finding, before the triage engine has classified it. The values are
// lowercase to align with the report JSON contract.
type Importance string

// Constants defining the coarse importance levels attached to raw findings.
const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Verdict is the severity verdict produced by the classifier. An OFI
// ("Opportunity For Improvement") is either standard work or priority work
// that should be validated by a human before it ships to a client report.
type Verdict string

// Constants defining the two classifier verdicts.
const (
	VerdictPriority Verdict = "Priority OFI"
	VerdictStandard Verdict = "Standard OFI"
)

// Finding encapsulates a single SEO defect reported by the crawler/analyzer.
// The triage engine consumes findings read-only; classification never mutates
// a Finding in place and instead produces a separate ClassificationResult.
// Only Name, Description and Importance are guaranteed to be populated.
type Finding struct {
	ID   string `json:"id,omitempty"` // Unique identifier, assigned by the producer.
	Name string `json:"name"`         // Short defect name (e.g. "Missing Meta Title").

	// Description is free text from the analyzer. The classifier's keyword
	// rules run against the lower-cased name and description.
	Description string `json:"description"`

	// Status is the verdict slot filled downstream by the classifier when a
	// caller wants the verdict denormalized onto its own copy. The engine
	// itself never writes it.
	Status string `json:"status,omitempty"`

	Importance  Importance `json:"importance"`            // Coarse severity from the crawler.
	Category    string     `json:"category,omitempty"`    // Audit category (e.g. "Technical SEO").
	Subcategory string     `json:"subcategory,omitempty"` // Optional finer category.
	PageURL     string     `json:"page_url,omitempty"`    // Page the defect was observed on.
	PageType    string     `json:"page_type,omitempty"`   // Page role (homepage, service, ...).
	Notes       string     `json:"notes,omitempty"`       // Free-text analyst notes.
}

// ClassificationCriteria holds the four independent boolean criteria the
// classifier evaluates. Each boolean is a pure function of the finding's
// name, description and optional context notes.
type ClassificationCriteria struct {
	SEOVisibilityImpact  bool `json:"seo_visibility_impact"`
	UserExperienceImpact bool `json:"user_experience_impact"`
	BusinessImpact       bool `json:"business_impact"`
	ComplianceRisk       bool `json:"compliance_risk"`
}

// MetCount returns how many of the four criteria evaluated true.
func (c ClassificationCriteria) MetCount() int {
	count := 0
	for _, met := range []bool{c.SEOVisibilityImpact, c.UserExperienceImpact, c.BusinessImpact, c.ComplianceRisk} {
		if met {
			count++
		}
	}
	return count
}

// DecisionStep records one step of the classifier's decision tree: which
// criterion was evaluated, whether it was met, and the matched evidence.
type DecisionStep struct {
	Criterion string `json:"criterion"`
	Met       bool   `json:"met"`
	Detail    string `json:"detail"`
}

// ClassificationResult is the immutable output of classifying one finding.
// The decision trace is a first-class output and must be reproducible from
// the same inputs, so it carries no timestamps or environmental data.
type ClassificationResult struct {
	Verdict       Verdict                `json:"verdict"`
	Criteria      ClassificationCriteria `json:"criteria"`
	Justification string                 `json:"justification"`
	DecisionTrace []DecisionStep         `json:"decision_trace"`

	// RequiresValidation is true iff the verdict is Priority: priority work
	// is surfaced to a human before it reaches the client-facing report.
	RequiresValidation bool `json:"requires_validation"`
}

// FindingMetrics carries optional numeric measurements attached to a finding.
// Metrics strengthen the classifier's justification text but do not by
// themselves change the count-based verdict.
type FindingMetrics struct {
	PerformanceDegradationPct float64 `json:"performance_degradation_pct,omitempty"`
	AffectedUsersPct          float64 `json:"affected_users_pct,omitempty"`
	RevenueImpactPerDay       float64 `json:"revenue_impact_per_day,omitempty"`
	CVSSScore                 float64 `json:"cvss_score,omitempty"`
	SupportTicketsPerWeek     float64 `json:"support_tickets_per_week,omitempty"`
}

// HasAny reports whether any metric carries a meaningful value.
func (m FindingMetrics) HasAny() bool {
	return m.PerformanceDegradationPct > 0 ||
		m.AffectedUsersPct > 0 ||
		m.RevenueImpactPerDay > 0 ||
		m.CVSSScore > 0 ||
		m.SupportTicketsPerWeek > 0
}

// -- Page Context Schemas --

// PriorityTier ranks a page's strategic importance to the site owner.
type PriorityTier string

const (
	TierCritical PriorityTier = "critical"
	TierHigh     PriorityTier = "high"
	TierStandard PriorityTier = "standard"
	TierLow      PriorityTier = "low"
)

// SiteSize buckets the audited site by page count.
type SiteSize string

const (
	SiteSmall      SiteSize = "small"
	SiteMedium     SiteSize = "medium"
	SiteLarge      SiteSize = "large"
	SiteEnterprise SiteSize = "enterprise"
)

// ContextLevel is a generic high/medium/low gradation used by the page
// context fields (business criticality, competitive pressure, traffic value).
type ContextLevel string

const (
	ContextHigh   ContextLevel = "high"
	ContextMedium ContextLevel = "medium"
	ContextLow    ContextLevel = "low"
)

// PageContext is optional enrichment describing the role and value of the
// page a finding was observed on. When absent, classification falls back to
// the context-free path with the fixed two-criteria threshold.
type PageContext struct {
	PageType            string       `json:"page_type,omitempty"`
	PagePriority        PriorityTier `json:"page_priority,omitempty"`
	SiteSize            SiteSize     `json:"site_size,omitempty"`
	BusinessType        string       `json:"business_type,omitempty"`
	BusinessCriticality ContextLevel `json:"business_criticality,omitempty"`
	CompetitivePressure ContextLevel `json:"competitive_pressure,omitempty"`
	TrafficValue        ContextLevel `json:"traffic_value,omitempty"`

	// Notes participate in workaround detection alongside the finding text.
	Notes string `json:"notes,omitempty"`
}

package triage

import (
	"fmt"
	"strings"
)

// Criterion names, used in decision traces and rule records.
const (
	CriterionSEOVisibility  = "seo_visibility_impact"
	CriterionUserExperience = "user_experience_impact"
	CriterionBusinessImpact = "business_impact"
	CriterionComplianceRisk = "compliance_risk"
)

// criterionRule is one declarative classification rule. A rule matches when
// at least one RequiredAny keyword appears in the text (when the list is
// non-empty) and every RequiredAllOf group contributes at least one match.
// Each criterion owns several rules; the criterion is met when any rule
// matches. Keeping the rules as data keeps the matcher generic and lets
// tests substitute rule sets.
type criterionRule struct {
	Criterion     string
	RequiredAny   []string
	RequiredAllOf [][]string
}

// match evaluates the rule against lower-cased text and returns the matched
// keywords for the decision trace.
func (r criterionRule) match(text string) (bool, string) {
	var matched []string

	if len(r.RequiredAny) > 0 {
		hit := firstContained(text, r.RequiredAny)
		if hit == "" {
			return false, ""
		}
		matched = append(matched, hit)
	}

	for _, group := range r.RequiredAllOf {
		hit := firstContained(text, group)
		if hit == "" {
			return false, ""
		}
		matched = append(matched, hit)
	}

	if len(matched) == 0 {
		return false, ""
	}
	return true, fmt.Sprintf("matched %q", strings.Join(matched, `" + "`))
}

// firstContained returns the first keyword contained in text, or "".
func firstContained(text string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw
		}
	}
	return ""
}

// defaultCriteriaRules is the production rule set. The vocabulary tracks
// the signals the crawler emits: meta tag absence, Core Web Vitals
// qualifiers, indexing blockers, mobile usability, broken navigation,
// conversion paths, local listings, and transport security.
func defaultCriteriaRules() []criterionRule {
	return []criterionRule{
		// SEO visibility: the finding threatens how the page ranks or
		// whether it is indexed at all.
		{
			Criterion:     CriterionSEOVisibility,
			RequiredAllOf: [][]string{{"meta title", "meta description", "title tag", "canonical", "h1"}, {"missing", "absent", "empty", "duplicate", "no "}},
		},
		{
			Criterion:     CriterionSEOVisibility,
			RequiredAllOf: [][]string{{"core web vitals", "lcp", "cls", "page speed", "load time"}, {"slow", "poor", "fail", "degraded"}},
		},
		{
			Criterion:     CriterionSEOVisibility,
			RequiredAllOf: [][]string{{"robots", "noindex", "sitemap", "index"}, {"blocked", "missing", "disallow", "excluded"}},
		},
		{
			Criterion:     CriterionSEOVisibility,
			RequiredAllOf: [][]string{{"mobile", "viewport", "responsive"}, {"missing", "broken", "poor", "fail", "not "}},
		},

		// User experience: the defect is visible to visitors.
		{
			Criterion:   CriterionUserExperience,
			RequiredAny: []string{"broken link", "broken image", "404", "dead link"},
		},
		{
			Criterion:     CriterionUserExperience,
			RequiredAllOf: [][]string{{"navigation", "menu", "layout", "form"}, {"broken", "missing", "confusing", "unusable"}},
		},
		{
			Criterion:     CriterionUserExperience,
			RequiredAllOf: [][]string{{"slow", "load time", "page speed"}, {"poor", "seconds", "frustrat", "abandon"}},
		},
		{
			Criterion:   CriterionUserExperience,
			RequiredAny: []string{"unreadable", "illegible", "overlapping text"},
		},

		// Business impact: revenue, leads, or local discovery is at stake.
		{
			Criterion:   CriterionBusinessImpact,
			RequiredAny: []string{"revenue", "conversion", "sales", "checkout", "lead"},
		},
		{
			Criterion:     CriterionBusinessImpact,
			RequiredAllOf: [][]string{{"phone", "address", "contact", "hours"}, {"missing", "incorrect", "wrong", "outdated"}},
		},
		{
			Criterion:   CriterionBusinessImpact,
			RequiredAny: []string{"google business", "local listing", "citation", "local pack"},
		},

		// Compliance risk: security or regulatory exposure.
		{
			Criterion:   CriterionComplianceRisk,
			RequiredAny: []string{"ssl", "https", "certificate", "not secure", "insecure", "mixed content"},
		},
		{
			Criterion:   CriterionComplianceRisk,
			RequiredAny: []string{"gdpr", "privacy policy", "cookie consent", "ccpa"},
		},
		{
			Criterion:     CriterionComplianceRisk,
			RequiredAllOf: [][]string{{"accessibility", "wcag", "ada"}, {"violation", "non-compliant", "fail", "missing"}},
		},
	}
}

// workaroundPhrases force a Standard verdict regardless of how many
// criteria were met: an available workaround means the defect is not
// blocking.
var workaroundPhrases = []string{"workaround", "alternative", "can use instead", "manually"}

// detectWorkaround scans the finding text and context notes for a
// workaround phrase and returns the matched phrase.
func detectWorkaround(text, contextNotes string) (bool, string) {
	combined := text + " " + strings.ToLower(contextNotes)
	if hit := firstContained(combined, workaroundPhrases); hit != "" {
		return true, hit
	}
	return false, ""
}

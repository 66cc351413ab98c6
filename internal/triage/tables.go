package triage

import (
	"sort"
	"strings"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// -- Effort Matrix --

// EffortMatrixEntry is the static fix-cost profile for one issue type.
type EffortMatrixEntry struct {
	// BaseEffort is the cost of fixing a single instance.
	BaseEffort schemas.Level

	// TemplateEfficient marks issue types whose fix lives in a shared
	// template: one change resolves every affected page.
	TemplateEfficient bool

	// PerInstanceMultiplier scales effort with page count for issue types
	// that must be fixed page by page. Zero means page count does not add
	// effort (e.g. a site-wide certificate).
	PerInstanceMultiplier float64
}

// EffortMatrix maps a normalized issue keyword to its effort profile.
// Lookup is by substring against the issue type key, so the keys use the
// same letters-only normal form the key derivation produces.
type EffortMatrix map[string]EffortMatrixEntry

// DefaultEffortMatrix returns the production effort table. The map is built
// fresh per call so callers can never mutate shared state.
func DefaultEffortMatrix() EffortMatrix {
	return EffortMatrix{
		"missingmetatitle":       {BaseEffort: schemas.LevelLow, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"missingmetadescription": {BaseEffort: schemas.LevelLow, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"duplicatemetatitle":     {BaseEffort: schemas.LevelLow, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"missingh":               {BaseEffort: schemas.LevelLow, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"missingalttext":         {BaseEffort: schemas.LevelLow, TemplateEfficient: false, PerInstanceMultiplier: 0.1},
		"brokenlink":             {BaseEffort: schemas.LevelMedium, TemplateEfficient: false, PerInstanceMultiplier: 0.15},
		"duplicatecontent":       {BaseEffort: schemas.LevelMedium, TemplateEfficient: false, PerInstanceMultiplier: 0.2},
		"thincontent":            {BaseEffort: schemas.LevelHigh, TemplateEfficient: false, PerInstanceMultiplier: 0.25},
		"structureddata":         {BaseEffort: schemas.LevelMedium, TemplateEfficient: true, PerInstanceMultiplier: 0.1},
		"missingschema":          {BaseEffort: schemas.LevelMedium, TemplateEfficient: true, PerInstanceMultiplier: 0.1},
		"slowpage":               {BaseEffort: schemas.LevelHigh, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"corewebvitals":          {BaseEffort: schemas.LevelHigh, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
		"mobileusability":        {BaseEffort: schemas.LevelMedium, TemplateEfficient: true, PerInstanceMultiplier: 0.1},
		"nosslcertificate":       {BaseEffort: schemas.LevelMedium, TemplateEfficient: false, PerInstanceMultiplier: 0},
		"missingcontactinfo":     {BaseEffort: schemas.LevelLow, TemplateEfficient: true, PerInstanceMultiplier: 0.05},
	}
}

// Lookup finds the effort profile whose keyword is contained in the issue
// type key. Keywords are checked in sorted order so a key matching several
// entries always resolves the same way. The second return reports whether a
// specific entry matched; callers fall back to defaultEffortEntry otherwise.
func (m EffortMatrix) Lookup(issueTypeKey string) (EffortMatrixEntry, bool) {
	key := strings.ToLower(issueTypeKey)
	keywords := make([]string, 0, len(m))
	for keyword := range m {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		if strings.Contains(key, keyword) {
			return m[keyword], true
		}
	}
	return defaultEffortEntry(), false
}

// defaultEffortEntry is the profile for unmatched ("other") issue types.
func defaultEffortEntry() EffortMatrixEntry {
	return EffortMatrixEntry{BaseEffort: schemas.LevelMedium, TemplateEfficient: false, PerInstanceMultiplier: 0.1}
}

// levelScore maps a discrete effort level onto the numeric scale used for
// per-instance effort growth.
func levelScore(level schemas.Level) float64 {
	switch level {
	case schemas.LevelHigh:
		return 3.0
	case schemas.LevelMedium:
		return 2.0
	default:
		return 1.0
	}
}

// -- Business Impact Rules --

// BusinessImpactRule assigns a base impact to a (category, subcategory)
// pair, modulated by page-type multipliers.
type BusinessImpactRule struct {
	BaseImpact schemas.Level
}

// BusinessImpactRules maps "category|subcategory" (lower-cased, "*" as a
// subcategory wildcard) to a rule. Immutable at runtime.
type BusinessImpactRules map[string]BusinessImpactRule

// DefaultBusinessImpactRules returns the production impact table.
func DefaultBusinessImpactRules() BusinessImpactRules {
	return BusinessImpactRules{
		"technical seo|security":        {BaseImpact: schemas.LevelHigh},
		"technical seo|performance":     {BaseImpact: schemas.LevelHigh},
		"technical seo|mobile":          {BaseImpact: schemas.LevelHigh},
		"technical seo|structured data": {BaseImpact: schemas.LevelMedium},
		"technical seo|*":               {BaseImpact: schemas.LevelMedium},
		"on-page seo|meta tags":         {BaseImpact: schemas.LevelHigh},
		"on-page seo|content structure": {BaseImpact: schemas.LevelMedium},
		"on-page seo|images":            {BaseImpact: schemas.LevelLow},
		"on-page seo|navigation":        {BaseImpact: schemas.LevelMedium},
		"on-page seo|*":                 {BaseImpact: schemas.LevelMedium},
		"local seo|contact info":        {BaseImpact: schemas.LevelHigh},
		"local seo|*":                   {BaseImpact: schemas.LevelMedium},
		"content|*":                     {BaseImpact: schemas.LevelMedium},
	}
}

// pageTypeMultipliers weights impact by page role. "other" and unknown page
// types use the neutral 1.0.
var pageTypeMultipliers = map[string]float64{
	"homepage": 1.5,
	"service":  1.3,
	"contact":  1.2,
	"location": 1.1,
}

// Impact resolves the discrete business impact for a finding's category,
// subcategory and page type. The (base, multiplier) pair maps back to a
// level through a fixed combination table rather than a continuous score:
//
//	base high:   any multiplier        -> high
//	base medium: multiplier >= 1.3     -> high, else medium
//	base low:    multiplier >= 1.5     -> medium, else low
//
// When no rule exists for the pair, the finding's raw importance is used.
func (r BusinessImpactRules) Impact(category, subcategory, pageType string, fallback schemas.Importance) schemas.Level {
	rule, ok := r.lookup(category, subcategory)
	if !ok {
		return importanceLevel(fallback)
	}

	multiplier, ok := pageTypeMultipliers[strings.ToLower(pageType)]
	if !ok {
		multiplier = 1.0
	}

	switch rule.BaseImpact {
	case schemas.LevelHigh:
		return schemas.LevelHigh
	case schemas.LevelMedium:
		if multiplier >= 1.3 {
			return schemas.LevelHigh
		}
		return schemas.LevelMedium
	default:
		if multiplier >= 1.5 {
			return schemas.LevelMedium
		}
		return schemas.LevelLow
	}
}

func (r BusinessImpactRules) lookup(category, subcategory string) (BusinessImpactRule, bool) {
	cat := strings.ToLower(strings.TrimSpace(category))
	sub := strings.ToLower(strings.TrimSpace(subcategory))

	if rule, ok := r[cat+"|"+sub]; ok {
		return rule, true
	}
	if rule, ok := r[cat+"|*"]; ok {
		return rule, true
	}
	return BusinessImpactRule{}, false
}

// importanceLevel converts the crawler's coarse importance to a level,
// defaulting to medium for missing or unrecognized values.
func importanceLevel(imp schemas.Importance) schemas.Level {
	switch imp {
	case schemas.ImportanceHigh:
		return schemas.LevelHigh
	case schemas.ImportanceLow:
		return schemas.LevelLow
	default:
		return schemas.LevelMedium
	}
}

package triage

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// GroupingConfig hoists the grouping engine's tunable constants so boundary
// behavior can be probed precisely in tests. Zero values are replaced by
// the defaults when a Grouper is constructed.
type GroupingConfig struct {
	// SimilarityThreshold is the URL-pattern similarity above which a group
	// is a template issue.
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`

	// MinPagesForTemplate gates template detection entirely.
	MinPagesForTemplate int `mapstructure:"min_pages_for_template"`

	// TemplateEfficientMinPages is the page count at which a
	// template-efficient issue type is flagged template regardless of
	// pattern similarity.
	TemplateEfficientMinPages int `mapstructure:"template_efficient_min_pages"`

	// EscalateLowAt / EscalateMediumAt are the non-template page counts at
	// which severity steps up one level.
	EscalateLowAt    int `mapstructure:"escalate_low_at"`
	EscalateMediumAt int `mapstructure:"escalate_medium_at"`

	// EffortHighCutoff / EffortMediumCutoff re-bucket the recomputed effort
	// score: score > high cutoff is high, > medium cutoff is medium.
	EffortHighCutoff   float64 `mapstructure:"effort_high_cutoff"`
	EffortMediumCutoff float64 `mapstructure:"effort_medium_cutoff"`

	// LongSegmentLength is the path segment length beyond which a segment
	// collapses to {long-slug}.
	LongSegmentLength int `mapstructure:"long_segment_length"`
}

// DefaultGroupingConfig returns the production constants.
func DefaultGroupingConfig() GroupingConfig {
	return GroupingConfig{
		SimilarityThreshold:       0.7,
		MinPagesForTemplate:       3,
		TemplateEfficientMinPages: 5,
		EscalateLowAt:             5,
		EscalateMediumAt:          10,
		EffortHighCutoff:          2.5,
		EffortMediumCutoff:        1.5,
		LongSegmentLength:         30,
	}
}

// normalize fills zeroed fields with defaults.
func (c GroupingConfig) normalize() GroupingConfig {
	def := DefaultGroupingConfig()
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = def.SimilarityThreshold
	}
	if c.MinPagesForTemplate <= 0 {
		c.MinPagesForTemplate = def.MinPagesForTemplate
	}
	if c.TemplateEfficientMinPages <= 0 {
		c.TemplateEfficientMinPages = def.TemplateEfficientMinPages
	}
	if c.EscalateLowAt <= 0 {
		c.EscalateLowAt = def.EscalateLowAt
	}
	if c.EscalateMediumAt <= 0 {
		c.EscalateMediumAt = def.EscalateMediumAt
	}
	if c.EffortHighCutoff <= 0 {
		c.EffortHighCutoff = def.EffortHighCutoff
	}
	if c.EffortMediumCutoff <= 0 {
		c.EffortMediumCutoff = def.EffortMediumCutoff
	}
	if c.LongSegmentLength <= 0 {
		c.LongSegmentLength = def.LongSegmentLength
	}
	return c
}

// Grouper clusters findings that represent the same defect across pages.
// It holds only read-only tables and configuration, so one instance may
// serve concurrent audits.
type Grouper struct {
	cfg    GroupingConfig
	matrix EffortMatrix
	impact BusinessImpactRules
	logger *zap.Logger
}

// NewGrouper builds a grouper with the production tables.
func NewGrouper(cfg GroupingConfig, logger *zap.Logger) *Grouper {
	return NewGrouperWithTables(cfg, DefaultEffortMatrix(), DefaultBusinessImpactRules(), logger)
}

// NewGrouperWithTables builds a grouper with injected lookup tables. Used
// by tests to pin effort and impact behavior without touching the defaults.
func NewGrouperWithTables(cfg GroupingConfig, matrix EffortMatrix, impact BusinessImpactRules, logger *zap.Logger) *Grouper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grouper{
		cfg:    cfg.normalize(),
		matrix: matrix,
		impact: impact,
		logger: logger.Named("grouper"),
	}
}

// rawBucket is the pass-1 accumulation state for one issue type key.
type rawBucket struct {
	issueType string
	pages     []string
	severity  schemas.Level
	effort    schemas.Level
	impact    schemas.Level
}

// Group clusters the findings into finalized issue groups, sorted by
// descending priority. Grouping is a pure two-pass transformation: pass 1
// buckets findings by issue type key, pass 2 finalizes each bucket
// (template detection, effort refinement, severity escalation). Template
// detection deliberately waits for the complete bucket population; a
// similarity ratio over a partial bucket is not reliable.
func (g *Grouper) Group(findings []schemas.Finding) []schemas.IssueGroup {
	buckets, order := g.bucketFindings(findings)

	groups := make([]schemas.IssueGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, g.finalizeBucket(buckets[key]))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].PriorityScore != groups[j].PriorityScore {
			return groups[i].PriorityScore > groups[j].PriorityScore
		}
		return groups[i].IssueType < groups[j].IssueType
	})

	g.logger.Debug("grouped findings",
		zap.Int("findings", len(findings)),
		zap.Int("groups", len(groups)))

	return groups
}

// bucketFindings is pass 1: append each finding's page to the bucket for
// its issue type key, estimating severity, effort and impact once when the
// bucket is created.
func (g *Grouper) bucketFindings(findings []schemas.Finding) (map[string]*rawBucket, []string) {
	buckets := make(map[string]*rawBucket)
	var order []string

	for _, f := range findings {
		key := IssueTypeKey(f)
		bucket, ok := buckets[key]
		if !ok {
			entry, _ := g.matrix.Lookup(key)
			bucket = &rawBucket{
				issueType: key,
				severity:  importanceLevel(f.Importance),
				effort:    entry.BaseEffort,
				impact:    g.impact.Impact(f.Category, Subcategory(f), PageType(f), f.Importance),
			}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.pages = append(bucket.pages, PageURL(f))
	}

	return buckets, order
}

// finalizeBucket is pass 2 for one bucket: template detection, effort
// refinement and severity escalation over the complete page population.
func (g *Grouper) finalizeBucket(bucket *rawBucket) schemas.IssueGroup {
	group := schemas.IssueGroup{
		ID:             uuid.NewString(),
		IssueType:      bucket.issueType,
		Pages:          bucket.pages,
		Severity:       bucket.severity,
		Effort:         bucket.effort,
		BusinessImpact: bucket.impact,
	}

	entry, _ := g.matrix.Lookup(bucket.issueType)
	pages := len(bucket.pages)

	if pages >= g.cfg.MinPagesForTemplate {
		similarity := g.patternSimilarity(bucket.pages)
		switch {
		case similarity > g.cfg.SimilarityThreshold:
			group.IsTemplateIssue = true
			group.Evidence = append(group.Evidence,
				fmt.Sprintf("URL pattern similarity %.2f exceeds %.2f across %d pages", similarity, g.cfg.SimilarityThreshold, pages))
		case pages >= g.cfg.TemplateEfficientMinPages && entry.TemplateEfficient:
			group.IsTemplateIssue = true
			group.Evidence = append(group.Evidence,
				fmt.Sprintf("issue type is template-efficient and affects %d pages (>= %d)", pages, g.cfg.TemplateEfficientMinPages))
		}
	}

	g.refineEffort(&group, entry)
	g.escalateSeverity(&group)

	group.PriorityScore = GroupPriority(group)
	return group
}

// refineEffort is pass 3 for effort: template-efficient template issues
// collapse to the matrix base (fix once, applies everywhere); issue types
// with a per-instance multiplier grow with page count and re-bucket at the
// configured cutoffs.
func (g *Grouper) refineEffort(group *schemas.IssueGroup, entry EffortMatrixEntry) {
	pages := len(group.Pages)

	if group.IsTemplateIssue && entry.TemplateEfficient {
		group.Effort = entry.BaseEffort
		group.Evidence = append(group.Evidence,
			fmt.Sprintf("template fix: base effort %q covers all %d pages", entry.BaseEffort, pages))
		return
	}

	if entry.PerInstanceMultiplier <= 0 || pages <= 1 {
		return
	}

	score := levelScore(entry.BaseEffort) * (1 + float64(pages-1)*entry.PerInstanceMultiplier)
	switch {
	case score > g.cfg.EffortHighCutoff:
		group.Effort = schemas.LevelHigh
	case score > g.cfg.EffortMediumCutoff:
		group.Effort = schemas.LevelMedium
	default:
		group.Effort = schemas.LevelLow
	}
}

// escalateSeverity bumps a non-template group's severity one level once it
// spreads widely enough: low at EscalateLowAt pages, medium at
// EscalateMediumAt pages.
func (g *Grouper) escalateSeverity(group *schemas.IssueGroup) {
	if group.IsTemplateIssue {
		return
	}

	pages := len(group.Pages)
	switch {
	case group.Severity == schemas.LevelMedium && pages >= g.cfg.EscalateMediumAt:
		group.Severity = schemas.LevelHigh
		group.Evidence = append(group.Evidence,
			fmt.Sprintf("severity escalated medium->high: %d affected pages (>= %d)", pages, g.cfg.EscalateMediumAt))
	case group.Severity == schemas.LevelLow && pages >= g.cfg.EscalateLowAt:
		group.Severity = schemas.LevelMedium
		group.Evidence = append(group.Evidence,
			fmt.Sprintf("severity escalated low->medium: %d affected pages (>= %d)", pages, g.cfg.EscalateLowAt))
	}
}

// patternSimilarity computes 1 - (distinct URL patterns / total pages).
// Identical-template pages collapse to the same pattern, pushing the ratio
// toward 1.
func (g *Grouper) patternSimilarity(pages []string) float64 {
	if len(pages) == 0 {
		return 0
	}

	distinct := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		distinct[g.urlPattern(page)] = struct{}{}
	}
	return 1 - float64(len(distinct))/float64(len(pages))
}

var (
	numericSegment = regexp.MustCompile(`^\d+$`)
	slugWithNumber = regexp.MustCompile(`^[a-z0-9-]*[a-z][a-z0-9-]*-\d+$`)
)

// urlPattern reduces a page URL to its template signature: numeric path
// segments become {id}, slug-plus-number segments become {slug-id}, and
// overly long segments become {long-slug}.
func (g *Grouper) urlPattern(page string) string {
	if page == UnknownPage {
		return UnknownPage
	}

	parsed, err := url.Parse(page)
	if err != nil {
		return page
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		lower := strings.ToLower(segment)
		switch {
		case numericSegment.MatchString(lower):
			segments[i] = "{id}"
		case slugWithNumber.MatchString(lower):
			segments[i] = "{slug-id}"
		case len(lower) > g.cfg.LongSegmentLength:
			segments[i] = "{long-slug}"
		}
	}

	return parsed.Host + "/" + strings.Join(segments, "/")
}

package triage

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// UnknownPage is the sentinel page URL used when no URL can be extracted
// from a finding.
const UnknownPage = "unknown"

// maxKeyLength bounds the normalized portion of an issue type key so that
// verbose descriptions of the same defect still collide into one bucket.
const maxKeyLength = 60

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s"'<>]+`)
	digitPattern   = regexp.MustCompile(`\d+`)
	nonLetterStrip = regexp.MustCompile(`[^a-z]+`)
)

// IssueTypeKey derives the canonical bucketing key for a finding: the
// lower-cased category joined with a normalized form of the name and
// description. Digits collapse to a placeholder, absolute URLs collapse to
// a placeholder token, everything that is not a letter is stripped, and the
// result is truncated. Two findings describing the same defect on different
// pages therefore produce the same key.
func IssueTypeKey(f schemas.Finding) string {
	category := strings.ToLower(strings.TrimSpace(f.Category))
	if category == "" {
		category = "unknown"
	}

	text := strings.ToLower(f.Name + " " + f.Description)
	text = urlPattern.ReplaceAllString(text, " url ")
	text = digitPattern.ReplaceAllString(text, " n ")
	text = nonLetterStrip.ReplaceAllString(text, "")

	if len(text) > maxKeyLength {
		text = text[:maxKeyLength]
	}
	return category + "::" + text
}

// PageURL extracts the best-effort page URL for a finding: the explicit
// field when present, otherwise the first URL-like substring found in the
// description or notes, otherwise the UnknownPage sentinel. Extracted URLs
// are stripped of trailing sentence punctuation so the same page mentioned
// mid-sentence and end-of-sentence counts once.
func PageURL(f schemas.Finding) string {
	if u := strings.TrimSpace(f.PageURL); u != "" {
		return u
	}
	if match := urlPattern.FindString(f.Description); match != "" {
		return trimExtractedURL(match)
	}
	if match := urlPattern.FindString(f.Notes); match != "" {
		return trimExtractedURL(match)
	}
	return UnknownPage
}

func trimExtractedURL(match string) string {
	return strings.TrimRight(match, ".,;:)]")
}

// PageType resolves the page role for a finding: the explicit field when
// present, otherwise inferred from substrings of the page URL, defaulting
// to "other".
func PageType(f schemas.Finding) string {
	if t := strings.ToLower(strings.TrimSpace(f.PageType)); t != "" {
		return t
	}

	page := strings.ToLower(PageURL(f))
	if page == UnknownPage {
		return "other"
	}

	switch {
	case strings.Contains(page, "contact"):
		return "contact"
	case strings.Contains(page, "service"):
		return "service"
	case strings.Contains(page, "location"):
		return "location"
	case isRootURL(page) || strings.Contains(page, "home"):
		return "homepage"
	default:
		return "other"
	}
}

// isRootURL reports whether the URL points at the site root.
func isRootURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.TrimSuffix(parsed.Path, "/")
	return parsed.Host != "" && path == ""
}

// subcategoryRule maps any-of keywords in the finding text to an inferred
// subcategory. Rules are checked in order; the first hit wins.
type subcategoryRule struct {
	subcategory string
	keywords    []string
}

// subcategoryRules is ordered from the most specific vocabulary to the most
// generic so that, e.g., "meta description" lands in Meta Tags rather than
// Content Structure.
var subcategoryRules = []subcategoryRule{
	{"Meta Tags", []string{"meta title", "meta description", "title tag", "meta tag", "canonical"}},
	{"Structured Data", []string{"schema", "structured data", "rich snippet", "json-ld"}},
	{"Performance", []string{"speed", "slow", "performance", "core web vitals", "lcp", "cls", "load time"}},
	{"Mobile", []string{"mobile", "viewport", "responsive", "touch"}},
	{"Contact Info", []string{"phone", "address", "contact info", "nap"}},
	{"Security", []string{"ssl", "https", "certificate", "security"}},
	{"Images", []string{"image", "alt text", "alt attribute"}},
	{"Navigation", []string{"navigation", "menu", "breadcrumb", "internal link"}},
	{"Content Structure", []string{"heading", "h1", "h2", "content", "word count", "thin"}},
}

// Subcategory infers a subcategory from keyword matches in the finding's
// name and description, defaulting to "Other".
func Subcategory(f schemas.Finding) string {
	if s := strings.TrimSpace(f.Subcategory); s != "" {
		return s
	}

	text := strings.ToLower(f.Name + " " + f.Description)
	for _, rule := range subcategoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.subcategory
			}
		}
	}
	return "Other"
}

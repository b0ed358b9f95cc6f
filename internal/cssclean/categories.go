package cssclean

import (
	"regexp"
	"strings"
)

// SelectorCategory is a display bucket. It has no effect on classification or export.
type SelectorCategory string

const (
	CategoryLayout     SelectorCategory = "Layout & Structure"
	CategoryTypography SelectorCategory = "Typography"
	CategoryHeader     SelectorCategory = "Header"
	CategoryNavigation SelectorCategory = "Navigation"
	CategoryComponents SelectorCategory = "Cards & Components"
	CategoryButtons    SelectorCategory = "Buttons"
	CategoryForms      SelectorCategory = "Forms"
	CategoryFooter     SelectorCategory = "Footer"
	CategoryUtilities  SelectorCategory = "Utilities"
	CategoryAnimations SelectorCategory = "Animations"
	CategoryResponsive SelectorCategory = "Responsive"
	CategoryLegacy     SelectorCategory = "Legacy/Unused"
	CategoryOther      SelectorCategory = "Other"
)

// categoryOrder is the display order of the buckets
var categoryOrder = []SelectorCategory{
	CategoryLayout,
	CategoryTypography,
	CategoryHeader,
	CategoryNavigation,
	CategoryComponents,
	CategoryButtons,
	CategoryForms,
	CategoryFooter,
	CategoryUtilities,
	CategoryAnimations,
	CategoryResponsive,
	CategoryLegacy,
	CategoryOther,
}

// legacyMarkers only apply to selectors the classifier marked unused
var legacyMarkers = []string{
	"old-", "deprecated-", "legacy-", "unused-", "beta-", "temp-", "debug-", "experimental-",
}

// categoryRule matches a bucket by keyword or exact selector
type categoryRule struct {
	category SelectorCategory
	keywords []string
	exact    []string
	match    func(selector, name string) bool
}

var headingPattern = regexp.MustCompile(`^h[1-6]$`)

// categoryRules are checked in order; the first match wins
var categoryRules = []categoryRule{
	{
		category: CategoryLayout,
		keywords: []string{
			"container", "wrapper", "layout", "grid", "row", "col", "section", "main",
			"sidebar", "content", "app-", "page-", "inner", "outer", "flex",
		},
		exact: []string{"*", "body", "html"},
	},
	{
		category: CategoryNavigation,
		keywords: []string{"nav", "menu", "breadcrumb"},
		match: func(_, name string) bool {
			return strings.Contains(name, "link") && !strings.Contains(name, "footer-link")
		},
	},
	{
		category: CategoryHeader,
		keywords: []string{
			"header", "masthead", "site-branding", "logo", "brand", "site-title",
			"site-description", "hero-", "banner-",
		},
	},
	{
		category: CategoryFooter,
		keywords: []string{"footer", "colophon", "site-info", "copyright"},
	},
	{
		category: CategoryForms,
		keywords: []string{
			"form", "input", "search", "field", "submit", "textarea", "select",
			"checkbox", "radio", "label", "contact-",
		},
	},
	{
		category: CategoryButtons,
		keywords: []string{"btn", "button", "cta"},
	},
	{
		category: CategoryComponents,
		keywords: []string{
			"card", "widget", "component", "modal", "dropdown", "accordion", "tab",
			"alert", "badge", "tooltip", "popover", "progress", "panel", "box",
			"media-", "feature-", "stat-", "team-",
		},
	},
	{
		category: CategoryTypography,
		keywords: []string{
			"title", "heading", "text", "font", "lead", "subtitle", "description",
			"excerpt", "quote", "intro",
		},
		exact: []string{"p"},
		match: func(selector, _ string) bool {
			return headingPattern.MatchString(selector)
		},
	},
	{
		category: CategoryUtilities,
		keywords: []string{
			"hidden", "visible", "sr-only", "clearfix", "center", "left", "right",
			"margin", "padding", "border", "shadow", "bg-", "d-", "position-",
			"overflow-", "display-",
		},
	},
	{
		category: CategoryAnimations,
		keywords: []string{
			"animate", "transition", "fade", "slide", "spin", "pulse", "bounce",
			"hover", "transform", "scale", "rotate",
		},
	},
	{
		category: CategoryResponsive,
		keywords: []string{
			"mobile", "tablet", "desktop", "responsive", "xs-", "sm-", "md-", "lg-",
			"xl-", "@media", "breakpoint",
		},
	},
}

// CategorizeSelector returns the display bucket of one selector
func CategorizeSelector(selector string, unused bool) SelectorCategory {
	name := strings.ToLower(selector)

	if unused {
		for _, marker := range legacyMarkers {
			if strings.Contains(name, marker) {
				return CategoryLegacy
			}
		}
	}

	for _, rule := range categoryRules {
		if rule.matches(selector, name) {
			return rule.category
		}
	}
	return CategoryOther
}

func (r categoryRule) matches(selector, name string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	if contains(r.exact, selector) {
		return true
	}
	return r.match != nil && r.match(selector, name)
}

// CategoryGroup is one non-empty display bucket
type CategoryGroup struct {
	Name      SelectorCategory `json:"name"`
	Selectors []string         `json:"selectors"`
}

// Categorize groups records into display buckets.
// Buckets follow the fixed display order; selectors keep snapshot order; empty buckets are dropped.
func Categorize(records []SelectorRecord) []CategoryGroup {
	byCategory := make(map[SelectorCategory][]string)
	for _, rec := range records {
		cat := CategorizeSelector(rec.Selector, rec.Unused)
		byCategory[cat] = append(byCategory[cat], rec.Selector)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for _, cat := range categoryOrder {
		if sels := byCategory[cat]; len(sels) > 0 {
			groups = append(groups, CategoryGroup{Name: cat, Selectors: sels})
		}
	}
	return groups
}

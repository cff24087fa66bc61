// Package filter implements keyword rules that decide which feed items are
// forwarded by the watcher.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"socialfeed/internal/model"
)

// Kind defines the type of a rule.
type Kind string

// Supported rule kinds.
const (
	Include   Kind = "include"
	Exclude   Kind = "exclude"
	IncludeRe Kind = "include_re"
	ExcludeRe Kind = "exclude_re"
)

// Scope defines which part of an item a rule matches against.
type Scope string

// Supported rule scopes.
const (
	ScopeTitle   Scope = "title"
	ScopeContent Scope = "content"
	ScopeAll     Scope = "all"
)

// Rule is a single filtering rule.
type Rule struct {
	Kind  Kind
	Scope Scope
	Value string
}

// Text is the matchable text of a feed item.
type Text struct {
	Title   string
	Content string
}

// TextOf extracts the matchable text of a canonical feed item.
func TextOf(it model.Item) Text {
	switch {
	case it.Post != nil:
		return Text{Title: it.Post.DisplayName, Content: it.Post.Content}
	case it.Official != nil:
		return Text{Title: it.Official.Title, Content: it.Official.Body}
	case it.Sponsored != nil:
		return Text{Title: it.Sponsored.Title, Content: it.Sponsored.SponsorName + " " + it.Sponsored.Body}
	case it.EventNews != nil:
		return Text{Title: it.EventNews.Title, Content: it.EventNews.Excerpt + " " + it.EventNews.Content}
	}
	return Text{}
}

// Match checks whether an item passes the given set of rules.
// If no rules are provided, the item always passes.
// Include rules use OR logic (at least one must match).
// Exclude rules use AND logic (none must match).
func Match(text Text, rules []Rule) bool {
	if len(rules) == 0 {
		return true
	}

	hasIncludes := false
	anyIncludeMatched := false

	for _, r := range rules {
		switch r.Kind {
		case Include, IncludeRe:
			hasIncludes = true
			if matchesRule(text, r) {
				anyIncludeMatched = true
			}
		case Exclude, ExcludeRe:
			if matchesRule(text, r) {
				return false
			}
		}
	}

	return !hasIncludes || anyIncludeMatched
}

func matchesRule(text Text, r Rule) bool {
	s := textForScope(text, r.Scope)
	switch r.Kind {
	case Include, Exclude:
		return strings.Contains(s, strings.ToLower(r.Value))
	case IncludeRe, ExcludeRe:
		re, err := regexp.Compile("(?i)" + r.Value)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	}
	return false
}

func textForScope(text Text, scope Scope) string {
	switch scope {
	case ScopeTitle:
		return strings.ToLower(text.Title)
	case ScopeContent:
		return strings.ToLower(text.Content)
	default:
		return strings.ToLower(text.Title + " " + text.Content)
	}
}

// ParseRule parses "kind:value" or "kind:scope:value", e.g.
// "exclude_re:title:promo|sconto". The scope defaults to all.
func ParseRule(s string) (Rule, error) {
	kind, rest, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || rest == "" {
		return Rule{}, fmt.Errorf("rule %q: expected kind:value", s)
	}
	r := Rule{Kind: Kind(kind), Scope: ScopeAll, Value: rest}
	switch r.Kind {
	case Include, Exclude, IncludeRe, ExcludeRe:
	default:
		return Rule{}, fmt.Errorf("rule %q: unknown kind %q", s, kind)
	}
	if scope, value, ok := strings.Cut(rest, ":"); ok {
		switch Scope(scope) {
		case ScopeTitle, ScopeContent, ScopeAll:
			r.Scope, r.Value = Scope(scope), value
		}
	}
	if r.Value == "" {
		return Rule{}, fmt.Errorf("rule %q: empty value", s)
	}
	if r.Kind == IncludeRe || r.Kind == ExcludeRe {
		if err := ValidateRegex(r.Value); err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", s, err)
		}
	}
	return r, nil
}

// ParseRules parses every rule in ss.
func ParseRules(ss []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ValidateRegex checks whether a pattern is a valid regular expression.
func ValidateRegex(pattern string) error {
	_, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	return nil
}

package model

import (
	"strings"
)

// Criterion matches a classification label. A nil Criterion imposes no
// constraint. The set of implementations is closed: Single and AnyOf.
type Criterion interface {
	Match(label string) bool
	isCriterion()
}

// Single matches exactly one label.
type Single string

func (s Single) Match(label string) bool { return string(s) == label }
func (Single) isCriterion()              {}

// AnyOf matches any label in the set. An empty set matches nothing.
type AnyOf map[string]struct{}

// NewAnyOf builds an AnyOf from the given labels.
func NewAnyOf(labels ...string) AnyOf {
	set := make(AnyOf, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func (a AnyOf) Match(label string) bool {
	_, ok := a[label]
	return ok
}
func (AnyOf) isCriterion() {}

// ParseCriterion turns a comma separated flag or query value into a Criterion.
// Empty input means unset; one value is Single; several are AnyOf.
func ParseCriterion(s string) Criterion {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	switch len(labels) {
	case 0:
		return nil
	case 1:
		return Single(labels[0])
	default:
		return NewAnyOf(labels...)
	}
}

// Filters restricts which problems are eligible for scheduling.
// Every non-nil field must match.
type Filters struct {
	Grandparent Criterion
	ParentTopic Criterion
	Where       func(Problem) bool
}

// Match reports whether p satisfies every supplied criterion.
func (f Filters) Match(p Problem) bool {
	if f.Grandparent != nil && !f.Grandparent.Match(p.Grandparent) {
		return false
	}
	if f.ParentTopic != nil && !f.ParentTopic.Match(p.ParentTopic) {
		return false
	}
	if f.Where != nil && !f.Where(p) {
		return false
	}
	return true
}

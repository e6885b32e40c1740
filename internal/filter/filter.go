package filter

import (
	"fmt"
	"regexp"

	"github.com/hupe1980/semconvert/internal/rdf"
)

type role uint8

const (
	roleSubject role = iota
	rolePredicate
	roleObject
	roleEntity
)

func (r role) String() string {
	switch r {
	case roleSubject:
		return "subject"
	case rolePredicate:
		return "predicate"
	case roleObject:
		return "object"
	default:
		return "entity"
	}
}

// values returns the quad values a list of this role is tested against.
func (r role) values(q rdf.Quad) []string {
	switch r {
	case roleSubject:
		return []string{q.Subject.Value}
	case rolePredicate:
		return []string{q.Predicate.Value}
	case roleObject:
		return []string{q.Object.Value}
	default:
		return []string{q.Subject.Value, q.Object.Value}
	}
}

// PatternError reports a rule pattern that is not a valid regular
// expression. It is a configuration error.
type PatternError struct {
	// List is the rule list name, e.g. "denyPredLike".
	List string
	// Pattern is the offending source text.
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.List, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

type compiledList struct {
	name     string
	role     role
	patterns []*regexp.Regexp
}

// match returns the first pattern matching any of the values.
func (l compiledList) match(values []string) (*regexp.Regexp, string, bool) {
	for _, re := range l.patterns {
		for _, v := range values {
			if re.MatchString(v) {
				return re, v, true
			}
		}
	}

	return nil, "", false
}

// RuleSet is a compiled, immutable set of filter rules. The zero value and
// nil permit every quad.
type RuleSet struct {
	deny []compiledList
	pass []compiledList
}

// Compile compiles every pattern of r. Empty lists are dropped.
func Compile(r Rules) (*RuleSet, error) {
	rs := &RuleSet{}

	for _, raw := range r.lists() {
		if len(raw.patterns) == 0 {
			continue
		}

		l := compiledList{name: raw.name, role: raw.role}

		for _, p := range raw.patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, &PatternError{List: raw.name, Pattern: p, Err: err}
			}

			l.patterns = append(l.patterns, re)
		}

		if raw.deny {
			rs.deny = append(rs.deny, l)
		} else {
			rs.pass = append(rs.pass, l)
		}
	}

	return rs, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(r Rules) *RuleSet {
	rs, err := Compile(r)
	if err != nil {
		panic(err)
	}

	return rs
}

// Permit reports whether q survives the rule set.
func (rs *RuleSet) Permit(q rdf.Quad) bool {
	ok, _ := rs.Explain(q)
	return ok
}

// Explain is Permit plus a human-readable reason for the decision.
func (rs *RuleSet) Explain(q rdf.Quad) (bool, string) {
	if rs == nil {
		return true, "no rules"
	}

	for _, l := range rs.deny {
		if re, v, ok := l.match(l.role.values(q)); ok {
			return false, fmt.Sprintf("%s pattern %q matched %s %q", l.name, re.String(), l.role, v)
		}
	}

	for _, l := range rs.pass {
		if _, _, ok := l.match(l.role.values(q)); !ok {
			return false, fmt.Sprintf("no %s pattern matched %s", l.name, l.role)
		}
	}

	if len(rs.pass) > 0 {
		return true, "matched all pass lists"
	}

	return true, "no deny list matched"
}

// Empty reports whether the rule set imposes no constraint.
func (rs *RuleSet) Empty() bool {
	return rs == nil || (len(rs.deny) == 0 && len(rs.pass) == 0)
}

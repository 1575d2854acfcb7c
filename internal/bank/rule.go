package bank

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownRule is returned when a rule node sets no recognised tag.
var ErrUnknownRule = errors.New("rule has no tag")

// Rule is an acceptance predicate over submitted code. Each node carries
// exactly one tag:
//
//	contains: substring must appear
//	regex:    pattern must match somewhere
//	all:      every child must accept
//	any:      at least one child must accept
//	not:      child must reject
//
// Rules only inspect the submission text. They never execute it.
type Rule struct {
	Contains string `yaml:"contains,omitempty"`
	Regex    string `yaml:"regex,omitempty"`
	All      []Rule `yaml:"all,omitempty"`
	Any      []Rule `yaml:"any,omitempty"`
	Not      *Rule  `yaml:"not,omitempty"`

	re *regexp.Regexp
}

// Contains is a leaf rule requiring s to appear in the code.
func Contains(s string) Rule { return Rule{Contains: s} }

// Matches is a leaf rule requiring pattern to match the code.
func Matches(pattern string) Rule { return Rule{Regex: pattern} }

// AllOf requires every child rule to accept.
func AllOf(rules ...Rule) Rule { return Rule{All: rules} }

// AnyOf requires at least one child rule to accept.
func AnyOf(rules ...Rule) Rule { return Rule{Any: rules} }

// Not inverts a rule.
func Not(r Rule) Rule { return Rule{Not: &r} }

// Tag names the kind of this node.
func (r *Rule) Tag() string {
	switch {
	case r.Contains != "":
		return "contains"
	case r.Regex != "":
		return "regex"
	case r.All != nil:
		return "all"
	case r.Any != nil:
		return "any"
	case r.Not != nil:
		return "not"
	}
	return ""
}

// clone returns a deep copy of r without compiled state.
func (r Rule) clone() Rule {
	out := Rule{Contains: r.Contains, Regex: r.Regex}
	if r.All != nil {
		out.All = make([]Rule, len(r.All))
		for i, c := range r.All {
			out.All[i] = c.clone()
		}
	}
	if r.Any != nil {
		out.Any = make([]Rule, len(r.Any))
		for i, c := range r.Any {
			out.Any[i] = c.clone()
		}
	}
	if r.Not != nil {
		n := r.Not.clone()
		out.Not = &n
	}
	return out
}

// compile checks that every node carries exactly one tag and compiles
// regex leaves in place.
func (r *Rule) compile() error {
	tags := 0
	if r.Contains != "" {
		tags++
	}
	if r.Regex != "" {
		tags++
	}
	if r.All != nil {
		tags++
	}
	if r.Any != nil {
		tags++
	}
	if r.Not != nil {
		tags++
	}
	switch {
	case tags == 0:
		return ErrUnknownRule
	case tags > 1:
		return fmt.Errorf("rule sets %d tags, want exactly one", tags)
	}

	switch r.Tag() {
	case "regex":
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return fmt.Errorf("regex %q: %w", r.Regex, err)
		}
		r.re = re
	case "all", "any":
		children := r.All
		if r.Tag() == "any" {
			children = r.Any
		}
		if len(children) == 0 {
			return fmt.Errorf("%s rule has no children", r.Tag())
		}
		for i := range children {
			if err := children[i].compile(); err != nil {
				return fmt.Errorf("%s[%d]: %w", r.Tag(), i, err)
			}
		}
	case "not":
		if err := r.Not.compile(); err != nil {
			return fmt.Errorf("not: %w", err)
		}
	}
	return nil
}

// Accepts reports whether code satisfies the rule. It is pure: the same
// code always yields the same answer.
func (r *Rule) Accepts(code string) bool {
	switch r.Tag() {
	case "contains":
		return strings.Contains(code, r.Contains)
	case "regex":
		re := r.re
		if re == nil {
			re = regexp.MustCompile(r.Regex)
		}
		return re.MatchString(code)
	case "all":
		for i := range r.All {
			if !r.All[i].Accepts(code) {
				return false
			}
		}
		return true
	case "any":
		for i := range r.Any {
			if r.Any[i].Accepts(code) {
				return true
			}
		}
		return false
	case "not":
		return !r.Not.Accepts(code)
	}
	return false
}

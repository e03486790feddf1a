package ruleset

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/form"
)

// Ruleset is a named form definition: rules, default values and message options.
type Ruleset struct {
	Name         string
	Rules        constraint.Rules
	Defaults     map[string]string
	FullMessages bool
}

// FormOptions returns the form options that reproduce this rule set's
// defaults and message settings. Later options override them.
func (r *Ruleset) FormOptions(opts ...form.Option) []form.Option {
	out := []form.Option{
		form.WithDefaults(r.Defaults),
		form.WithOptions(constraint.Options{FullMessages: r.FullMessages}),
	}
	return append(out, opts...)
}

// NewForm builds a form from the rule set.
func (r *Ruleset) NewForm(opts ...form.Option) (*form.Form, error) {
	return form.New(r.Rules.Clone(), r.FormOptions(opts...)...)
}

// Fields returns the field names in sorted order.
func (r *Ruleset) Fields() []string {
	return r.Rules.Fields()
}

// Set is an immutable collection of rule sets keyed by name.
type Set struct {
	sets map[string]*Ruleset
}

// NewSet builds a Set from rule sets, rejecting duplicate names.
func NewSet(sets ...*Ruleset) (*Set, error) {
	s := &Set{sets: make(map[string]*Ruleset, len(sets))}
	for _, rs := range sets {
		if _, ok := s.sets[rs.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRuleset, rs.Name)
		}
		s.sets[rs.Name] = rs
	}
	return s, nil
}

// Get returns the named rule set.
func (s *Set) Get(name string) (*Ruleset, bool) {
	rs, ok := s.sets[name]
	return rs, ok
}

// Names returns the rule set names in sorted order.
func (s *Set) Names() []string {
	return slices.Sorted(maps.Keys(s.sets))
}

func (s *Set) Len() int {
	return len(s.sets)
}

// nameFromPath derives a rule set name from its file name.
func nameFromPath(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

package form

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
)

// entry is the registered rule definition of one field with its cached
// classification. asyncCustom only records that the key is declared; a
// falsy payload still reports loading while the pass runs.
type entry struct {
	constraints constraint.Constraints
	syncCustom  bool
	asyncCustom bool
}

// registry maps considered fields to their normalized rules.
type registry struct {
	fields  []string
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

func (r *registry) has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *registry) get(name string) (*entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

func (r *registry) add(name string, cs constraint.Constraints) *entry {
	cs = normalize(cs)
	e := &entry{
		constraints: cs,
		syncCustom:  len(cs) == 1 && constraint.Truthy(cs[constraint.KeyCustom]),
		asyncCustom: cs.Has(constraint.KeyCustomAsync),
	}
	r.fields = append(r.fields, name)
	r.entries[name] = e
	return e
}

func (r *registry) remove(name string) bool {
	if !r.has(name) {
		return false
	}
	delete(r.entries, name)
	r.fields = slices.DeleteFunc(r.fields, func(f string) bool { return f == name })
	return true
}

func (r *registry) len() int {
	return len(r.fields)
}

// rules returns a copy of the rules of the given fields, or of all fields when none are given.
func (r *registry) rules(fields ...string) constraint.Rules {
	if len(fields) == 0 {
		fields = r.fields
	}
	out := make(constraint.Rules, len(fields))
	for _, f := range fields {
		if e, ok := r.entries[f]; ok {
			out[f] = e.constraints.Clone()
		}
	}
	return out
}

// working returns the rules for an asynchronous pass triggered by changing:
// every other field's customAsync rule is neutralized.
func (r *registry) working(changing string) constraint.Rules {
	out := r.rules()
	for f, cs := range out {
		if f != changing && cs.Has(constraint.KeyCustomAsync) {
			cs[constraint.KeyCustomAsync] = nil
		}
	}
	return out
}

func (r *registry) syncCustomFields() []string {
	var out []string
	for _, f := range r.fields {
		if r.entries[f].syncCustom {
			out = append(out, f)
		}
	}
	return out
}

// normalize copies cs and rewrites the presence shorthand: true becomes
// {allowEmpty: false} and a map form defaults allowEmpty to false.
func normalize(cs constraint.Constraints) constraint.Constraints {
	cs = cs.Clone()
	if cs == nil {
		return constraint.Constraints{}
	}

	switch p := cs[constraint.KeyPresence].(type) {
	case bool:
		if p {
			cs[constraint.KeyPresence] = map[string]any{"allowEmpty": false}
		}
	case map[string]any:
		merged := map[string]any{"allowEmpty": false}
		maps.Copy(merged, p)
		cs[constraint.KeyPresence] = merged
	case constraint.Constraints:
		merged := map[string]any{"allowEmpty": false}
		maps.Copy(merged, p)
		cs[constraint.KeyPresence] = merged
	}
	return cs
}

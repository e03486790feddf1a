package ruleset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
)

// document is the on-disk shape of a rule set.
//
//	name: signup
//	full_messages: false
//	defaults:
//	  country: UA
//	rules:
//	  username:
//	    presence: true
//	    customAsync: {resolver: username_taken, message: is already taken}
type document struct {
	Name         string                    `yaml:"name" json:"name"`
	FullMessages bool                      `yaml:"full_messages" json:"full_messages"`
	Defaults     map[string]string         `yaml:"defaults" json:"defaults"`
	Rules        map[string]map[string]any `yaml:"rules" json:"rules"`
}

// Format is a rule set file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForFile picks the format from the file extension.
func FormatForFile(filename string) (Format, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", false
	}
	switch strings.ToLower(filename[idx+1:]) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	}
	return "", false
}

// Parse decodes one rule set. fallbackName is used when the document has no name.
// customAsync rules are bound through the given resolvers.
func Parse(data []byte, format Format, fallbackName string, resolvers Resolvers) (*Ruleset, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Join(ErrFailedToParseYAML, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Join(ErrFailedToParseJSON, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" || strings.ContainsAny(name, "/ ") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRulesetName, name)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRuleset, name)
	}

	rules := make(constraint.Rules, len(doc.Rules))
	for field, cs := range doc.Rules {
		bound, err := bind(field, constraint.Constraints(cs), resolvers)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", name, err)
		}
		rules[field] = bound
	}

	return &Ruleset{
		Name:         name,
		Rules:        rules,
		Defaults:     doc.Defaults,
		FullMessages: doc.FullMessages,
	}, nil
}

// bind replaces a customAsync {resolver: name, ...} definition with the
// resolver's function. Plain payloads are kept as they are.
func bind(field string, cs constraint.Constraints, resolvers Resolvers) (constraint.Constraints, error) {
	if cs == nil {
		return constraint.Constraints{}, nil
	}
	raw, ok := cs[constraint.KeyCustomAsync]
	if !ok {
		return cs, nil
	}

	spec, ok := raw.(map[string]any)
	if !ok {
		return cs, nil
	}
	name, _ := spec["resolver"].(string)
	if name == "" {
		return nil, fmt.Errorf("%w: field %q: resolver name is required", ErrInvalidAsyncRule, field)
	}
	factory, ok := resolvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: field %q uses %q", ErrUnknownResolver, field, name)
	}

	fn, err := factory(field, spec)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: field %q", ErrInvalidAsyncRule, field), err)
	}

	out := cs.Clone()
	out[constraint.KeyCustomAsync] = fn
	return out, nil
}

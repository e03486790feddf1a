package ruleset

import "errors"

var (
	ErrFailedToReadFile   = errors.New("failed to read rule set file")
	ErrFailedToParseYAML  = errors.New("failed to parse YAML rule set")
	ErrFailedToParseJSON  = errors.New("failed to parse JSON rule set")
	ErrUnsupportedFormat  = errors.New("unsupported rule set format")
	ErrDuplicateRuleset   = errors.New("duplicate rule set name")
	ErrEmptyRuleset       = errors.New("rule set has no fields")
	ErrUnknownResolver    = errors.New("unknown customAsync resolver")
	ErrInvalidAsyncRule   = errors.New("invalid customAsync rule")
	ErrRulesetNotFound    = errors.New("rule set not found")
	ErrInvalidRulesetName = errors.New("invalid rule set name")
)

package i18n

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Parser turns file content into translation trees keyed by language code.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, content []byte) (map[string]map[string]any, error)

func (f ParserFunc) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	return f(ctx, content)
}

// YAMLParser parses YAML catalogues.
var YAMLParser Parser = ParserFunc(func(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return byLanguage(data)
})

// JSONParser parses JSON catalogues.
var JSONParser Parser = ParserFunc(func(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return byLanguage(data)
})

// ParserForFile picks a parser by extension, or nil when none applies.
func ParserForFile(name string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "json":
		return JSONParser
	case "yaml", "yml":
		return YAMLParser
	default:
		return nil
	}
}

func byLanguage(data map[string]any) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrInvalidStructure, lang, val)
		}
		result[lang] = tree
	}
	return result, nil
}

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
)

// TranslationAdapter loads translation trees keyed by language code.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// FSAdapter loads every .yaml, .yml and .json file of a file system.
// Files may overlap; later files (in lexical path order) win per top-level key.
type FSAdapter struct {
	fsys fs.FS
}

// NewFSAdapter returns an adapter over fsys, e.g. os.DirFS or an embed.FS.
func NewFSAdapter(fsys fs.FS) *FSAdapter {
	return &FSAdapter{fsys: fsys}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any)

	err := fs.WalkDir(a.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ErrLoadingCancelled, ctxErr)
		}
		if d.IsDir() {
			return nil
		}
		parser := ParserForFile(p)
		if parser == nil {
			return nil
		}

		content, err := fs.ReadFile(a.fsys, p)
		if err != nil {
			return errors.Join(ErrFailedToReadFile, err)
		}
		trees, err := parser.Parse(ctx, content)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		for lang, tree := range trees {
			if result[lang] == nil {
				result[lang] = make(map[string]any, len(tree))
			}
			maps.Copy(result[lang], tree)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLoadingCancelled) || errors.Is(err, ErrFailedToReadFile) ||
			errors.Is(err, ErrFailedToParseYAML) || errors.Is(err, ErrFailedToParseJSON) ||
			errors.Is(err, ErrInvalidStructure) {
			return nil, err
		}
		return nil, errors.Join(ErrFailedToWalkFS, err)
	}

	return result, nil
}

// MapAdapter serves translations held in memory.
type MapAdapter map[string]map[string]any

func (m MapAdapter) Load(context.Context) (map[string]map[string]any, error) {
	return m, nil
}

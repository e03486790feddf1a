package ruleset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// ResolverFactory builds the customAsync function of one field from the
// options of its {resolver: name, ...} definition.
type ResolverFactory func(field string, options map[string]any) (constraint.AsyncFunc, error)

// Resolvers maps resolver names to their factories.
type Resolvers map[string]ResolverFactory

// Option configures Load.
type Option func(*loader)

type loader struct {
	resolvers Resolvers
	logger    *slog.Logger
}

// WithResolver registers a customAsync resolver under name.
func WithResolver(name string, factory ResolverFactory) Option {
	return func(l *loader) {
		if name != "" && factory != nil {
			l.resolvers[name] = factory
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// Load reads every .yaml, .yml and .json file under fsys as a rule set.
// Files with other extensions are skipped.
func Load(fsys fs.FS, opts ...Option) (*Set, error) {
	l := &loader{resolvers: make(Resolvers), logger: logger.Discard()}
	for _, opt := range opts {
		opt(l)
	}

	var sets []*Ruleset
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		format, ok := FormatForFile(p)
		if !ok {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.Join(ErrFailedToReadFile, err)
		}
		rs, err := Parse(data, format, nameFromPath(p), l.resolvers)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		l.logger.Debug("rule set loaded",
			logger.Ruleset(rs.Name),
			slog.String("file", p),
			slog.Int("fields", len(rs.Rules)))
		sets = append(sets, rs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewSet(sets...)
}

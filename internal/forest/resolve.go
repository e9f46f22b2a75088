package forest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phobologic/ipftree/internal/discover"
	"github.com/phobologic/ipftree/internal/lang"
	"github.com/phobologic/ipftree/internal/model"
)

// Source yields the directives of a procedure file.
type Source interface {
	Directives(ctx context.Context, path string) ([]model.Directive, error)
}

// Options configures Resolver and Builder.
type Options struct {
	// IncludeDir is the directory include targets are resolved against.
	IncludeDir string

	// Extension is appended to include targets. Default: ".ipf"
	Extension string

	// Logger receives debug events. Default: slog.Default()
	Logger *slog.Logger
}

// Option is a functional option for Resolver and Builder.
type Option func(*Options)

// WithIncludeDir sets the include directory.
func WithIncludeDir(dir string) Option {
	return func(o *Options) {
		o.IncludeDir = dir
	}
}

// WithExtension sets the extension appended to include targets.
func WithExtension(ext string) Option {
	return func(o *Options) {
		o.Extension = ext
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func newOptions(opts []Option) Options {
	o := Options{Extension: lang.IgorExtension}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Resolver turns one procedure file into a fully populated node.
type Resolver struct {
	source   Source
	registry *Registry
	options  Options
}

// NewResolver creates a Resolver that records progress in registry.
func NewResolver(source Source, registry *Registry, opts ...Option) *Resolver {
	return &Resolver{
		source:   source,
		registry: registry,
		options:  newOptions(opts),
	}
}

// Resolve builds the Procedure node for the file at path, named by its stem.
//
// Includes are expanded recursively unless the target is already seen in the
// registry or has no file in the include directory; both cases yield a
// childless placeholder. The stem is registered once the file is done. Any
// read failure aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, path string) (*model.Node, error) {
	return r.resolve(ctx, discover.Stem(path), path)
}

func (r *Resolver) resolve(ctx context.Context, name, path string) (*model.Node, error) {
	if !r.registry.Begin(name) {
		return model.NewNode(name, model.Procedure), nil
	}

	node, err := r.scan(ctx, name, path)
	if err != nil {
		r.registry.Abandon(name)
		return nil, err
	}

	r.registry.Finish(name)
	return node, nil
}

func (r *Resolver) scan(ctx context.Context, name, path string) (*model.Node, error) {
	ds, err := r.source.Directives(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}

	node := model.NewNode(name, model.Procedure)
	for _, d := range ds {
		var child *model.Node
		switch d.Kind {
		case model.Include:
			child, err = r.include(ctx, d.Value, path)
			if err != nil {
				return nil, err
			}
		case model.Definition:
			child = model.NewNode(d.Value, model.Function)
		default:
			continue
		}
		if err := node.AddChild(child); err != nil {
			return nil, fmt.Errorf("adding %s to %s: %w", child.Name, name, err)
		}
	}
	return node, nil
}

func (r *Resolver) include(ctx context.Context, target, from string) (*model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.registry.Seen(target) {
		r.options.Logger.Debug("include already resolved", "target", target, "from", from)
		return model.NewNode(target, model.Procedure), nil
	}

	path := filepath.Join(r.options.IncludeDir, target+r.options.Extension)
	if _, err := os.Stat(path); err != nil {
		r.options.Logger.Debug("include target missing", "target", target, "from", from, "path", path)
		return model.NewNode(target, model.Procedure), nil
	}

	return r.Resolve(ctx, path)
}

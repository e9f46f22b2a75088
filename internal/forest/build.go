package forest

import (
	"context"
	"fmt"

	"github.com/phobologic/ipftree/internal/discover"
	"github.com/phobologic/ipftree/internal/model"
)

// RootName is the name of the synthetic root node.
const RootName = "root"

// Result is the outcome of a Build.
type Result struct {
	// Root is the synthetic root; its children are the top-level procedures.
	Root *model.Node

	// Resolved lists procedure names in the order their resolution finished.
	Resolved []string

	// Nested lists files that were not added to the root because a
	// procedure of the same name was already resolved, usually through an
	// include of an earlier file.
	Nested []discover.FileEntry
}

// Builder constructs include forests.
//
// The builder is stateless and can be reused; each Build call uses a fresh
// Registry.
type Builder struct {
	source Source
	opts   []Option
}

// NewBuilder creates a Builder reading directives from source.
//
// Example:
//
//	b := NewBuilder(cache,
//	    WithIncludeDir(userDir),
//	    WithLogger(logger),
//	)
func NewBuilder(source Source, opts ...Option) *Builder {
	return &Builder{source: source, opts: opts}
}

// Build resolves files in order and attaches each resulting procedure to the
// root. Files whose stem was already resolved are skipped as top-level
// entries. The first read failure aborts the build; no partial result is
// returned.
func (b *Builder) Build(ctx context.Context, files []discover.FileEntry) (*Result, error) {
	reg := NewRegistry()
	r := NewResolver(b.source, reg, b.opts...)
	logger := r.options.Logger

	root := model.NewNode(RootName, model.Procedure)
	var nested []discover.FileEntry

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if reg.Seen(f.Name) {
			logger.Debug("skipping top-level file already included", "name", f.Name, "path", f.Path)
			nested = append(nested, f)
			continue
		}

		node, err := r.resolve(ctx, f.Name, f.Path)
		if err != nil {
			return nil, err
		}
		if err := root.AddChild(node); err != nil {
			return nil, fmt.Errorf("adding %s to root: %w", node.Name, err)
		}
	}

	logger.Debug("forest built",
		"files", len(files),
		"top_level", root.Len(),
		"resolved", reg.Len(),
	)

	return &Result{
		Root:     root,
		Resolved: reg.Names(),
		Nested:   nested,
	}, nil
}

// Find returns the direct child of root named name. Children sharing a name
// but differing in shape are distinct; the one with the smallest structural
// key wins.
func Find(root *model.Node, name string) (*model.Node, error) {
	for _, c := range root.Children() {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSubtreeNotFound, name)
}

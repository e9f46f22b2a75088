// Package ranking selects and filters ranked procedure listings.
package ranking

import (
	"strings"

	"github.com/phobologic/ipftree/internal/model"
)

// SelectTopLevel returns a new Listing with only the procedures that are
// direct children of root, keeping rank order.
func SelectTopLevel(l *model.Listing, root *model.Node) *model.Listing {
	names := make(map[string]struct{}, root.Len())
	for _, c := range root.Children() {
		names[c.Name] = struct{}{}
	}
	return keep(l, func(p *model.ProcedureInfo) bool {
		_, ok := names[p.Name]
		return ok
	})
}

// SelectProcedures returns a new Listing with only the top maxRows procedures.
// If maxRows is <= 0 or >= len(procedures), l is returned.
func SelectProcedures(l *model.Listing, maxRows int) *model.Listing {
	if maxRows <= 0 || maxRows >= len(l.Procedures) {
		return l
	}
	n := 0
	return keep(l, func(*model.ProcedureInfo) bool {
		n++
		return n <= maxRows
	})
}

// FilterByName returns a new Listing with only the procedures whose name, or
// one of whose functions, contains substr (case-insensitive).
func FilterByName(l *model.Listing, substr string) *model.Listing {
	lower := strings.ToLower(substr)
	return keep(l, func(p *model.ProcedureInfo) bool {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			return true
		}
		for _, fn := range p.Functions {
			if strings.Contains(strings.ToLower(fn), lower) {
				return true
			}
		}
		return false
	})
}

// keep filters procedures by pred and drops edges whose endpoints were not
// both kept.
func keep(l *model.Listing, pred func(*model.ProcedureInfo) bool) *model.Listing {
	var procs []model.ProcedureInfo
	kept := make(map[string]struct{})
	for i := range l.Procedures {
		if pred(&l.Procedures[i]) {
			procs = append(procs, l.Procedures[i])
			kept[l.Procedures[i].Name] = struct{}{}
		}
	}

	var deps []model.Dependency
	for i := range l.Dependencies {
		d := &l.Dependencies[i]
		_, srcOK := kept[d.Source]
		_, tgtOK := kept[d.Target]
		if srcOK && tgtOK {
			deps = append(deps, *d)
		}
	}

	return &model.Listing{Procedures: procs, Dependencies: deps}
}

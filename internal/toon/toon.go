// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/ipftree/internal/model"
	"github.com/phobologic/ipftree/internal/render"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeTree converts a subtree into TOON: a header naming the subtree and
// one row per node in render order.
func EncodeTree(n *model.Node) string {
	var rows [][]string
	render.Walk(n, func(n *model.Node, depth int) {
		rows = append(rows, []string{
			fmt.Sprintf("%d", depth),
			n.Name,
			n.Kind.String(),
		})
	})

	parts := []string{
		fmt.Sprintf("procedure: %s", encodeValue(n.Name)),
		formatTabular("nodes", []string{"depth", "name", "kind"}, rows),
	}
	return strings.Join(parts, "\n")
}

// EncodeProcedures converts a procedure listing into a TOON table.
func EncodeProcedures(procs []model.ProcedureInfo) string {
	var rows [][]string
	for i := range procs {
		p := &procs[i]
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%.4f", p.Rank),
			fmt.Sprintf("%d", len(p.Includes)),
			fmt.Sprintf("%d", len(p.Functions)),
		})
	}
	return formatTabular("procedures", []string{"name", "rank", "includes", "functions"}, rows)
}

// EncodeListing converts a ranked listing into TOON: the procedures table
// followed by the include edges among them, if any.
func EncodeListing(l *model.Listing) string {
	parts := []string{EncodeProcedures(l.Procedures)}
	if len(l.Dependencies) > 0 {
		var rows [][]string
		for _, d := range l.Dependencies {
			rows = append(rows, []string{d.Source, d.Target})
		}
		parts = append(parts, formatTabular("includes", []string{"source", "target"}, rows))
	}
	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

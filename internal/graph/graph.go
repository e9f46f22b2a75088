// Package graph builds the flat include graph of procedures and computes PageRank.
package graph

import (
	"math"
	"sort"

	"github.com/phobologic/ipftree/internal/model"
)

// Summarize collects the includes and functions of one scanned procedure.
func Summarize(name, path string, ds []model.Directive) model.ProcedureInfo {
	pi := model.ProcedureInfo{Name: name, Path: path}
	for _, d := range ds {
		switch d.Kind {
		case model.Include:
			if !contains(pi.Includes, d.Value) {
				pi.Includes = append(pi.Includes, d.Value)
			}
		case model.Definition:
			if !contains(pi.Functions, d.Value) {
				pi.Functions = append(pi.Functions, d.Value)
			}
		}
	}
	return pi
}

// BuildGraph creates include edges between known procedures.
// Includes of unknown procedures and self-includes produce no edge.
func BuildGraph(procs []model.ProcedureInfo) []model.Dependency {
	known := make(map[string]struct{}, len(procs))
	for i := range procs {
		known[procs[i].Name] = struct{}{}
	}

	type edgeKey struct{ src, tgt string }
	seen := make(map[edgeKey]struct{})

	var deps []model.Dependency
	for i := range procs {
		p := &procs[i]
		for _, target := range p.Includes {
			if target == p.Name {
				continue // no self-edges
			}
			if _, ok := known[target]; !ok {
				continue
			}
			key := edgeKey{p.Name, target}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			deps = append(deps, model.Dependency{Source: p.Name, Target: target})
		}
	}

	// Sort for deterministic output
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Source != deps[j].Source {
			return deps[i].Source < deps[j].Source
		}
		return deps[i].Target < deps[j].Target
	})

	return deps
}

// Rank applies PageRank to procs and sorts them by rank descending, then by name.
// A procedure included by many others ranks high.
func Rank(procs []model.ProcedureInfo, deps []model.Dependency) {
	if len(procs) == 0 {
		return
	}

	nodes := make(map[string]struct{}, len(procs))
	for i := range procs {
		nodes[procs[i].Name] = struct{}{}
	}

	if len(deps) == 0 {
		uniform := 1.0 / float64(len(nodes))
		for i := range procs {
			procs[i].Rank = uniform
		}
		sortByRank(procs)
		return
	}

	outEdges := make(map[string][]string)
	outDegree := make(map[string]int)
	for _, d := range deps {
		outEdges[d.Source] = append(outEdges[d.Source], d.Target)
		outDegree[d.Source]++
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)

	for i := range procs {
		procs[i].Rank = ranks[procs[i].Name]
	}
	sortByRank(procs)
}

func sortByRank(procs []model.ProcedureInfo) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].Rank != procs[j].Rank {
			return procs[i].Rank > procs[j].Rank
		}
		return procs[i].Name < procs[j].Name
	})
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Procedures that include nothing spread their rank evenly
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			contrib := alpha * rank[src] / float64(outDegree[src])
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

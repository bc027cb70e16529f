package graph

import (
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

type Edge struct {
	From string
	To   string
}

type SortResult struct {
	Order         []string
	BrokenEdges   []Edge
	DanglingEdges []Edge
}

type color int

const (
	unvisited color = iota
	visiting
	visited
)

// DependencyGraph orders resources so that every resource follows the resources it depends on.
// Cycles do not fail the sort: the edge that would close a cycle is recorded and not followed.
type DependencyGraph struct {
	resources map[string]*types.Resource
	order     []string
	Logger    *logrus.Logger
}

func NewDependencyGraph(resources []*types.Resource, logger *logrus.Logger) *DependencyGraph {
	graph := &DependencyGraph{
		resources: make(map[string]*types.Resource, len(resources)),
		order:     make([]string, 0, len(resources)),
		Logger:    logger,
	}
	for _, resource := range resources {
		if _, exists := graph.resources[resource.LogicalID]; exists {
			continue
		}
		graph.resources[resource.LogicalID] = resource
		graph.order = append(graph.order, resource.LogicalID)
	}
	return graph
}

func (graph *DependencyGraph) Sort() SortResult {
	result := SortResult{
		Order:         make([]string, 0, len(graph.order)),
		BrokenEdges:   []Edge{},
		DanglingEdges: []Edge{},
	}
	colors := make(map[string]color, len(graph.order))

	var visit func(logicalID string)
	visit = func(logicalID string) {
		colors[logicalID] = visiting
		for _, dependency := range graph.resources[logicalID].DependsOn {
			if _, exists := graph.resources[dependency]; !exists {
				graph.Logger.Tracef("Skipping dangling dependency %s -> %s", logicalID, dependency)
				result.DanglingEdges = append(result.DanglingEdges, Edge{From: logicalID, To: dependency})
				continue
			}
			switch colors[dependency] {
			case visiting:
				graph.Logger.Warnf("Dependency cycle detected, ignoring edge %s -> %s", logicalID, dependency)
				result.BrokenEdges = append(result.BrokenEdges, Edge{From: logicalID, To: dependency})
			case unvisited:
				visit(dependency)
			}
		}
		colors[logicalID] = visited
		result.Order = append(result.Order, logicalID)
	}

	for _, logicalID := range graph.order {
		if colors[logicalID] == unvisited {
			visit(logicalID)
		}
	}
	return result
}

func (graph *DependencyGraph) Resource(logicalID string) (*types.Resource, bool) {
	resource, ok := graph.resources[logicalID]
	return resource, ok
}

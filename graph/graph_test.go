package graph

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/stackshift/stack-migrator/types"
)

func resource(logicalID string, dependsOn ...string) *types.Resource {
	return &types.Resource{LogicalID: logicalID, Type: "AWS::SQS::Queue", DependsOn: dependsOn}
}

func indexOf(order []string, logicalID string) int {
	for i, id := range order {
		if id == logicalID {
			return i
		}
	}
	return -1
}

func TestSort_DependenciesFirst(t *testing.T) {
	resources := []*types.Resource{
		resource("Api", "Function"),
		resource("Function", "Role", "LogGroup"),
		resource("LogGroup"),
		resource("Role"),
	}

	result := NewDependencyGraph(resources, logrus.New()).Sort()

	assert.Equal(t, []string{"Role", "LogGroup", "Function", "Api"}, result.Order)
	assert.Empty(t, result.BrokenEdges)
	assert.Empty(t, result.DanglingEdges)

	for _, res := range resources {
		for _, dependency := range res.DependsOn {
			assert.Less(t, indexOf(result.Order, dependency), indexOf(result.Order, res.LogicalID))
		}
	}
}

func TestSort_CycleIsBrokenNotFatal(t *testing.T) {
	resources := []*types.Resource{
		resource("A", "B"),
		resource("B", "C"),
		resource("C", "A"),
		resource("D", "A"),
	}

	result := NewDependencyGraph(resources, logrus.New()).Sort()

	assert.Len(t, result.Order, 4)
	assert.Equal(t, []Edge{{From: "C", To: "A"}}, result.BrokenEdges)
	assert.Equal(t, []string{"C", "B", "A", "D"}, result.Order)
}

func TestSort_SelfReference(t *testing.T) {
	result := NewDependencyGraph([]*types.Resource{resource("A", "A")}, logrus.New()).Sort()

	assert.Equal(t, []string{"A"}, result.Order)
	assert.Equal(t, []Edge{{From: "A", To: "A"}}, result.BrokenEdges)
}

func TestSort_DanglingDependency(t *testing.T) {
	result := NewDependencyGraph([]*types.Resource{resource("A", "Ghost")}, logrus.New()).Sort()

	assert.Equal(t, []string{"A"}, result.Order)
	assert.Equal(t, []Edge{{From: "A", To: "Ghost"}}, result.DanglingEdges)
}

func TestSort_DuplicateLogicalIDsKeepFirst(t *testing.T) {
	graph := NewDependencyGraph([]*types.Resource{resource("A"), resource("A", "B"), resource("B")}, logrus.New())

	result := graph.Sort()
	assert.Equal(t, []string{"A", "B"}, result.Order)
	first, ok := graph.Resource("A")
	assert.True(t, ok)
	assert.Empty(t, first.DependsOn)
}

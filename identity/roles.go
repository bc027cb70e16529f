package identity

import (
	"fmt"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/types"
)

const (
	deadLetterQueueSuffix = "DeadLetterQueue"
	instanceSuffix        = "Instance"
)

// roleSuffixes returns suffix overrides for resources sharing a type with another resource of the
// same component: a queue that is the redrive target of a sibling queue becomes a DeadLetterQueue,
// and each instance of a multi-instance cluster is numbered in mapping order.
func roleSuffixes(original []*types.Resource, mapping *types.MappingResult) map[string]string {
	byID := make(map[string]*types.Resource, len(original))
	for _, resource := range original {
		byID[resource.LogicalID] = resource
	}

	queues := map[string][]string{}
	instances := map[string][]string{}
	for _, mappedResource := range mapping.MappedResources {
		if _, ok := byID[mappedResource.LogicalID]; !ok {
			continue
		}
		switch mappedResource.ResourceType {
		case "AWS::SQS::Queue":
			queues[mappedResource.ComponentName] = append(queues[mappedResource.ComponentName], mappedResource.LogicalID)
		case "AWS::RDS::DBInstance":
			instances[mappedResource.ComponentName] = append(instances[mappedResource.ComponentName], mappedResource.LogicalID)
		}
	}

	overrides := map[string]string{}
	for _, members := range queues {
		inComponent := map[string]bool{}
		for _, logicalID := range members {
			inComponent[logicalID] = true
		}
		for _, logicalID := range members {
			for _, target := range redriveTargets(byID[logicalID]) {
				if target != logicalID && inComponent[target] {
					overrides[target] = deadLetterQueueSuffix
				}
			}
		}
	}
	for _, members := range instances {
		if len(members) < 2 {
			continue
		}
		for index, logicalID := range members {
			overrides[logicalID] = fmt.Sprintf("%s%d", instanceSuffix, index+1)
		}
	}
	return overrides
}

func redriveTargets(queue *types.Resource) []string {
	redrivePolicy, ok := queue.Properties["RedrivePolicy"].(map[string]any)
	if !ok {
		return nil
	}
	return analyzer.References(redrivePolicy["deadLetterTargetArn"])
}

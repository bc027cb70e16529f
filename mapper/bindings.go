package mapper

import (
	"sort"
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

const (
	AccessRead      = "read"
	AccessWrite     = "write"
	AccessReadWrite = "readwrite"
)

var readActionPrefixes = []string{"Get", "List", "Describe", "Query", "Scan", "BatchGet", "Receive", "Head", "Select", "Read", "Subscribe"}

// actionAccess classifies IAM actions such as "dynamodb:GetItem" into read, write or readwrite.
func actionAccess(actions []string) string {
	read, write := false, false
	for _, action := range actions {
		operation := action
		if separator := strings.Index(action, ":"); separator >= 0 {
			operation = action[separator+1:]
		}
		if operation == "*" || operation == "" {
			read, write = true, true
			continue
		}
		isRead := false
		for _, prefix := range readActionPrefixes {
			if strings.HasPrefix(operation, prefix) {
				isRead = true
				break
			}
		}
		if isRead {
			read = true
		} else {
			write = true
		}
	}
	switch {
	case read && write:
		return AccessReadWrite
	case write:
		return AccessWrite
	default:
		return AccessRead
	}
}

func mergeAccess(left string, right string) string {
	if left == "" || left == right {
		return right
	}
	return AccessReadWrite
}

// bindComponents turns IAM permissions that cross component boundaries into binding directives on
// the component holding the permission.
func bindComponents(components []types.ComponentDeclaration, mappedResources []types.MappedResource, relationships []types.Relationship) {
	componentOf := map[string]types.MappedResource{}
	for _, mappedResource := range mappedResources {
		componentOf[mappedResource.LogicalID] = mappedResource
	}

	bindings := map[string]map[string]*types.Binding{}
	for _, relationship := range relationships {
		if relationship.Kind != types.RelationshipKindIAMPermission {
			continue
		}
		source, sourceMapped := componentOf[relationship.Source]
		target, targetMapped := componentOf[relationship.Target]
		if !sourceMapped || !targetMapped || source.ComponentName == target.ComponentName {
			continue
		}
		actions, _ := relationship.Evidence.([]string)
		access := actionAccess(actions)

		if bindings[source.ComponentName] == nil {
			bindings[source.ComponentName] = map[string]*types.Binding{}
		}
		if existing, ok := bindings[source.ComponentName][target.ComponentName]; ok {
			existing.Access = mergeAccess(existing.Access, access)
			continue
		}
		bindings[source.ComponentName][target.ComponentName] = &types.Binding{
			To:         target.ComponentName,
			Capability: target.ComponentType,
			Access:     access,
		}
	}

	for i := range components {
		componentBindings := bindings[components[i].Name]
		if len(componentBindings) == 0 {
			continue
		}
		targets := make([]string, 0, len(componentBindings))
		for target := range componentBindings {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			components[i].Binds = append(components[i].Binds, *componentBindings[target])
		}
	}
}

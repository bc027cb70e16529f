package analyzer

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

var (
	refPattern          = regexp.MustCompile(`"Ref":"([A-Za-z0-9]+)"`)
	getAttListPattern   = regexp.MustCompile(`"Fn::GetAtt":\["([A-Za-z0-9]+)"`)
	getAttStringPattern = regexp.MustCompile(`"Fn::GetAtt":"([A-Za-z0-9]+)\.`)
	subPattern          = regexp.MustCompile(`\$\{([A-Za-z0-9]+)(\.[A-Za-z0-9.]+)?\}`)
)

var networkKeys = map[string]bool{
	"SourceSecurityGroupId":      true,
	"SourceSecurityGroupName":    true,
	"DestinationSecurityGroupId": true,
	"SecurityGroupIngress":       true,
	"SecurityGroupEgress":        true,
	"GroupId":                    true,
}

// ExtractRelationships scans resource properties for permission, network and data references
// between resources of the same template. The result is advisory.
func ExtractRelationships(resources []*types.Resource) []types.Relationship {
	known := make(map[string]bool, len(resources))
	for _, resource := range resources {
		known[resource.LogicalID] = true
	}

	collector := &relationshipCollector{
		known: known,
		seen:  map[string]bool{},
	}

	for _, resource := range resources {
		collector.collectPermissions(resource.LogicalID, resource.Properties)
		collector.collectNetwork(resource.LogicalID, resource.Properties)
		collector.collectDataReferences(resource.LogicalID, resource.Properties)
	}

	sort.SliceStable(collector.relationships, func(i, j int) bool {
		left, right := collector.relationships[i], collector.relationships[j]
		if left.Source != right.Source {
			return left.Source < right.Source
		}
		if left.Target != right.Target {
			return left.Target < right.Target
		}
		return left.Kind < right.Kind
	})
	return collector.relationships
}

type relationshipCollector struct {
	known         map[string]bool
	seen          map[string]bool
	relationships []types.Relationship
}

func (collector *relationshipCollector) add(source string, target string, kind types.RelationshipKind, evidence any) {
	if source == target || !collector.known[target] {
		return
	}
	key := source + "|" + target + "|" + string(kind)
	if collector.seen[key] {
		return
	}
	collector.seen[key] = true
	collector.relationships = append(collector.relationships, types.Relationship{
		Source:   source,
		Target:   target,
		Kind:     kind,
		Evidence: evidence,
	})
}

func (collector *relationshipCollector) collectPermissions(source string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		if statements, ok := typed["Statement"]; ok {
			for _, statement := range asList(statements) {
				collector.collectStatement(source, statement)
			}
		}
		for key, child := range typed {
			if key == "Statement" {
				continue
			}
			collector.collectPermissions(source, child)
		}
	case []any:
		for _, child := range typed {
			collector.collectPermissions(source, child)
		}
	}
}

func (collector *relationshipCollector) collectStatement(source string, raw any) {
	statement, ok := raw.(map[string]any)
	if !ok {
		return
	}
	if effect, _ := statement["Effect"].(string); effect != "Allow" {
		return
	}
	actions := []string{}
	for _, action := range asList(statement["Action"]) {
		if name, ok := action.(string); ok {
			actions = append(actions, name)
		}
	}
	for _, target := range References(statement["Resource"]) {
		collector.add(source, target, types.RelationshipKindIAMPermission, actions)
	}
}

func (collector *relationshipCollector) collectNetwork(source string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			if networkKeys[key] {
				for _, target := range References(child) {
					collector.add(source, target, types.RelationshipKindNetworkAccess, key)
				}
				continue
			}
			collector.collectNetwork(source, child)
		}
	case []any:
		for _, child := range typed {
			collector.collectNetwork(source, child)
		}
	}
}

func (collector *relationshipCollector) collectDataReferences(source string, properties map[string]any) {
	if len(properties) == 0 {
		return
	}
	serialized, err := json.Marshal(properties)
	if err != nil {
		return
	}
	patterns := []struct {
		token   string
		pattern *regexp.Regexp
	}{
		{"Ref", refPattern},
		{"Fn::GetAtt", getAttListPattern},
		{"Fn::GetAtt", getAttStringPattern},
		{"Fn::Sub", subPattern},
	}
	for _, candidate := range patterns {
		for _, match := range candidate.pattern.FindAllSubmatch(serialized, -1) {
			collector.add(source, string(match[1]), types.RelationshipKindDataReference, candidate.token)
		}
	}
}

// References returns the logical IDs a value refers to through Ref, Fn::GetAtt or Fn::Sub, in
// order of first appearance.
func References(value any) []string {
	references := []string{}
	seen := map[string]bool{}
	add := func(logicalID string) {
		if logicalID == "" || strings.HasPrefix(logicalID, "AWS::") || seen[logicalID] {
			return
		}
		seen[logicalID] = true
		references = append(references, logicalID)
	}

	var walk func(value any)
	walk = func(value any) {
		switch typed := value.(type) {
		case map[string]any:
			if ref, ok := typed["Ref"].(string); ok && len(typed) == 1 {
				add(ref)
				return
			}
			if getAtt, ok := typed["Fn::GetAtt"]; ok && len(typed) == 1 {
				switch attribute := getAtt.(type) {
				case []any:
					if len(attribute) > 0 {
						if logicalID, ok := attribute[0].(string); ok {
							add(logicalID)
						}
					}
				case string:
					add(strings.SplitN(attribute, ".", 2)[0])
				}
				return
			}
			keys := make([]string, 0, len(typed))
			for key := range typed {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				walk(typed[key])
			}
		case []any:
			for _, child := range typed {
				walk(child)
			}
		case string:
			for _, match := range subPattern.FindAllStringSubmatch(typed, -1) {
				add(match[1])
			}
		}
	}
	walk(value)
	return references
}

func asList(value any) []any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		return typed
	default:
		return []any{typed}
	}
}

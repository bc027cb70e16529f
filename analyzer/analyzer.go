package analyzer

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/graph"
	"github.com/stackshift/stack-migrator/types"
)

var ErrNoTemplate = errors.New("no template to analyze")

// Top-level resource attributes kept alongside Type/Properties/Metadata/DependsOn.
var resourceAttributes = []string{"Condition", "DeletionPolicy", "UpdateReplacePolicy", "UpdatePolicy", "CreationPolicy"}

type IAnalyzerClient interface {
	Analyze(template *types.Template) (*types.AnalysisResult, error)
}

type AnalyzerClient struct {
	Logger *logrus.Logger
}

func NewAnalyzerClient(logger *logrus.Logger) *AnalyzerClient {
	return &AnalyzerClient{
		Logger: logger,
	}
}

func (analyzerClient *AnalyzerClient) Analyze(template *types.Template) (*types.AnalysisResult, error) {
	if template == nil || len(template.Resources()) == 0 {
		return nil, ErrNoTemplate
	}

	result := &types.AnalysisResult{
		Issues: []types.Issue{},
	}

	resources := analyzerClient.extractResources(template, result)
	analyzerClient.Logger.Infof("Extracted %d resources from template", len(resources))

	sortResult := graph.NewDependencyGraph(resources, analyzerClient.Logger).Sort()
	for _, edge := range sortResult.DanglingEdges {
		analyzerClient.Logger.Warnf("Resource %s depends on %s which is not in the template", edge.From, edge.To)
		result.Issues = append(result.Issues, types.NewWarning(
			types.IssueTypeDanglingDependency,
			fmt.Sprintf("%s depends on %s, which is not present in the template", edge.From, edge.To),
			edge.From, edge.To,
		))
	}
	for _, edge := range sortResult.BrokenEdges {
		result.Issues = append(result.Issues, types.NewWarning(
			types.IssueTypeDependencyCycle,
			fmt.Sprintf("Dependency cycle detected; edge %s -> %s was not followed when ordering", edge.From, edge.To),
			edge.From, edge.To,
		))
	}

	byID := make(map[string]*types.Resource, len(resources))
	for _, resource := range resources {
		byID[resource.LogicalID] = resource
	}
	result.Resources = make([]*types.Resource, 0, len(sortResult.Order))
	for _, logicalID := range sortResult.Order {
		result.Resources = append(result.Resources, byID[logicalID])
	}

	result.Relationships = ExtractRelationships(result.Resources)
	analyzerClient.Logger.Debugf("Extracted %d relationships", len(result.Relationships))

	return result, nil
}

func (analyzerClient *AnalyzerClient) extractResources(template *types.Template, result *types.AnalysisResult) []*types.Resource {
	definitions := template.Resources()

	logicalIDs := []string{}
	seen := map[string]bool{}
	for _, logicalID := range template.ResourceOrder {
		if _, exists := definitions[logicalID]; exists && !seen[logicalID] {
			logicalIDs = append(logicalIDs, logicalID)
			seen[logicalID] = true
		}
	}
	remaining := []string{}
	for logicalID := range definitions {
		if !seen[logicalID] {
			remaining = append(remaining, logicalID)
		}
	}
	sort.Strings(remaining)
	logicalIDs = append(logicalIDs, remaining...)

	resources := make([]*types.Resource, 0, len(logicalIDs))
	for _, logicalID := range logicalIDs {
		resource, reason := parseResource(logicalID, definitions[logicalID])
		if resource == nil {
			analyzerClient.Logger.Warnf("Skipping malformed resource %s: %s", logicalID, reason)
			result.Issues = append(result.Issues, types.NewWarning(
				types.IssueTypeMalformedResource,
				fmt.Sprintf("Resource %s was skipped: %s", logicalID, reason),
				logicalID,
			))
			continue
		}
		analyzerClient.Logger.Tracef("Adding Resource: %s (%s)", resource.LogicalID, resource.Type)
		resources = append(resources, resource)
	}
	return resources
}

func parseResource(logicalID string, raw any) (*types.Resource, string) {
	definition, ok := raw.(map[string]any)
	if !ok {
		return nil, "definition is not an object"
	}

	resourceType, ok := definition["Type"].(string)
	if !ok || resourceType == "" {
		return nil, "missing Type"
	}

	resource := &types.Resource{
		LogicalID:  logicalID,
		Type:       resourceType,
		Properties: map[string]any{},
		DependsOn:  []string{},
	}

	if rawProperties, exists := definition["Properties"]; exists && rawProperties != nil {
		properties, ok := rawProperties.(map[string]any)
		if !ok {
			return nil, "Properties is not an object"
		}
		resource.Properties = properties
	}

	if rawMetadata, exists := definition["Metadata"]; exists && rawMetadata != nil {
		metadata, ok := rawMetadata.(map[string]any)
		if !ok {
			return nil, "Metadata is not an object"
		}
		resource.Metadata = metadata
	}

	switch dependsOn := definition["DependsOn"].(type) {
	case nil:
	case string:
		resource.DependsOn = []string{dependsOn}
	case []any:
		for _, dependency := range dependsOn {
			dependencyID, ok := dependency.(string)
			if !ok {
				return nil, "DependsOn entries must be strings"
			}
			resource.DependsOn = append(resource.DependsOn, dependencyID)
		}
	default:
		return nil, "DependsOn must be a string or a list of strings"
	}

	for _, attribute := range resourceAttributes {
		if value, exists := definition[attribute]; exists {
			if resource.Attributes == nil {
				resource.Attributes = map[string]any{}
			}
			resource.Attributes[attribute] = value
		}
	}

	return resource, ""
}

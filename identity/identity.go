package identity

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

type IPreserverClient interface {
	PreserveIdentities(original []*types.Resource, mapping *types.MappingResult) *types.IdentityResult
	ValidatePreservation(original *types.Template, synthesized *types.Template, result *types.IdentityResult, mapping *types.MappingResult) []types.Issue
}

type PreserverClient struct {
	Suffixes map[string]map[string]string
	Logger   *logrus.Logger
}

func NewPreserverClient(logger *logrus.Logger) *PreserverClient {
	return &PreserverClient{
		Suffixes: DefaultSuffixes,
		Logger:   logger,
	}
}

// ExpectedLogicalID is the logical ID the synthesizer generates for a resource of a component:
// PascalCase(component name) followed by the type suffix, unless the name already ends with it.
func (preserverClient *PreserverClient) ExpectedLogicalID(mappedResource types.MappedResource) string {
	suffix, ok := preserverClient.Suffixes[mappedResource.ComponentType][mappedResource.ResourceType]
	if !ok {
		suffix = types.TrailingTypeSegment(mappedResource.ResourceType)
	}
	return withSuffix(mappedResource, suffix)
}

func withSuffix(mappedResource types.MappedResource, suffix string) string {
	base := types.PascalCase(mappedResource.ComponentName)
	if strings.HasSuffix(base, suffix) {
		return base
	}
	return base + suffix
}

func classify(originalID string, newID string) types.PreservationStrategy {
	if originalID == newID {
		return types.PreservationStrategyExactMatch
	}
	if _, _, ok := types.SplitHashSuffix(originalID); ok {
		return types.PreservationStrategyHashSuffix
	}
	return types.PreservationStrategyNamingConvention
}

func (preserverClient *PreserverClient) PreserveIdentities(original []*types.Resource, mapping *types.MappingResult) *types.IdentityResult {
	result := &types.IdentityResult{
		ForwardIndex:   map[string]string{},
		Mappings:       []types.IdentityMapping{},
		StrategyCounts: map[types.PreservationStrategy]int{},
		Warnings:       []types.Issue{},
	}
	for _, strategy := range types.PreservationStrategies {
		result.StrategyCounts[strategy] = 0
	}

	known := make(map[string]bool, len(original))
	for _, resource := range original {
		known[resource.LogicalID] = true
	}

	overrides := roleSuffixes(original, mapping)
	claimants := map[string][]string{}
	newIDs := []string{}
	for _, mappedResource := range mapping.MappedResources {
		if !known[mappedResource.LogicalID] {
			preserverClient.Logger.Warnf("Mapped resource %s is not in the original template", mappedResource.LogicalID)
			result.Warnings = append(result.Warnings, types.NewWarning(
				types.IssueTypeIdentityMissing,
				fmt.Sprintf("%s is mapped to %s but is not in the original template", mappedResource.LogicalID, mappedResource.ComponentName),
				mappedResource.LogicalID,
			))
			continue
		}

		newID := preserverClient.ExpectedLogicalID(mappedResource)
		if suffix, ok := overrides[mappedResource.LogicalID]; ok {
			newID = withSuffix(mappedResource, suffix)
		}
		strategy := classify(mappedResource.LogicalID, newID)
		preserverClient.Logger.Tracef("Identity %s -> %s (%s)", newID, mappedResource.LogicalID, strategy)

		result.Mappings = append(result.Mappings, types.IdentityMapping{
			OriginalID:    mappedResource.LogicalID,
			NewID:         newID,
			ResourceType:  mappedResource.ResourceType,
			ComponentName: mappedResource.ComponentName,
			ComponentType: mappedResource.ComponentType,
			Strategy:      strategy,
		})
		result.StrategyCounts[strategy]++

		if _, claimed := claimants[newID]; !claimed {
			newIDs = append(newIDs, newID)
			result.ForwardIndex[newID] = mappedResource.LogicalID
		}
		claimants[newID] = append(claimants[newID], mappedResource.LogicalID)
	}

	for _, newID := range newIDs {
		originals := claimants[newID]
		if len(originals) < 2 {
			continue
		}
		message := fmt.Sprintf("Expected logical ID %s is claimed by %s; rename one of the resources before cut-over", newID, strings.Join(originals, ", "))
		preserverClient.Logger.Warn(message)
		result.Warnings = append(result.Warnings, types.NewWarning(types.IssueTypeIdentityCollision, message, originals...))
	}

	preserverClient.Logger.Infof("Computed %d identity mappings (%d exact, %d hash suffix, %d renamed)",
		len(result.Mappings),
		result.StrategyCounts[types.PreservationStrategyExactMatch],
		result.StrategyCounts[types.PreservationStrategyHashSuffix],
		result.StrategyCounts[types.PreservationStrategyNamingConvention],
	)
	return result
}

// ValidatePreservation checks a synthesized template against the identity mappings and reports
// stateful resources that were left out of every component.
func (preserverClient *PreserverClient) ValidatePreservation(original *types.Template, synthesized *types.Template, result *types.IdentityResult, mapping *types.MappingResult) []types.Issue {
	issues := []types.Issue{}

	for _, identityMapping := range result.Mappings {
		if _, ok := original.ResourceType(identityMapping.OriginalID); !ok {
			issues = append(issues, types.NewWarning(
				types.IssueTypeIdentityMissing,
				fmt.Sprintf("%s is missing from the original template", identityMapping.OriginalID),
				identityMapping.OriginalID,
			))
			continue
		}

		synthesizedID := identityMapping.OriginalID
		synthesizedType, ok := synthesized.ResourceType(synthesizedID)
		if !ok {
			synthesizedID = identityMapping.NewID
			synthesizedType, ok = synthesized.ResourceType(synthesizedID)
		}
		if !ok {
			issues = append(issues, types.NewWarning(
				types.IssueTypeIdentityMissing,
				fmt.Sprintf("%s (expected as %s) is missing from the synthesized template", identityMapping.OriginalID, identityMapping.NewID),
				identityMapping.OriginalID, identityMapping.NewID,
			))
			continue
		}
		if synthesizedType != identityMapping.ResourceType {
			issues = append(issues, types.NewWarning(
				types.IssueTypeResourceTypeChanged,
				fmt.Sprintf("%s changed type from %s to %s", identityMapping.OriginalID, identityMapping.ResourceType, synthesizedType),
				identityMapping.OriginalID, synthesizedID,
			))
		}
	}

	mapped := map[string]bool{}
	for _, mappedResource := range mapping.MappedResources {
		mapped[mappedResource.LogicalID] = true
	}
	for _, logicalID := range original.ResourceOrder {
		resourceType, ok := original.ResourceType(logicalID)
		if !ok || !IsStateful(resourceType) || mapped[logicalID] {
			continue
		}
		message := fmt.Sprintf("Stateful resource %s (%s) is not mapped to any component and may be deleted during cut-over", logicalID, resourceType)
		preserverClient.Logger.Warn(message)
		issues = append(issues, types.NewWarning(types.IssueTypeStatefulResourceUnmapped, message, logicalID))
	}

	return issues
}

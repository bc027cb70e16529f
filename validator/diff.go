package validator

import (
	"fmt"
	"sort"

	"github.com/stackshift/stack-migrator/types"
)

// Resource fields that change deployed infrastructure. Metadata is compared separately as a
// non-functional difference.
var comparedFields = []string{
	"Type",
	"Properties",
	"DependsOn",
	"Condition",
	"DeletionPolicy",
	"UpdateReplacePolicy",
	"UpdatePolicy",
	"CreationPolicy",
}

// DiffTemplates compares two templates resource by resource.
func DiffTemplates(original *types.Template, candidate *types.Template) (types.TemplateDiff, []types.Issue) {
	diff := types.TemplateDiff{
		AddedResourceIDs:   []string{},
		RemovedResourceIDs: []string{},
		ModifiedResources:  []types.ModifiedResource{},
	}
	warnings := []types.Issue{}

	originalResources := original.Resources()
	candidateResources := candidate.Resources()

	common := []string{}
	for logicalID := range originalResources {
		if _, exists := candidateResources[logicalID]; exists {
			common = append(common, logicalID)
		} else {
			diff.RemovedResourceIDs = append(diff.RemovedResourceIDs, logicalID)
		}
	}
	for logicalID := range candidateResources {
		if _, exists := originalResources[logicalID]; !exists {
			diff.AddedResourceIDs = append(diff.AddedResourceIDs, logicalID)
		}
	}
	sort.Strings(common)
	sort.Strings(diff.AddedResourceIDs)
	sort.Strings(diff.RemovedResourceIDs)

	for _, logicalID := range common {
		expected := definition(originalResources[logicalID])
		actual := definition(candidateResources[logicalID])

		functional := &comparator{}
		for _, field := range comparedFields {
			expectedValue, inExpected := expected[field]
			actualValue, inActual := actual[field]
			functional.compareField(field, expectedValue, inExpected, actualValue, inActual)
		}
		if len(functional.differences) > 0 {
			diff.ModifiedResources = append(diff.ModifiedResources, types.ModifiedResource{
				LogicalID:        logicalID,
				FieldDifferences: functional.differences,
			})
		}

		metadata := &comparator{}
		expectedMetadata, inExpected := expected["Metadata"]
		actualMetadata, inActual := actual["Metadata"]
		metadata.compareField("Metadata", expectedMetadata, inExpected, actualMetadata, inActual)
		if len(metadata.differences) > 0 {
			warnings = append(warnings, types.NewWarning(
				types.IssueTypeNonFunctionalDiff,
				fmt.Sprintf("%s: %d metadata differences (non-functional)", logicalID, len(metadata.differences)),
				logicalID,
			))
		}
	}

	return diff, warnings
}

// definition returns a resource definition with a scalar DependsOn widened to a list and empty
// objects and arrays dropped, since an empty value deploys the same as an absent one.
func definition(raw any) map[string]any {
	source, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	normalized := make(map[string]any, len(source))
	for key, value := range source {
		normalized[key] = value
	}
	switch dependsOn := normalized["DependsOn"].(type) {
	case string:
		normalized["DependsOn"] = []any{dependsOn}
	case []string:
		widened := make([]any, 0, len(dependsOn))
		for _, dependency := range dependsOn {
			widened = append(widened, dependency)
		}
		normalized["DependsOn"] = widened
	}
	return prune(normalized).(map[string]any)
}

// prune copies value, recursively removing object entries whose value is an empty object or array.
// Array elements are kept so that positions still line up.
func prune(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		pruned := make(map[string]any, len(typed))
		for key, child := range typed {
			child = prune(child)
			if isEmpty(child) {
				continue
			}
			pruned[key] = child
		}
		return pruned
	case []any:
		pruned := make([]any, len(typed))
		for i, element := range typed {
			pruned[i] = prune(element)
		}
		return pruned
	}
	return value
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	}
	return false
}

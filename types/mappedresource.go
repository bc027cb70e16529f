package types

type MappedResource struct {
	LogicalID     string
	ResourceType  string
	ComponentName string
	ComponentType string
}

type UnmappableResource struct {
	LogicalID          string
	Type               string
	Reason             string
	OriginalDefinition map[string]any
	SuggestedAction    string
}

type MappingResult struct {
	Components          []ComponentDeclaration
	MappedResources     []MappedResource
	UnmappableResources []UnmappableResource
	Issues              []Issue
}

func (result *MappingResult) ComponentFor(logicalID string) (MappedResource, bool) {
	for _, mappedResource := range result.MappedResources {
		if mappedResource.LogicalID == logicalID {
			return mappedResource, true
		}
	}
	return MappedResource{}, false
}

package types

type Resource struct {
	LogicalID  string
	Type       string
	Properties map[string]any
	Metadata   map[string]any
	DependsOn  []string
	Attributes map[string]any
}

// Definition returns the resource in template form, as it appeared in the source template.
func (resource *Resource) Definition() map[string]any {
	definition := map[string]any{
		"Type": resource.Type,
	}
	if len(resource.Properties) > 0 {
		definition["Properties"] = resource.Properties
	}
	if len(resource.Metadata) > 0 {
		definition["Metadata"] = resource.Metadata
	}
	if len(resource.DependsOn) > 0 {
		definition["DependsOn"] = resource.DependsOn
	}
	for key, value := range resource.Attributes {
		definition[key] = value
	}
	return definition
}

// TypeSegment returns the trailing segment of the type tag, e.g. "Function" for "AWS::Lambda::Function".
func (resource *Resource) TypeSegment() string {
	return TrailingTypeSegment(resource.Type)
}

func TrailingTypeSegment(resourceType string) string {
	for i := len(resourceType) - 1; i > 0; i-- {
		if resourceType[i] == ':' {
			return resourceType[i+1:]
		}
	}
	return resourceType
}

type Template struct {
	Body          map[string]any
	ResourceOrder []string
}

func (template *Template) Resources() map[string]any {
	if template == nil || template.Body == nil {
		return nil
	}
	resources, _ := template.Body["Resources"].(map[string]any)
	return resources
}

func (template *Template) ResourceType(logicalID string) (string, bool) {
	definition, ok := template.Resources()[logicalID].(map[string]any)
	if !ok {
		return "", false
	}
	resourceType, ok := definition["Type"].(string)
	return resourceType, ok
}

type AnalysisResult struct {
	Resources     []*Resource
	Relationships []Relationship
	Issues        []Issue
}

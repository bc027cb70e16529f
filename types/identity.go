package types

type IdentityMapping struct {
	OriginalID    string               `json:"originalId"`
	NewID         string               `json:"newId"`
	ResourceType  string               `json:"resourceType"`
	ComponentName string               `json:"componentName"`
	ComponentType string               `json:"componentType"`
	Strategy      PreservationStrategy `json:"strategy"`
}

type PreservationStrategy string

const (
	PreservationStrategyExactMatch       PreservationStrategy = "exact-match"
	PreservationStrategyHashSuffix       PreservationStrategy = "hash-suffix"
	PreservationStrategyNamingConvention PreservationStrategy = "naming-convention"
)

var PreservationStrategies = []PreservationStrategy{
	PreservationStrategyExactMatch,
	PreservationStrategyHashSuffix,
	PreservationStrategyNamingConvention,
}

type IdentityResult struct {
	ForwardIndex   map[string]string
	Mappings       []IdentityMapping
	StrategyCounts map[PreservationStrategy]int
	Warnings       []Issue
}

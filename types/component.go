package types

type ComponentDeclaration struct {
	Name      string         `yaml:"name" json:"name"`
	Type      string         `yaml:"type" json:"type"`
	Config    map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Binds     []Binding      `yaml:"binds,omitempty" json:"binds,omitempty"`
	Overrides map[string]any `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

type Binding struct {
	To         string `yaml:"to" json:"to"`
	Capability string `yaml:"capability" json:"capability"`
	Access     string `yaml:"access" json:"access"`
}

type Manifest struct {
	Service             string                 `yaml:"service" json:"service"`
	Owner               string                 `yaml:"owner,omitempty" json:"owner,omitempty"`
	ComplianceFramework ComplianceProfile      `yaml:"complianceFramework" json:"complianceFramework"`
	Components          []ComponentDeclaration `yaml:"components" json:"components"`
}

type ComplianceProfile string

const (
	ComplianceProfileCommercial      ComplianceProfile = "commercial"
	ComplianceProfileFedRAMPModerate ComplianceProfile = "fedramp-moderate"
	ComplianceProfileFedRAMPHigh     ComplianceProfile = "fedramp-high"
)

func (profile ComplianceProfile) IsValidComplianceProfile() bool {
	switch profile {
	case ComplianceProfileCommercial,
		ComplianceProfileFedRAMPModerate,
		ComplianceProfileFedRAMPHigh:
		return true
	default:
		return false
	}
}

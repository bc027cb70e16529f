package types

type Relationship struct {
	Source   string
	Target   string
	Kind     RelationshipKind
	Evidence any
}

type RelationshipKind string

const (
	RelationshipKindIAMPermission RelationshipKind = "iam-permission"
	RelationshipKindNetworkAccess RelationshipKind = "network-access"
	RelationshipKindDataReference RelationshipKind = "data-reference"
)

func (kind RelationshipKind) IsValidRelationshipKind() bool {
	switch kind {
	case RelationshipKindIAMPermission,
		RelationshipKindNetworkAccess,
		RelationshipKindDataReference:
		return true
	default:
		return false
	}
}

package types

type Verdict string

const (
	VerdictNoChanges  Verdict = "NO_CHANGES"
	VerdictHasChanges Verdict = "HAS_CHANGES"
)

type DiffKind string

const (
	DiffKindAdded        DiffKind = "added"
	DiffKindRemoved      DiffKind = "removed"
	DiffKindChanged      DiffKind = "changed"
	DiffKindTypeMismatch DiffKind = "type-mismatch"
)

type FieldDifference struct {
	Path        string   `json:"path"`
	Kind        DiffKind `json:"kind"`
	Expected    any      `json:"expected,omitempty"`
	Actual      any      `json:"actual,omitempty"`
	Description string   `json:"description"`
}

type ModifiedResource struct {
	LogicalID        string            `json:"logicalId"`
	FieldDifferences []FieldDifference `json:"fieldDifferences"`
}

type TemplateDiff struct {
	AddedResourceIDs   []string           `json:"addedResourceIds"`
	RemovedResourceIDs []string           `json:"removedResourceIds"`
	ModifiedResources  []ModifiedResource `json:"modifiedResources"`
}

func (diff TemplateDiff) IsEmpty() bool {
	return len(diff.AddedResourceIDs) == 0 && len(diff.RemovedResourceIDs) == 0 && len(diff.ModifiedResources) == 0
}

func (diff TemplateDiff) Verdict() Verdict {
	if diff.IsEmpty() {
		return VerdictNoChanges
	}
	return VerdictHasChanges
}

type ValidationResult struct {
	Verdict   Verdict
	Diff      TemplateDiff
	Errors    []string
	Warnings  []Issue
	Candidate *Template
}

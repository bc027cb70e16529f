package types

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

type Issue struct {
	IssueID    string
	Severity   Severity
	IssueType  IssueType
	LogicalIDs []string
	Message    string
}

type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type IssueType string

const (
	IssueTypeMalformedResource        IssueType = "MalformedResource"
	IssueTypeDanglingDependency       IssueType = "DanglingDependency"
	IssueTypeDependencyCycle          IssueType = "DependencyCycle"
	IssueTypeDefaultApplied           IssueType = "DefaultApplied"
	IssueTypeRuntimeRewritten         IssueType = "RuntimeRewritten"
	IssueTypeUnmappableResource       IssueType = "UnmappableResource"
	IssueTypeIdentityCollision        IssueType = "IdentityCollision"
	IssueTypeIdentityMissing          IssueType = "IdentityMissing"
	IssueTypeResourceTypeChanged      IssueType = "ResourceTypeChanged"
	IssueTypeStatefulResourceUnmapped IssueType = "StatefulResourceUnmapped"
	IssueTypeNonFunctionalDiff        IssueType = "NonFunctionalDiff"
)

func (issueType IssueType) IsValidIssueType() bool {
	switch issueType {
	case IssueTypeMalformedResource,
		IssueTypeDanglingDependency,
		IssueTypeDependencyCycle,
		IssueTypeDefaultApplied,
		IssueTypeRuntimeRewritten,
		IssueTypeUnmappableResource,
		IssueTypeIdentityCollision,
		IssueTypeIdentityMissing,
		IssueTypeResourceTypeChanged,
		IssueTypeStatefulResourceUnmapped,
		IssueTypeNonFunctionalDiff:
		return true
	default:
		return false
	}
}

func NewIssue(severity Severity, issueType IssueType, message string, logicalIDs ...string) Issue {
	return Issue{
		IssueID:    GetIdentityHash(string(issueType) + ":" + strings.Join(logicalIDs, ",") + ":" + message),
		Severity:   severity,
		IssueType:  issueType,
		LogicalIDs: logicalIDs,
		Message:    message,
	}
}

func NewWarning(issueType IssueType, message string, logicalIDs ...string) Issue {
	return NewIssue(SeverityWarning, issueType, message, logicalIDs...)
}

func NewInfo(issueType IssueType, message string, logicalIDs ...string) Issue {
	return NewIssue(SeverityInfo, issueType, message, logicalIDs...)
}

func GetIdentityHash(id string) string {
	sha256ID := sha256.Sum256([]byte(id))
	return fmt.Sprintf("%x", sha256ID)[0:7]
}

func FilterIssues(issues []Issue, severity Severity) []Issue {
	filtered := []Issue{}
	for _, issue := range issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

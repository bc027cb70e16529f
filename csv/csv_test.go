package csv

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackshift/stack-migrator/types"
)

func TestRender_SortsRowsAndSkipsInfo(t *testing.T) {
	csvClient := NewIssueCsvClient(logrus.New())
	issues := []types.Issue{
		types.NewWarning(types.IssueTypeIdentityCollision, "OrdersPolicy collides", "PolicyB", "PolicyA"),
		types.NewInfo(types.IssueTypeDefaultApplied, "timeout defaulted", "OrdersFunction"),
		types.NewWarning(types.IssueTypeDependencyCycle, "cycle", "A", "B"),
	}
	unmappable := []types.UnmappableResource{
		{LogicalID: "AppVpc", Type: "AWS::EC2::VPC", Reason: "no component handler for AWS::EC2::VPC", SuggestedAction: "Reference the VPC."},
	}

	content, err := csvClient.Render(issues, unmappable)
	require.NoError(t, err)

	expected := "Issue ID,Severity,Issue Type,Logical IDs,Resource Type,Message,Action\n" +
		issues[2].IssueID + ",warning,DependencyCycle,A B,,cycle,\n" +
		issues[0].IssueID + ",warning,IdentityCollision,PolicyB PolicyA,,OrdersPolicy collides,\n" +
		types.NewWarning(types.IssueTypeUnmappableResource, "no component handler for AWS::EC2::VPC", "AppVpc").IssueID +
		",warning,UnmappableResource,AppVpc,AWS::EC2::VPC,no component handler for AWS::EC2::VPC,Reference the VPC.\n"
	assert.Equal(t, expected, string(content))
}

func TestBySeverityIssueTypeAndLogicalIDs(t *testing.T) {
	rows := BySeverityIssueTypeAndLogicalIDs{
		{Severity: types.SeverityWarning, IssueType: types.IssueTypeDanglingDependency, LogicalIDs: "B"},
		{Severity: types.SeverityFatal, IssueType: types.IssueTypeStatefulResourceUnmapped, LogicalIDs: "Z"},
		{Severity: types.SeverityWarning, IssueType: types.IssueTypeDanglingDependency, LogicalIDs: "A"},
	}

	assert.True(t, rows.Less(1, 0))
	assert.True(t, rows.Less(2, 0))
	assert.False(t, rows.Less(0, 2))
}

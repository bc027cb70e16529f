package report

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackshift/stack-migrator/types"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func cleanData() *ReportData {
	return &ReportData{
		ServiceName:    "orders",
		Profile:        types.ComplianceProfileCommercial,
		TemplateDigest: "abc123",
		TotalResources: 2,
		Mapping: &types.MappingResult{
			Components: []types.ComponentDeclaration{
				{Name: "orders-api", Type: "lambda-api", Binds: []types.Binding{{To: "orders-table", Capability: "dynamodb-table", Access: "readwrite"}}},
			},
			MappedResources: []types.MappedResource{
				{LogicalID: "OrdersApiFunction", ComponentName: "orders-api", ComponentType: "lambda-api"},
				{LogicalID: "OrdersApiRole", ComponentName: "orders-api", ComponentType: "lambda-api"},
			},
			UnmappableResources: []types.UnmappableResource{},
		},
		Identity: &types.IdentityResult{
			StrategyCounts: map[types.PreservationStrategy]int{types.PreservationStrategyExactMatch: 2},
		},
		Validation: &types.ValidationResult{Verdict: types.VerdictNoChanges},
	}
}

func TestRender_CleanMigration(t *testing.T) {
	reportClient := NewReportClient(fixedClock, logrus.New())

	content, err := reportClient.Render(cleanData())
	require.NoError(t, err)
	report := string(content)

	assert.True(t, strings.HasPrefix(report, "# Migration Report: orders\n"))
	assert.Contains(t, report, "- Run ID: `"+RunID("abc123")+"`")
	assert.Contains(t, report, "- Generated: 2026-03-01T12:00:00Z")
	assert.Contains(t, report, "Clean migration. All 2 resources were mapped into 1 components")
	assert.Contains(t, report, "Validation verdict: **NO_CHANGES**")
	assert.Contains(t, report, "orders-table (readwrite)")
	assert.Contains(t, report, "| exact-match")
	assert.Contains(t, report, "Every resource was mapped to a component.")
	assert.Contains(t, report, "1. Deploy `service.yml` with `logical-id-map.json` applied")
}

func TestRender_PartialMigration(t *testing.T) {
	reportClient := NewReportClient(fixedClock, logrus.New())
	data := cleanData()
	data.TotalResources = 4
	data.Mapping.UnmappableResources = []types.UnmappableResource{
		{LogicalID: "AppVpc", Type: "AWS::EC2::VPC", Reason: "no component handler for AWS::EC2::VPC", SuggestedAction: "Reference the VPC."},
		{LogicalID: "AppFileSystem", Type: "AWS::EFS::FileSystem", Reason: "no component handler for AWS::EFS::FileSystem", SuggestedAction: "Keep the file system."},
	}
	data.Validation = &types.ValidationResult{
		Verdict: types.VerdictHasChanges,
		Diff: types.TemplateDiff{
			RemovedResourceIDs: []string{"AppVpc"},
			ModifiedResources: []types.ModifiedResource{{
				LogicalID: "OrdersApiFunction",
				FieldDifferences: []types.FieldDifference{
					{Path: "Properties.Timeout", Kind: types.DiffKindChanged, Description: "expected 30, found 3"},
				},
			}},
		},
	}
	data.Issues = []types.Issue{
		types.NewWarning(types.IssueTypeDependencyCycle, "cycle broken", "A", "B"),
		types.NewWarning(types.IssueTypeStatefulResourceUnmapped, "AWS::EFS::FileSystem is stateful and not mapped", "AppFileSystem"),
		types.NewInfo(types.IssueTypeDefaultApplied, "timeout defaulted", "OrdersApiFunction"),
	}

	content, err := reportClient.Render(data)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "Partial migration. 2 of 4 resources were mapped into 1 components; 2 resources are unmappable.")
	assert.Contains(t, report, "**1 stateful resources are not mapped and risk deletion during cut-over.**")
	risks := strings.Index(report, "## Data-Loss Risks")
	warnings := strings.Index(report, "## Warnings")
	require.True(t, risks > 0 && warnings > 0)
	assert.Less(t, risks, warnings)
	assert.Less(t, strings.Index(report, "AppFileSystem`: AWS::EFS::FileSystem is stateful"), warnings)
	assert.Contains(t, report, "- **DependencyCycle** `A`, `B`: cycle broken")
	assert.NotContains(t, report, "timeout defaulted")
	assert.Contains(t, report, "| AppVpc")
	assert.Contains(t, report, "- Removed: `AppVpc`")
	assert.Contains(t, report, "  - `Properties.Timeout` (changed): expected 30, found 3")
	assert.Contains(t, report, "1. Map or retain every stateful resource")
	assert.Contains(t, report, "2. Complete the 2 escape hatches in `patches.hcl`.")
	assert.Contains(t, report, "3. Review the validation diff")
}

func TestRender_IsDeterministic(t *testing.T) {
	reportClient := NewReportClient(fixedClock, logrus.New())

	first, err := reportClient.Render(cleanData())
	require.NoError(t, err)
	second, err := reportClient.Render(cleanData())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_RequiresResults(t *testing.T) {
	reportClient := NewReportClient(fixedClock, logrus.New())
	_, err := reportClient.Render(&ReportData{ServiceName: "orders"})
	assert.Error(t, err)
}

func TestRunID(t *testing.T) {
	assert.Equal(t, RunID("abc123"), RunID("abc123"))
	assert.NotEqual(t, RunID("abc123"), RunID("abc124"))
}

func TestClean(t *testing.T) {
	data := cleanData()
	assert.True(t, data.Clean())

	data.Mapping.UnmappableResources = []types.UnmappableResource{{LogicalID: "AppVpc"}}
	assert.False(t, data.Clean())

	data = cleanData()
	data.Validation.Verdict = types.VerdictHasChanges
	assert.False(t, data.Clean())
}

func TestRender_CollisionNextStep(t *testing.T) {
	reportClient := NewReportClient(fixedClock, logrus.New())
	data := cleanData()
	collision := types.NewWarning(types.IssueTypeIdentityCollision, "OrdersPolicy is claimed by PolicyA, PolicyB", "PolicyA", "PolicyB")
	data.Identity.Warnings = []types.Issue{collision}
	data.Issues = []types.Issue{collision}

	content, err := reportClient.Render(data)
	require.NoError(t, err)

	assert.Contains(t, string(content), "1. Rename the components behind each identity collision")
	assert.Contains(t, string(content), "- **IdentityCollision** `PolicyA`, `PolicyB`: OrdersPolicy is claimed by PolicyA, PolicyB")
}

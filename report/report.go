package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

const FileName = "MIGRATION_REPORT.md"

type ReportData struct {
	ServiceName    string
	Profile        types.ComplianceProfile
	TemplateDigest string
	TotalResources int
	Mapping        *types.MappingResult
	Identity       *types.IdentityResult
	Validation     *types.ValidationResult
	Issues         []types.Issue
}

// Clean is true only for a NO_CHANGES verdict with every resource mapped.
func (data *ReportData) Clean() bool {
	return data.Validation != nil &&
		data.Validation.Verdict == types.VerdictNoChanges &&
		len(data.Mapping.UnmappableResources) == 0
}

type IReportClient interface {
	Render(data *ReportData) ([]byte, error)
}

type ReportClient struct {
	Clock  func() time.Time
	Logger *logrus.Logger
}

func NewReportClient(clock func() time.Time, logger *logrus.Logger) *ReportClient {
	if clock == nil {
		clock = time.Now
	}
	return &ReportClient{
		Clock:  clock,
		Logger: logger,
	}
}

// RunID is stable for a given template digest.
func RunID(templateDigest string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("stack-migrator:"+templateDigest)).String()
}

func (reportClient *ReportClient) Render(data *ReportData) ([]byte, error) {
	if data == nil || data.Mapping == nil || data.Identity == nil || data.Validation == nil {
		return nil, errors.New("report requires mapping, identity and validation results")
	}

	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "# Migration Report: %s\n\n", data.ServiceName)
	fmt.Fprintf(&buffer, "- Run ID: `%s`\n", RunID(data.TemplateDigest))
	fmt.Fprintf(&buffer, "- Generated: %s\n", reportClient.Clock().UTC().Format(time.RFC3339))
	fmt.Fprintf(&buffer, "- Compliance profile: %s\n\n", data.Profile)

	dataLossRisks, warnings := splitWarnings(data.Issues)

	writeSummary(&buffer, data, dataLossRisks)
	writeCounts(&buffer, data)
	writeComponents(&buffer, data.Mapping)
	writeStrategies(&buffer, data.Identity)
	writeIssueList(&buffer, "Data-Loss Risks", dataLossRisks, "No stateful resource is at risk.")
	writeIssueList(&buffer, "Warnings", warnings, "No warnings.")
	writeUnmappable(&buffer, data.Mapping.UnmappableResources)
	writeDiff(&buffer, data.Validation)
	writeNextSteps(&buffer, data, dataLossRisks)

	reportClient.Logger.Debugf("Rendered report for %s with %d warnings", data.ServiceName, len(dataLossRisks)+len(warnings))
	return buffer.Bytes(), nil
}

func splitWarnings(issues []types.Issue) ([]types.Issue, []types.Issue) {
	dataLossRisks := []types.Issue{}
	warnings := []types.Issue{}
	for _, issue := range issues {
		if issue.Severity == types.SeverityInfo {
			continue
		}
		if issue.IssueType == types.IssueTypeStatefulResourceUnmapped {
			dataLossRisks = append(dataLossRisks, issue)
			continue
		}
		warnings = append(warnings, issue)
	}
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].IssueType < warnings[j].IssueType
	})
	return dataLossRisks, warnings
}

func writeSummary(buffer *bytes.Buffer, data *ReportData, dataLossRisks []types.Issue) {
	buffer.WriteString("## Executive Summary\n\n")
	mapped := len(data.Mapping.MappedResources)
	unmappable := len(data.Mapping.UnmappableResources)

	if data.Clean() {
		fmt.Fprintf(buffer, "Clean migration. All %d resources were mapped into %d components and re-synthesis reproduces the original stack.\n\n", mapped, len(data.Mapping.Components))
	} else {
		fmt.Fprintf(buffer, "Partial migration. %d of %d resources were mapped into %d components; %d resources are unmappable. Human follow-up is required before cut-over.\n\n", mapped, data.TotalResources, len(data.Mapping.Components), unmappable)
	}
	fmt.Fprintf(buffer, "Validation verdict: **%s**\n\n", data.Validation.Verdict)
	if len(dataLossRisks) > 0 {
		fmt.Fprintf(buffer, "**%d stateful resources are not mapped and risk deletion during cut-over.**\n\n", len(dataLossRisks))
	}
}

func writeCounts(buffer *bytes.Buffer, data *ReportData) {
	buffer.WriteString("## Resource Counts\n\n")
	buffer.WriteString(markdownTable([]string{"Category", "Count"}, [][]string{
		{"Total resources", fmt.Sprint(data.TotalResources)},
		{"Mapped resources", fmt.Sprint(len(data.Mapping.MappedResources))},
		{"Unmappable resources", fmt.Sprint(len(data.Mapping.UnmappableResources))},
		{"Components", fmt.Sprint(len(data.Mapping.Components))},
	}))
	buffer.WriteString("\n")
}

func writeComponents(buffer *bytes.Buffer, mapping *types.MappingResult) {
	buffer.WriteString("## Components\n\n")
	if len(mapping.Components) == 0 {
		buffer.WriteString("No components were produced.\n\n")
		return
	}

	resourceCounts := map[string]int{}
	for _, mappedResource := range mapping.MappedResources {
		resourceCounts[mappedResource.ComponentName]++
	}
	rows := [][]string{}
	for _, component := range mapping.Components {
		binds := []string{}
		for _, binding := range component.Binds {
			binds = append(binds, fmt.Sprintf("%s (%s)", binding.To, binding.Access))
		}
		bindText := "-"
		if len(binds) > 0 {
			bindText = strings.Join(binds, ", ")
		}
		rows = append(rows, []string{component.Name, component.Type, fmt.Sprint(resourceCounts[component.Name]), bindText})
	}
	buffer.WriteString(markdownTable([]string{"Component", "Type", "Resources", "Binds"}, rows))
	buffer.WriteString("\n")
}

func writeStrategies(buffer *bytes.Buffer, identity *types.IdentityResult) {
	buffer.WriteString("## Identity Preservation\n\n")
	rows := [][]string{}
	for _, strategy := range types.PreservationStrategies {
		rows = append(rows, []string{string(strategy), fmt.Sprint(identity.StrategyCounts[strategy])})
	}
	buffer.WriteString(markdownTable([]string{"Strategy", "Resources"}, rows))
	buffer.WriteString("\n")
}

func writeIssueList(buffer *bytes.Buffer, title string, issues []types.Issue, empty string) {
	fmt.Fprintf(buffer, "## %s\n\n", title)
	if len(issues) == 0 {
		fmt.Fprintf(buffer, "%s\n\n", empty)
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(buffer, "- **%s** `%s`: %s\n", issue.IssueType, strings.Join(issue.LogicalIDs, "`, `"), issue.Message)
	}
	buffer.WriteString("\n")
}

func writeUnmappable(buffer *bytes.Buffer, unmappable []types.UnmappableResource) {
	buffer.WriteString("## Unmappable Resources\n\n")
	if len(unmappable) == 0 {
		buffer.WriteString("Every resource was mapped to a component.\n\n")
		return
	}
	rows := [][]string{}
	for _, resource := range unmappable {
		rows = append(rows, []string{resource.LogicalID, resource.Type, resource.Reason, resource.SuggestedAction})
	}
	buffer.WriteString(markdownTable([]string{"Logical ID", "Type", "Reason", "Suggested Action"}, rows))
	buffer.WriteString("\nEach resource has an `escape_hatch` block in `patches.hcl`.\n\n")
}

func writeDiff(buffer *bytes.Buffer, validation *types.ValidationResult) {
	buffer.WriteString("## Validation Diff\n\n")
	fmt.Fprintf(buffer, "Verdict: **%s**\n\n", validation.Verdict)

	for _, message := range validation.Errors {
		fmt.Fprintf(buffer, "- Error: %s\n", message)
	}
	for _, logicalID := range validation.Diff.AddedResourceIDs {
		fmt.Fprintf(buffer, "- Added: `%s`\n", logicalID)
	}
	for _, logicalID := range validation.Diff.RemovedResourceIDs {
		fmt.Fprintf(buffer, "- Removed: `%s`\n", logicalID)
	}
	for _, modified := range validation.Diff.ModifiedResources {
		fmt.Fprintf(buffer, "- Modified: `%s`\n", modified.LogicalID)
		for _, difference := range modified.FieldDifferences {
			fmt.Fprintf(buffer, "  - `%s` (%s): %s\n", difference.Path, difference.Kind, difference.Description)
		}
	}
	if len(validation.Errors) > 0 || !validation.Diff.IsEmpty() {
		buffer.WriteString("\n")
	}
}

func writeNextSteps(buffer *bytes.Buffer, data *ReportData, dataLossRisks []types.Issue) {
	buffer.WriteString("## Next Steps\n\n")
	steps := []string{}
	if len(dataLossRisks) > 0 {
		steps = append(steps, "Map or retain every stateful resource listed under Data-Loss Risks before cut-over.")
	}
	if hasIssueType(data.Identity.Warnings, types.IssueTypeIdentityCollision) {
		steps = append(steps, "Rename the components behind each identity collision so every new logical ID is unique.")
	}
	if unmappable := len(data.Mapping.UnmappableResources); unmappable > 0 {
		steps = append(steps, fmt.Sprintf("Complete the %d escape hatches in `patches.hcl`.", unmappable))
	}
	if data.Validation.Verdict == types.VerdictHasChanges {
		steps = append(steps, "Review the validation diff, adjust `service.yml` and run the migration again.")
	}
	if len(steps) == 0 {
		steps = append(steps, "Deploy `service.yml` with `logical-id-map.json` applied; no resource will be replaced.")
	}
	for i, step := range steps {
		fmt.Fprintf(buffer, "%d. %s\n", i+1, step)
	}
}

func hasIssueType(issues []types.Issue, issueType types.IssueType) bool {
	for _, issue := range issues {
		if issue.IssueType == issueType {
			return true
		}
	}
	return false
}

func markdownTable(header []string, rows [][]string) string {
	var buffer bytes.Buffer
	table := tablewriter.NewWriter(&buffer)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, value := range row {
			escaped[i] = strings.ReplaceAll(value, "|", `\|`)
		}
		table.Append(escaped)
	}
	table.Render()
	return buffer.String()
}

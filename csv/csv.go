package csv

import (
	"bytes"
	csvwriter "encoding/csv"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

const IssuesFileName = "issues.csv"

type IIssueCsvClient interface {
	Render(issues []types.Issue, unmappable []types.UnmappableResource) ([]byte, error)
}

type IssueCsvClient struct {
	Logger *logrus.Logger
}

type IssueCsv struct {
	Header []string
	Rows   []*IssueCsvRow
}

func NewIssueCsvClient(logger *logrus.Logger) *IssueCsvClient {
	return &IssueCsvClient{
		Logger: logger,
	}
}

func newIssueCsv() *IssueCsv {
	return &IssueCsv{Header: []string{"Issue ID", "Severity", "Issue Type", "Logical IDs", "Resource Type", "Message", "Action"}}
}

func (csv *IssueCsv) AddRow(row *IssueCsvRow) {
	csv.Rows = append(csv.Rows, row)
}

type IssueCsvRow struct {
	IssueID      string
	Severity     types.Severity
	IssueType    types.IssueType
	LogicalIDs   string
	ResourceType string
	Message      string
	Action       string
}

// Render builds the follow-up sheet: every warning and fatal issue plus one row per unmappable
// resource carrying its suggested action. Informational issues are left out.
func (csvClient *IssueCsvClient) Render(issues []types.Issue, unmappable []types.UnmappableResource) ([]byte, error) {
	issueCsv := newIssueCsv()

	for _, issue := range issues {
		if issue.Severity == types.SeverityInfo {
			continue
		}
		issueCsv.AddRow(&IssueCsvRow{
			IssueID:    issue.IssueID,
			Severity:   issue.Severity,
			IssueType:  issue.IssueType,
			LogicalIDs: strings.Join(issue.LogicalIDs, " "),
			Message:    issue.Message,
		})
	}

	for _, resource := range unmappable {
		issue := types.NewWarning(types.IssueTypeUnmappableResource, resource.Reason, resource.LogicalID)
		issueCsv.AddRow(&IssueCsvRow{
			IssueID:      issue.IssueID,
			Severity:     issue.Severity,
			IssueType:    issue.IssueType,
			LogicalIDs:   resource.LogicalID,
			ResourceType: resource.Type,
			Message:      resource.Reason,
			Action:       resource.SuggestedAction,
		})
	}

	sort.Sort(BySeverityIssueTypeAndLogicalIDs(issueCsv.Rows))

	content, err := issueCsv.write()
	if err != nil {
		return nil, err
	}
	csvClient.Logger.Debugf("Rendered %d issue rows", len(issueCsv.Rows))
	return content, nil
}

func (csv *IssueCsv) write() ([]byte, error) {
	csvData := [][]string{csv.Header}
	for _, row := range csv.Rows {
		csvData = append(csvData, []string{
			row.IssueID,
			string(row.Severity),
			string(row.IssueType),
			row.LogicalIDs,
			row.ResourceType,
			row.Message,
			row.Action,
		})
	}

	var buffer bytes.Buffer
	csvWriter := csvwriter.NewWriter(&buffer)
	if err := csvWriter.WriteAll(csvData); err != nil {
		return nil, errors.Wrap(err, "failed to write CSV")
	}
	return buffer.Bytes(), nil
}

var severityRank = map[types.Severity]int{
	types.SeverityFatal:   0,
	types.SeverityWarning: 1,
	types.SeverityInfo:    2,
}

type BySeverityIssueTypeAndLogicalIDs []*IssueCsvRow

func (o BySeverityIssueTypeAndLogicalIDs) Len() int      { return len(o) }
func (o BySeverityIssueTypeAndLogicalIDs) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o BySeverityIssueTypeAndLogicalIDs) Less(i, j int) bool {
	if o[i].Severity != o[j].Severity {
		return severityRank[o[i].Severity] < severityRank[o[j].Severity]
	}

	if o[i].IssueType != o[j].IssueType {
		return o[i].IssueType < o[j].IssueType
	}

	if o[i].LogicalIDs != o[j].LogicalIDs {
		return o[i].LogicalIDs < o[j].LogicalIDs
	}

	return o[i].Message < o[j].Message
}

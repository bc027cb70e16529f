package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackshift/stack-migrator/template"
	"github.com/stackshift/stack-migrator/types"
)

type mockSynthClient struct {
	Template     *types.Template
	Err          error
	Called       bool
	LogicalIDMap map[string]string
}

func (m *mockSynthClient) Synthesize(ctx context.Context, manifest *types.Manifest, logicalIDMap map[string]string) (*types.Template, error) {
	m.Called = true
	m.LogicalIDMap = logicalIDMap
	return m.Template, m.Err
}

func parse(t *testing.T, content string) *types.Template {
	t.Helper()
	parsed, err := template.Parse([]byte(content))
	require.NoError(t, err)
	return parsed
}

const originalTemplate = `{
  "Resources": {
    "OrdersQueue": {
      "Type": "AWS::SQS::Queue",
      "Properties": {"VisibilityTimeout": 60, "Tags": [{"Key": "a", "Value": "1"}, {"Key": "b", "Value": "2"}]},
      "Metadata": {"aws:cdk:path": "Orders/Queue/Resource"}
    },
    "OrdersTopic": {
      "Type": "AWS::SNS::Topic",
      "DependsOn": "OrdersQueue"
    }
  }
}`

func TestValidate_NoChanges(t *testing.T) {
	original := parse(t, originalTemplate)
	candidate := parse(t, `
Resources:
  OrdersTopic:
    Type: AWS::SNS::Topic
    DependsOn:
      - OrdersQueue
  OrdersQueue:
    Type: AWS::SQS::Queue
    Metadata:
      aws:cdk:path: Orders/Queue/Resource
    Properties:
      Tags:
        - Value: "2"
          Key: b
        - Key: a
          Value: "1"
      VisibilityTimeout: 60.0
`)
	synthClient := &mockSynthClient{Template: candidate}
	validatorClient := NewValidatorClient(synthClient, logrus.New())

	result, err := validatorClient.Validate(context.Background(), &types.Manifest{Service: "orders"}, map[string]string{"OrdersQueue": "OrdersQueue"}, original)
	require.NoError(t, err)

	assert.True(t, synthClient.Called)
	assert.Equal(t, map[string]string{"OrdersQueue": "OrdersQueue"}, synthClient.LogicalIDMap)
	assert.Equal(t, types.VerdictNoChanges, result.Verdict)
	assert.True(t, result.Diff.IsEmpty())
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
	assert.Same(t, candidate, result.Candidate)
}

func TestValidate_SynthesisFailureIsAnError(t *testing.T) {
	validatorClient := NewValidatorClient(&mockSynthClient{Err: errors.New("boom")}, logrus.New())

	_, err := validatorClient.Validate(context.Background(), &types.Manifest{}, nil, parse(t, originalTemplate))
	assert.Error(t, err)
}

func TestDiffTemplates_AddedRemovedAndModified(t *testing.T) {
	original := parse(t, originalTemplate)
	candidate := parse(t, `{
  "Resources": {
    "OrdersQueue": {
      "Type": "AWS::SQS::Queue",
      "Properties": {"VisibilityTimeout": 30, "Tags": [{"Key": "a", "Value": "1"}, {"Key": "b", "Value": "2"}], "FifoQueue": true},
      "Metadata": {"aws:cdk:path": "Orders/OrdersQueue/Resource"},
      "DeletionPolicy": "Retain"
    },
    "OrdersFunction": {"Type": "AWS::Lambda::Function"}
  }
}`)

	diff, warnings := DiffTemplates(original, candidate)

	assert.Equal(t, types.VerdictHasChanges, diff.Verdict())
	assert.Equal(t, []string{"OrdersFunction"}, diff.AddedResourceIDs)
	assert.Equal(t, []string{"OrdersTopic"}, diff.RemovedResourceIDs)

	require.Len(t, diff.ModifiedResources, 1)
	modified := diff.ModifiedResources[0]
	assert.Equal(t, "OrdersQueue", modified.LogicalID)

	byPath := map[string]types.FieldDifference{}
	for _, difference := range modified.FieldDifferences {
		byPath[difference.Path] = difference
	}
	assert.Len(t, byPath, 3)
	assert.Equal(t, types.DiffKindChanged, byPath["Properties.VisibilityTimeout"].Kind)
	assert.Equal(t, types.DiffKindAdded, byPath["Properties.FifoQueue"].Kind)
	assert.Equal(t, types.DiffKindAdded, byPath["DeletionPolicy"].Kind)

	require.Len(t, warnings, 1)
	assert.Equal(t, types.IssueTypeNonFunctionalDiff, warnings[0].IssueType)
	assert.Equal(t, []string{"OrdersQueue"}, warnings[0].LogicalIDs)
}

func TestDiffTemplates_DescribesTypeMismatch(t *testing.T) {
	original := parse(t, `{"Resources": {"Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"BucketEncryption": {"Rules": [{"SSEAlgorithm": "aws:kms"}]}, "Name": null}}}}`)
	candidate := parse(t, `{"Resources": {"Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"BucketEncryption": "AES256", "Name": 5}}}}`)

	diff, _ := DiffTemplates(original, candidate)

	require.Len(t, diff.ModifiedResources, 1)
	differences := diff.ModifiedResources[0].FieldDifferences
	require.Len(t, differences, 2)
	assert.Equal(t, "Properties.BucketEncryption", differences[0].Path)
	assert.Equal(t, types.DiffKindTypeMismatch, differences[0].Kind)
	assert.Equal(t, "expected object, found string", differences[0].Description)
	assert.Equal(t, "Properties.Name", differences[1].Path)
	assert.Equal(t, types.DiffKindTypeMismatch, differences[1].Kind)
	assert.Equal(t, "expected null, found number", differences[1].Description)
}

func TestDiffTemplates_EmptyValuesMatchAbsentOnes(t *testing.T) {
	original := parse(t, `{"Resources": {
  "Topic": {"Type": "AWS::SNS::Topic", "Properties": {}},
  "Queue": {"Type": "AWS::SQS::Queue", "DependsOn": [], "Properties": {"Tags": [], "RedrivePolicy": {}, "VisibilityTimeout": 30}},
  "Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"Name": null}}
}}`)
	candidate := parse(t, `{"Resources": {
  "Topic": {"Type": "AWS::SNS::Topic"},
  "Queue": {"Type": "AWS::SQS::Queue", "Properties": {"VisibilityTimeout": 30}, "Metadata": {}},
  "Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"Name": null}}
}}`)

	diff, warnings := DiffTemplates(original, candidate)

	assert.Equal(t, types.VerdictNoChanges, diff.Verdict())
	assert.Empty(t, warnings)
}

func TestDiffTemplates_MissingKeyIsRemoved(t *testing.T) {
	original := parse(t, `{"Resources": {"Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"BucketName": "assets", "Tags": [{"Key": "team", "Value": "a"}]}}}}`)
	candidate := parse(t, `{"Resources": {"Bucket": {"Type": "AWS::S3::Bucket", "Properties": {"Tags": [], "VersioningConfiguration": {"Status": "Enabled"}}}}}`)

	diff, _ := DiffTemplates(original, candidate)

	require.Len(t, diff.ModifiedResources, 1)
	differences := diff.ModifiedResources[0].FieldDifferences
	require.Len(t, differences, 3)
	assert.Equal(t, "Properties.BucketName", differences[0].Path)
	assert.Equal(t, types.DiffKindRemoved, differences[0].Kind)
	assert.Equal(t, "Properties.Tags", differences[1].Path)
	assert.Equal(t, types.DiffKindRemoved, differences[1].Kind)
	assert.Equal(t, "Properties.VersioningConfiguration", differences[2].Path)
	assert.Equal(t, types.DiffKindAdded, differences[2].Kind)
}

func TestComparator_OrderedArrays(t *testing.T) {
	comparator := &comparator{}
	comparator.compare("Properties.Layers", []any{"a", "b"}, []any{"b", "a"})
	comparator.compare("Properties.Args", []any{"a", "b"}, []any{"b", "a"})
	comparator.compare("Properties.Ports", []any{1, 2}, []any{1})

	require.Len(t, comparator.differences, 3)
	assert.Equal(t, "Properties.Args[0]", comparator.differences[0].Path)
	assert.Equal(t, "Properties.Args[1]", comparator.differences[1].Path)
	assert.Equal(t, "array length changed from 2 to 1", comparator.differences[2].Description)
}

func TestComparator_ValueKinds(t *testing.T) {
	tests := []struct {
		value any
		kind  string
	}{
		{map[string]any{}, "object"},
		{[]any{}, "array"},
		{"x", "string"},
		{3, "number"},
		{3.5, "number"},
		{true, "boolean"},
		{nil, "null"},
	}

	for _, test := range tests {
		assert.Equal(t, test.kind, kindOf(test.value))
	}
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "Tags", fieldName("Properties.Tags"))
	assert.Equal(t, "Statement", fieldName("Properties.PolicyDocument.Statement"))
	assert.Equal(t, "DependsOn", fieldName("DependsOn"))
}

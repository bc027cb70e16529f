package hcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackshift/stack-migrator/types"
)

func TestRenderPatches(t *testing.T) {
	hclClient := NewHclClient(logrus.New())
	unmappable := []types.UnmappableResource{
		{
			LogicalID:          "AppVpc",
			Type:               "AWS::EC2::VPC",
			Reason:             "no component handler for AWS::EC2::VPC",
			OriginalDefinition: map[string]any{"Type": "AWS::EC2::VPC", "Properties": map[string]any{"CidrBlock": "10.0.0.0/16"}},
			SuggestedAction:    "Reference the existing VPC.",
		},
	}

	content, err := hclClient.RenderPatches(unmappable)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, `escape_hatch "AppVpc" {`)
	assert.Contains(t, text, `resource_type       = "AWS::EC2::VPC"`)
	assert.Contains(t, text, `original_definition = "{\"Properties\":{\"CidrBlock\":\"10.0.0.0/16\"},\"Type\":\"AWS::EC2::VPC\"}"`)
	assert.Contains(t, text, "# AppVpc (AWS::EC2::VPC)\n")
	assert.Contains(t, text, "#     \"CidrBlock\": \"10.0.0.0/16\"\n")

	_, diagnostics := hclsyntax.ParseConfig(content, PatchesFileName, hcl.Pos{Line: 1, Column: 1})
	assert.False(t, diagnostics.HasErrors(), diagnostics.Error())
}

func TestRenderPatches_Empty(t *testing.T) {
	content, err := NewHclClient(logrus.New()).RenderPatches(nil)
	require.NoError(t, err)

	assert.Contains(t, string(content), "# No unmappable resources.")
}

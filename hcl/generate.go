package hcl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/stackshift/stack-migrator/types"
)

const PatchesFileName = "patches.hcl"

var patchesHeader = []string{
	"# Escape hatch for resources that could not be mapped to a component.\n",
	"# Complete each block by hand and keep the logical IDs unchanged.\n",
}

type IHclClient interface {
	RenderPatches(unmappable []types.UnmappableResource) ([]byte, error)
}

type HclClient struct {
	Logger *logrus.Logger
}

func NewHclClient(logger *logrus.Logger) *HclClient {
	return &HclClient{
		Logger: logger,
	}
}

func comment(text string) *hclwrite.Token {
	return &hclwrite.Token{
		Type:  hclsyntax.TokenComment,
		Bytes: []byte(text),
	}
}

// RenderPatches writes one escape_hatch block per unmappable resource with its original definition
// as a JSON attribute and as a readable comment above the block.
func (hclClient *HclClient) RenderPatches(unmappable []types.UnmappableResource) ([]byte, error) {
	hclFile := hclwrite.NewEmptyFile()
	body := hclFile.Body()
	for _, line := range patchesHeader {
		body.AppendUnstructuredTokens(hclwrite.Tokens{comment(line)})
	}

	if len(unmappable) == 0 {
		body.AppendUnstructuredTokens(hclwrite.Tokens{comment("# No unmappable resources.\n")})
		return hclFile.Bytes(), nil
	}

	for _, resource := range unmappable {
		definition, err := json.Marshal(resource.OriginalDefinition)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode definition of %v", resource.LogicalID)
		}
		prettyDefinition, err := json.MarshalIndent(resource.OriginalDefinition, "", "  ")
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode definition of %v", resource.LogicalID)
		}

		body.AppendNewline()
		tokens := hclwrite.Tokens{comment(fmt.Sprintf("# %s (%s)\n", resource.LogicalID, resource.Type))}
		for _, line := range strings.Split(string(prettyDefinition), "\n") {
			tokens = append(tokens, comment("# "+line+"\n"))
		}
		body.AppendUnstructuredTokens(tokens)

		block := body.AppendNewBlock("escape_hatch", []string{resource.LogicalID})
		block.Body().SetAttributeValue("resource_type", cty.StringVal(resource.Type))
		block.Body().SetAttributeValue("reason", cty.StringVal(resource.Reason))
		block.Body().SetAttributeValue("suggested_action", cty.StringVal(resource.SuggestedAction))
		block.Body().SetAttributeValue("original_definition", cty.StringVal(string(definition)))
	}

	hclClient.Logger.Debugf("Rendered %d escape hatch blocks", len(unmappable))
	return hclFile.Bytes(), nil
}

package template

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stackshift/stack-migrator/types"
)

var (
	ErrEmptyTemplate = errors.New("template is empty")
	ErrNoResources   = errors.New("template has no Resources section")
)

// Parse decodes a JSON or YAML template. CloudFormation short-form tags (!Ref, !GetAtt, !Sub, ...)
// are expanded to their long form and the order of the Resources section is kept.
func Parse(content []byte) (*types.Template, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(content, &document); err != nil {
		if template, jsonErr := parseJSON(content); jsonErr == nil {
			return template, nil
		}
		return nil, errors.Wrap(err, "failed to parse template")
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 {
		return nil, ErrEmptyTemplate
	}

	root := document.Content[0]
	value, err := decodeNode(root)
	if err != nil {
		return nil, err
	}
	body, ok := value.(map[string]any)
	if !ok {
		return nil, errors.Errorf("template root must be a mapping, found %s", describeNode(root))
	}
	resources, ok := body["Resources"].(map[string]any)
	if !ok || len(resources) == 0 {
		return nil, ErrNoResources
	}

	return &types.Template{
		Body:          body,
		ResourceOrder: resourceOrder(root),
	}, nil
}

// parseJSON handles documents yaml.v3 rejects, such as tab-indented JSON. Key order is lost, so
// resources are ordered by logical ID.
func parseJSON(content []byte) (*types.Template, error) {
	var body map[string]any
	if err := json.Unmarshal(content, &body); err != nil {
		return nil, err
	}
	resources, ok := body["Resources"].(map[string]any)
	if !ok || len(resources) == 0 {
		return nil, ErrNoResources
	}
	order := make([]string, 0, len(resources))
	for logicalID := range resources {
		order = append(order, logicalID)
	}
	sort.Strings(order)
	return &types.Template{Body: body, ResourceOrder: order}, nil
}

func resourceOrder(root *yaml.Node) []string {
	order := []string{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "Resources" {
			continue
		}
		resources := root.Content[i+1]
		for j := 0; j+1 < len(resources.Content); j += 2 {
			order = append(order, resources.Content[j].Value)
		}
	}
	return order
}

func decodeNode(node *yaml.Node) (any, error) {
	if name, ok := intrinsicName(node.Tag); ok {
		untagged := *node
		untagged.Tag = ""
		inner, err := decodeNode(&untagged)
		if err != nil {
			return nil, err
		}
		return expandIntrinsic(name, inner), nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0])
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.MappingNode:
		mapping := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			value, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			mapping[key.Value] = value
		}
		return mapping, nil
	case yaml.SequenceNode:
		sequence := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			sequence = append(sequence, value)
		}
		return sequence, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool", "!!int", "!!float":
			var value any
			if err := node.Decode(&value); err != nil {
				return nil, errors.Wrapf(err, "line %d: failed to decode scalar", node.Line)
			}
			return value, nil
		default:
			return node.Value, nil
		}
	}
	return nil, errors.Errorf("line %d: unsupported node", node.Line)
}

func intrinsicName(tag string) (string, bool) {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return "", false
	}
	return tag[1:], true
}

func expandIntrinsic(name string, inner any) map[string]any {
	switch name {
	case "Ref", "Condition":
		return map[string]any{name: inner}
	case "GetAtt":
		if attribute, ok := inner.(string); ok {
			parts := strings.SplitN(attribute, ".", 2)
			if len(parts) == 2 {
				return map[string]any{"Fn::GetAtt": []any{parts[0], parts[1]}}
			}
		}
		return map[string]any{"Fn::GetAtt": inner}
	default:
		return map[string]any{"Fn::" + name: inner}
	}
}

func describeNode(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	default:
		return "an unsupported node"
	}
}

package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

func intValue(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		if typed == math.Trunc(typed) {
			return int(typed), true
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func boolValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(typed)); err == nil {
			return parsed, true
		}
	}
	return false, false
}

func stringValue(value any) (string, bool) {
	typed, ok := value.(string)
	return typed, ok && typed != ""
}

func mapValue(value any) (map[string]any, bool) {
	typed, ok := value.(map[string]any)
	return typed, ok
}

// intSetting reads an integer property into the config, falling back to a default and recording it.
// Intrinsic values such as {"Ref": ...} are carried through unchanged.
func intSetting(context *HandlerContext, resource *types.Resource, config map[string]any, key string, property string, fallback int, unit string) {
	value, exists := resource.Properties[property]
	if !exists {
		config[key] = fallback
		context.Info(types.IssueTypeDefaultApplied, fmt.Sprintf("%s: %s not set, applied default %s of %d%s", resource.LogicalID, property, key, fallback, unit), resource.LogicalID)
		return
	}
	if number, ok := intValue(value); ok {
		config[key] = number
		return
	}
	config[key] = value
}

func boolSetting(context *HandlerContext, resource *types.Resource, config map[string]any, key string, property string, fallback bool) {
	value, exists := resource.Properties[property]
	if !exists {
		config[key] = fallback
		context.Info(types.IssueTypeDefaultApplied, fmt.Sprintf("%s: %s not set, applied %s default %s=%t", resource.LogicalID, property, context.Profile, key, fallback), resource.LogicalID)
		return
	}
	if flag, ok := boolValue(value); ok {
		config[key] = flag
		return
	}
	config[key] = value
}

// overrides returns the properties of a resource that the component config does not model.
func overrides(resource *types.Resource, consumed ...string) map[string]any {
	skip := map[string]bool{}
	for _, property := range consumed {
		skip[property] = true
	}
	remaining := map[string]any{}
	for property, value := range resource.Properties {
		if !skip[property] {
			remaining[property] = value
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return remaining
}

package validator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

// Arrays under these keys are compared as multisets; their element order carries no meaning.
var unorderedFields = map[string]bool{
	"DependsOn":           true,
	"Tags":                true,
	"ManagedPolicyArns":   true,
	"SecurityGroupIds":    true,
	"SubnetIds":           true,
	"VpcSecurityGroupIds": true,
	"Layers":              true,
	"Statement":           true,
	"Action":              true,
}

type comparator struct {
	differences []types.FieldDifference
}

func (comparator *comparator) add(path string, kind types.DiffKind, expected any, actual any, description string) {
	comparator.differences = append(comparator.differences, types.FieldDifference{
		Path:        path,
		Kind:        kind,
		Expected:    expected,
		Actual:      actual,
		Description: description,
	})
}

// compareField compares the values of a key. Only a key missing on one side is an addition or a
// removal; a null on one side is a kind mismatch.
func (comparator *comparator) compareField(path string, expected any, inExpected bool, actual any, inActual bool) {
	switch {
	case !inExpected && !inActual:
	case !inExpected:
		comparator.add(path, types.DiffKindAdded, nil, actual, fmt.Sprintf("%s added", path))
	case !inActual:
		comparator.add(path, types.DiffKindRemoved, expected, nil, fmt.Sprintf("%s removed", path))
	default:
		comparator.compare(path, expected, actual)
	}
}

func (comparator *comparator) compare(path string, expected any, actual any) {
	expectedKind, actualKind := kindOf(expected), kindOf(actual)
	if expectedKind != actualKind {
		comparator.add(path, types.DiffKindTypeMismatch, expected, actual, fmt.Sprintf("expected %s, found %s", expectedKind, actualKind))
		return
	}
	if expectedKind == "null" {
		return
	}

	switch expectedValue := expected.(type) {
	case map[string]any:
		comparator.compareObjects(path, expectedValue, actual.(map[string]any))
	case []any:
		comparator.compareArrays(path, expectedValue, actual.([]any))
	default:
		if expectedKind == "number" {
			expectedNumber, _ := toFloat(expected)
			actualNumber, _ := toFloat(actual)
			if expectedNumber != actualNumber {
				comparator.add(path, types.DiffKindChanged, expected, actual, fmt.Sprintf("number changed from %v to %v", expected, actual))
			}
			return
		}
		if !reflect.DeepEqual(expected, actual) {
			comparator.add(path, types.DiffKindChanged, expected, actual, fmt.Sprintf("%s changed from %v to %v", expectedKind, expected, actual))
		}
	}
}

func (comparator *comparator) compareObjects(path string, expected map[string]any, actual map[string]any) {
	keys := make([]string, 0, len(expected)+len(actual))
	for key := range expected {
		keys = append(keys, key)
	}
	for key := range actual {
		if _, exists := expected[key]; !exists {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		expectedValue, inExpected := expected[key]
		actualValue, inActual := actual[key]
		comparator.compareField(joinPath(path, key), expectedValue, inExpected, actualValue, inActual)
	}
}

func (comparator *comparator) compareArrays(path string, expected []any, actual []any) {
	if unorderedFields[fieldName(path)] {
		if !sameMultiset(expected, actual) {
			comparator.add(path, types.DiffKindChanged, expected, actual, fmt.Sprintf("elements differ, ignoring order (%d expected, %d found)", len(expected), len(actual)))
		}
		return
	}
	if len(expected) != len(actual) {
		comparator.add(path, types.DiffKindChanged, expected, actual, fmt.Sprintf("array length changed from %d to %d", len(expected), len(actual)))
		return
	}
	for i := range expected {
		comparator.compare(fmt.Sprintf("%s[%d]", path, i), expected[i], actual[i])
	}
}

func sameMultiset(expected []any, actual []any) bool {
	if len(expected) != len(actual) {
		return false
	}
	counts := map[string]int{}
	for _, element := range expected {
		counts[canonical(element)]++
	}
	for _, element := range actual {
		key := canonical(element)
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}

// canonical renders a value with sorted object keys; integral floats render like ints.
func canonical(value any) string {
	content, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%#v", value)
	}
	return string(content)
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func toFloat(value any) (float64, bool) {
	switch number := value.(type) {
	case int:
		return float64(number), true
	case int8:
		return float64(number), true
	case int16:
		return float64(number), true
	case int32:
		return float64(number), true
	case int64:
		return float64(number), true
	case uint:
		return float64(number), true
	case uint8:
		return float64(number), true
	case uint16:
		return float64(number), true
	case uint32:
		return float64(number), true
	case uint64:
		return float64(number), true
	case float32:
		return float64(number), true
	case float64:
		return number, true
	}
	return 0, false
}

func joinPath(base string, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// fieldName returns the last key of a path, without array indices: "Properties.Tags[0]" -> "Tags".
func fieldName(path string) string {
	if index := strings.Index(path, "["); index >= 0 {
		path = path[:index]
	}
	if index := strings.LastIndex(path, "."); index >= 0 {
		return path[index+1:]
	}
	return path
}

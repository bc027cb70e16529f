package mapper

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/stackshift/stack-migrator/types"
)

// PropertySerializer renders a property tree for substring search.
type PropertySerializer func(value any) ([]byte, error)

// propertyIndex holds the serialized properties of every resource of one mapping run. Each
// resource is serialized exactly once when the index is built; a lookup is a substring search over
// the serialized tree, so the reference heuristic costs O(resources * average serialized size) per
// candidate pair checked. It must never outlive the run that built it.
type propertyIndex struct {
	serialized map[string]string
	count      int
}

func newPropertyIndex(resources []*types.Resource, serializer PropertySerializer) (*propertyIndex, error) {
	index := &propertyIndex{
		serialized: make(map[string]string, len(resources)),
	}
	for _, resource := range resources {
		if _, exists := index.serialized[resource.LogicalID]; exists {
			continue
		}
		content, err := serializer(resource.Properties)
		index.count++
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize properties of %v", resource.LogicalID)
		}
		index.serialized[resource.LogicalID] = string(content)
	}
	return index, nil
}

// references reports whether the serialized properties of source mention target's logical ID as a
// whole identifier.
func (index *propertyIndex) references(source *types.Resource, target *types.Resource) bool {
	haystack := index.serialized[source.LogicalID]
	needle := target.LogicalID
	if needle == "" || source.LogicalID == needle {
		return false
	}
	for offset := 0; ; {
		position := strings.Index(haystack[offset:], needle)
		if position < 0 {
			return false
		}
		start := offset + position
		end := start + len(needle)
		if (start == 0 || !isIdentifierByte(haystack[start-1])) && (end == len(haystack) || !isIdentifierByte(haystack[end])) {
			return true
		}
		offset = start + 1
	}
}

func isIdentifierByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

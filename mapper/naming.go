package mapper

import (
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

const minimumBaseLength = 3

// Longest first so compound suffixes are removed whole.
var typeSuffixWords = []string{
	"ServiceRoleDefaultPolicy",
	"EventSourceMapping",
	"SecretTargetAttachment",
	"DeadLetterQueue",
	"ParameterGroup",
	"SecurityGroup",
	"DefaultPolicy",
	"BucketPolicy",
	"QueuePolicy",
	"TopicPolicy",
	"Subscription",
	"ServiceRole",
	"SubnetGroup",
	"Permission",
	"Deployment",
	"Integration",
	"LogGroup",
	"Function",
	"Instance",
	"Cluster",
	"RestApi",
	"Handler",
	"Account",
	"Method",
	"Policy",
	"Bucket",
	"Secret",
	"Queue",
	"Topic",
	"Table",
	"Stage",
	"Route",
	"Role",
	"Api",
	"DLQ",
	"DB",
}

// namingBase reduces a logical ID to the stem shared by the resources of one component:
// "OrdersFunctionServiceRole11AA22BB" -> "Orders".
func namingBase(logicalID string) string {
	base := types.StripHashSuffix(logicalID)
	for {
		stripped := false
		for _, suffix := range typeSuffixWords {
			if len(base) > len(suffix) && strings.HasSuffix(base, suffix) {
				base = strings.TrimSuffix(base, suffix)
				stripped = true
				break
			}
		}
		if !stripped {
			return base
		}
	}
}

func namesRelated(left string, right string) bool {
	leftBase, rightBase := namingBase(left), namingBase(right)
	if len(leftBase) < minimumBaseLength || len(rightBase) < minimumBaseLength {
		return false
	}
	return strings.HasPrefix(leftBase, rightBase) || strings.HasPrefix(rightBase, leftBase)
}

// ComponentName derives the kebab-case component name from the primary resource's logical ID.
func ComponentName(logicalID string) string {
	return types.KebabCase(types.StripHashSuffix(logicalID))
}

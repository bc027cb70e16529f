package mapper

import (
	"fmt"

	"github.com/stackshift/stack-migrator/types"
)

const (
	ComponentTypeBucket = "s3-bucket"
	ComponentTypeTable  = "dynamodb-table"
)

// BucketHandler maps an S3 bucket and its bucket policy.
type BucketHandler struct{}

func (handler *BucketHandler) CanHandle(group *ResourceGroup) bool {
	return group.Primary != nil && group.Primary.Type == "AWS::S3::Bucket" && len(group.OfType("AWS::S3::Bucket")) == 1
}

func (handler *BucketHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	bucket := group.Primary
	config := map[string]any{}

	if versioning, ok := mapValue(bucket.Properties["VersioningConfiguration"]); ok {
		config["versioning"] = versioning["Status"] == "Enabled"
	} else {
		config["versioning"] = context.Defaults.Versioning
		context.Info(types.IssueTypeDefaultApplied, fmt.Sprintf("%s: VersioningConfiguration not set, applied %s default versioning=%t", bucket.LogicalID, context.Profile, context.Defaults.Versioning), bucket.LogicalID)
	}

	if _, ok := bucket.Properties["BucketEncryption"]; ok {
		config["encryption"] = true
	} else {
		config["encryption"] = context.Defaults.StorageEncrypted
		context.Info(types.IssueTypeDefaultApplied, fmt.Sprintf("%s: BucketEncryption not set, applied %s default encryption=%t", bucket.LogicalID, context.Profile, context.Defaults.StorageEncrypted), bucket.LogicalID)
	}

	if block, ok := mapValue(bucket.Properties["PublicAccessBlockConfiguration"]); ok {
		blocked := true
		for _, setting := range []string{"BlockPublicAcls", "BlockPublicPolicy", "IgnorePublicAcls", "RestrictPublicBuckets"} {
			if flag, ok := boolValue(block[setting]); !ok || !flag {
				blocked = false
			}
		}
		config["blockPublicAccess"] = blocked
	}

	return &types.ComponentDeclaration{
		Type:      ComponentTypeBucket,
		Config:    config,
		Overrides: overrides(bucket, "VersioningConfiguration", "BucketEncryption", "PublicAccessBlockConfiguration"),
	}, nil
}

// TableHandler maps a DynamoDB table and its autoscaling resources.
type TableHandler struct{}

func (handler *TableHandler) CanHandle(group *ResourceGroup) bool {
	return group.Primary != nil && group.Primary.Type == "AWS::DynamoDB::Table" && len(group.OfType("AWS::DynamoDB::Table")) == 1
}

func (handler *TableHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	table := group.Primary
	config := map[string]any{}

	attributeTypes := map[string]any{}
	if definitions, ok := table.Properties["AttributeDefinitions"].([]any); ok {
		for _, rawDefinition := range definitions {
			if definition, ok := mapValue(rawDefinition); ok {
				if name, ok := stringValue(definition["AttributeName"]); ok {
					attributeTypes[name] = definition["AttributeType"]
				}
			}
		}
	}
	if keySchema, ok := table.Properties["KeySchema"].([]any); ok {
		for _, rawKey := range keySchema {
			key, ok := mapValue(rawKey)
			if !ok {
				continue
			}
			name, _ := stringValue(key["AttributeName"])
			entry := map[string]any{"name": name, "type": attributeTypes[name]}
			switch key["KeyType"] {
			case "HASH":
				config["partitionKey"] = entry
			case "RANGE":
				config["sortKey"] = entry
			}
		}
	}

	if billingMode, ok := stringValue(table.Properties["BillingMode"]); ok {
		config["billingMode"] = billingMode
	} else {
		config["billingMode"] = "PROVISIONED"
	}

	if recovery, ok := mapValue(table.Properties["PointInTimeRecoverySpecification"]); ok {
		enabled, _ := boolValue(recovery["PointInTimeRecoveryEnabled"])
		config["pointInTimeRecovery"] = enabled
	} else {
		config["pointInTimeRecovery"] = context.Defaults.PointInTimeRecovery
		context.Info(types.IssueTypeDefaultApplied, fmt.Sprintf("%s: PointInTimeRecoverySpecification not set, applied %s default pointInTimeRecovery=%t", table.LogicalID, context.Profile, context.Defaults.PointInTimeRecovery), table.LogicalID)
	}

	if stream, ok := mapValue(table.Properties["StreamSpecification"]); ok {
		config["stream"] = stream["StreamViewType"]
	}

	return &types.ComponentDeclaration{
		Type:   ComponentTypeTable,
		Config: config,
		Overrides: overrides(table,
			"KeySchema", "AttributeDefinitions", "BillingMode", "PointInTimeRecoverySpecification", "StreamSpecification"),
	}, nil
}

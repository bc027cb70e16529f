package mapper

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackshift/stack-migrator/types"
)

func resource(logicalID string, resourceType string, properties map[string]any, dependsOn ...string) *types.Resource {
	if properties == nil {
		properties = map[string]any{}
	}
	if dependsOn == nil {
		dependsOn = []string{}
	}
	return &types.Resource{LogicalID: logicalID, Type: resourceType, Properties: properties, DependsOn: dependsOn}
}

func getAtt(logicalID string, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attribute}}
}

func ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

func newTestMapper() *MapperClient {
	return NewMapperClient(nil, nil, logrus.New())
}

func lambdaAPIResources() []*types.Resource {
	return []*types.Resource{
		resource("OrdersFunctionServiceRole11AA22BB", "AWS::IAM::Role", map[string]any{
			"AssumeRolePolicyDocument": map[string]any{"Version": "2012-10-17"},
		}),
		resource("OrdersFunctionLogGroup3C4D5E6F", "AWS::Logs::LogGroup", map[string]any{
			"RetentionInDays": 14,
		}),
		resource("OrdersFunction9F8E7D6C", "AWS::Lambda::Function", map[string]any{
			"Runtime": "nodejs20.x",
			"Handler": "index.handler",
			"Role":    getAtt("OrdersFunctionServiceRole11AA22BB", "Arn"),
			"Code":    map[string]any{"S3Bucket": "assets", "S3Key": "orders.zip"},
			"LoggingConfig": map[string]any{
				"LogGroup": ref("OrdersFunctionLogGroup3C4D5E6F"),
			},
		}, "OrdersFunctionServiceRole11AA22BB", "OrdersFunctionLogGroup3C4D5E6F"),
		resource("OrdersApi1A2B3C4D", "AWS::ApiGateway::RestApi", map[string]any{
			"Name": "orders",
		}, "OrdersFunction9F8E7D6C"),
	}
}

func TestMapResources_FunctionWithGatewayBecomesLambdaAPI(t *testing.T) {
	mapperClient := newTestMapper()

	result, err := mapperClient.MapResources(lambdaAPIResources(), nil, "orders", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	component := result.Components[0]
	assert.Equal(t, "orders-function", component.Name)
	assert.Equal(t, ComponentTypeLambdaAPI, component.Type)
	assert.Equal(t, true, component.Config["api"])
	assert.Equal(t, "nodejs20.x", component.Config["runtime"])
	assert.Equal(t, "index.handler", component.Config["handler"])
	assert.Equal(t, defaultFunctionTimeout, component.Config["timeout"])
	assert.Equal(t, defaultFunctionMemorySize, component.Config["memorySize"])
	assert.Contains(t, component.Overrides, "Code")
	assert.NotContains(t, component.Overrides, "Role")

	assert.Len(t, result.MappedResources, 4)
	for _, mappedResource := range result.MappedResources {
		assert.Equal(t, "orders-function", mappedResource.ComponentName)
		assert.Equal(t, ComponentTypeLambdaAPI, mappedResource.ComponentType)
	}
	assert.Empty(t, result.UnmappableResources)

	defaults := types.FilterIssues(result.Issues, types.SeverityInfo)
	assert.Len(t, defaults, 2)
}

func TestMapResources_FunctionWithoutGatewayBecomesWorker(t *testing.T) {
	resources := []*types.Resource{
		resource("IngestQueue", "AWS::SQS::Queue", nil),
		resource("IngestFunction", "AWS::Lambda::Function", map[string]any{
			"Runtime":    "python3.12",
			"Timeout":    "30",
			"MemorySize": 512,
		}),
		resource("IngestFunctionEventSourceMapping", "AWS::Lambda::EventSourceMapping", map[string]any{
			"EventSourceArn": getAtt("IngestQueue", "Arn"),
			"FunctionName":   ref("IngestFunction"),
			"BatchSize":      10,
		}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "ingest", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 2)
	worker := result.Components[0]
	assert.Equal(t, "ingest-function", worker.Name)
	assert.Equal(t, ComponentTypeLambdaWorker, worker.Type)
	assert.Equal(t, false, worker.Config["api"])
	assert.Equal(t, 30, worker.Config["timeout"])
	assert.Equal(t, 512, worker.Config["memorySize"])
	assert.Equal(t, []any{map[string]any{"source": "IngestQueue", "batchSize": 10}}, worker.Config["eventSources"])

	queue := result.Components[1]
	assert.Equal(t, ComponentTypeQueue, queue.Type)
	assert.Equal(t, OrderingStandard, queue.Config["ordering"])
}

func TestMapResources_DeprecatedRuntimeIsRewritten(t *testing.T) {
	resources := []*types.Resource{
		resource("LegacyFunction", "AWS::Lambda::Function", map[string]any{
			"Runtime": "nodejs12.x",
			"Timeout": 10,
		}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "legacy", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "nodejs20.x", result.Components[0].Config["runtime"])

	rewritten := 0
	for _, issue := range result.Issues {
		if issue.IssueType == types.IssueTypeRuntimeRewritten {
			rewritten++
			assert.Equal(t, types.SeverityInfo, issue.Severity)
			assert.Equal(t, []string{"LegacyFunction"}, issue.LogicalIDs)
		}
	}
	assert.Equal(t, 1, rewritten)
}

func TestMapResources_SerializesEachResourceOncePerRun(t *testing.T) {
	calls := 0
	mapperClient := newTestMapper()
	mapperClient.PropertySerializer = func(value any) ([]byte, error) {
		calls++
		return json.Marshal(value)
	}

	first := []*types.Resource{
		resource("UploadsBucket", "AWS::S3::Bucket", nil),
		resource("UploadsBucketPolicy", "AWS::S3::BucketPolicy", map[string]any{"Bucket": ref("UploadsBucket")}),
	}
	_, err := mapperClient.MapResources(first, nil, "uploads", types.ComplianceProfileCommercial)
	require.NoError(t, err)
	assert.Equal(t, 2, mapperClient.SerializationCount())
	assert.Equal(t, 2, calls)

	calls = 0
	second := []*types.Resource{
		resource("EventsTopic", "AWS::SNS::Topic", nil),
		resource("EventsSubscription", "AWS::SNS::Subscription", map[string]any{"TopicArn": ref("EventsTopic"), "Protocol": "sqs"}),
	}
	_, err = mapperClient.MapResources(second, nil, "events", types.ComplianceProfileCommercial)
	require.NoError(t, err)
	assert.Equal(t, 2, mapperClient.SerializationCount())
	assert.Equal(t, 2, calls)
}

func TestMapResources_UnhandledTypeIsUnmappable(t *testing.T) {
	resources := []*types.Resource{
		resource("NetworkVpc", "AWS::EC2::VPC", map[string]any{"CidrBlock": "10.0.0.0/16"}),
		resource("Widget", "Custom::Widget", nil),
	}

	result, err := newTestMapper().MapResources(resources, nil, "network", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	assert.Empty(t, result.Components)
	assert.Empty(t, result.MappedResources)
	require.Len(t, result.UnmappableResources, 2)

	vpc := result.UnmappableResources[0]
	assert.Equal(t, "NetworkVpc", vpc.LogicalID)
	assert.Equal(t, "AWS::EC2::VPC", vpc.Type)
	assert.NotEmpty(t, vpc.Reason)
	assert.NotEmpty(t, vpc.SuggestedAction)
	assert.Equal(t, "AWS::EC2::VPC", vpc.OriginalDefinition["Type"])

	assert.Equal(t, genericRemediation, result.UnmappableResources[1].SuggestedAction)
}

func TestMapResources_UnsupportedEngineIsUnmappable(t *testing.T) {
	resources := []*types.Resource{
		resource("ReportingDatabase", "AWS::RDS::DBInstance", map[string]any{"Engine": "sqlserver-ex"}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "reporting", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	assert.Empty(t, result.Components)
	require.Len(t, result.UnmappableResources, 1)
	assert.Contains(t, result.UnmappableResources[0].Reason, "cannot map")
}

func TestMapResources_DatabaseDefaultsFollowProfile(t *testing.T) {
	resources := []*types.Resource{
		resource("OrdersDatabase", "AWS::RDS::DBInstance", map[string]any{
			"Engine":          "postgres",
			"EngineVersion":   "16.2",
			"DBInstanceClass": "db.t4g.medium",
		}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "orders", types.ComplianceProfileFedRAMPHigh)
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	database := result.Components[0]
	assert.Equal(t, "rds-postgres", database.Type)
	assert.Equal(t, "orders-database", database.Name)
	assert.Equal(t, map[string]any{
		"engine":              "postgres",
		"engineVersion":       "16.2",
		"instanceClass":       "db.t4g.medium",
		"allocatedStorage":    defaultAllocatedStorage,
		"storageEncrypted":    true,
		"multiAz":             true,
		"backupRetentionDays": 35,
	}, database.Config)
	assert.Nil(t, database.Overrides)
	assert.Len(t, result.Issues, 4)
}

func TestMapResources_AuroraClusterWithInstances(t *testing.T) {
	resources := []*types.Resource{
		resource("LedgerCluster", "AWS::RDS::DBCluster", map[string]any{
			"Engine":                "aurora-postgresql",
			"StorageEncrypted":      true,
			"BackupRetentionPeriod": 10,
		}),
		resource("LedgerClusterWriter", "AWS::RDS::DBInstance", map[string]any{
			"DBClusterIdentifier": ref("LedgerCluster"),
			"DBInstanceClass":     "db.r6g.large",
		}),
		resource("LedgerClusterReader", "AWS::RDS::DBInstance", map[string]any{
			"DBClusterIdentifier": ref("LedgerCluster"),
			"DBInstanceClass":     "db.r6g.large",
		}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "ledger", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	cluster := result.Components[0]
	assert.Equal(t, "aurora-postgres", cluster.Type)
	assert.Equal(t, "db.r6g.large", cluster.Config["instanceClass"])
	assert.Equal(t, 2, cluster.Config["instances"])
	assert.Equal(t, true, cluster.Config["multiAz"])
	assert.Equal(t, 10, cluster.Config["backupRetentionDays"])
	assert.NotContains(t, cluster.Config, "allocatedStorage")
	assert.Len(t, result.MappedResources, 3)
}

func TestMapResources_FifoQueueWithDeadLetterQueue(t *testing.T) {
	resources := []*types.Resource{
		resource("OrdersDeadLetterQueue", "AWS::SQS::Queue", map[string]any{"QueueName": "orders-dlq.fifo", "FifoQueue": true}),
		resource("OrdersQueue", "AWS::SQS::Queue", map[string]any{
			"QueueName":         "orders.fifo",
			"VisibilityTimeout": 60,
			"RedrivePolicy": map[string]any{
				"deadLetterTargetArn": getAtt("OrdersDeadLetterQueue", "Arn"),
				"maxReceiveCount":     3,
			},
		}),
	}

	result, err := newTestMapper().MapResources(resources, nil, "orders", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	queue := result.Components[0]
	assert.Equal(t, "orders-queue", queue.Name)
	assert.Equal(t, OrderingFIFO, queue.Config["ordering"])
	assert.Equal(t, 60, queue.Config["visibilityTimeout"])
	assert.Equal(t, map[string]any{"queue": "OrdersDeadLetterQueue", "maxReceiveCount": 3}, queue.Config["deadLetterQueue"])
	assert.Equal(t, map[string]any{"QueueName": "orders.fifo"}, queue.Overrides)
	assert.Len(t, result.MappedResources, 2)
}

func TestMapResources_CrossComponentPermissionsBecomeBindings(t *testing.T) {
	resources := []*types.Resource{
		resource("OrdersTable5E6F7A8B", "AWS::DynamoDB::Table", map[string]any{
			"BillingMode": "PAY_PER_REQUEST",
			"KeySchema":   []any{map[string]any{"AttributeName": "id", "KeyType": "HASH"}},
			"AttributeDefinitions": []any{
				map[string]any{"AttributeName": "id", "AttributeType": "S"},
			},
		}),
		resource("ReaderFunctionServiceRole11AA22BB", "AWS::IAM::Role", nil),
		resource("ReaderFunctionServiceRoleDefaultPolicyAB12CD34", "AWS::IAM::Policy", map[string]any{
			"Roles": []any{ref("ReaderFunctionServiceRole11AA22BB")},
			"PolicyDocument": map[string]any{
				"Statement": []any{map[string]any{
					"Effect":   "Allow",
					"Action":   []any{"dynamodb:GetItem", "dynamodb:Query"},
					"Resource": getAtt("OrdersTable5E6F7A8B", "Arn"),
				}},
			},
		}),
		resource("ReaderFunction", "AWS::Lambda::Function", map[string]any{
			"Runtime": "nodejs20.x",
			"Role":    getAtt("ReaderFunctionServiceRole11AA22BB", "Arn"),
			"Environment": map[string]any{
				"Variables": map[string]any{"TABLE_NAME": ref("OrdersTable5E6F7A8B")},
			},
		}, "ReaderFunctionServiceRoleDefaultPolicyAB12CD34", "ReaderFunctionServiceRole11AA22BB"),
	}
	relationships := []types.Relationship{
		{
			Source:   "ReaderFunctionServiceRoleDefaultPolicyAB12CD34",
			Target:   "OrdersTable5E6F7A8B",
			Kind:     types.RelationshipKindIAMPermission,
			Evidence: []string{"dynamodb:GetItem", "dynamodb:Query"},
		},
	}

	result, err := newTestMapper().MapResources(resources, relationships, "orders", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	require.Len(t, result.Components, 2)
	function := result.Components[0]
	assert.Equal(t, "reader-function", function.Name)
	assert.Equal(t, map[string]any{"TABLE_NAME": ref("OrdersTable5E6F7A8B")}, function.Config["environment"])
	assert.Equal(t, []types.Binding{{To: "orders-table", Capability: ComponentTypeTable, Access: AccessRead}}, function.Binds)

	table := result.Components[1]
	assert.Equal(t, "orders-table", table.Name)
	assert.Equal(t, map[string]any{"name": "id", "type": "S"}, table.Config["partitionKey"])
	assert.Equal(t, "PAY_PER_REQUEST", table.Config["billingMode"])
	assert.Empty(t, table.Binds)

	mapped, ok := result.ComponentFor("ReaderFunctionServiceRoleDefaultPolicyAB12CD34")
	require.True(t, ok)
	assert.Equal(t, "reader-function", mapped.ComponentName)
}

func TestMapResources_ComponentNameCollisionFails(t *testing.T) {
	resources := []*types.Resource{
		resource("OrdersFunction9F8E7D6C", "AWS::Lambda::Function", map[string]any{"Runtime": "nodejs20.x"}),
		resource("OrdersFunction1A2B3C4D", "AWS::Lambda::Function", map[string]any{"Runtime": "nodejs20.x"}),
	}

	_, err := newTestMapper().MapResources(resources, nil, "orders", types.ComplianceProfileCommercial)
	assert.ErrorIs(t, err, ErrComponentNameCollision)
}

func TestMapResources_InvalidProfile(t *testing.T) {
	_, err := newTestMapper().MapResources(lambdaAPIResources(), nil, "orders", types.ComplianceProfile("gov"))
	assert.Error(t, err)
}

type vpcHandler struct {
	Called bool
}

func (handler *vpcHandler) CanHandle(group *ResourceGroup) bool {
	return true
}

func (handler *vpcHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	handler.Called = true
	return &types.ComponentDeclaration{Type: "network", Config: map[string]any{"cidr": group.Primary.Properties["CidrBlock"]}}, nil
}

func TestMapResources_RegistryIsOpenForExtension(t *testing.T) {
	handler := &vpcHandler{}
	registry := NewDefaultRegistry()
	registry.Register("AWS::EC2::VPC", handler)
	mapperClient := NewMapperClient(registry, nil, logrus.New())

	result, err := mapperClient.MapResources([]*types.Resource{
		resource("NetworkVpc", "AWS::EC2::VPC", map[string]any{"CidrBlock": "10.0.0.0/16"}),
	}, nil, "network", types.ComplianceProfileCommercial)
	require.NoError(t, err)

	assert.True(t, handler.Called)
	require.Len(t, result.Components, 1)
	assert.Equal(t, "network-vpc", result.Components[0].Name)
	assert.Equal(t, "10.0.0.0/16", result.Components[0].Config["cidr"])
}

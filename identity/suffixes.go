package identity

var lambdaSuffixes = map[string]string{
	"AWS::Lambda::Function":           "Function",
	"AWS::IAM::Role":                  "ServiceRole",
	"AWS::IAM::Policy":                "ServiceRoleDefaultPolicy",
	"AWS::Logs::LogGroup":             "LogGroup",
	"AWS::Lambda::Permission":         "Permission",
	"AWS::Lambda::EventSourceMapping": "EventSourceMapping",
	"AWS::ApiGateway::RestApi":        "Api",
	"AWS::ApiGateway::Deployment":     "ApiDeployment",
	"AWS::ApiGateway::Stage":          "ApiDeploymentStage",
	"AWS::ApiGateway::Resource":       "ApiResource",
	"AWS::ApiGateway::Method":         "ApiMethod",
	"AWS::ApiGateway::Account":        "ApiAccount",
	"AWS::ApiGatewayV2::Api":          "HttpApi",
	"AWS::ApiGatewayV2::Stage":        "HttpApiStage",
	"AWS::ApiGatewayV2::Integration":  "HttpApiIntegration",
	"AWS::ApiGatewayV2::Route":        "HttpApiRoute",
}

var databaseSuffixes = map[string]string{
	"AWS::RDS::DBCluster":                         "Cluster",
	"AWS::RDS::DBInstance":                        "Instance",
	"AWS::RDS::DBSubnetGroup":                     "SubnetGroup",
	"AWS::RDS::DBParameterGroup":                  "ParameterGroup",
	"AWS::RDS::DBClusterParameterGroup":           "ClusterParameterGroup",
	"AWS::EC2::SecurityGroup":                     "SecurityGroup",
	"AWS::SecretsManager::Secret":                 "Secret",
	"AWS::SecretsManager::SecretTargetAttachment": "SecretAttachment",
}

// DefaultSuffixes maps a component type and resource type to the logical ID suffix the synthesizer
// appends to the component name.
var DefaultSuffixes = map[string]map[string]string{
	"lambda-api":      lambdaSuffixes,
	"lambda-worker":   lambdaSuffixes,
	"rds-postgres":    databaseSuffixes,
	"rds-mysql":       databaseSuffixes,
	"aurora-postgres": databaseSuffixes,
	"aurora-mysql":    databaseSuffixes,
	"sqs-queue": {
		"AWS::SQS::Queue":       "Queue",
		"AWS::SQS::QueuePolicy": "QueuePolicy",
	},
	"sns-topic": {
		"AWS::SNS::Topic":        "Topic",
		"AWS::SNS::Subscription": "Subscription",
		"AWS::SNS::TopicPolicy":  "TopicPolicy",
	},
	"s3-bucket": {
		"AWS::S3::Bucket":       "Bucket",
		"AWS::S3::BucketPolicy": "BucketPolicy",
	},
	"dynamodb-table": {
		"AWS::DynamoDB::Table":                        "Table",
		"AWS::ApplicationAutoScaling::ScalableTarget": "ScalableTarget",
		"AWS::ApplicationAutoScaling::ScalingPolicy":  "ScalingPolicy",
	},
}

// Resource types holding data that cannot be recreated.
var statefulTypes = map[string]bool{
	"AWS::RDS::DBInstance":        true,
	"AWS::RDS::DBCluster":         true,
	"AWS::S3::Bucket":             true,
	"AWS::DynamoDB::Table":        true,
	"AWS::EFS::FileSystem":        true,
	"AWS::SQS::Queue":             true,
	"AWS::SecretsManager::Secret": true,
}

func IsStateful(resourceType string) bool {
	return statefulTypes[resourceType]
}

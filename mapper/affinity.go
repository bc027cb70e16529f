package mapper

// TypeAffinity lists the resource types that are deployed together with Type as part of one
// service component. The relation is symmetric.
type TypeAffinity struct {
	Type    string
	Related []string
}

var DefaultTypeAffinities = []TypeAffinity{
	{
		Type: "AWS::Lambda::Function",
		Related: []string{
			"AWS::IAM::Role",
			"AWS::IAM::Policy",
			"AWS::Logs::LogGroup",
			"AWS::Lambda::Permission",
			"AWS::Lambda::EventSourceMapping",
			"AWS::Lambda::Version",
			"AWS::Lambda::Alias",
			"AWS::Lambda::EventInvokeConfig",
			"AWS::ApiGateway::RestApi",
			"AWS::ApiGateway::Resource",
			"AWS::ApiGateway::Method",
			"AWS::ApiGateway::Deployment",
			"AWS::ApiGateway::Stage",
			"AWS::ApiGateway::Account",
			"AWS::ApiGatewayV2::Api",
			"AWS::ApiGatewayV2::Integration",
			"AWS::ApiGatewayV2::Route",
			"AWS::ApiGatewayV2::Stage",
			"AWS::Events::Rule",
		},
	},
	{
		Type: "AWS::IAM::Role",
		Related: []string{
			"AWS::IAM::Policy",
			"AWS::Logs::LogGroup",
		},
	},
	{
		Type: "AWS::ApiGateway::RestApi",
		Related: []string{
			"AWS::ApiGateway::Resource",
			"AWS::ApiGateway::Method",
			"AWS::ApiGateway::Deployment",
			"AWS::ApiGateway::Stage",
			"AWS::ApiGateway::Account",
			"AWS::IAM::Role",
			"AWS::Lambda::Permission",
		},
	},
	{
		Type: "AWS::ApiGatewayV2::Api",
		Related: []string{
			"AWS::ApiGatewayV2::Integration",
			"AWS::ApiGatewayV2::Route",
			"AWS::ApiGatewayV2::Stage",
			"AWS::Lambda::Permission",
		},
	},
	{
		Type: "AWS::RDS::DBCluster",
		Related: []string{
			"AWS::RDS::DBInstance",
			"AWS::RDS::DBSubnetGroup",
			"AWS::RDS::DBClusterParameterGroup",
			"AWS::RDS::DBParameterGroup",
			"AWS::EC2::SecurityGroup",
			"AWS::EC2::SecurityGroupIngress",
			"AWS::SecretsManager::Secret",
			"AWS::SecretsManager::SecretTargetAttachment",
		},
	},
	{
		Type: "AWS::RDS::DBInstance",
		Related: []string{
			"AWS::RDS::DBSubnetGroup",
			"AWS::RDS::DBParameterGroup",
			"AWS::EC2::SecurityGroup",
			"AWS::EC2::SecurityGroupIngress",
			"AWS::SecretsManager::Secret",
			"AWS::SecretsManager::SecretTargetAttachment",
		},
	},
	{
		Type: "AWS::DynamoDB::Table",
		Related: []string{
			"AWS::ApplicationAutoScaling::ScalableTarget",
			"AWS::ApplicationAutoScaling::ScalingPolicy",
		},
	},
	{
		Type: "AWS::SQS::Queue",
		Related: []string{
			"AWS::SQS::Queue",
			"AWS::SQS::QueuePolicy",
		},
	},
	{
		Type: "AWS::SNS::Topic",
		Related: []string{
			"AWS::SNS::Subscription",
			"AWS::SNS::TopicPolicy",
		},
	},
	{
		Type: "AWS::S3::Bucket",
		Related: []string{
			"AWS::S3::BucketPolicy",
		},
	},
}

type affinityTable map[string]map[string]bool

func newAffinityTable(affinities []TypeAffinity) affinityTable {
	table := affinityTable{}
	link := func(from string, to string) {
		if table[from] == nil {
			table[from] = map[string]bool{}
		}
		table[from][to] = true
	}
	for _, affinity := range affinities {
		for _, related := range affinity.Related {
			link(affinity.Type, related)
			link(related, affinity.Type)
		}
	}
	return table
}

func (table affinityTable) affine(left string, right string) bool {
	return table[left][right]
}

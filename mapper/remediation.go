package mapper

const genericRemediation = "Add this resource through the low-level escape hatch in patches.hcl and keep its logical ID unchanged."

var remediations = map[string]string{
	"AWS::EC2::VPC":                               "Reference the existing VPC from the manifest as an imported network instead of migrating it.",
	"AWS::EC2::Subnet":                            "Reference the subnet by ID from the network configuration; do not recreate it.",
	"AWS::EC2::SecurityGroup":                     "Attach the security group to the component that uses it, or declare it through the escape hatch.",
	"AWS::EC2::SecurityGroupIngress":              "Express the rule as a binding between the two components, or keep it in the escape hatch.",
	"AWS::EC2::Instance":                          "Long-running instances have no component type; keep the instance in the escape hatch or move the workload to a container component.",
	"AWS::ECS::Service":                           "Declare a container service component by hand and carry the task definition over through overrides.",
	"AWS::ECS::TaskDefinition":                    "Fold the task definition into a hand-written container service component.",
	"AWS::ElastiCache::CacheCluster":              "Declare the cache through the escape hatch; preserve the logical ID to avoid recreating the cluster.",
	"AWS::ElastiCache::ReplicationGroup":          "Declare the replication group through the escape hatch; preserve the logical ID to avoid data loss.",
	"AWS::EFS::FileSystem":                        "Keep the file system in the escape hatch with DeletionPolicy Retain; it holds persistent data.",
	"AWS::KMS::Key":                               "Reference the key by ARN from the components that use it; never let the manifest recreate it.",
	"AWS::SecretsManager::Secret":                 "Reference the secret by ARN, or keep it in the escape hatch with its logical ID unchanged.",
	"AWS::StepFunctions::StateMachine":            "Declare the state machine through the escape hatch and bind the functions it invokes.",
	"AWS::Events::Rule":                           "Attach the rule as a schedule or event source of the function component it targets.",
	"AWS::CloudFront::Distribution":               "Keep the distribution in the escape hatch; migrating it changes its domain name.",
	"AWS::Route53::RecordSet":                     "Keep DNS records in the escape hatch or manage them outside the service manifest.",
	"AWS::ApiGateway::RestApi":                    "Attach the API to the function component that serves it, or keep it in the escape hatch.",
	"AWS::ApiGatewayV2::Api":                      "Attach the HTTP API to the function component that serves it, or keep it in the escape hatch.",
	"AWS::RDS::DBCluster":                         "The engine is not supported by a database component; keep the cluster in the escape hatch with DeletionPolicy Retain.",
	"AWS::RDS::DBInstance":                        "The engine is not supported by a database component; keep the instance in the escape hatch with DeletionPolicy Retain.",
	"AWS::SQS::Queue":                             "Split unrelated queues into separate components, or keep them in the escape hatch.",
	"AWS::IAM::Role":                              "Attach the role to the component that assumes it, or keep it in the escape hatch.",
	"AWS::IAM::Policy":                            "Replace the policy with bindings between components, or keep it in the escape hatch.",
	"AWS::Logs::LogGroup":                         "Let the owning component create its log group, or keep it in the escape hatch.",
	"AWS::CloudWatch::Alarm":                      "Declare alarms through the escape hatch until the monitoring section covers them.",
	"AWS::ApplicationAutoScaling::ScalableTarget": "Configure scaling on the owning component, or keep the target in the escape hatch.",
}

// SuggestedAction returns the remediation for a resource type that could not be mapped.
func SuggestedAction(resourceType string) string {
	if remediation, ok := remediations[resourceType]; ok {
		return remediation
	}
	return genericRemediation
}

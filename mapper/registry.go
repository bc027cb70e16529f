package mapper

import (
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

// PrimaryTypePriority orders the resource types that can lead a component: compute first, then
// databases, queues and topics, storage and finally gateways.
var PrimaryTypePriority = []string{
	"AWS::Lambda::Function",
	"AWS::RDS::DBCluster",
	"AWS::RDS::DBInstance",
	"AWS::DynamoDB::Table",
	"AWS::SQS::Queue",
	"AWS::SNS::Topic",
	"AWS::S3::Bucket",
	"AWS::ApiGateway::RestApi",
	"AWS::ApiGatewayV2::Api",
}

func primaryRank(resourceType string) int {
	for rank, primaryType := range PrimaryTypePriority {
		if primaryType == resourceType {
			return rank
		}
	}
	return len(PrimaryTypePriority)
}

type ComponentHandler interface {
	CanHandle(group *ResourceGroup) bool
	Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error)
}

// Registry maps a primary resource type to the handler that turns its group into a component.
type Registry map[string]ComponentHandler

func (registry Registry) Register(resourceType string, handler ComponentHandler) {
	registry[resourceType] = handler
}

func (registry Registry) Lookup(resourceType string) (ComponentHandler, bool) {
	handler, ok := registry[resourceType]
	return handler, ok
}

func NewDefaultRegistry() Registry {
	registry := Registry{}
	registry.Register("AWS::Lambda::Function", &FunctionHandler{})
	registry.Register("AWS::RDS::DBCluster", &DatabaseHandler{})
	registry.Register("AWS::RDS::DBInstance", &DatabaseHandler{})
	registry.Register("AWS::SQS::Queue", &QueueHandler{})
	registry.Register("AWS::SNS::Topic", &TopicHandler{})
	registry.Register("AWS::S3::Bucket", &BucketHandler{})
	registry.Register("AWS::DynamoDB::Table", &TableHandler{})
	return registry
}

// HandlerContext carries the run settings to a handler and collects its informational issues.
type HandlerContext struct {
	ServiceName string
	Profile     types.ComplianceProfile
	Defaults    ProfileDefaults
	Logger      *logrus.Logger
	Issues      []types.Issue
}

func (context *HandlerContext) Info(issueType types.IssueType, message string, logicalIDs ...string) {
	if context.Logger != nil {
		context.Logger.Info(message)
	}
	context.Issues = append(context.Issues, types.NewInfo(issueType, message, logicalIDs...))
}

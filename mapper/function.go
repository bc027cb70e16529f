package mapper

import (
	"fmt"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/types"
)

const (
	ComponentTypeLambdaAPI    = "lambda-api"
	ComponentTypeLambdaWorker = "lambda-worker"

	defaultFunctionTimeout    = 3
	defaultFunctionMemorySize = 128
)

var gatewayTypes = []string{"AWS::ApiGateway::RestApi", "AWS::ApiGatewayV2::Api"}

// FunctionHandler maps a Lambda function and its role, log group and triggers. An attached API
// gateway makes it an externally triggered lambda-api, otherwise it is a lambda-worker.
type FunctionHandler struct{}

func (handler *FunctionHandler) CanHandle(group *ResourceGroup) bool {
	return group.Primary != nil && group.Primary.Type == "AWS::Lambda::Function" && len(group.OfType("AWS::Lambda::Function")) == 1
}

func (handler *FunctionHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	function := group.Primary
	hasAPI := group.Has(gatewayTypes...)

	componentType := ComponentTypeLambdaWorker
	if hasAPI {
		componentType = ComponentTypeLambdaAPI
	}

	config := map[string]any{
		"api": hasAPI,
	}

	if runtime, ok := stringValue(function.Properties["Runtime"]); ok {
		if successor, deprecated := successorRuntime(runtime); deprecated {
			context.Info(types.IssueTypeRuntimeRewritten, fmt.Sprintf("%s: deprecated runtime %s rewritten to %s", function.LogicalID, runtime, successor), function.LogicalID)
			runtime = successor
		}
		config["runtime"] = runtime
	}
	if entrypoint, exists := function.Properties["Handler"]; exists {
		config["handler"] = entrypoint
	}
	intSetting(context, function, config, "timeout", "Timeout", defaultFunctionTimeout, " seconds")
	intSetting(context, function, config, "memorySize", "MemorySize", defaultFunctionMemorySize, " MB")

	if environment, ok := mapValue(function.Properties["Environment"]); ok {
		if variables, ok := mapValue(environment["Variables"]); ok && len(variables) > 0 {
			config["environment"] = variables
		}
	}

	if !hasAPI {
		if eventSources := functionEventSources(group); len(eventSources) > 0 {
			config["eventSources"] = eventSources
		}
	}

	return &types.ComponentDeclaration{
		Type:      componentType,
		Config:    config,
		Overrides: overrides(function, "Runtime", "Handler", "Timeout", "MemorySize", "Environment", "Role"),
	}, nil
}

func functionEventSources(group *ResourceGroup) []any {
	eventSources := []any{}
	for _, mapping := range group.OfType("AWS::Lambda::EventSourceMapping") {
		eventSource := map[string]any{}
		if references := analyzer.References(mapping.Properties["EventSourceArn"]); len(references) > 0 {
			eventSource["source"] = references[0]
		} else if arn, ok := stringValue(mapping.Properties["EventSourceArn"]); ok {
			eventSource["source"] = arn
		} else {
			continue
		}
		if batchSize, ok := intValue(mapping.Properties["BatchSize"]); ok {
			eventSource["batchSize"] = batchSize
		}
		eventSources = append(eventSources, eventSource)
	}
	return eventSources
}

package mapper

import (
	"strings"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/types"
)

const (
	ComponentTypeQueue = "sqs-queue"
	ComponentTypeTopic = "sns-topic"

	OrderingFIFO     = "fifo"
	OrderingStandard = "standard"
)

// QueueHandler maps an SQS queue together with its dead-letter queue.
type QueueHandler struct{}

func deadLetterTargets(queue *types.Resource) []string {
	redrivePolicy, ok := mapValue(queue.Properties["RedrivePolicy"])
	if !ok {
		return nil
	}
	return analyzer.References(redrivePolicy["deadLetterTargetArn"])
}

// mainQueue is the queue whose redrive policy points at another queue of the group.
func mainQueue(group *ResourceGroup) *types.Resource {
	queues := group.OfType("AWS::SQS::Queue")
	for _, queue := range queues {
		for _, target := range deadLetterTargets(queue) {
			for _, other := range queues {
				if other.LogicalID == target && other != queue {
					return queue
				}
			}
		}
	}
	return group.Primary
}

func (handler *QueueHandler) CanHandle(group *ResourceGroup) bool {
	if group.Primary == nil || group.Primary.Type != "AWS::SQS::Queue" {
		return false
	}
	queue := mainQueue(group)
	targets := deadLetterTargets(queue)
	for _, other := range group.OfType("AWS::SQS::Queue") {
		if other != queue && !contains(targets, other.LogicalID) {
			return false
		}
	}
	return true
}

func (handler *QueueHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	queue := mainQueue(group)

	ordering := OrderingStandard
	if name, ok := stringValue(queue.Properties["QueueName"]); ok && strings.HasSuffix(name, ".fifo") {
		ordering = OrderingFIFO
	}
	if fifo, ok := boolValue(queue.Properties["FifoQueue"]); ok && fifo {
		ordering = OrderingFIFO
	}

	config := map[string]any{
		"ordering": ordering,
	}
	if visibilityTimeout, exists := queue.Properties["VisibilityTimeout"]; exists {
		config["visibilityTimeout"] = normalizeNumber(visibilityTimeout)
	}
	if retention, exists := queue.Properties["MessageRetentionPeriod"]; exists {
		config["messageRetentionSeconds"] = normalizeNumber(retention)
	}
	if redrivePolicy, ok := mapValue(queue.Properties["RedrivePolicy"]); ok {
		deadLetterQueue := map[string]any{}
		if targets := deadLetterTargets(queue); len(targets) > 0 {
			deadLetterQueue["queue"] = targets[0]
		}
		if maxReceiveCount, exists := redrivePolicy["maxReceiveCount"]; exists {
			deadLetterQueue["maxReceiveCount"] = normalizeNumber(maxReceiveCount)
		}
		config["deadLetterQueue"] = deadLetterQueue
	}

	return &types.ComponentDeclaration{
		Name:      ComponentName(queue.LogicalID),
		Type:      ComponentTypeQueue,
		Config:    config,
		Overrides: overrides(queue, "FifoQueue", "VisibilityTimeout", "MessageRetentionPeriod", "RedrivePolicy"),
	}, nil
}

// TopicHandler maps an SNS topic and its subscriptions.
type TopicHandler struct{}

func (handler *TopicHandler) CanHandle(group *ResourceGroup) bool {
	return group.Primary != nil && group.Primary.Type == "AWS::SNS::Topic" && len(group.OfType("AWS::SNS::Topic")) == 1
}

func (handler *TopicHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	topic := group.Primary

	fifo := false
	if name, ok := stringValue(topic.Properties["TopicName"]); ok && strings.HasSuffix(name, ".fifo") {
		fifo = true
	}
	if flag, ok := boolValue(topic.Properties["FifoTopic"]); ok && flag {
		fifo = true
	}

	config := map[string]any{
		"fifo": fifo,
	}

	subscriptions := []any{}
	if inline, ok := topic.Properties["Subscription"].([]any); ok {
		for _, rawSubscription := range inline {
			if subscription, ok := mapValue(rawSubscription); ok {
				subscriptions = append(subscriptions, map[string]any{
					"protocol": subscription["Protocol"],
					"endpoint": subscription["Endpoint"],
				})
			}
		}
	}
	for _, subscription := range group.OfType("AWS::SNS::Subscription") {
		subscriptions = append(subscriptions, map[string]any{
			"protocol": subscription.Properties["Protocol"],
			"endpoint": subscription.Properties["Endpoint"],
		})
	}
	if len(subscriptions) > 0 {
		config["subscriptions"] = subscriptions
	}

	return &types.ComponentDeclaration{
		Type:      ComponentTypeTopic,
		Config:    config,
		Overrides: overrides(topic, "FifoTopic", "Subscription"),
	}, nil
}

func normalizeNumber(value any) any {
	if number, ok := intValue(value); ok {
		return number
	}
	return value
}

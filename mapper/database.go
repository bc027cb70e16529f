package mapper

import (
	"strings"

	"github.com/stackshift/stack-migrator/types"
)

const defaultAllocatedStorage = 20

var databaseComponentTypes = map[string]string{
	"postgres":          "rds-postgres",
	"mysql":             "rds-mysql",
	"aurora-postgresql": "aurora-postgres",
	"aurora-mysql":      "aurora-mysql",
	"aurora":            "aurora-mysql",
}

// DatabaseHandler maps an RDS instance or Aurora cluster; the engine selects the component type.
type DatabaseHandler struct{}

func databaseComponentType(resource *types.Resource) (string, bool) {
	engine, ok := stringValue(resource.Properties["Engine"])
	if !ok {
		return "", false
	}
	componentType, ok := databaseComponentTypes[strings.ToLower(engine)]
	return componentType, ok
}

func (handler *DatabaseHandler) CanHandle(group *ResourceGroup) bool {
	if group.Primary == nil {
		return false
	}
	if _, ok := databaseComponentType(group.Primary); !ok {
		return false
	}
	switch group.Primary.Type {
	case "AWS::RDS::DBCluster":
		return len(group.OfType("AWS::RDS::DBCluster")) == 1
	case "AWS::RDS::DBInstance":
		return len(group.OfType("AWS::RDS::DBInstance")) == 1
	default:
		return false
	}
}

func (handler *DatabaseHandler) Handle(group *ResourceGroup, context *HandlerContext) (*types.ComponentDeclaration, error) {
	database := group.Primary
	componentType, _ := databaseComponentType(database)
	isCluster := database.Type == "AWS::RDS::DBCluster"

	config := map[string]any{
		"engine": database.Properties["Engine"],
	}
	if engineVersion, exists := database.Properties["EngineVersion"]; exists {
		config["engineVersion"] = engineVersion
	}

	instances := group.OfType("AWS::RDS::DBInstance")
	if instanceClass, exists := database.Properties["DBInstanceClass"]; exists {
		config["instanceClass"] = instanceClass
	} else if isCluster && len(instances) > 0 {
		if instanceClass, exists := instances[0].Properties["DBInstanceClass"]; exists {
			config["instanceClass"] = instanceClass
		}
	}

	if !strings.HasPrefix(componentType, "aurora") {
		intSetting(context, database, config, "allocatedStorage", "AllocatedStorage", defaultAllocatedStorage, " GiB")
	}
	boolSetting(context, database, config, "storageEncrypted", "StorageEncrypted", context.Defaults.StorageEncrypted)

	if isCluster {
		config["instances"] = len(instances)
		if len(instances) > 0 {
			config["multiAz"] = len(instances) > 1
		} else {
			config["multiAz"] = context.Defaults.MultiAz
		}
	} else {
		boolSetting(context, database, config, "multiAz", "MultiAZ", context.Defaults.MultiAz)
	}
	intSetting(context, database, config, "backupRetentionDays", "BackupRetentionPeriod", context.Defaults.BackupRetentionDays, " days")

	return &types.ComponentDeclaration{
		Type:   componentType,
		Config: config,
		Overrides: overrides(database,
			"Engine", "EngineVersion", "DBInstanceClass", "AllocatedStorage", "StorageEncrypted", "MultiAZ", "BackupRetentionPeriod"),
	}, nil
}

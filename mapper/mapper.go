package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

var ErrComponentNameCollision = errors.New("component name collision")

type IMapperClient interface {
	MapResources(resources []*types.Resource, relationships []types.Relationship, serviceName string, profile types.ComplianceProfile) (*types.MappingResult, error)
}

type MapperClient struct {
	Registry           Registry
	TypeAffinities     []TypeAffinity
	PropertySerializer PropertySerializer
	Logger             *logrus.Logger

	serializationCount int
}

func NewMapperClient(registry Registry, typeAffinities []TypeAffinity, logger *logrus.Logger) *MapperClient {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if len(typeAffinities) == 0 {
		typeAffinities = DefaultTypeAffinities
	}
	return &MapperClient{
		Registry:           registry,
		TypeAffinities:     typeAffinities,
		PropertySerializer: json.Marshal,
		Logger:             logger,
	}
}

// SerializationCount is the number of property serializations performed by the last MapResources call.
func (mapperClient *MapperClient) SerializationCount() int {
	return mapperClient.serializationCount
}

func (mapperClient *MapperClient) MapResources(resources []*types.Resource, relationships []types.Relationship, serviceName string, profile types.ComplianceProfile) (*types.MappingResult, error) {
	if !profile.IsValidComplianceProfile() {
		return nil, errors.Errorf("unknown compliance profile: %v", profile)
	}

	serializer := mapperClient.PropertySerializer
	if serializer == nil {
		serializer = json.Marshal
	}
	index, err := newPropertyIndex(resources, serializer)
	mapperClient.serializationCount = 0
	if index != nil {
		mapperClient.serializationCount = index.count
	}
	if err != nil {
		return nil, err
	}

	grouper := &grouper{
		resources:  resources,
		index:      index,
		affinities: newAffinityTable(mapperClient.TypeAffinities),
		assigned:   map[string]bool{},
	}
	groups := grouper.groupResources()
	mapperClient.Logger.Infof("Grouped %d resources into %d groups", len(resources), len(groups))

	result := &types.MappingResult{
		Components:          []types.ComponentDeclaration{},
		MappedResources:     []types.MappedResource{},
		UnmappableResources: []types.UnmappableResource{},
		Issues:              []types.Issue{},
	}
	context := &HandlerContext{
		ServiceName: serviceName,
		Profile:     profile,
		Defaults:    DefaultsFor(profile),
		Logger:      mapperClient.Logger,
		Issues:      []types.Issue{},
	}
	componentNames := map[string]string{}

	for _, group := range groups {
		for _, resource := range group.Resources {
			evidence := group.Evidence[resource.LogicalID]
			mapperClient.Logger.Tracef("Group %s: %s joined by %s via %s", group.Primary.LogicalID, resource.LogicalID, evidence.Heuristic, evidence.LinkedTo)
		}

		handler, registered := mapperClient.Registry.Lookup(group.Primary.Type)
		if !registered || !handler.CanHandle(group) {
			reason := fmt.Sprintf("no component handler for %s", group.Primary.Type)
			if registered {
				reason = fmt.Sprintf("the %s handler cannot map this group", group.Primary.Type)
			}
			mapperClient.addUnmappable(result, group, reason)
			continue
		}

		declaration, err := handler.Handle(group, context)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map group of %v", group.Primary.LogicalID)
		}
		if declaration.Name == "" {
			declaration.Name = ComponentName(group.Primary.LogicalID)
		}
		if owner, exists := componentNames[declaration.Name]; exists {
			return nil, errors.Wrapf(ErrComponentNameCollision, "%s is derived from both %s and %s", declaration.Name, owner, group.Primary.LogicalID)
		}
		componentNames[declaration.Name] = group.Primary.LogicalID

		mapperClient.Logger.Debugf("Mapped %d resources to %s component %s", len(group.Resources), declaration.Type, declaration.Name)
		result.Components = append(result.Components, *declaration)
		for _, resource := range group.Resources {
			result.MappedResources = append(result.MappedResources, types.MappedResource{
				LogicalID:     resource.LogicalID,
				ResourceType:  resource.Type,
				ComponentName: declaration.Name,
				ComponentType: declaration.Type,
			})
		}
	}

	bindComponents(result.Components, result.MappedResources, relationships)
	result.Issues = append(result.Issues, context.Issues...)

	mapperClient.Logger.Infof("Mapped %d resources into %d components, %d resources unmappable", len(result.MappedResources), len(result.Components), len(result.UnmappableResources))
	return result, nil
}

func (mapperClient *MapperClient) addUnmappable(result *types.MappingResult, group *ResourceGroup, reason string) {
	for _, resource := range group.Resources {
		resourceReason := reason
		if resource != group.Primary {
			resourceReason = fmt.Sprintf("grouped with %s: %s", group.Primary.LogicalID, reason)
		}
		mapperClient.Logger.Warnf("Resource %s (%s) is unmappable: %s", resource.LogicalID, resource.Type, resourceReason)
		result.UnmappableResources = append(result.UnmappableResources, types.UnmappableResource{
			LogicalID:          resource.LogicalID,
			Type:               resource.Type,
			Reason:             resourceReason,
			OriginalDefinition: resource.Definition(),
			SuggestedAction:    SuggestedAction(resource.Type),
		})
	}
}

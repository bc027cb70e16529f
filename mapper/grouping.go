package mapper

import (
	"sort"

	"github.com/stackshift/stack-migrator/types"
)

type Heuristic string

const (
	HeuristicSeed              Heuristic = "seed"
	HeuristicNamingConvention  Heuristic = "naming-convention"
	HeuristicDependsOn         Heuristic = "depends-on"
	HeuristicPropertyReference Heuristic = "property-reference"
)

// GroupEvidence records why a resource joined its group and the member it was linked to.
type GroupEvidence struct {
	Heuristic Heuristic
	LinkedTo  string
}

type ResourceGroup struct {
	Resources []*types.Resource
	Primary   *types.Resource
	Evidence  map[string]GroupEvidence
}

func newResourceGroup(seed *types.Resource) *ResourceGroup {
	return &ResourceGroup{
		Resources: []*types.Resource{seed},
		Evidence: map[string]GroupEvidence{
			seed.LogicalID: {Heuristic: HeuristicSeed},
		},
	}
}

func (group *ResourceGroup) add(resource *types.Resource, evidence GroupEvidence) {
	group.Resources = append(group.Resources, resource)
	group.Evidence[resource.LogicalID] = evidence
}

func (group *ResourceGroup) OfType(resourceType string) []*types.Resource {
	resources := []*types.Resource{}
	for _, resource := range group.Resources {
		if resource.Type == resourceType {
			resources = append(resources, resource)
		}
	}
	return resources
}

func (group *ResourceGroup) Has(resourceTypes ...string) bool {
	for _, resourceType := range resourceTypes {
		if len(group.OfType(resourceType)) > 0 {
			return true
		}
	}
	return false
}

// anchor is the highest-priority member, the resource that decides what else may join.
func (group *ResourceGroup) anchor() *types.Resource {
	var anchor *types.Resource
	anchorRank := len(PrimaryTypePriority)
	for _, resource := range group.Resources {
		if rank := primaryRank(resource.Type); rank < anchorRank {
			anchor = resource
			anchorRank = rank
		}
	}
	return anchor
}

func (group *ResourceGroup) selectPrimary() {
	group.Primary = group.anchor()
	if group.Primary == nil {
		group.Primary = group.Resources[0]
	}
}

type grouper struct {
	resources  []*types.Resource
	index      *propertyIndex
	affinities affinityTable
	assigned   map[string]bool
}

// groupResources clusters resources into groups. Resources of a primary type seed groups first, by
// priority and then input order, so that supporting resources attach to the component they serve;
// any remaining resource seeds a group of its own in input order. Every unassigned resource related
// to the seed joins its group, unless the seed's type has no affinity with the candidate. Membership
// is not transitive: a resource related only to another member seeds or joins a later group.
func (grouper *grouper) groupResources() []*ResourceGroup {
	groups := []*ResourceGroup{}
	for _, seed := range grouper.seedOrder() {
		if grouper.assigned[seed.LogicalID] {
			continue
		}
		group := newResourceGroup(seed)
		grouper.assigned[seed.LogicalID] = true

		for _, candidate := range grouper.resources {
			if grouper.assigned[candidate.LogicalID] {
				continue
			}
			heuristic, related := grouper.related(seed, candidate)
			if !related || !grouper.admits(group, candidate) {
				continue
			}
			group.add(candidate, GroupEvidence{Heuristic: heuristic, LinkedTo: seed.LogicalID})
			grouper.assigned[candidate.LogicalID] = true
		}

		group.selectPrimary()
		groups = append(groups, group)
	}
	return groups
}

func (grouper *grouper) seedOrder() []*types.Resource {
	primaries := []*types.Resource{}
	others := []*types.Resource{}
	for _, resource := range grouper.resources {
		if primaryRank(resource.Type) < len(PrimaryTypePriority) {
			primaries = append(primaries, resource)
		} else {
			others = append(others, resource)
		}
	}
	sort.SliceStable(primaries, func(i, j int) bool {
		return primaryRank(primaries[i].Type) < primaryRank(primaries[j].Type)
	})
	return append(primaries, others...)
}

// related applies the three relatedness heuristics in priority order.
func (grouper *grouper) related(member *types.Resource, candidate *types.Resource) (Heuristic, bool) {
	if grouper.affinities.affine(member.Type, candidate.Type) && namesRelated(member.LogicalID, candidate.LogicalID) {
		return HeuristicNamingConvention, true
	}
	if contains(member.DependsOn, candidate.LogicalID) || contains(candidate.DependsOn, member.LogicalID) {
		return HeuristicDependsOn, true
	}
	if grouper.index.references(member, candidate) || grouper.index.references(candidate, member) {
		return HeuristicPropertyReference, true
	}
	return "", false
}

func (grouper *grouper) admits(group *ResourceGroup, candidate *types.Resource) bool {
	anchor := group.anchor()
	if anchor == nil {
		return true
	}
	return grouper.affinities.affine(anchor.Type, candidate.Type)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

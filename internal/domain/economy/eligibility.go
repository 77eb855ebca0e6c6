package economy

import "urbandesign/internal/domain/world"

type TileOccupancy interface {
	HasResource(p world.Point) bool
	HasLandmark(p world.Point) bool
}

// CanBuild reports whether the agent holds the build materials and stands on a
// tile with neither a resource node nor a landmark.
func CanBuild(agent *Agent, tiles TileOccupancy) bool {
	if agent == nil {
		return false
	}
	if !agent.Has(ResourceCost()) {
		return false
	}
	if tiles.HasResource(agent.Loc) {
		return false
	}
	return !tiles.HasLandmark(agent.Loc)
}

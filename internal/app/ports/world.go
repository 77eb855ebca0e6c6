package ports

import (
	"context"

	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

// Grid is the slice of the world model the build component reads and writes.
type Grid interface {
	economy.TileOccupancy
	PlaceLandmark(kind string, p world.Point, owner string) error
	CountLandmarks(kind string) int
}

// AgentDirectory enumerates the agents of the running episode. Agents returns
// spatial agents in a stable id order; the planner is reported separately.
type AgentDirectory interface {
	Agents() []*economy.Agent
	Planner() *economy.Agent
}

type ActionSource interface {
	ComponentAction(agentID, component string) (int, bool)
}

type LayoutResetter interface {
	ResetLayout(ctx context.Context) error
}

package build

import (
	"errors"

	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

type stubGrid struct {
	resources map[world.Point]bool
	landmarks map[world.Point]string
	owners    map[world.Point]string
	placeErr  error
}

func newStubGrid() *stubGrid {
	return &stubGrid{
		resources: map[world.Point]bool{},
		landmarks: map[world.Point]string{},
		owners:    map[world.Point]string{},
	}
}

func (g *stubGrid) HasResource(p world.Point) bool { return g.resources[p] }
func (g *stubGrid) HasLandmark(p world.Point) bool { return g.landmarks[p] != "" }

func (g *stubGrid) PlaceLandmark(kind string, p world.Point, owner string) error {
	if g.placeErr != nil {
		return g.placeErr
	}
	if g.landmarks[p] != "" {
		return ports.ErrTileOccupied
	}
	g.landmarks[p] = kind
	g.owners[p] = owner
	return nil
}

func (g *stubGrid) CountLandmarks(kind string) int {
	n := 0
	for _, k := range g.landmarks {
		if k == kind {
			n++
		}
	}
	return n
}

type stubDirectory struct {
	agents  []*economy.Agent
	planner *economy.Agent
}

func (d *stubDirectory) Agents() []*economy.Agent { return d.agents }
func (d *stubDirectory) Planner() *economy.Agent  { return d.planner }

type mapActions map[string]int

func (m mapActions) ComponentAction(agentID, component string) (int, bool) {
	if component != Name {
		return 0, false
	}
	a, ok := m[agentID]
	return a, ok
}

var errPlaceFailed = errors.New("place failed")

func stockedAgent(id string, row, col int) *economy.Agent {
	return &economy.Agent{
		ID:        id,
		Class:     economy.ClassMobileAgent,
		Loc:       world.Point{Row: row, Col: col},
		Inventory: map[string]float64{world.ResourceWood: 1, world.ResourceStone: 1, world.ItemCoin: 0},
	}
}

func newTestComponent(cfg economy.Config, grid *stubGrid, dir *stubDirectory, opts ...Option) *Component {
	c, err := New(cfg, Deps{Grid: grid, Agents: dir, Catalog: world.DefaultCatalog()}, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

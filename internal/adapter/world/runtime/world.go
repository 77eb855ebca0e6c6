package runtime

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"

	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

var ErrInvalidWorldConfig = errors.New("invalid world config")

const PlannerID = "p"

type Config struct {
	Rows              int
	Cols              int
	NAgents           int
	Seed              uint64
	StartingInventory map[string]float64
	ResourceDensity   map[string]float64
	WaterDensity      float64
	Catalog           world.Catalog
}

func DefaultConfig() Config {
	return Config{
		Rows:    15,
		Cols:    15,
		NAgents: 4,
		StartingInventory: map[string]float64{
			world.ItemCoin:      10,
			world.ResourceWood:  3,
			world.ResourceStone: 3,
		},
		ResourceDensity: map[string]float64{
			world.ResourceWood:  0.1,
			world.ResourceStone: 0.05,
		},
		WaterDensity: 0.05,
		Catalog:      world.DefaultCatalog(),
	}
}

// World is an in-memory grid with its agents. It is not safe for concurrent
// use; the host serialises access.
type World struct {
	cfg     Config
	tiles   [][]world.Tile
	agents  []*economy.Agent
	planner *economy.Agent

	initialTiles  [][]world.Tile
	initialAgents []*economy.Agent
}

func NewWorld(cfg Config) (*World, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w: world size %dx%d", ErrInvalidWorldConfig, cfg.Rows, cfg.Cols)
	}
	if cfg.NAgents < 0 || cfg.NAgents > cfg.Rows*cfg.Cols {
		return nil, fmt.Errorf("%w: %d agents on %d tiles", ErrInvalidWorldConfig, cfg.NAgents, cfg.Rows*cfg.Cols)
	}
	if cfg.Catalog.Len() == 0 {
		cfg.Catalog = world.DefaultCatalog()
	}
	w := &World{cfg: cfg}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))
	if err := w.generate(rng); err != nil {
		return nil, err
	}
	w.initialTiles = cloneTiles(w.tiles)
	w.initialAgents = cloneAgents(w.agents)
	return w, nil
}

func (w *World) generate(rng *rand.Rand) error {
	kinds := make([]string, 0, len(w.cfg.ResourceDensity))
	for kind := range w.cfg.ResourceDensity {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	w.tiles = make([][]world.Tile, w.cfg.Rows)
	free := make([]world.Point, 0, w.cfg.Rows*w.cfg.Cols)
	for r := range w.tiles {
		w.tiles[r] = make([]world.Tile, w.cfg.Cols)
		for c := range w.tiles[r] {
			tile := world.Tile{Point: world.Point{Row: r, Col: c}}
			for _, kind := range kinds {
				if rng.Float64() < w.cfg.ResourceDensity[kind] {
					tile.Resources = map[string]float64{kind: 1}
					break
				}
			}
			if !tile.HasResource() && w.cfg.WaterDensity > 0 && rng.Float64() < w.cfg.WaterDensity {
				if _, ok := w.cfg.Catalog.Lookup(world.LandmarkWater); !ok {
					return fmt.Errorf("%w: catalog has no %s kind", ErrInvalidWorldConfig, world.LandmarkWater)
				}
				tile.Landmark = world.LandmarkWater
			}
			if !tile.HasResource() && !tile.HasLandmark() {
				free = append(free, tile.Point)
			}
			w.tiles[r][c] = tile
		}
	}
	if len(free) < w.cfg.NAgents {
		return fmt.Errorf("%w: %d free tiles for %d agents", ErrInvalidWorldConfig, len(free), w.cfg.NAgents)
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	w.agents = make([]*economy.Agent, 0, w.cfg.NAgents)
	for i := 0; i < w.cfg.NAgents; i++ {
		w.agents = append(w.agents, &economy.Agent{
			ID:         strconv.Itoa(i),
			Class:      economy.ClassMobileAgent,
			Loc:        free[i],
			Inventory:  copyQuantities(w.cfg.StartingInventory),
			Endogenous: map[string]float64{world.EndogenousLabor: 0},
		})
	}
	w.planner = &economy.Agent{
		ID:        PlannerID,
		Class:     economy.ClassPlanner,
		Inventory: map[string]float64{world.ItemCoin: 0},
	}
	return nil
}

func (w *World) inBounds(p world.Point) bool {
	return p.Row >= 0 && p.Row < w.cfg.Rows && p.Col >= 0 && p.Col < w.cfg.Cols
}

func (w *World) HasResource(p world.Point) bool {
	if !w.inBounds(p) {
		return false
	}
	return w.tiles[p.Row][p.Col].HasResource()
}

func (w *World) HasLandmark(p world.Point) bool {
	if !w.inBounds(p) {
		return false
	}
	return w.tiles[p.Row][p.Col].HasLandmark()
}

// PlaceLandmark puts a catalog kind on an empty tile. The owner tag is kept
// only for ownable kinds.
func (w *World) PlaceLandmark(kind string, p world.Point, owner string) error {
	k, ok := w.cfg.Catalog.Lookup(kind)
	if !ok {
		return fmt.Errorf("%w: %q", world.ErrInvalidLandmarkKind, kind)
	}
	if !w.inBounds(p) {
		return fmt.Errorf("place %s at (%d,%d): %w", kind, p.Row, p.Col, ports.ErrNotFound)
	}
	tile := &w.tiles[p.Row][p.Col]
	if tile.HasLandmark() {
		return fmt.Errorf("place %s at (%d,%d): %w", kind, p.Row, p.Col, ports.ErrTileOccupied)
	}
	tile.Landmark = k.Name
	tile.Owner = ""
	if k.Ownable {
		tile.Owner = owner
	}
	return nil
}

func (w *World) CountLandmarks(kind string) int {
	n := 0
	for _, row := range w.tiles {
		for _, tile := range row {
			if tile.Landmark == kind {
				n++
			}
		}
	}
	return n
}

func (w *World) Landmarks() []world.Tile {
	out := make([]world.Tile, 0)
	for _, row := range w.tiles {
		for _, tile := range row {
			if tile.HasLandmark() {
				out = append(out, tile)
			}
		}
	}
	return out
}

func (w *World) Tile(p world.Point) (world.Tile, bool) {
	if !w.inBounds(p) {
		return world.Tile{}, false
	}
	return w.tiles[p.Row][p.Col], true
}

func (w *World) Agents() []*economy.Agent {
	return w.agents
}

func (w *World) Planner() *economy.Agent {
	return w.planner
}

// AllAgents returns the spatial agents followed by the planner.
func (w *World) AllAgents() []*economy.Agent {
	return append(append([]*economy.Agent(nil), w.agents...), w.planner)
}

// ResetLayout restores the generated layout and the agents' starting state.
// Agent pointers stay valid across resets.
func (w *World) ResetLayout(_ context.Context) error {
	w.tiles = cloneTiles(w.initialTiles)
	for i, agent := range w.agents {
		initial := w.initialAgents[i]
		agent.Loc = initial.Loc
		agent.Inventory = copyQuantities(initial.Inventory)
		agent.Endogenous = copyQuantities(initial.Endogenous)
	}
	w.planner.Inventory = map[string]float64{world.ItemCoin: 0}
	return nil
}

func cloneTiles(in [][]world.Tile) [][]world.Tile {
	out := make([][]world.Tile, len(in))
	for r, row := range in {
		out[r] = make([]world.Tile, len(row))
		for c, tile := range row {
			tile.Resources = copyQuantities(tile.Resources)
			out[r][c] = tile
		}
	}
	return out
}

func cloneAgents(in []*economy.Agent) []*economy.Agent {
	out := make([]*economy.Agent, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

func copyQuantities(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package economy

import "urbandesign/internal/domain/world"

type AgentClass string

const (
	ClassMobileAgent AgentClass = "BasicMobileAgent"
	ClassPlanner     AgentClass = "BasicPlanner"
)

type Agent struct {
	ID           string             `json:"id"`
	Class        AgentClass         `json:"class"`
	Loc          world.Point        `json:"loc"`
	Inventory    map[string]float64 `json:"inventory"`
	Endogenous   map[string]float64 `json:"endogenous"`
	BuildPayment float64            `json:"build_payment"`
	BuildSkill   float64            `json:"build_skill"`
}

type SkillSample struct {
	SampledSkill float64 `json:"sampled_skill"`
	PayRate      float64 `json:"pay_rate"`
	BuildPayment float64 `json:"build_payment"`
}

type BuildEvent struct {
	Builder string      `json:"builder"`
	Loc     world.Point `json:"loc"`
	Income  float64     `json:"income"`
}

// BuildBatch holds the builds of one timestep. An empty batch is a valid step.
type BuildBatch []BuildEvent

func (b BuildBatch) Clone() BuildBatch {
	out := make(BuildBatch, len(b))
	copy(out, b)
	return out
}

const (
	StateFieldBuildPayment = "build_payment"
	StateFieldBuildSkill   = "build_skill"
)

// ResourceCost returns the materials consumed by one build.
func ResourceCost() map[string]float64 {
	return map[string]float64{
		world.ResourceWood:  1,
		world.ResourceStone: 1,
	}
}

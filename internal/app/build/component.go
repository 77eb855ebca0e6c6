// Package build resolves the "construct a House" action for mobile agents:
// it samples per-episode build skill, gates builds on materials and tile
// occupancy, and keeps the per-step build history.
package build

import (
	"math/rand/v2"
	"slices"

	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

const Name = "Build"

const (
	actionNoop  = 0
	actionBuild = 1
)

type Deps struct {
	Grid    ports.Grid
	Agents  ports.AgentDirectory
	Catalog world.Catalog
}

type Option func(*Component)

func WithSeed(seed uint64) Option {
	return func(c *Component) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithAgentClasses replaces the set of agent classes the component applies to.
func WithAgentClasses(classes ...economy.AgentClass) Option {
	return func(c *Component) {
		c.classes = slices.Clone(classes)
	}
}

type Component struct {
	cfg     economy.Config
	sampler economy.SkillSampler
	grid    ports.Grid
	agents  ports.AgentDirectory
	house   world.LandmarkKind
	classes []economy.AgentClass
	rng     *rand.Rand

	samples map[string]economy.SkillSample
	history []economy.BuildBatch
}

func New(cfg economy.Config, deps Deps, opts ...Option) (*Component, error) {
	cfg, err := economy.NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	if deps.Grid == nil {
		return nil, &economy.ConfigError{Field: "grid", Reason: "is required"}
	}
	if deps.Agents == nil {
		return nil, &economy.ConfigError{Field: "agents", Reason: "is required"}
	}
	house, ok := deps.Catalog.Lookup(world.LandmarkHouse)
	if !ok {
		return nil, &economy.ConfigError{Field: "catalog", Reason: "has no " + world.LandmarkHouse + " kind"}
	}
	c := &Component{
		cfg:     cfg,
		sampler: economy.NewSkillSampler(cfg),
		grid:    deps.Grid,
		agents:  deps.Agents,
		house:   house,
		classes: []economy.AgentClass{economy.ClassMobileAgent},
		samples: map[string]economy.SkillSample{},
		history: []economy.BuildBatch{},
	}
	WithSeed(0)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Component) Name() string {
	return Name
}

func (c *Component) Config() economy.Config {
	return c.cfg
}

// ActionCount returns the size of the build action slot. ok is false for
// classes the component does not act for.
func (c *Component) ActionCount(class economy.AgentClass) (n int, ok bool) {
	if class == economy.ClassMobileAgent && c.applies(class) {
		return 1, true
	}
	return 0, false
}

func (c *Component) ExtraStateFields(class economy.AgentClass) (map[string]float64, error) {
	if !c.applies(class) {
		return map[string]float64{}, nil
	}
	if class == economy.ClassMobileAgent {
		return map[string]float64{
			economy.StateFieldBuildPayment: float64(c.cfg.Payment),
			economy.StateFieldBuildSkill:   1,
		}, nil
	}
	return nil, &extraStateError{class: class}
}

func (c *Component) applies(class economy.AgentClass) bool {
	return slices.Contains(c.classes, class)
}

// Reset redraws every agent's skill sample and empties the history.
func (c *Component) Reset() {
	c.samples = make(map[string]economy.SkillSample)
	for _, agent := range c.agents.Agents() {
		sample := c.sampler.Sample(c.rng)
		agent.BuildPayment = sample.BuildPayment
		agent.BuildSkill = sample.SampledSkill
		c.samples[agent.ID] = sample
	}
	c.history = []economy.BuildBatch{}
}

func (c *Component) SkillSamples() map[string]economy.SkillSample {
	out := make(map[string]economy.SkillSample, len(c.samples))
	for id, s := range c.samples {
		out[id] = s
	}
	return out
}

type extraStateError struct {
	class economy.AgentClass
}

func (e *extraStateError) Error() string {
	return "build state fields not implemented for agent class " + string(e.class)
}

func (e *extraStateError) Unwrap() error {
	return economy.ErrNotImplemented
}

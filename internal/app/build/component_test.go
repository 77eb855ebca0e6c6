package build

import (
	"errors"
	"testing"

	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	deps := Deps{Grid: newStubGrid(), Agents: &stubDirectory{}, Catalog: world.DefaultCatalog()}
	bad := []economy.Config{
		{Payment: -1, PaymentMaxSkillMultiplier: 1},
		{Payment: 10, PaymentMaxSkillMultiplier: 0},
		{Payment: 10, PaymentMaxSkillMultiplier: 1, BuildLabor: -1},
		{Payment: 10, PaymentMaxSkillMultiplier: 1, SkillDist: "gamma"},
	}
	for _, cfg := range bad {
		if _, err := New(cfg, deps); !errors.Is(err, economy.ErrInvalidConfig) {
			t.Fatalf("New(%+v) expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestNewRequiresHouseInCatalog(t *testing.T) {
	catalog, err := world.NewCatalog(world.LandmarkKind{Name: world.LandmarkWater})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	_, err = New(economy.DefaultConfig(), Deps{Grid: newStubGrid(), Agents: &stubDirectory{}, Catalog: catalog})
	if !errors.Is(err, economy.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestActionCount(t *testing.T) {
	c := newTestComponent(economy.DefaultConfig(), newStubGrid(), &stubDirectory{})
	if c.Name() != "Build" {
		t.Fatalf("unexpected name %q", c.Name())
	}
	if n, ok := c.ActionCount(economy.ClassMobileAgent); !ok || n != 1 {
		t.Fatalf("mobile agent: got n=%d ok=%v", n, ok)
	}
	if _, ok := c.ActionCount(economy.ClassPlanner); ok {
		t.Fatalf("planner must have no build action")
	}
}

func TestExtraStateFields(t *testing.T) {
	c := newTestComponent(economy.DefaultConfig(), newStubGrid(), &stubDirectory{})
	fields, err := c.ExtraStateFields(economy.ClassMobileAgent)
	if err != nil {
		t.Fatalf("mobile fields: %v", err)
	}
	if fields[economy.StateFieldBuildPayment] != 10 || fields[economy.StateFieldBuildSkill] != 1 {
		t.Fatalf("unexpected mobile fields: %v", fields)
	}

	fields, err = c.ExtraStateFields(economy.ClassPlanner)
	if err != nil || len(fields) != 0 {
		t.Fatalf("planner fields: got %v err=%v", fields, err)
	}

	wide := newTestComponent(economy.DefaultConfig(), newStubGrid(), &stubDirectory{},
		WithAgentClasses(economy.ClassMobileAgent, economy.ClassPlanner))
	if _, err := wide.ExtraStateFields(economy.ClassPlanner); !errors.Is(err, economy.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, ok := wide.ActionCount(economy.ClassPlanner); ok {
		t.Fatalf("planner still has no build action")
	}
}

func TestResetNoneSkillGivesBasePayment(t *testing.T) {
	dir := &stubDirectory{agents: []*economy.Agent{stockedAgent("0", 0, 0), stockedAgent("1", 1, 1)}}
	c := newTestComponent(economy.DefaultConfig(), newStubGrid(), dir)
	c.Reset()
	for _, agent := range dir.agents {
		if agent.BuildPayment != 10 || agent.BuildSkill != 1 {
			t.Fatalf("agent %s: payment=%v skill=%v", agent.ID, agent.BuildPayment, agent.BuildSkill)
		}
		s := c.SkillSamples()[agent.ID]
		if s.PayRate != 1 {
			t.Fatalf("agent %s: pay rate %v", agent.ID, s.PayRate)
		}
	}
}

func TestResetRedrawsStochasticSkills(t *testing.T) {
	for _, dist := range []economy.SkillDist{economy.SkillDistPareto, economy.SkillDistLognormal} {
		dir := &stubDirectory{agents: []*economy.Agent{stockedAgent("0", 0, 0)}}
		cfg := economy.Config{Payment: 10, PaymentMaxSkillMultiplier: 3, SkillDist: dist, BuildLabor: 10}
		c := newTestComponent(cfg, newStubGrid(), dir, WithSeed(11))

		c.Reset()
		first := dir.agents[0].BuildSkill
		if rate := dir.agents[0].BuildPayment / 10; rate < 1 || rate > 3 {
			t.Fatalf("%s: pay rate %v outside [1,3]", dist, rate)
		}
		c.Reset()
		second := dir.agents[0].BuildSkill
		if first == second {
			t.Fatalf("%s: expected a fresh skill draw on reset, got %v twice", dist, first)
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	dir := &stubDirectory{agents: []*economy.Agent{stockedAgent("0", 0, 0)}}
	c := newTestComponent(economy.DefaultConfig(), newStubGrid(), dir)
	c.Reset()
	for i := 0; i < 3; i++ {
		if _, err := c.Step(mapActions{"0": 1}); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.HistoryLen() != 3 {
		t.Fatalf("expected 3 batches, got %d", c.HistoryLen())
	}
	c.Reset()
	if len(c.DenseLog()) != 0 {
		t.Fatalf("expected empty history after reset")
	}
}

func TestSeedReproducesSamples(t *testing.T) {
	mk := func() *stubDirectory {
		return &stubDirectory{agents: []*economy.Agent{stockedAgent("0", 0, 0), stockedAgent("1", 0, 1)}}
	}
	cfg := economy.Config{Payment: 10, PaymentMaxSkillMultiplier: 4, SkillDist: economy.SkillDistPareto}
	a, b := mk(), mk()
	newTestComponent(cfg, newStubGrid(), a, WithSeed(5)).Reset()
	newTestComponent(cfg, newStubGrid(), b, WithSeed(5)).Reset()
	for i := range a.agents {
		if a.agents[i].BuildSkill != b.agents[i].BuildSkill {
			t.Fatalf("agent %d: skills differ for the same seed", i)
		}
	}
}

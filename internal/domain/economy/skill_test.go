package economy

import (
	"math/rand/v2"
	"testing"
)

func TestSkillSamplerNone(t *testing.T) {
	s := NewSkillSampler(Config{Payment: 10, PaymentMaxSkillMultiplier: 5, SkillDist: SkillDistNone})
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		got := s.Sample(rng)
		if got.SampledSkill != 1 || got.PayRate != 1 || got.BuildPayment != 10 {
			t.Fatalf("unexpected none sample: %+v", got)
		}
	}
}

func TestSkillSamplerPayRateBounds(t *testing.T) {
	for _, dist := range []SkillDist{SkillDistPareto, SkillDistLognormal} {
		for _, m := range []int{1, 2, 5} {
			s := NewSkillSampler(Config{Payment: 10, PaymentMaxSkillMultiplier: m, SkillDist: dist})
			rng := rand.New(rand.NewPCG(uint64(m), 7))
			for i := 0; i < 500; i++ {
				got := s.Sample(rng)
				if got.SampledSkill < 0 {
					t.Fatalf("%s: negative skill %v", dist, got.SampledSkill)
				}
				if got.PayRate < 1 || got.PayRate > float64(m) {
					t.Fatalf("%s m=%d: pay rate %v out of [1,%d]", dist, m, got.PayRate, m)
				}
				if got.BuildPayment != got.PayRate*10 {
					t.Fatalf("%s: build payment %v != rate*payment", dist, got.BuildPayment)
				}
			}
		}
	}
}

func TestSkillSamplerReproducibleForSeed(t *testing.T) {
	s := NewSkillSampler(Config{Payment: 10, PaymentMaxSkillMultiplier: 3, SkillDist: SkillDistLognormal})
	a := rand.New(rand.NewPCG(42, 42))
	b := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 10; i++ {
		if s.Sample(a) != s.Sample(b) {
			t.Fatalf("same seed must give same samples")
		}
	}
}

func TestSkillSamplerDrawsVary(t *testing.T) {
	s := NewSkillSampler(Config{Payment: 10, PaymentMaxSkillMultiplier: 3, SkillDist: SkillDistPareto})
	rng := rand.New(rand.NewPCG(9, 9))
	first := s.Sample(rng)
	second := s.Sample(rng)
	if first.SampledSkill == second.SampledSkill {
		t.Fatalf("expected consecutive pareto draws to differ, both %v", first.SampledSkill)
	}
}

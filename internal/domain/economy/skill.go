package economy

import (
	"math"
	"math/rand/v2"
)

const (
	paretoShape     = 4.0
	lognormalMean   = -1.0
	lognormalStdDev = 0.5
)

type SkillSampler struct {
	dist       SkillDist
	multiplier float64
	payment    float64
}

func NewSkillSampler(cfg Config) SkillSampler {
	return SkillSampler{
		dist:       cfg.SkillDist,
		multiplier: float64(cfg.PaymentMaxSkillMultiplier),
		payment:    float64(cfg.Payment),
	}
}

// Sample draws one agent's skill for the episode. The pareto draw uses the
// Lomax form, so skills start at 0 and the pay rate starts at 1.
func (s SkillSampler) Sample(rng *rand.Rand) SkillSample {
	skill, rate := 1.0, 1.0
	switch s.dist {
	case SkillDistPareto:
		skill = math.Expm1(rng.ExpFloat64() / paretoShape)
		rate = s.payRate(skill)
	case SkillDistLognormal:
		skill = math.Exp(lognormalMean + lognormalStdDev*rng.NormFloat64())
		rate = s.payRate(skill)
	}
	return SkillSample{
		SampledSkill: skill,
		PayRate:      rate,
		BuildPayment: rate * s.payment,
	}
}

func (s SkillSampler) payRate(skill float64) float64 {
	return math.Min(s.multiplier, (s.multiplier-1)*skill+1)
}

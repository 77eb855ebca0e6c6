package economy

import "strings"

type SkillDist string

const (
	SkillDistNone      SkillDist = "none"
	SkillDistPareto    SkillDist = "pareto"
	SkillDistLognormal SkillDist = "lognormal"
)

const (
	DefaultPayment                   = 10
	DefaultPaymentMaxSkillMultiplier = 1
	DefaultBuildLabor                = 10.0
)

type Config struct {
	Payment                   int       `json:"payment" yaml:"payment"`
	PaymentMaxSkillMultiplier int       `json:"payment_max_skill_multiplier" yaml:"payment_max_skill_multiplier"`
	SkillDist                 SkillDist `json:"skill_dist" yaml:"skill_dist"`
	BuildLabor                float64   `json:"build_labor" yaml:"build_labor"`
}

func DefaultConfig() Config {
	return Config{
		Payment:                   DefaultPayment,
		PaymentMaxSkillMultiplier: DefaultPaymentMaxSkillMultiplier,
		SkillDist:                 SkillDistNone,
		BuildLabor:                DefaultBuildLabor,
	}
}

// NewConfig validates cfg and returns it with SkillDist normalised to lower case.
// An empty SkillDist means "none".
func NewConfig(cfg Config) (Config, error) {
	if cfg.Payment < 0 {
		return Config{}, &ConfigError{Field: "payment", Reason: "must be >= 0"}
	}
	if cfg.PaymentMaxSkillMultiplier < 1 {
		return Config{}, &ConfigError{Field: "payment_max_skill_multiplier", Reason: "must be >= 1"}
	}
	if cfg.BuildLabor < 0 {
		return Config{}, &ConfigError{Field: "build_labor", Reason: "must be >= 0"}
	}
	dist := SkillDist(strings.ToLower(strings.TrimSpace(string(cfg.SkillDist))))
	if dist == "" {
		dist = SkillDistNone
	}
	switch dist {
	case SkillDistNone, SkillDistPareto, SkillDistLognormal:
	default:
		return Config{}, &ConfigError{Field: "skill_dist", Reason: "must be one of none, pareto, lognormal, got " + string(cfg.SkillDist)}
	}
	cfg.SkillDist = dist
	return cfg, nil
}

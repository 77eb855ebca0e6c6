// Package config loads server settings from an optional YAML file layered over
// defaults, then applies URBAN_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

var ErrInvalidConfig = errors.New("invalid server config")

type Config struct {
	Seed              uint64                        `yaml:"seed"`
	EpisodeLength     int                           `yaml:"episode_length"`
	WorldSize         []int                         `yaml:"world_size"`
	NAgents           int                           `yaml:"n_agents"`
	StartingInventory map[string]float64            `yaml:"starting_inventory"`
	ResourceDensity   map[string]float64            `yaml:"resource_density"`
	WaterDensity      float64                       `yaml:"water_density"`
	Build             economy.Config                `yaml:"build"`
	Locations         map[string]world.LocationSpec `yaml:"locations"`

	HTTPAddr    string `yaml:"http_addr"`
	DBDSN       string `yaml:"db_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
	DenseLogDir string `yaml:"dense_log_dir"`
}

func Default() Config {
	return Config{
		Seed:          1,
		EpisodeLength: 1000,
		WorldSize:     []int{15, 15},
		NAgents:       4,
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
		Build:        economy.DefaultConfig(),
		HTTPAddr:     ":8080",
	}
}

// Load reads path (when non-empty) over Default and applies env overrides.
// Keys missing from the file keep their default values; a map given in the
// file replaces the default map instead of merging into it.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := clearListedMaps(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// clearListedMaps drops the default maps the file sets, since yaml.v3 decodes
// into an existing map key by key.
func clearListedMaps(raw []byte, cfg *Config) error {
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return err
	}
	if _, ok := keys["starting_inventory"]; ok {
		cfg.StartingInventory = nil
	}
	if _, ok := keys["resource_density"]; ok {
		cfg.ResourceDensity = nil
	}
	if _, ok := keys["locations"]; ok {
		cfg.Locations = nil
	}
	return nil
}

func (c Config) Rows() int { return c.WorldSize[0] }
func (c Config) Cols() int { return c.WorldSize[1] }

// Validate checks structural settings. Build parameters are checked by
// economy.NewConfig when the component is constructed.
func (c Config) Validate() error {
	if len(c.WorldSize) != 2 || c.WorldSize[0] <= 0 || c.WorldSize[1] <= 0 {
		return fmt.Errorf("%w: world_size must be two positive integers, got %v", ErrInvalidConfig, c.WorldSize)
	}
	if c.NAgents < 1 {
		return fmt.Errorf("%w: n_agents must be >= 1, got %d", ErrInvalidConfig, c.NAgents)
	}
	if c.EpisodeLength < 1 {
		return fmt.Errorf("%w: episode_length must be >= 1, got %d", ErrInvalidConfig, c.EpisodeLength)
	}
	for name, q := range c.StartingInventory {
		if q < 0 {
			return fmt.Errorf("%w: starting_inventory[%s] is negative", ErrInvalidConfig, name)
		}
	}
	for name, d := range c.ResourceDensity {
		if d < 0 || d > 1 {
			return fmt.Errorf("%w: resource_density[%s] must be in [0,1]", ErrInvalidConfig, name)
		}
	}
	if c.WaterDensity < 0 || c.WaterDensity > 1 {
		return fmt.Errorf("%w: water_density must be in [0,1]", ErrInvalidConfig)
	}
	for name, loc := range c.Locations {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: location with empty name", ErrInvalidConfig)
		}
		if loc.Cost < 0 || loc.Population < 0 || loc.CommercialPopulation < 0 {
			return fmt.Errorf("%w: location %s has negative values", ErrInvalidConfig, name)
		}
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("%w: http_addr is required", ErrInvalidConfig)
	}
	return nil
}

func applyEnv(c *Config) {
	c.Seed = uint64(intEnv("URBAN_SEED", int(c.Seed)))
	c.EpisodeLength = intEnv("URBAN_EPISODE_LENGTH", c.EpisodeLength)
	c.NAgents = intEnv("URBAN_N_AGENTS", c.NAgents)
	c.Build.Payment = intEnv("URBAN_BUILD_PAYMENT", c.Build.Payment)
	c.Build.PaymentMaxSkillMultiplier = intEnv("URBAN_PAYMENT_MAX_SKILL_MULTIPLIER", c.Build.PaymentMaxSkillMultiplier)
	c.Build.BuildLabor = floatEnv("URBAN_BUILD_LABOR", c.Build.BuildLabor)
	if v := strings.TrimSpace(os.Getenv("URBAN_SKILL_DIST")); v != "" {
		c.Build.SkillDist = economy.SkillDist(v)
	}
	if inv := quantitiesEnv("URBAN_STARTING_INVENTORY"); len(inv) > 0 {
		c.StartingInventory = inv
	}
	c.HTTPAddr = stringEnv("URBAN_HTTP_ADDR", c.HTTPAddr)
	c.DBDSN = stringEnv("URBAN_DB_DSN", c.DBDSN)
	c.SQLitePath = stringEnv("URBAN_SQLITE_PATH", c.SQLitePath)
	c.DenseLogDir = stringEnv("URBAN_DENSE_LOG_DIR", c.DenseLogDir)
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// quantitiesEnv parses "Wood=3,Stone=2" lists.
func quantitiesEnv(key string) map[string]float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	out := map[string]float64{}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			continue
		}
		out[name] = q
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

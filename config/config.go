package config

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/derisk-research/core/core"
)

var validate = validator.New()

type Config struct {
	// Worker count for the parallel map over positions.
	Workers int `yaml:"workers" default:"8" validate:"gte=1,lte=256"`

	// Requirement level used for health factors.
	RequirementType string `yaml:"requirement_type" default:"maintenance" validate:"oneof=initial maintenance equity"`

	// Histogram bucket edges over liquidation value, ascending. Empty
	// means the documented defaults.
	BucketEdges []float64 `yaml:"bucket_edges"`

	// Optional flat liquidation threshold replacing every per-asset one,
	// for what-if runs.
	ThresholdOverride *float64 `yaml:"threshold_override" validate:"omitempty,gt=0,lte=1"`

	Scenarios []Scenario `yaml:"scenarios" validate:"dive"`
	Chains    []Chain    `yaml:"chains" validate:"dive"`
}

type Scenario struct {
	Name        string             `yaml:"name" validate:"required"`
	Multipliers map[string]float64 `yaml:"multipliers" validate:"required,dive,gt=0"`
}

type Chain struct {
	Name      string   `yaml:"name" validate:"required"`
	Scenarios []string `yaml:"scenarios" validate:"required,min=1"`
}

// Load reads, defaults and validates a YAML configuration file. Any
// validation failure here is fatal: no computation starts on a
// malformed config.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := defaults.Set(&c); err != nil {
		return nil, errors.Wrap(err, "apply defaults")
	}

	if err := validate.Struct(&c); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	if err := c.validateReferences(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validateReferences() error {
	known := make(map[string]struct{}, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if _, ok := known[scenario.Name]; ok {
			return errors.Wrapf(core.InvalidConfig, "duplicate scenario %q", scenario.Name)
		}
		known[scenario.Name] = struct{}{}
	}
	for _, chain := range c.Chains {
		for _, name := range chain.Scenarios {
			if _, ok := known[name]; !ok {
				return errors.Wrapf(core.InvalidConfig, "chain %q references unknown scenario %q", chain.Name, name)
			}
		}
	}
	return nil
}

// Edges returns the configured bucket edges as decimals, falling back
// to the core defaults when none are set.
func (c *Config) Edges() []decimal.Decimal {
	if len(c.BucketEdges) == 0 {
		return core.DefaultBucketEdges()
	}
	edges := make([]decimal.Decimal, len(c.BucketEdges))
	for i, edge := range c.BucketEdges {
		edges[i] = decimal.NewFromFloat(edge)
	}
	return edges
}

// EngineOptions translates the config into risk engine options.
func (c *Config) EngineOptions() ([]core.EngineOptFunc, error) {
	requirementType, err := core.ParseRequirementType(c.RequirementType)
	if err != nil {
		return nil, err
	}
	opts := []core.EngineOptFunc{core.WithRequirementType(requirementType)}
	if c.ThresholdOverride != nil {
		opts = append(opts, core.WithThresholdOverride(decimal.NewFromFloat(*c.ThresholdOverride)))
	}
	return opts, nil
}

// ToScenarios builds the configured shock scenarios.
func (c *Config) ToScenarios() ([]*core.ShockScenario, error) {
	scenarios := make([]*core.ShockScenario, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		multipliers := make(map[string]decimal.Decimal, len(sc.Multipliers))
		for assetId, multiplier := range sc.Multipliers {
			multipliers[assetId] = decimal.NewFromFloat(multiplier)
		}
		scenario, err := core.NewShockScenario(sc.Name, multipliers)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// ChainScenarios resolves a named chain into its ordered scenario list.
func (c *Config) ChainScenarios(name string) ([]*core.ShockScenario, error) {
	scenarios, err := c.ToScenarios()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*core.ShockScenario, len(scenarios))
	for _, scenario := range scenarios {
		byName[scenario.Name()] = scenario
	}

	for _, chain := range c.Chains {
		if chain.Name != name {
			continue
		}
		steps := make([]*core.ShockScenario, 0, len(chain.Scenarios))
		for _, scenarioName := range chain.Scenarios {
			steps = append(steps, byName[scenarioName])
		}
		return steps, nil
	}
	return nil, errors.Wrapf(core.InvalidConfig, "chain %q not found", name)
}

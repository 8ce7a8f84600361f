package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tuning holds the host's game rules.
type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`
	Rounds     int `yaml:"rounds"`

	StartAdamantium  int `yaml:"start_adamantium"`
	StartMana        int `yaml:"start_mana"`
	IncomeAdamantium int `yaml:"income_adamantium"`
	IncomeMana       int `yaml:"income_mana"`

	Costs      map[string]Cost `yaml:"costs"`
	AnchorCost Cost            `yaml:"anchor_cost"`
	HitPoints  map[string]int  `yaml:"hit_points"`

	CarrierCapacity int `yaml:"carrier_capacity"`
	CollectAmount   int `yaml:"collect_amount"`
	AttackDamage    int `yaml:"attack_damage"`
	AnchorHealth    int `yaml:"anchor_health"`

	VisionRadiusSq   int `yaml:"vision_radius_sq"`
	AttackRadiusSq   int `yaml:"attack_radius_sq"`
	InteractRadiusSq int `yaml:"interact_radius_sq"`
	BuildRadiusSq    int `yaml:"build_radius_sq"`
	WriteRadiusSq    int `yaml:"write_radius_sq"`

	Budget Budget `yaml:"budget"`
}

type Cost struct {
	Adamantium int `yaml:"adamantium"`
	Mana       int `yaml:"mana"`
	Elixir     int `yaml:"elixir"`
}

// Budget is the per-robot compute allowance and the price of each call.
type Budget struct {
	PerRound  int `yaml:"per_round"`
	ReadCost  int `yaml:"read_cost"`
	WriteCost int `yaml:"write_cost"`
	SenseCost int `yaml:"sense_cost"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:       0,
		Rounds:           2000,
		StartAdamantium:  200,
		StartMana:        200,
		IncomeAdamantium: 2,
		IncomeMana:       2,
		Costs: map[string]Cost{
			"CARRIER":      {Adamantium: 50},
			"LAUNCHER":     {Mana: 60},
			"BOOSTER":      {Adamantium: 60, Mana: 40},
			"DESTABILIZER": {Adamantium: 80, Mana: 60},
			"AMPLIFIER":    {Adamantium: 30, Mana: 15},
		},
		AnchorCost: Cost{Adamantium: 100, Mana: 100},
		HitPoints: map[string]int{
			"HEADQUARTERS": 1000000,
			"CARRIER":      150,
			"LAUNCHER":     200,
			"BOOSTER":      120,
			"DESTABILIZER": 120,
			"AMPLIFIER":    80,
		},
		CarrierCapacity:  40,
		CollectAmount:    4,
		AttackDamage:     20,
		AnchorHealth:     250,
		VisionRadiusSq:   20,
		AttackRadiusSq:   16,
		InteractRadiusSq: 2,
		BuildRadiusSq:    9,
		WriteRadiusSq:    20,
		Budget: Budget{
			PerRound:  10000,
			ReadCost:  2,
			WriteCost: 10,
			SenseCost: 100,
		},
	}
}

// Load reads path over Defaults. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("rules.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("rules.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.Rounds <= 0 {
		return fmt.Errorf("rounds must be > 0")
	}
	if t.TickRateHz < 0 {
		return fmt.Errorf("tick_rate_hz must be >= 0")
	}
	if t.CarrierCapacity <= 0 || t.CollectAmount <= 0 {
		return fmt.Errorf("carrier_capacity and collect_amount must be > 0")
	}
	if t.AnchorHealth <= 0 {
		return fmt.Errorf("anchor_health must be > 0")
	}
	for k, c := range t.Costs {
		if c.Adamantium < 0 || c.Mana < 0 || c.Elixir < 0 {
			return fmt.Errorf("costs.%s must be >= 0", k)
		}
	}
	for k, hp := range t.HitPoints {
		if hp <= 0 {
			return fmt.Errorf("hit_points.%s must be > 0", k)
		}
	}
	if t.Budget.PerRound <= 0 {
		return fmt.Errorf("budget.per_round must be > 0")
	}
	return nil
}

// CostOf returns the build cost of a kind by name.
func (t Tuning) CostOf(kind string) (Cost, bool) {
	c, ok := t.Costs[kind]
	return c, ok
}

// HitPointsOf returns the starting health of a kind, 1 if unset.
func (t Tuning) HitPointsOf(kind string) int {
	if hp, ok := t.HitPoints[kind]; ok && hp > 0 {
		return hp
	}
	return 1
}

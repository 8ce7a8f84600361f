// Package tuning holds the agent-side knobs: build ratios, arrival radii,
// compute reserve and random seed.
package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/allocator"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/target"
)

type Tuning struct {
	Seed int64 `yaml:"seed"`

	BuildRatios []RatioSpec `yaml:"build_ratios"`
	Anchor      AnchorSpec  `yaml:"anchor"`

	Radii             RadiiSpec `yaml:"radii"`
	WellSenseRadiusSq int       `yaml:"well_sense_radius_sq"`
	AttackRadiusSq    int       `yaml:"attack_radius_sq"`
	SenseRadiusSq     int       `yaml:"sense_radius_sq"`

	// BudgetReserve is the compute left untouched when scanning the channel.
	BudgetReserve int `yaml:"budget_reserve"`
	// ReturnAtCargo sends a carrier home once its cargo weight reaches it.
	ReturnAtCargo int      `yaml:"return_at_cargo"`
	Resources     []string `yaml:"resources"`
}

type RatioSpec struct {
	Kind   string `yaml:"kind"`
	Weight int    `yaml:"weight"`
}

type AnchorSpec struct {
	Enabled bool    `yaml:"enabled"`
	Per     string  `yaml:"per"`
	Ratio   float64 `yaml:"ratio"`
	Max     int     `yaml:"max"`
}

type RadiiSpec struct {
	Zone    int `yaml:"zone"`
	Contest int `yaml:"contest"`
	Well    int `yaml:"well"`
	Home    int `yaml:"home"`
	Explore int `yaml:"explore"`
}

func Defaults() Tuning {
	return Tuning{
		Seed: 69420,
		BuildRatios: []RatioSpec{
			{Kind: "CARRIER", Weight: 5},
			{Kind: "LAUNCHER", Weight: 5},
			{Kind: "AMPLIFIER", Weight: 3},
			{Kind: "BOOSTER", Weight: 2},
			{Kind: "DESTABILIZER", Weight: 1},
		},
		Anchor:            AnchorSpec{Enabled: true, Per: "CARRIER", Ratio: 0.25, Max: 8},
		Radii:             RadiiSpec{Zone: 0, Contest: 2, Well: 2, Home: 2, Explore: 8},
		WellSenseRadiusSq: 400,
		AttackRadiusSq:    16,
		SenseRadiusSq:     20,
		BudgetReserve:     500,
		ReturnAtCargo:     39,
		Resources:         []string{"ADAMANTIUM", "MANA"},
	}
}

// Load reads path over Defaults. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		t.Normalize()
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	for i := range t.BuildRatios {
		t.BuildRatios[i].Kind = strings.ToUpper(strings.TrimSpace(t.BuildRatios[i].Kind))
	}
	t.Anchor.Per = strings.ToUpper(strings.TrimSpace(t.Anchor.Per))
	if t.Anchor.Per == "" {
		t.Anchor.Per = "CARRIER"
	}
	for i := range t.Resources {
		t.Resources[i] = strings.ToUpper(strings.TrimSpace(t.Resources[i]))
	}
	if t.BudgetReserve < 0 {
		t.BudgetReserve = 0
	}
	if t.ReturnAtCargo <= 0 {
		t.ReturnAtCargo = 1
	}
}

func (t Tuning) Validate() error {
	if len(t.BuildRatios) == 0 {
		return fmt.Errorf("build_ratios must not be empty")
	}
	seen := map[string]bool{}
	sum := 0
	for i, r := range t.BuildRatios {
		k, ok := host.ParseKind(r.Kind)
		if !ok || k.IsCoordinator() {
			return fmt.Errorf("build_ratios[%d] kind %q is not a mobile kind", i, r.Kind)
		}
		if seen[r.Kind] {
			return fmt.Errorf("build_ratios[%d] duplicate kind %s", i, r.Kind)
		}
		seen[r.Kind] = true
		if r.Weight < 0 {
			return fmt.Errorf("build_ratios[%d] weight must be >= 0", i)
		}
		sum += r.Weight
	}
	if sum == 0 {
		return fmt.Errorf("build_ratios weights must not all be 0")
	}
	if k, ok := host.ParseKind(t.Anchor.Per); !ok || k.IsCoordinator() {
		return fmt.Errorf("anchor.per %q is not a mobile kind", t.Anchor.Per)
	}
	if t.Anchor.Ratio < 0 || t.Anchor.Max < 0 {
		return fmt.Errorf("anchor ratio and max must be >= 0")
	}
	r := t.Radii
	if r.Zone < 0 || r.Contest < 0 || r.Well < 0 || r.Home < 0 || r.Explore < 0 {
		return fmt.Errorf("radii must be >= 0")
	}
	if t.WellSenseRadiusSq < 0 {
		return fmt.Errorf("well_sense_radius_sq must be >= 0")
	}
	for i, s := range t.Resources {
		if _, ok := host.ParseResource(s); !ok {
			return fmt.Errorf("resources[%d] unknown resource %q", i, s)
		}
	}
	return nil
}

// Plan builds the allocator plan. It assumes Validate passed.
func (t Tuning) Plan() allocator.Plan {
	var p allocator.Plan
	for _, r := range t.BuildRatios {
		k, _ := host.ParseKind(r.Kind)
		p.Ratios = append(p.Ratios, allocator.Ratio{Kind: k, Weight: r.Weight})
	}
	per, _ := host.ParseKind(t.Anchor.Per)
	p.Anchor = allocator.AnchorRule{Enabled: t.Anchor.Enabled, Per: per, Ratio: t.Anchor.Ratio, Max: t.Anchor.Max}
	return p
}

func (t Tuning) Selector() target.Selector {
	r := t.Radii
	return target.Selector{
		Radii:        target.Radii{Zone: r.Zone, Contest: r.Contest, Well: r.Well, Home: r.Home, Explore: r.Explore},
		WellRadiusSq: t.WellSenseRadiusSq,
	}
}

func (t Tuning) ResourceKinds() []host.Resource {
	out := make([]host.Resource, 0, len(t.Resources))
	for _, s := range t.Resources {
		if r, ok := host.ParseResource(s); ok {
			out = append(out, r)
		}
	}
	return out
}

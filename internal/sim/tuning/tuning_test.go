package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults_Validate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults: %v", err)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	got, err := Load("  ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rounds != Defaults().Rounds || got.StartAdamantium != Defaults().StartAdamantium {
		t.Fatalf("got %+v", got)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := "rounds: 300\ncosts:\n  LAUNCHER: {mana: 90}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rounds != 300 {
		t.Fatalf("rounds=%d", got.Rounds)
	}
	if c, ok := got.CostOf("LAUNCHER"); !ok || c.Mana != 90 {
		t.Fatalf("launcher cost=%+v ok=%v", c, ok)
	}
	if got.IncomeMana != Defaults().IncomeMana {
		t.Fatalf("income_mana=%d", got.IncomeMana)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rounds: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "rounds") {
		t.Fatalf("err=%v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(*Tuning){
		"tick_rate_hz":     func(r *Tuning) { r.TickRateHz = -1 },
		"carrier_capacity": func(r *Tuning) { r.CarrierCapacity = 0 },
		"anchor_health":    func(r *Tuning) { r.AnchorHealth = 0 },
		"costs":            func(r *Tuning) { r.Costs = map[string]Cost{"CARRIER": {Mana: -1}} },
		"hit_points":       func(r *Tuning) { r.HitPoints = map[string]int{"HQ": 0} },
		"budget":           func(r *Tuning) { r.Budget.PerRound = 0 },
	}
	for name, mutate := range cases {
		r := Defaults()
		mutate(&r)
		if err := r.Validate(); err == nil {
			t.Fatalf("%s: accepted", name)
		}
	}
}

func TestCostAndHitPoints(t *testing.T) {
	r := Defaults()
	if c, ok := r.CostOf("CARRIER"); !ok || c.Adamantium != 50 {
		t.Fatalf("carrier cost=%+v ok=%v", c, ok)
	}
	if _, ok := r.CostOf("HEADQUARTERS"); ok {
		t.Fatalf("headquarters should have no cost")
	}
	if hp := r.HitPointsOf("LAUNCHER"); hp != 200 {
		t.Fatalf("launcher hp=%d", hp)
	}
	if hp := r.HitPointsOf("UNKNOWN"); hp != 1 {
		t.Fatalf("unknown hp=%d", hp)
	}
}

package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/allocator"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	tu, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := tu.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	p := tu.Plan()
	if len(p.Ratios) != 5 || p.Ratios[0] != (allocator.Ratio{Kind: host.Carrier, Weight: 5}) {
		t.Fatalf("ratios=%+v", p.Ratios)
	}
	if p.Ratios[2].Kind != host.Amplifier || p.Ratios[4].Kind != host.Destabilizer {
		t.Fatalf("ratio order=%+v", p.Ratios)
	}
	if tu.Seed != 69420 {
		t.Fatalf("seed=%d", tu.Seed)
	}
}

func TestLoad_OverridesAndNormalizes(t *testing.T) {
	p := writeFile(t, `
seed: 7
build_ratios:
  - {kind: carrier, weight: 2}
  - {kind: " launcher ", weight: 1}
anchor: {enabled: false}
resources: [mana]
radii: {zone: 0, contest: 4, well: 2, home: 2, explore: 9}
`)
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Seed != 7 || len(tu.BuildRatios) != 2 || tu.BuildRatios[1].Kind != "LAUNCHER" {
		t.Fatalf("tuning=%+v", tu)
	}
	if tu.Anchor.Per != "CARRIER" || tu.Anchor.Enabled {
		t.Fatalf("anchor=%+v", tu.Anchor)
	}
	if rs := tu.ResourceKinds(); len(rs) != 1 || rs[0] != host.Mana {
		t.Fatalf("resources=%v", rs)
	}
	if sel := tu.Selector(); sel.Radii.Contest != 4 || sel.WellRadiusSq != 400 {
		t.Fatalf("selector=%+v", sel)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"headquarters ratio", "build_ratios: [{kind: HEADQUARTERS, weight: 1}]", "not a mobile kind"},
		{"duplicate", "build_ratios: [{kind: CARRIER, weight: 1}, {kind: CARRIER, weight: 2}]", "duplicate"},
		{"all zero", "build_ratios: [{kind: CARRIER, weight: 0}]", "must not all be 0"},
		{"resource", "resources: [GOLD]", "unknown resource"},
		{"radius", "radii: {well: -1}", "radii"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want substring %q", err, tc.want)
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "build_ratios: {")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

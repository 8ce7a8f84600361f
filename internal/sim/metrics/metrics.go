// Package metrics exposes the host round loop as Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

const namespace = "bc23"

// Recorder is an arena sink. Register it once per process; a second
// Recorder on the same registerer panics on duplicate registration.
type Recorder struct {
	rounds     prometheus.Counter
	round      prometheus.Gauge
	matches    *prometheus.CounterVec
	population *prometheus.GaugeVec
	resources  *prometheus.GaugeVec
	zones      *prometheus.GaugeVec
	anchors    *prometheus.GaugeVec
	faults     *prometheus.GaugeVec
	laneSlots  *prometheus.GaugeVec
}

// New registers the instruments on reg, or on the default registerer when
// reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		rounds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "rounds_total",
			Help:      "Rounds stepped by the host.",
		}),
		round: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "round",
			Help:      "Current round of the running match.",
		}),
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "matches_total",
			Help:      "Finished matches by winner and reason.",
		}, []string{"winner", "reason"}),
		population: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "robots",
			Help:      "Live robots per team and kind.",
		}, []string{"team", "kind"}),
		resources: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "resources",
			Help:      "Team resource stock.",
		}, []string{"team", "resource"}),
		zones: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "zones_owned",
			Help:      "Islands owned per team.",
		}, []string{"team"}),
		anchors: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "anchors_built",
			Help:      "Anchors built per team since match start.",
		}, []string{"team"}),
		faults: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "faults",
			Help:      "Agent rounds that returned an error or panicked.",
		}, []string{"team"}),
		laneSlots: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "lane_slots_used",
			Help:      "Non-empty fast and slow lane slots at round end.",
		}, []string{"team"}),
	}
}

func (r *Recorder) Round(m protocol.RoundMsg) {
	r.rounds.Inc()
	r.round.Set(float64(m.Round))
	for _, ts := range m.Teams {
		for kind, n := range ts.Population {
			r.population.WithLabelValues(ts.Team, kind).Set(float64(n))
		}
		r.resources.WithLabelValues(ts.Team, "adamantium").Set(float64(ts.Adamantium))
		r.resources.WithLabelValues(ts.Team, "mana").Set(float64(ts.Mana))
		r.resources.WithLabelValues(ts.Team, "elixir").Set(float64(ts.Elixir))
		r.zones.WithLabelValues(ts.Team).Set(float64(ts.ZonesOwned))
		r.anchors.WithLabelValues(ts.Team).Set(float64(ts.Anchors))
		r.faults.WithLabelValues(ts.Team).Set(float64(ts.Faults))
		r.laneSlots.WithLabelValues(ts.Team).Set(float64(ts.LaneSlots))
	}
}

func (r *Recorder) End(m protocol.EndMsg) {
	winner := m.Winner
	if winner == "" {
		winner = "none"
	}
	r.matches.WithLabelValues(winner, m.Reason).Inc()
}

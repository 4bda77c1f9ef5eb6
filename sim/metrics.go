// Tracks run-wide counters: transitions by edge, interaction records opened and
// closed, and idle evaluations that found an empty shelf.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "classroom_sim"

// Record kinds used as the "kind" label.
const (
	KindTray     = "tray"
	KindMaterial = "material"
)

// Metrics holds the Prometheus collectors of one simulator.
// Each simulator registers into its own registry so runs never share counters.
type Metrics struct {
	Registry *prometheus.Registry

	Transitions        *prometheus.CounterVec // labels: from, to
	InteractionsOpened *prometheus.CounterVec // labels: kind
	InteractionsClosed *prometheus.CounterVec // labels: kind
	IdleWithoutTray    prometheus.Counter
	StepsExecuted      prometheus.Counter
}

// NewMetrics creates the collectors and registers them in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transitions_total",
			Help:      "Student state transitions, by source and target state.",
		}, []string{"from", "to"}),
		InteractionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "interactions_opened_total",
			Help:      "Interaction records opened, by record kind.",
		}, []string{"kind"}),
		InteractionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "interactions_closed_total",
			Help:      "Interaction records closed, by record kind.",
		}, []string{"kind"}),
		IdleWithoutTray: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "idle_evaluations_without_tray_total",
			Help:      "Idle student evaluations skipped because no tray was on the shelf.",
		}),
		StepsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "steps_total",
			Help:      "Clock steps evaluated.",
		}),
	}
	m.Registry.MustRegister(m.Transitions, m.InteractionsOpened, m.InteractionsClosed, m.IdleWithoutTray, m.StepsExecuted)
	return m
}

func (m *Metrics) recordTransition(kind TransitionKind) {
	m.Transitions.WithLabelValues(kind.From().String(), kind.To().String()).Inc()
	switch kind {
	case TransitionPickUp:
		m.InteractionsOpened.WithLabelValues(KindTray).Inc()
	case TransitionStartUsing:
		m.InteractionsClosed.WithLabelValues(KindTray).Inc()
		m.InteractionsOpened.WithLabelValues(KindMaterial).Inc()
	case TransitionFinishUsing:
		m.InteractionsClosed.WithLabelValues(KindMaterial).Inc()
		m.InteractionsOpened.WithLabelValues(KindTray).Inc()
	case TransitionShelve:
		m.InteractionsClosed.WithLabelValues(KindTray).Inc()
	}
}

// WriteTextfile writes all collectors in the Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// MetricsSummary is the end-of-run report printed by Print.
type MetricsSummary struct {
	Steps                    int            `json:"steps"`
	TrayInteractions         int            `json:"tray_interactions"`
	OpenTrayInteractions     int            `json:"open_tray_interactions"`
	MaterialInteractions     int            `json:"material_interactions"`
	OpenMaterialInteractions int            `json:"open_material_interactions"`
	IdleWithoutTray          int            `json:"idle_evaluations_without_tray"`
	Transitions              map[string]int `json:"transitions"`
	WallTimeSeconds          float64        `json:"wall_time_s"`
}

// Summarize gathers the registry and combines it with the record counts of res.
func (m *Metrics) Summarize(res *Result) (MetricsSummary, error) {
	summary := MetricsSummary{Transitions: make(map[string]int)}
	families, err := m.Registry.Gather()
	if err != nil {
		return summary, fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			v := int(metric.GetCounter().GetValue())
			switch mf.GetName() {
			case metricsNamespace + "_steps_total":
				summary.Steps = v
			case metricsNamespace + "_idle_evaluations_without_tray_total":
				summary.IdleWithoutTray = v
			case metricsNamespace + "_transitions_total":
				labels := map[string]string{}
				for _, lp := range metric.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				summary.Transitions[labels["from"]+"->"+labels["to"]] = v
			}
		}
	}
	if res != nil {
		summary.TrayInteractions = len(res.TrayInteractions)
		summary.MaterialInteractions = len(res.MaterialInteractions)
		for _, ti := range res.TrayInteractions {
			if ti.IsOpen() {
				summary.OpenTrayInteractions++
			}
		}
		for _, mi := range res.MaterialInteractions {
			if mi.IsOpen() {
				summary.OpenMaterialInteractions++
			}
		}
	}
	return summary, nil
}

// Print writes the end-of-run summary as indented JSON under a header.
func (m *Metrics) Print(w io.Writer, res *Result, startTime time.Time) error {
	summary, err := m.Summarize(res)
	if err != nil {
		return err
	}
	summary.WallTimeSeconds = time.Since(startTime).Seconds()
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	if _, err := fmt.Fprintln(w, "=== Simulation Metrics ==="); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

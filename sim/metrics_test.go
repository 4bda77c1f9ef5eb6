package sim

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FullCycle_CountsTransitionsAndRecords(t *testing.T) {
	// GIVEN a single forced cycle
	s := newTestSimulator(t, 4*time.Second, 1, 1, forcedConfig())

	// WHEN run
	res, err := s.Run()
	require.NoError(t, err)

	// THEN each edge fired once and records balance out
	m := s.Metrics
	for k := TransitionKind(0); k < numTransitionKinds; k++ {
		assert.InDelta(t, 1, counterValue(m.Transitions.WithLabelValues(k.From().String(), k.To().String())), 0, k.String())
	}
	assert.InDelta(t, 2, counterValue(m.InteractionsOpened.WithLabelValues(KindTray)), 0)
	assert.InDelta(t, 2, counterValue(m.InteractionsClosed.WithLabelValues(KindTray)), 0)
	assert.InDelta(t, 1, counterValue(m.InteractionsOpened.WithLabelValues(KindMaterial)), 0)
	assert.InDelta(t, 1, counterValue(m.InteractionsClosed.WithLabelValues(KindMaterial)), 0)
	assert.InDelta(t, 4, counterValue(m.StepsExecuted), 0)

	summary, err := m.Summarize(res)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Steps)
	assert.Equal(t, 2, summary.TrayInteractions)
	assert.Equal(t, 0, summary.OpenTrayInteractions)
	assert.Equal(t, 1, summary.Transitions["idle->carrying_from_shelf"])
}

func TestMetrics_SeparateSimulators_DoNotShareCounters(t *testing.T) {
	a := newTestSimulator(t, 4*time.Second, 1, 1, forcedConfig())
	b := newTestSimulator(t, 4*time.Second, 1, 1, forcedConfig())

	_, err := a.Run()
	require.NoError(t, err)

	assert.InDelta(t, 0, counterValue(b.Metrics.StepsExecuted), 0)
}

func TestMetrics_Print_WritesHeaderAndJSON(t *testing.T) {
	s := newTestSimulator(t, 4*time.Second, 1, 1, forcedConfig())
	res, err := s.Run()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Metrics.Print(&buf, res, time.Now()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== Simulation Metrics ==="))
	assert.Contains(t, out, `"material_interactions": 1`)
}

func TestMetrics_WriteTextfile_ExpositionFormat(t *testing.T) {
	s := newTestSimulator(t, 4*time.Second, 1, 1, forcedConfig())
	_, err := s.Run()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sim.prom")
	require.NoError(t, s.Metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "classroom_sim_steps_total 4")
	assert.Contains(t, string(data), `classroom_sim_interactions_opened_total{kind="material"} 1`)
}

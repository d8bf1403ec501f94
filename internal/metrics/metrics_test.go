package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting(t *testing.T) {
	m, reg := NewMetricsForTesting()
	other, _ := NewMetricsForTesting()

	m.ImportRuns.WithLabelValues("cases", "success").Inc()
	m.ReconcileChanges.WithLabelValues("sites", "added").Add(3)
	other.ImportRuns.WithLabelValues("cases", "success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRuns.WithLabelValues("cases", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReconcileChanges.WithLabelValues("sites", "added")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ash_covid19_import_runs_total"])
	assert.True(t, names["ash_covid19_reconcile_changes_total"])
}

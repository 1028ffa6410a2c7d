package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewGenerationMetrics(registry)

	b := &building.Building{Heights: make([]building.CellHeight, 4)}
	m.BuildingGenerated(b, 2*time.Millisecond)
	m.OpeningPlaced(&opening.Opening{Kind: opening.Door})
	m.OpeningPlaced(&opening.Opening{Kind: opening.Window})
	m.OpeningPlaced(&opening.Opening{Kind: opening.Window})
	m.PlacementSkipped(&opening.PlacementError{Kind: opening.Door, Err: errors.New("x")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildings))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.cells))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.openings.WithLabelValues("door")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.openings.WithLabelValues("window")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("door")))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "buildgen_generation_duration_seconds")
}

func TestGenerationMetrics_Handler(t *testing.T) {
	m := NewGenerationMetrics(nil)
	m.OpeningPlaced(&opening.Opening{Kind: opening.Window})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `buildgen_openings_placed_total{kind="window"} 1`)
}

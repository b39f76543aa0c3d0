package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pet-cafe/backend/pkg/errors"
)

func TestObserveMutation_LabelsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	observe := func(err error) {
		m.ObserveMutation("create_team", time.Now(), &err)
	}
	observe(nil)
	observe(apperrors.Validation("name", "不能为空"))
	observe(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create_team", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create_team", "validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create_team", "internal")))
}

func TestObserveMatch(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.ObserveMatch("MATCHED")
	m.ObserveMatch("MATCHED")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.matches.WithLabelValues("MATCHED")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMatch("MATCHED")
		m.ObserveMutation("x", time.Now(), nil)
	})
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

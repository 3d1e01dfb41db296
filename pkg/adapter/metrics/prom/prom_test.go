package prom

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	large := model.Slot{ID: 1, Size: model.SizeLarge}
	r.Parked(large, model.SizeSmall)
	r.Occupancy(1, 6)
	r.Unparked(large, 140)
	r.Occupancy(0, 6)
	r.Rejected("park", cerr.Conflict(fmt.Errorf("%w: x", model.ErrNoAvailableSpot)))
	r.Rejected("park", cerr.BadRequest(errors.New("empty plate")))
	r.Rejected("unpark", errors.New("db is down"))

	expected := `
# HELP parkinglot_parked_total Total number of parked vehicles
# TYPE parkinglot_parked_total counter
parkinglot_parked_total{slot_size="large",vehicle_size="small"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(r.parked, strings.NewReader(expected)))
	assert.Equal(t, 140.0, testutil.ToFloat64(r.fees.WithLabelValues("large")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.occupied))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.capacity))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		r.rejected.WithLabelValues("park", model.ErrNoAvailableSpot.Error()),
	))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("park", "bad request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("unpark", "internal")))
}

func TestNewRecorderReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r1, err := NewRecorder(reg)
	require.NoError(t, err)
	r2, err := NewRecorder(reg)
	require.NoError(t, err)
	r1.Occupancy(3, 6)
	assert.Equal(t, 3.0, testutil.ToFloat64(r2.occupied))
}

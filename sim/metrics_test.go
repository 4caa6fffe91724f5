package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ThroughputMbps(t *testing.T) {
	// GIVEN 3 stations that delivered 10 frames over 100000 µs
	m := NewMetrics([]StationStats{
		{ID: 0, Successes: 5, Failures: 1, TransmittedBits: 5 * 8184},
		{ID: 1, Successes: 3, Failures: 2, TransmittedBits: 3 * 8184},
		{ID: 2, Successes: 2, Failures: 0, TransmittedBits: 2 * 8184},
	}, 100000)

	// THEN throughput is bits per µs
	assert.InDelta(t, 10*8184.0/100000.0, m.ThroughputMbps(), 1e-12)
}

func TestMetrics_ZeroElapsed(t *testing.T) {
	m := NewMetrics([]StationStats{{ID: 0, Successes: 1, TransmittedBits: 8}}, 0)
	assert.Equal(t, 0.0, m.ThroughputMbps())
}

func TestMetrics_Summarize(t *testing.T) {
	m := NewMetrics([]StationStats{
		{ID: 0, Successes: 3, Failures: 1, TransmittedBits: 300},
		{ID: 1, Successes: 1, Failures: 3, TransmittedBits: 100},
	}, 1000)

	s := m.Summarize()

	assert.Equal(t, 4, s.Successes)
	assert.Equal(t, 4, s.Failures)
	assert.Equal(t, int64(400), s.TotalBits)
	assert.Equal(t, 0.5, s.AggregateSuccessProb)
	assert.InDelta(t, 0.5, s.MeanSuccessProb, 1e-12)
	// sample std dev of {0.75, 0.25}
	assert.InDelta(t, 0.35355, s.StdDevSuccessProb, 1e-4)
	// Jain: 400² / (2·(300²+100²)) = 0.8
	assert.InDelta(t, 0.8, s.FairnessIndex, 1e-12)
	assert.Equal(t, 4, s.MinSamples)
	assert.Equal(t, 4, s.MaxSamples)
	assert.Equal(t, 0, s.StationsWithoutAnySample)
}

func TestMetrics_Summarize_EdgeCases(t *testing.T) {
	empty := NewMetrics(nil, 0).Summarize()
	assert.Equal(t, Summary{}, empty)

	single := NewMetrics([]StationStats{{ID: 0}}, 10).Summarize()
	assert.Equal(t, 0.0, single.MeanSuccessProb)
	assert.Equal(t, 1.0, single.FairnessIndex, "all-zero allocation is reported as fair")
	assert.Equal(t, 1, single.StationsWithoutAnySample)
}

func TestMetrics_Print(t *testing.T) {
	m := NewMetrics([]StationStats{
		{ID: 0, Successes: 3, Failures: 1, TransmittedBits: 300},
	}, 1000)

	var buf bytes.Buffer
	m.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Simulation Results")
	assert.Contains(t, out, "success prob 0.7500")
	assert.Contains(t, out, "Throughput")
}

func TestMetrics_FromScheduler(t *testing.T) {
	s := newTestScheduler(t, 4, false, 100)
	require.NoError(t, s.Run())

	m := s.Report()
	require.Len(t, m.Stations, 4)
	assert.Equal(t, s.Clock, m.ElapsedUs)
	assert.Greater(t, m.ThroughputMbps(), 0.0)
	assert.Less(t, m.ThroughputMbps(), 1.0, "throughput cannot exceed the 1 Mbit/s line rate")
}

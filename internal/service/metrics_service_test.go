package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCollectors(t *testing.T) {
	m := NewMetricsService()

	m.ObserveDBQuery("attendance_upsert", 5*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))

	m.RecordTimelineSkip()
	m.RecordRecompute()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timelineSkips))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recomputeTotal))
}

func TestMetricsServiceNilReceiverIsSafe(t *testing.T) {
	var m *MetricsService

	m.ObserveDBQuery("attendance_upsert", time.Millisecond)
	m.RecordCacheOperation(true, 0)
	m.RecordTimelineSkip()
	m.RecordRecompute()
	m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
	assert.NotNil(t, m.Handler())
}

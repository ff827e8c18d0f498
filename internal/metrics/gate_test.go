package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordGateRejection(t *testing.T) {
	m := getTestMetrics()

	m.RecordGateRejection("comment.delete", "forbidden")
	m.RecordGateRejection("comment.delete", "forbidden")
	m.RecordGateRejection("comment.delete", "unauthenticated")

	assert.Equal(t, 2.0, getCounterValue(t, m.GateRejectionsTotal.WithLabelValues("comment.delete", "forbidden")))
	assert.Equal(t, 1.0, getCounterValue(t, m.GateRejectionsTotal.WithLabelValues("comment.delete", "unauthenticated")))
}

func TestRecordCacheMetrics(t *testing.T) {
	m := getTestMetrics()

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.RecordCacheInvalidation("tag", nil)
	m.RecordCacheInvalidation("path", errors.New("redis down"))

	assert.Equal(t, 1.0, getCounterValue(t, m.CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, getCounterValue(t, m.CacheLookupsTotal.WithLabelValues("miss")))
	assert.Equal(t, 1.0, getCounterValue(t, m.CacheInvalidationsTotal.WithLabelValues("tag", "success")))
	assert.Equal(t, 1.0, getCounterValue(t, m.CacheInvalidationsTotal.WithLabelValues("path", "failure")))
}

func TestRealtimeMetrics(t *testing.T) {
	m := getTestMetrics()

	m.SetRealtimeConnections(4)
	m.RecordRealtimeEvent("invalidate")

	assert.Equal(t, 4.0, getGaugeValue(t, m.RealtimeConnections))
	assert.Equal(t, 1.0, getCounterValue(t, m.RealtimeEventsTotal.WithLabelValues("invalidate")))
}

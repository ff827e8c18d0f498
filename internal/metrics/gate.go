package metrics

// RecordGateRejection counts a request the gate stopped before its handler ran
func (m *Metrics) RecordGateRejection(route, reason string) {
	m.safeExecute("RecordGateRejection", func() {
		m.GateRejectionsTotal.WithLabelValues(route, reason).Inc()
	})
}

// RecordCacheLookup counts a read view cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	m.safeExecute("RecordCacheLookup", func() {
		result := "miss"
		if hit {
			result = "hit"
		}
		m.CacheLookupsTotal.WithLabelValues(result).Inc()
	})
}

// RecordCacheInvalidation counts one tag or path invalidation attempt
func (m *Metrics) RecordCacheInvalidation(kind string, err error) {
	m.safeExecute("RecordCacheInvalidation", func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.CacheInvalidationsTotal.WithLabelValues(kind, result).Inc()
	})
}

// SetRealtimeConnections sets the number of open event streams
func (m *Metrics) SetRealtimeConnections(count int) {
	m.safeExecute("SetRealtimeConnections", func() {
		m.RealtimeConnections.Set(float64(count))
	})
}

// RecordRealtimeEvent counts a published board event
func (m *Metrics) RecordRealtimeEvent(eventType string) {
	m.safeExecute("RecordRealtimeEvent", func() {
		m.RealtimeEventsTotal.WithLabelValues(eventType).Inc()
	})
}

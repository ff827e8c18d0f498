package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats copies a sql.DBStats snapshot into the pool gauges. Wait
// counts in DBStats are cumulative, so only the growth since the previous
// snapshot is added to the counters.
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.dbWaitMu.Lock()
		defer m.dbWaitMu.Unlock()
		if delta := stats.WaitCount - m.lastWaitCount; delta > 0 {
			m.DBConnectionWaitTotal.Add(float64(delta))
		}
		if delta := stats.WaitDuration - m.lastWaitDuration; delta > 0 {
			m.DBConnectionWaitDuration.Add(delta.Seconds())
		}
		m.lastWaitCount = stats.WaitCount
		m.lastWaitDuration = stats.WaitDuration
	})
}

// RecordDBQuery observes one gorm statement; operation is select, insert,
// update, delete or raw
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}

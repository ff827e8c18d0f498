package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks times every query, insert, update, delete and raw statement gorm runs
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			startTime, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), tx.Error)
		}
	}

	cb := db.Callback()
	registrations := []error{
		cb.Query().Before("gorm:query").Register("metrics:select_before", before),
		cb.Query().After("gorm:query").Register("metrics:select_after", after("select")),
		cb.Create().Before("gorm:create").Register("metrics:insert_before", before),
		cb.Create().After("gorm:create").Register("metrics:insert_after", after("insert")),
		cb.Update().Before("gorm:update").Register("metrics:update_before", before),
		cb.Update().After("gorm:update").Register("metrics:update_after", after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete_before", before),
		cb.Delete().After("gorm:delete").Register("metrics:delete_after", after("delete")),
		cb.Raw().Before("gorm:raw").Register("metrics:raw_before", before),
		cb.Raw().After("gorm:raw").Register("metrics:raw_after", after("raw")),
	}
	for _, err := range registrations {
		if err != nil {
			return err
		}
	}
	return nil
}

// StartDBStatsCollector reports pool stats every interval until ctx is done
func StartDBStatsCollector(ctx context.Context, db *gorm.DB, recorder MetricsRecorder, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-ctx.Done():
				return
			}
		}
	}()
}

package metrics

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const startKey = "metrics:start"

// InstrumentDB registers gorm callbacks that time every query, row scan
// and insert issued through db.
func (m *Metrics) InstrumentDB(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{
			operation: "select",
			before:    cb.Query().Before("gorm:query").Register,
			after:     cb.Query().After("gorm:query").Register,
		},
		{
			operation: "row",
			before:    cb.Row().Before("gorm:row").Register,
			after:     cb.Row().After("gorm:row").Register,
		},
		{
			operation: "insert",
			before:    cb.Create().Before("gorm:create").Register,
			after:     cb.Create().After("gorm:create").Register,
		},
	}

	for _, h := range hooks {
		if err := h.before("metrics:before_"+h.operation, startTimer); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+h.operation, m.stopTimer(h.operation)); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (m *Metrics) stopTimer(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		m.ObserveDBQuery(operation, table, start)
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			m.dbQueryErrors.WithLabelValues(operation, table).Inc()
		}
	}
}

package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	advanceCounterSQL = `UPDATE id_counters SET value = value + 1, updated_at = ? WHERE entity = ? RETURNING value`

	// The seed only applies to the first insert; a concurrent winner turns the
	// statement into a plain increment.
	seedCounterSQL = `INSERT INTO id_counters (entity, value, updated_at)
VALUES (?, (SELECT COUNT(*) FROM %s) + 1, ?)
ON CONFLICT (entity) DO UPDATE SET value = id_counters.value + 1, updated_at = excluded.updated_at
RETURNING value`
)

// DBCounter keeps sequences in the id_counters table.
type DBCounter struct {
	db *gorm.DB
}

func NewDBCounter(db *gorm.DB) *DBCounter {
	return &DBCounter{db: db}
}

func (c *DBCounter) Next(ctx context.Context, f Format) (int64, error) {
	now := time.Now()
	conn := c.db.WithContext(ctx)

	var value int64
	err := conn.Raw(advanceCounterSQL, now, f.Entity).Row().Scan(&value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("advance %s counter: %w", f.Entity, err)
	}

	if err := conn.Raw(fmt.Sprintf(seedCounterSQL, f.Table), f.Entity, now).Row().Scan(&value); err != nil {
		return 0, fmt.Errorf("seed %s counter: %w", f.Entity, err)
	}
	return value, nil
}

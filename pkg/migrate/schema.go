package migrate

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
)

// TableStatus is one row of a sqlite schema report.
type TableStatus struct {
	Table   string
	Present bool
}

// ModelTables lists the table behind every persisted model, in creation order.
func ModelTables() ([]string, error) {
	cache := &sync.Map{}
	all := models.All()
	tables := make([]string, 0, len(all))
	for _, model := range all {
		parsed, err := schema.Parse(model, cache, schema.NamingStrategy{})
		if err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		tables = append(tables, parsed.Table)
	}
	return tables, nil
}

// SchemaStatus reports which model tables exist. sqlite databases carry no
// goose history, so this replaces `goose status` for them.
func SchemaStatus(ctx context.Context, conn *gorm.DB) ([]TableStatus, error) {
	tables, err := ModelTables()
	if err != nil {
		return nil, err
	}
	migrator := conn.WithContext(ctx).Migrator()
	report := make([]TableStatus, 0, len(tables))
	for _, table := range tables {
		report = append(report, TableStatus{Table: table, Present: migrator.HasTable(table)})
	}
	return report, nil
}

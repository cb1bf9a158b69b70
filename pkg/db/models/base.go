package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Money fields serialize as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&IDCounter{},
		&Order{},
		&CustomOrder{},
		&CustomOrderDash{},
		&DashNote{},
		&Review{},
		&Complaint{},
		&Customer{},
		&CustomerAddress{},
		&Product{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

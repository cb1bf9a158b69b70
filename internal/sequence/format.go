package sequence

import (
	"fmt"
	"strconv"
	"time"
)

// Format describes how an entity's human readable identifier is rendered.
type Format struct {
	// Entity keys the counter row and the metric label.
	Entity string
	Prefix string
	Width  int
	// Table is counted to seed a counter that is missing or was reset.
	Table string
}

var (
	OrderFormat       = Format{Entity: "orders", Prefix: "ORD", Width: 4, Table: "orders"}
	CustomOrderFormat = Format{Entity: "custom_orders", Prefix: "CB-", Width: 4, Table: "custom_orders"}
	CustomerFormat    = Format{Entity: "customers", Prefix: "CUST", Width: 4, Table: "customers"}
	ProductFormat     = Format{Entity: "products", Prefix: "PROD", Width: 4, Table: "products"}
)

// Render pads n to the format width. Wider values are printed in full.
func (f Format) Render(n int64) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, n)
}

// Fallback renders the timestamp identifier used when the counter is unavailable.
func (f Format) Fallback(now time.Time) string {
	return f.Prefix + strconv.FormatInt(now.UnixMilli(), 10)
}

package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

// LikeEscape is the ESCAPE clause paired with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx rebinds the repository to tx. A nil tx keeps the current connection.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// ContainsPattern lowercases q and escapes LIKE wildcards so user input only
// ever matches literally.
func ContainsPattern(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// ByRef scopes a query to a UUID primary key or, failing to parse, the
// human readable code column.
func ByRef(ref, codeColumn string) func(*gorm.DB) *gorm.DB {
	ref = strings.TrimSpace(ref)
	return func(db *gorm.DB) *gorm.DB {
		if id, err := uuid.Parse(ref); err == nil {
			return db.Where("id = ?", id)
		}
		return db.Where(codeColumn+" = ?", ref)
	}
}

// Page applies offset/limit for page-number pagination.
func Page(params pagination.Params) func(*gorm.DB) *gorm.DB {
	p := params.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

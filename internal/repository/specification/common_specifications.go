package specification

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderBy applies ordering. Field must come from a fixed column list.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	if s.N <= 0 {
		return db
	}
	return db.Limit(s.N)
}

// ColumnEqualsFold matches a whitelisted column case-insensitively. The value
// is always bound as a parameter.
type ColumnEqualsFold struct {
	Column string
	Value  string
}

func (s ColumnEqualsFold) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", s.Column), s.Value)
}

// DateBetween bounds a timestamp column; either end may be open.
type DateBetween struct {
	Column string
	From   *time.Time
	To     *time.Time
}

func (s DateBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where(fmt.Sprintf("%s >= ?", s.Column), *s.From)
	}
	if s.To != nil {
		db = db.Where(fmt.Sprintf("%s < ?", s.Column), *s.To)
	}
	return db
}

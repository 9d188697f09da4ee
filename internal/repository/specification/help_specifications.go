package specification

import "gorm.io/gorm"

// CorpusOrder sorts chunks the way the index breaks similarity ties.
type CorpusOrder struct{}

func (s CorpusOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("source_title ASC").Order("chunk_index ASC")
}

type ExcludeUnderConstruction struct{}

func (s ExcludeUnderConstruction) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("under_construction = ?", false)
}

package repository

import (
	"fmt"

	"academy/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextSequence increments a named counter inside tx. The UPDATE holds the
// row lock until tx ends, so concurrent callers get distinct values.
func nextSequence(tx *gorm.DB, name string) (int64, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ds.Sequence{Name: name}).Error
	if err != nil {
		return 0, fmt.Errorf("init sequence %s: %w", name, err)
	}

	res := tx.Model(&ds.Sequence{}).Where("name = ?", name).UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", name, res.Error)
	}

	var seq ds.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", name, err)
	}
	return seq.Value, nil
}

// FormatNumber renders PREFIX-YYYY-NNNNNN
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

func sequenceName(kind string, year int) string {
	return fmt.Sprintf("%s:%d", kind, year)
}

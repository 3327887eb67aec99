package repository

import (
	"gorm.io/gorm"
)

// dedupe drops zero and repeated ids, keeping first-seen order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// requireRow returns missing when no row of m's table has id.
func requireRow(tx *gorm.DB, m any, id uint64, missing error) error {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// requireAll returns ErrInvalidParent unless every id exists in m's table.
func requireAll(tx *gorm.DB, m any, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(m).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrInvalidParent
	}
	return nil
}

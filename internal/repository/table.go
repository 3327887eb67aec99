package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Scope narrows a query (filters, ordering).
type Scope = func(*gorm.DB) *gorm.DB

// Table is the plain CRUD surface shared by every catalog entity.  Entity
// repositories embed it and add their own queries.
type Table[T any] struct {
	DB    *gorm.DB
	Name  string // used in error context
	Order string // default ORDER BY for List
}

// NewTable returns a Table ordered by order (e.g. "name ASC").
func NewTable[T any](db *gorm.DB, name, order string) Table[T] {
	return Table[T]{DB: db, Name: name, Order: order}
}

// List returns all rows matching scopes.
func (t Table[T]) List(ctx context.Context, scopes ...Scope) ([]T, error) {
	q := t.DB.WithContext(ctx).Scopes(scopes...)
	if t.Order != "" {
		q = q.Order(t.Order)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, translate("list "+t.Name, err)
	}
	return out, nil
}

// Get fetches one row by primary key.
func (t Table[T]) Get(ctx context.Context, id uint64) (*T, error) {
	v := new(T)
	if err := t.DB.WithContext(ctx).First(v, id).Error; err != nil {
		return nil, translate("get "+t.Name, err)
	}
	return v, nil
}

// Exists reports whether a row with id exists.
func (t Table[T]) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	if err := t.DB.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate("exists "+t.Name, err)
	}
	return n > 0, nil
}

// Create inserts v and fills its generated fields.
func (t Table[T]) Create(ctx context.Context, v *T) error {
	return translate("create "+t.Name, t.DB.WithContext(ctx).Create(v).Error)
}

// Save writes every column of v.  v must carry its primary key.
func (t Table[T]) Save(ctx context.Context, v *T) error {
	return translate("update "+t.Name, t.DB.WithContext(ctx).Save(v).Error)
}

// Delete removes the row with id; ErrNotFound when nothing was deleted.
func (t Table[T]) Delete(ctx context.Context, id uint64) error {
	res := t.DB.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate("delete "+t.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows matching scopes.
func (t Table[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := t.DB.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error
	return n, translate("count "+t.Name, err)
}

// IsNotFound reports whether err means the row is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a unique or dependency conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

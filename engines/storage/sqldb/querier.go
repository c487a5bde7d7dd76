package sqldb

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type tableQuerier[E any] struct {
	*gorm.DB
	tableName        string
	primaryKeyColumn string
}

func newTableQuerier[E any](db *gorm.DB, tableName string, primaryKeyColumn string) *tableQuerier[E] {
	return &tableQuerier[E]{
		DB:               db,
		tableName:        tableName,
		primaryKeyColumn: primaryKeyColumn,
	}
}

// SelectExists selects the first row matching queryID. If queryCol is empty
// or nil, the primary key column is used.
func (db *tableQuerier[E]) SelectExists(ctx context.Context, queryID any, queryCol *string) (bool, *E, error) {
	searchCol := db.primaryKeyColumn
	if queryCol != nil && *queryCol != "" {
		searchCol = *queryCol
	}

	var elem E
	tx := db.Table(db.tableName).WithContext(ctx).Limit(1).Find(&elem, fmt.Sprintf("%s = ?", searchCol), queryID)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil, nil
	}

	return true, &elem, nil
}

func (db *tableQuerier[E]) Insert(ctx context.Context, elem *E) (*E, error) {
	tx := db.Table(db.tableName).WithContext(ctx).Create(elem)
	if err := tx.Error; err != nil {
		return nil, err
	}

	return elem, nil
}

// UpdateColumns sets columns on the row identified by elemID. It fails with
// gorm.ErrRecordNotFound when no row matches.
func (db *tableQuerier[E]) UpdateColumns(ctx context.Context, elemID any, columns map[string]any) error {
	tx := db.Table(db.tableName).WithContext(ctx).Where(fmt.Sprintf("%s = ?", db.primaryKeyColumn), elemID).Updates(columns)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SelectWhere returns every row matching query, sorted by orderBy. A nil
// query selects the whole table and a limit of 0 or less is unbounded.
func (db *tableQuerier[E]) SelectWhere(ctx context.Context, orderBy string, limit int, query any, args ...any) ([]E, error) {
	tx := db.Table(db.tableName).WithContext(ctx)
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if orderBy != "" {
		tx = tx.Order(orderBy)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	elems := []E{}
	if err := tx.Find(&elems).Error; err != nil {
		return nil, err
	}

	return elems, nil
}

// Delete removes the row identified by elemID. It fails with
// gorm.ErrRecordNotFound when no row matches.
func (db *tableQuerier[E]) Delete(ctx context.Context, elemID any) error {
	var elem E
	tx := db.Table(db.tableName).WithContext(ctx).Where(fmt.Sprintf("%s = ?", db.primaryKeyColumn), elemID).Delete(&elem)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

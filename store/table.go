package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"portfolio/models"
)

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

func (o Order) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

func tableOf[T models.Record]() string {
	var zero T
	return zero.TableName()
}

func (c *Client) query(ctx context.Context, orders []Order) *gorm.DB {
	q := c.db.WithContext(ctx)
	for _, o := range orders {
		q = q.Order(o.String())
	}
	return q
}

// List returns every row of T's table in the given order.
func List[T models.Record](ctx context.Context, c *Client, orders ...Order) ([]T, error) {
	table := tableOf[T]()
	if !c.canRead(table) {
		return nil, fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	var rows []T
	if err := c.query(ctx, orders).Find(&rows).Error; err != nil {
		return nil, translate(table, err)
	}
	return rows, nil
}

// Single returns the first row of T's table, or ErrNotFound.
func Single[T models.Record](ctx context.Context, c *Client, orders ...Order) (T, error) {
	var row T
	table := tableOf[T]()
	if !c.canRead(table) {
		return row, fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	err := c.query(ctx, orders).Limit(1).Take(&row).Error
	return row, translate(table, err)
}

// Get returns the row with the given id, or ErrNotFound.
func Get[T models.Record](ctx context.Context, c *Client, id string) (T, error) {
	var row T
	table := tableOf[T]()
	if !c.canRead(table) {
		return row, fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	err := c.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	return row, translate(table, err)
}

// Insert creates row. On success row carries the assigned id and timestamps.
func Insert[T models.Record](ctx context.Context, c *Client, row *T) error {
	table := tableOf[T]()
	if !c.canWrite(table) {
		return fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	return translate(table, c.db.WithContext(ctx).Create(row).Error)
}

// Update overwrites every column of the row with the given id except id and
// created_at, then reloads row from the store. There is no version check:
// the last writer wins.
func Update[T models.Record](ctx context.Context, c *Client, id string, row *T) error {
	table := tableOf[T]()
	if !c.canWrite(table) {
		return fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	res := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return translate(table, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", table, ErrNotFound)
	}
	var saved T
	if err := c.db.WithContext(ctx).Where("id = ?", id).Take(&saved).Error; err != nil {
		return translate(table, err)
	}
	*row = saved
	return nil
}

// Delete removes the row with the given id.
func Delete[T models.Record](ctx context.Context, c *Client, id string) error {
	table := tableOf[T]()
	if !c.canWrite(table) {
		return fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(table, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", table, ErrNotFound)
	}
	return nil
}

// DeleteAll empties T's table.
func DeleteAll[T models.Record](ctx context.Context, c *Client) error {
	table := tableOf[T]()
	if !c.canWrite(table) {
		return fmt.Errorf("%s: %w", table, ErrPermissionDenied)
	}
	err := c.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error
	return translate(table, err)
}

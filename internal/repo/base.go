package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 100

// Base holds the gorm handle shared by table repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// InTx runs fn inside a transaction bound to ctx. A repository already bound
// to a transaction reuses it through gorm's nested savepoints.
func (b Base) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// UpsertOn inserts rows in batches; a row whose key column already exists
// has updateColumns overwritten instead.
func UpsertOn(tx *gorm.DB, rows any, key string, updateColumns []string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).CreateInBatches(rows, defaultBatchSize).Error
}

// DeleteExcept removes every row of model whose key is not in keep and
// returns the number of rows removed. An empty keep list deletes nothing.
func DeleteExcept(tx *gorm.DB, model any, key string, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}
	res := tx.Where(clause.Not(clause.IN{Column: clause.Column{Name: key}, Values: toValues(keep)})).Delete(model)
	return res.RowsAffected, res.Error
}

func toValues(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

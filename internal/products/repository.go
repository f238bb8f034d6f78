package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Repository reads and writes the products table.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns every product in feed order.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var row models.Product
	err := r.DB(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &row, nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

var productColumns = []string{
	"position", "name", "description", "image", "category",
	"price", "rating", "reviews", "discount_percent", "updated_at",
}

// Upsert inserts or replaces products by id inside one transaction.
func (r *Repository) Upsert(ctx context.Context, rows []models.Product) error {
	if len(rows) == 0 {
		return nil
	}
	return r.InTx(ctx, func(tx *gorm.DB) error {
		if err := repo.UpsertOn(tx, rows, "id", productColumns); err != nil {
			return fmt.Errorf("upsert products: %w", err)
		}
		return nil
	})
}

// Load implements catalog.Source.
func (r *Repository) Load(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomain(row))
	}
	return out, nil
}

// ImportResult counts what an import changed.
type ImportResult struct {
	Upserted int
	Pruned   int64
}

// Import validates a product feed and upserts it, keeping feed order as
// position. With prune set, products missing from the feed are deleted in the
// same transaction.
func (r *Repository) Import(ctx context.Context, products []catalog.Product, prune bool) (ImportResult, error) {
	if err := catalog.ValidateSet(products); err != nil {
		return ImportResult{}, err
	}
	rows := make([]models.Product, 0, len(products))
	ids := make([]string, 0, len(products))
	for i, p := range products {
		rows = append(rows, ToModel(p, i))
		ids = append(ids, p.ID.String())
	}

	var result ImportResult
	err := r.InTx(ctx, func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := repo.UpsertOn(tx, rows, "id", productColumns); err != nil {
				return fmt.Errorf("upsert products: %w", err)
			}
		}
		result.Upserted = len(rows)
		if !prune {
			return nil
		}
		pruned, err := repo.DeleteExcept(tx, &models.Product{}, "id", ids)
		if err != nil {
			return fmt.Errorf("prune products: %w", err)
		}
		result.Pruned = pruned
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

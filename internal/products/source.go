package product

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// SourceParams groups what NewSource may wire together.
type SourceParams struct {
	Config config.CatalogConfig
	// DB is required when the catalog source is "db".
	DB *gorm.DB
	// Cache wraps the origin in a redis read-through cache when set.
	Cache  cacheStore
	Logger *logger.Logger
}

// NewSource builds the configured product source.
func NewSource(params SourceParams) (catalog.Source, error) {
	var origin catalog.Source
	if params.Config.UsesDB() {
		if params.DB == nil {
			return nil, fmt.Errorf("database connection required for %s=%s", config.EnvCatalogSource, config.CatalogSourceDB)
		}
		origin = NewRepository(params.DB)
	} else {
		if params.Config.ProductsFile == "" {
			return nil, fmt.Errorf("%s is required", config.EnvCatalogProductsFile)
		}
		origin = NewFileSource(params.Config.ProductsFile)
	}

	if params.Cache == nil {
		return origin, nil
	}
	return NewCachedSource(origin, params.Cache, params.Config.CacheTTL, params.Logger)
}

package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// CatalogRefreshJobParams configure periodic product reloads.
type CatalogRefreshJobParams struct {
	Logger  *logger.Logger
	Catalog catalogLoader
	Source  catalog.Source
}

type catalogLoader interface {
	Load(ctx context.Context, src catalog.Source) error
}

// NewCatalogRefreshJob builds the cron job that reloads the product snapshot.
// A failed reload keeps the previous snapshot.
func NewCatalogRefreshJob(params CatalogRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &catalogRefreshJob{
		logg:    params.Logger,
		catalog: params.Catalog,
		source:  params.Source,
	}, nil
}

type catalogRefreshJob struct {
	logg    *logger.Logger
	catalog catalogLoader
	source  catalog.Source
}

func (j *catalogRefreshJob) Name() string { return "catalog-refresh" }

func (j *catalogRefreshJob) Run(ctx context.Context) error {
	if err := j.catalog.Load(ctx, j.source); err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}
	return nil
}

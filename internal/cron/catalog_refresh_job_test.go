package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func TestCatalogRefreshJobReloads(t *testing.T) {
	c := catalog.New(nil)
	calls := 0
	src := catalog.SourceFunc(func(context.Context) ([]catalog.Product, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("feed down")
		}
		return []catalog.Product{{ID: "1", Name: "Lamp"}}, nil
	})
	job, err := NewCatalogRefreshJob(CatalogRefreshJobParams{Logger: logger.Nop(), Catalog: c, Source: src})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected second run to fail")
	}
	if len(c.Products()) != 1 {
		t.Fatalf("failed refresh should keep the previous snapshot")
	}
	status, loadErr := c.Status()
	if status != enums.CatalogStatusReady || loadErr == nil {
		t.Fatalf("expected stale ready catalog with error, got %s %v", status, loadErr)
	}
}

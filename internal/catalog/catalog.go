package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Source fetches the full product set.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Product, error)

func (f SourceFunc) Load(ctx context.Context) ([]Product, error) {
	return f(ctx)
}

// Catalog holds the loaded product snapshot. The snapshot is replaced
// wholesale and never mutated, so readers may keep the slice they got.
type Catalog struct {
	logg     *logger.Logger
	recorder loadRecorder

	mu       sync.RWMutex
	products []Product
	byID     map[ID]Product
	status   enums.CatalogStatus
	loadErr  error
	loadedAt time.Time
}

type loadRecorder interface {
	CatalogLoaded(status string)
}

func New(logg *logger.Logger) *Catalog {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Catalog{
		logg:     logg,
		products: []Product{},
		byID:     map[ID]Product{},
		status:   enums.CatalogStatusLoading,
	}
}

// WithRecorder reports every load outcome to r.
func (c *Catalog) WithRecorder(r loadRecorder) *Catalog {
	c.recorder = r
	return c
}

func (c *Catalog) record(status enums.CatalogStatus) {
	if c.recorder != nil {
		c.recorder.CatalogLoaded(status.String())
	}
}

// Load fetches products from src and swaps in the new snapshot. On failure
// the previous snapshot (empty on first load) stays in place, and the status
// only turns failed when nothing was ever loaded.
func (c *Catalog) Load(ctx context.Context, src Source) error {
	ctx = c.logg.WithField(ctx, "component", "catalog")

	products, err := src.Load(ctx)
	if err == nil {
		err = ValidateSet(products)
	}
	if err != nil {
		c.mu.Lock()
		if c.loadedAt.IsZero() {
			c.status = enums.CatalogStatusFailed
		}
		c.loadErr = err
		c.mu.Unlock()
		c.logg.Error(ctx, "catalog load failed", err)
		c.record(enums.CatalogStatusFailed)
		return err
	}

	byID := make(map[ID]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	if products == nil {
		products = []Product{}
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.status = enums.CatalogStatusReady
	c.loadErr = nil
	c.loadedAt = time.Now().UTC()
	c.mu.Unlock()

	c.logg.Info(c.logg.WithField(ctx, "products", len(products)), "catalog loaded")
	c.record(enums.CatalogStatusReady)
	return nil
}

// Products returns the current snapshot. Callers must not modify it.
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

// Get looks a product up by id.
func (c *Catalog) Get(id ID) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Status reports the load state and the last load error.
func (c *Catalog) Status() (enums.CatalogStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status, c.loadErr
}

func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

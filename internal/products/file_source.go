package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
)

// FileSource reads the product feed from a JSON array on disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements catalog.Source.
func (s *FileSource) Load(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open product feed: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a JSON array of products.
func Decode(r io.Reader) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode product feed: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

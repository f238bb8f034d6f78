package product

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `[
  {"id": 1, "name": "Wireless Headphones", "description": "Over-ear", "image": "/img/1.jpg", "category": "Electronics", "price": 99.99, "rating": 4.5, "reviews": 120, "discount": 10},
  {"id": 2, "name": "Coffee Mug", "description": "Ceramic", "image": "/img/2.jpg", "category": "Home", "price": 12.5, "rating": 4, "reviews": 35}
]`

func TestFileSourceLoadsFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o600))

	products, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "1", products[0].ID.String())
	assert.Equal(t, "12.5", products[1].Price.String())
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	require.Error(t, err)
}

func TestDecodeRejectsMalformedFeed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": 1}`))
	require.Error(t, err)

	products, err := Decode(strings.NewReader(`null`))
	require.NoError(t, err)
	assert.NotNil(t, products)
}

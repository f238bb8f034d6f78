package pagination

import "math"

const (
	// DefaultPageSize is the catalog page size when none is configured.
	DefaultPageSize = 8
	// MaxPageSize caps how many items a single page may request.
	MaxPageSize = 100
	// MaxPage is the highest page number callers may request.
	MaxPage = math.MaxInt32
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(count/size). An empty set has zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Bounds returns the half-open [start, end) window of page within count items.
// Pages outside the set yield an empty window (start == end).
func Bounds(page, size, count int) (int, int) {
	if page < 1 || size <= 0 || count <= 0 {
		return 0, 0
	}
	if page-1 > (count-1)/size {
		return count, count
	}
	start := (page - 1) * size
	if size >= count-start {
		return start, count
	}
	return start, start + size
}

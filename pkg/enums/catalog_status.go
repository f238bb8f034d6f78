package enums

// CatalogStatus tracks the product load lifecycle.
type CatalogStatus string

const (
	CatalogStatusLoading CatalogStatus = "loading"
	CatalogStatusReady   CatalogStatus = "ready"
	CatalogStatusFailed  CatalogStatus = "failed"
)

// String implements fmt.Stringer.
func (s CatalogStatus) String() string {
	return string(s)
}

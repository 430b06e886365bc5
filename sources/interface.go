package sources

import (
	"context"

	"github.com/raushankrgupta/storefront-listings/models"
)

// Source defines the interface for all listing sources
type Source interface {
	// CanFetch checks if the source can handle the given URI
	CanFetch(uri string) bool
	// FetchRows retrieves the raw listing rows from the given URI
	FetchRows(ctx context.Context, uri string) ([]models.RawRow, error)
}

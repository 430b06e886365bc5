package sources

import (
	"fmt"

	"github.com/raushankrgupta/storefront-listings/sources/bucket"
	"github.com/raushankrgupta/storefront-listings/sources/catalog"
	"github.com/raushankrgupta/storefront-listings/sources/file"
	"github.com/raushankrgupta/storefront-listings/sources/web"
)

// GetSource returns the source able to fetch the given URI
func GetSource(uri string) (Source, error) {
	// Register sources here; the file source accepts any plain path so it goes last
	registered := []Source{
		catalog.NewCatalogSource(),
		bucket.NewBucketSource(),
		web.NewWebSource(),
		file.NewFileSource(),
	}

	for _, s := range registered {
		if s.CanFetch(uri) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("no listing source found for uri: %q", uri)
}

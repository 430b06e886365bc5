package web

import (
	"context"
	"strings"

	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources/base"
)

// WebSource fetches listings over HTTP(S)
type WebSource struct {
	*base.BaseSource
}

func NewWebSource() *WebSource {
	return &WebSource{
		BaseSource: base.NewBaseSource(),
	}
}

func (s *WebSource) CanFetch(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s *WebSource) FetchRows(ctx context.Context, uri string) ([]models.RawRow, error) {
	return s.FetchRowsHTTP(ctx, uri)
}

package catalog

import (
	"context"
	"strings"

	"github.com/raushankrgupta/storefront-listings/config"
	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/utils"
)

// CatalogSource reads listing records from mongo
type CatalogSource struct {
	// Store defaults to a MongoStore on config.MongoDatabase, connected with the source URI
	Store Store
}

func NewCatalogSource() *CatalogSource {
	return &CatalogSource{}
}

func (s *CatalogSource) CanFetch(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "mongodb://") || strings.HasPrefix(lower, "mongodb+srv://")
}

func (s *CatalogSource) FetchRows(ctx context.Context, uri string) ([]models.RawRow, error) {
	store := s.Store
	if store == nil {
		if err := utils.ConnectMongo(uri); err != nil {
			return nil, err
		}
		store = NewMongoStore(config.MongoDatabase)
	}

	records, err := store.Records(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RawRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	return rows, nil
}

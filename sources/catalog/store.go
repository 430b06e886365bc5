package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the mongo collection holding listing records
const CollectionName = "listings"

// Store reads and replaces the stored listing records
type Store interface {
	Records(ctx context.Context) ([]models.ListingRecord, error)
	Replace(ctx context.Context, batchID string, records []models.ListingRecord) error
}

// MongoStore keeps listing records in a mongo collection, ordered by position
type MongoStore struct {
	Database string
}

func NewMongoStore(database string) *MongoStore {
	return &MongoStore{Database: database}
}

func (m *MongoStore) Records(ctx context.Context) ([]models.ListingRecord, error) {
	collection, err := utils.GetCollection(m.Database, CollectionName)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ListingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return records, nil
}

// Replace swaps the whole collection for the new batch. The new batch is
// written first, then older batches are removed.
func (m *MongoStore) Replace(ctx context.Context, batchID string, records []models.ListingRecord) error {
	collection, err := utils.GetCollection(m.Database, CollectionName)
	if err != nil {
		return err
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(records))
	for i := range records {
		records[i].Position = i
		records[i].BatchID = batchID
		records[i].CreatedAt = now
		docs = append(docs, records[i])
	}

	if len(docs) > 0 {
		if _, err := collection.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert listings: %w", err)
		}
	}
	if _, err := collection.DeleteMany(ctx, bson.M{"batch_id": bson.M{"$ne": batchID}}); err != nil {
		return fmt.Errorf("remove previous listings: %w", err)
	}
	return nil
}

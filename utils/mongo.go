package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	Client  *mongo.Client
	mongoMu sync.Mutex
)

// ConnectMongo initializes the MongoDB connection. Calling it again with a
// client already connected is a no-op.
func ConnectMongo(uri string) error {
	mongoMu.Lock()
	defer mongoMu.Unlock()
	if Client != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	Logger.Info("Connected to MongoDB")
	return nil
}

// GetCollection returns a handle to a MongoDB collection, or an error when
// no connection has been made.
func GetCollection(databaseName, collectionName string) (*mongo.Collection, error) {
	mongoMu.Lock()
	defer mongoMu.Unlock()
	if Client == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return Client.Database(databaseName).Collection(collectionName), nil
}

// DisconnectMongo closes the shared client if one is open.
func DisconnectMongo(ctx context.Context) {
	mongoMu.Lock()
	defer mongoMu.Unlock()
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		Logger.Warn("mongodb disconnect failed", zap.Error(err))
	}
	Client = nil
}

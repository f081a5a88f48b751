package backends

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dataobs/lens/pkg/storage"
)

// MongoStore implements storage.DocumentStore against MongoDB
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(config storage.Config) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.MongoTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI).
		SetConnectTimeout(config.MongoTimeout).
		SetServerSelectionTimeout(config.MongoTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo configuration: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(config.MongoDatabase),
	}, nil
}

// Aggregate runs an aggregation pipeline and returns the decoded rows
func (s *MongoStore) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classifyMongoErr(err)
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, classifyMongoErr(err)
	}
	return rows, nil
}

// InsertOne stores a single document
func (s *MongoStore) InsertOne(ctx context.Context, collection string, document interface{}) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, document); err != nil {
		return classifyMongoErr(err)
	}
	return nil
}

// Ping checks MongoDB connectivity
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// classifyMongoErr maps driver errors onto the storage error taxonomy.
// Network and timeout failures mean the store is unreachable; a command error
// means the server parsed and rejected the pipeline.
func classifyMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return fmt.Errorf("%w: %v", storage.ErrQueryRejected, err)
	}
	return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
}

package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrUnavailable indicates a backing store could not be reached or timed out.
var ErrUnavailable = errors.New("backend unavailable")

// ErrQueryRejected indicates a backing store rejected the query as malformed.
// For valid time windows this is a programming defect and is never retried.
var ErrQueryRejected = errors.New("backend rejected query")

// DocumentStore runs aggregation pipelines and single-document inserts against
// the document store holding creation events.
type DocumentStore interface {
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.M, error)
	InsertOne(ctx context.Context, collection string, document interface{}) error
}

// Bucket is one aggregation bucket returned by the search index.
type Bucket struct {
	Key         string
	KeyAsString string
	DocCount    int64
}

// AggregationResult maps aggregation names to their buckets.
type AggregationResult map[string][]Bucket

// SearchIndex runs bucket aggregations over the access-event index and indexes
// new access events.
type SearchIndex interface {
	// SearchAggregations executes a size=0 search and returns only the
	// aggregation buckets.
	SearchAggregations(ctx context.Context, index string, body map[string]interface{}) (AggregationResult, error)
	Index(ctx context.Context, index string, document interface{}) error
}

// CounterCache exposes the live usage counters. Counters reflect current
// state, not historical state: reads never depend on a time window, and a
// counter that was never initialized reads as zero.
type CounterCache interface {
	Get(ctx context.Context, key string) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
}

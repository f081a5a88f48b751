package metrics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dataobs/lens/pkg/storage"
)

// testWindow is a fixed one-day window used across the adapter tests
func testWindow() TimeWindow {
	return TimeWindow{
		Start: time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

// stubDocumentStore returns canned aggregation rows
type stubDocumentStore struct {
	rows      []bson.M
	aggErr    error
	inserted  []interface{}
	insertErr error

	lastCollection string
	lastPipeline   mongo.Pipeline
}

func (s *stubDocumentStore) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.M, error) {
	s.lastCollection = collection
	s.lastPipeline = pipeline
	if s.aggErr != nil {
		return nil, s.aggErr
	}
	return s.rows, nil
}

func (s *stubDocumentStore) InsertOne(ctx context.Context, collection string, document interface{}) error {
	s.lastCollection = collection
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, document)
	return nil
}

// stubSearchIndex returns canned aggregation buckets
type stubSearchIndex struct {
	aggs      storage.AggregationResult
	searchErr error
	indexed   []interface{}
	indexErr  error

	lastIndex string
	lastBody  map[string]interface{}
}

func (s *stubSearchIndex) SearchAggregations(ctx context.Context, index string, body map[string]interface{}) (storage.AggregationResult, error) {
	s.lastIndex = index
	s.lastBody = body
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.aggs, nil
}

func (s *stubSearchIndex) Index(ctx context.Context, index string, document interface{}) error {
	s.lastIndex = index
	if s.indexErr != nil {
		return s.indexErr
	}
	s.indexed = append(s.indexed, document)
	return nil
}

// stubCounterCache serves counters from plain maps
type stubCounterCache struct {
	values map[string]int64
	hashes map[string]map[string]int64
	err    error
}

func newStubCounterCache() *stubCounterCache {
	return &stubCounterCache{
		values: make(map[string]int64),
		hashes: make(map[string]map[string]int64),
	}
}

func (s *stubCounterCache) Get(ctx context.Context, key string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.values[key], nil
}

func (s *stubCounterCache) HGetAll(ctx context.Context, key string) (map[string]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hashes[key], nil
}

func (s *stubCounterCache) Incr(ctx context.Context, key string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.values[key]++
	return s.values[key], nil
}

func (s *stubCounterCache) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.hashes[key] == nil {
		s.hashes[key] = make(map[string]int64)
	}
	s.hashes[key][field] += incr
	return s.hashes[key][field], nil
}

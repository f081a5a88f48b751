package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/dataobs/lens/pkg/storage"
)

// ElasticIndex implements storage.SearchIndex against Elasticsearch
type ElasticIndex struct {
	client *elasticsearch.Client
}

// NewElasticIndex creates a client for the access-event index
func NewElasticIndex(config storage.Config) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.ElasticAddresses,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid elasticsearch configuration: %w", err)
	}
	return &ElasticIndex{client: client}, nil
}

// aggsEnvelope is the slice of the search response the engine cares about:
// every aggregation the core issues is bucketed, so a uniform decode works for
// date histograms and terms alike.
type aggsEnvelope struct {
	Aggregations map[string]struct {
		Buckets []struct {
			Key         interface{} `json:"key"`
			KeyAsString string      `json:"key_as_string"`
			DocCount    int64       `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// SearchAggregations executes a size=0 search and returns the aggregation buckets
func (e *ElasticIndex) SearchAggregations(ctx context.Context, index string, body map[string]interface{}) (storage.AggregationResult, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("%w: encode search body: %v", storage.ErrQueryRejected, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(&buf),
		e.client.Search.WithSize(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search returned %s", storage.ErrQueryRejected, res.Status())
	}

	var envelope aggsEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", storage.ErrUnavailable, err)
	}

	result := make(storage.AggregationResult, len(envelope.Aggregations))
	for name, agg := range envelope.Aggregations {
		buckets := make([]storage.Bucket, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			buckets = append(buckets, storage.Bucket{
				Key:         bucketKey(b.Key),
				KeyAsString: b.KeyAsString,
				DocCount:    b.DocCount,
			})
		}
		result[name] = buckets
	}
	return result, nil
}

// Index stores a single document
func (e *ElasticIndex) Index(ctx context.Context, index string, document interface{}) error {
	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", storage.ErrQueryRejected, err)
	}

	res, err := e.client.Index(index, bytes.NewReader(data), e.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index returned %s", storage.ErrQueryRejected, res.Status())
	}
	return nil
}

// Ping checks Elasticsearch connectivity
func (e *ElasticIndex) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: ping returned %s", storage.ErrUnavailable, res.Status())
	}
	return nil
}

// bucketKey renders a bucket key as a string. Terms buckets key on strings;
// date histogram buckets key on epoch millis, which arrive as float64.
func bucketKey(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case float64:
		return strconv.FormatInt(int64(k), 10)
	default:
		return fmt.Sprintf("%v", k)
	}
}

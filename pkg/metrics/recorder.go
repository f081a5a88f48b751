package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/dataobs/lens/pkg/storage"
)

// Recorder handles the raw per-event write paths. These are thin pass-through
// writes; all aggregation happens on the read side.
type Recorder struct {
	docs     storage.DocumentStore
	search   storage.SearchIndex
	counters storage.CounterCache
	db       *sql.DB
	index    string
}

// NewRecorder creates a new event recorder
func NewRecorder(docs storage.DocumentStore, search storage.SearchIndex, counters storage.CounterCache, db *sql.DB, index string) *Recorder {
	return &Recorder{docs: docs, search: search, counters: counters, db: db, index: index}
}

// AccessEvent is one data access, indexed for the access-pattern reports
type AccessEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	DataID    string    `json:"data_id"`
	Action    string    `json:"action"`
}

// CreationEvent is one data creation, stored for the creation reports
type CreationEvent struct {
	Timestamp time.Time `bson:"timestamp"`
	DataID    string    `bson:"data_id"`
	Source    string    `bson:"source"`
}

// RecordAccess indexes an access event and bumps the per-data and per-user counters
func (r *Recorder) RecordAccess(ctx context.Context, userID, dataID, action string) error {
	event := AccessEvent{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		DataID:    dataID,
		Action:    action,
	}

	if err := r.search.Index(ctx, r.index, event); err != nil {
		return classifyErr(BackendElastic, err)
	}

	if _, err := r.counters.Incr(ctx, "access_count:"+dataID); err != nil {
		return classifyErr(BackendRedis, err)
	}
	if _, err := r.counters.Incr(ctx, "user_access_count:"+userID); err != nil {
		return classifyErr(BackendRedis, err)
	}
	return nil
}

// RecordMovement inserts a movement row into the hypertable
func (r *Recorder) RecordMovement(ctx context.Context, dataID, source, destination string) error {
	query := `
		INSERT INTO data_movements (timestamp, data_id, source, destination, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), dataID, source, destination, "completed")
	if err != nil {
		return classifyErr(BackendTimescale, err)
	}
	return nil
}

// RecordCreation stores a creation event and advances the live usage counters
func (r *Recorder) RecordCreation(ctx context.Context, dataID, source string) error {
	event := CreationEvent{
		Timestamp: time.Now().UTC(),
		DataID:    dataID,
		Source:    source,
	}

	if err := r.docs.InsertOne(ctx, creationCollection, event); err != nil {
		return classifyErr(BackendMongo, err)
	}

	if _, err := r.counters.Incr(ctx, counterTotalRecords); err != nil {
		return classifyErr(BackendRedis, err)
	}
	if _, err := r.counters.HIncrBy(ctx, counterBySource, source, 1); err != nil {
		return classifyErr(BackendRedis, err)
	}
	return nil
}

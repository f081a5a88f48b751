package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dataobs/lens/pkg/storage"
)

// creationCollection holds one document per data creation event
const creationCollection = "data_creation"

// CreationMetrics queries the document store for data creation events
type CreationMetrics struct {
	docs storage.DocumentStore
}

// NewCreationMetrics creates a new creation metrics adapter
func NewCreationMetrics(docs storage.DocumentStore) *CreationMetrics {
	return &CreationMetrics{docs: docs}
}

// creationPipeline groups creation events inside the window by
// (date, hour of day, source). The window is inclusive on both ends. The sort
// by date then hour is load-bearing: trend_data is consumed in this order.
func creationPipeline(window TimeWindow) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "timestamp", Value: bson.D{
				{Key: "$gte", Value: window.Start},
				{Key: "$lte", Value: window.End},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: bson.D{{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$timestamp"},
				}}}},
				{Key: "hour", Value: bson.D{{Key: "$hour", Value: "$timestamp"}}},
				{Key: "source", Value: "$source"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.date", Value: 1},
			{Key: "_id.hour", Value: 1},
		}}},
	}
}

// Fetch runs the grouping pipeline and normalizes the rows into a CreationReport
func (m *CreationMetrics) Fetch(ctx context.Context, window TimeWindow) (*CreationReport, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	rows, err := m.docs.Aggregate(ctx, creationCollection, creationPipeline(window))
	if err != nil {
		return nil, classifyErr(BackendMongo, err)
	}

	return normalizeCreation(rows)
}

// normalizeCreation is a pure transformation of the grouped rows. An empty row
// set yields a zero-valued report, never nil.
func normalizeCreation(rows []bson.M) (*CreationReport, error) {
	report := &CreationReport{
		BySource:  make(map[string]int64),
		ByHour:    make(map[string]int64),
		TrendData: make([]TrendPoint, 0, len(rows)),
	}

	for _, row := range rows {
		id, ok := row["_id"].(bson.M)
		if !ok {
			return nil, fmt.Errorf("%w: creation row missing group key", storage.ErrQueryRejected)
		}

		date, _ := id["date"].(string)
		source, _ := id["source"].(string)
		hour := int(bsonInt(id["hour"]))
		count := bsonInt(row["count"])

		report.TrendData = append(report.TrendData, TrendPoint{
			Date:   date,
			Hour:   hour,
			Source: source,
			Count:  count,
		})

		report.BySource[source] += count
		report.ByHour[strconv.Itoa(hour)] += count
	}

	// total_count is derived from by_source so the two can never drift
	for _, count := range report.BySource {
		report.TotalCount += count
	}

	return report, nil
}

// bsonInt widens the numeric types the driver may decode a count into
func bsonInt(v interface{}) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

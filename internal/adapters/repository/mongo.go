package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReader reads collections from a MongoDB mirror of the platform
// database.
type MongoReader struct {
	client *mongo.Client
	db     *mongo.Database
}

// DialMongo connects to uri and selects database.
func DialMongo(ctx context.Context, uri, database string) (*MongoReader, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoReader{client: client, db: client.Database(database)}, nil
}

// FetchAll implements Reader.
func (r *MongoReader) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	cur, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, recordFromBSON(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects the client.
func (r *MongoReader) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func recordFromBSON(doc bson.M) Record {
	fields := make(map[string]any, len(doc))
	var id string
	for k, v := range doc {
		if k == "_id" {
			id = bsonID(v)
			continue
		}
		fields[k] = fromBSON(v)
	}
	if id == "" {
		if s, ok := fields["id"].(string); ok {
			id = s
		}
	}
	return Record{ID: id, Fields: fields}
}

func bsonID(v any) string {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// fromBSON converts driver types into the plain values ingestion expects.
func fromBSON(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Decimal128:
		f, err := parseDecimal(x)
		if err != nil {
			return x.String()
		}
		return f
	case int32:
		return int64(x)
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = fromBSON(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromBSON(e)
		}
		return out
	}
	return v
}

func parseDecimal(d primitive.Decimal128) (float64, error) {
	var f float64
	_, err := fmt.Sscan(d.String(), &f)
	return f, err
}

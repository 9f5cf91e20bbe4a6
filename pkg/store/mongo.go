// Package store persists layout runs. Unlike the cache, which holds
// recomputable bytes with a TTL, the store is the durable record of runs:
// it keeps positions together with run statistics and survives cache
// eviction.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
)

// RunStats summarizes a simulation run for the stored record.
type RunStats struct {
	Iterations  int     `bson:"iterations" json:"iterations"`
	FinalEnergy float64 `bson:"final_energy" json:"final_energy"`
	Converged   bool    `bson:"converged" json:"converged"`
	DurationMS  int64   `bson:"duration_ms" json:"duration_ms"`
}

// LayoutRecord is a persisted layout run, keyed by the graph content hash
// and the config hash that produced it.
type LayoutRecord struct {
	RunID      string                      `bson:"run_id" json:"run_id"`
	GraphHash  string                      `bson:"graph_hash" json:"graph_hash"`
	ConfigHash string                      `bson:"config_hash" json:"config_hash"`
	Positions  map[string]geometry.Vector3 `bson:"positions" json:"positions"`
	Stats      RunStats                    `bson:"stats" json:"stats"`
	CreatedAt  time.Time                   `bson:"created_at" json:"created_at"`
}

// LayoutStore persists and retrieves layout records.
type LayoutStore interface {
	// Save upserts a record by (graph hash, config hash).
	Save(ctx context.Context, rec *LayoutRecord) error

	// Load retrieves the record for (graph hash, config hash).
	// A missing record reports ErrCodeLayoutNotFound.
	Load(ctx context.Context, graphHash, configHash string) (*LayoutRecord, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

const layoutCollection = "layouts"

// MongoStore backs LayoutStore with a mongodb collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to mongodb at uri and uses the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(layoutCollection),
	}, nil
}

// Save upserts the record by (graph hash, config hash), stamping CreatedAt
// when unset.
func (s *MongoStore) Save(ctx context.Context, rec *LayoutRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"graph_hash": rec.GraphHash, "config_hash": rec.ConfigHash}
	_, err := s.coll.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save layout %s", rec.RunID)
	}
	return nil
}

// Load retrieves the record for (graph hash, config hash).
func (s *MongoStore) Load(ctx context.Context, graphHash, configHash string) (*LayoutRecord, error) {
	filter := bson.M{"graph_hash": graphHash, "config_hash": configHash}

	var rec LayoutRecord
	err := s.coll.FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeLayoutNotFound,
			"no stored layout for graph %s", graphHash)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load layout for graph %s", graphHash)
	}
	return &rec, nil
}

// Close disconnects from mongodb.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements LayoutStore.
var _ LayoutStore = (*MongoStore)(nil)

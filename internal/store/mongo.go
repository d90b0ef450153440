// internal/store/mongo.go
//
// The document store is a sharded Mongo-like deployment: one logical
// database per shard, named "<prefix><shard>", each with a "pages" and
// a "failed_tasks" collection. Inserts are unordered so one bad
// document doesn't block the rest of the batch, and a partial failure
// still reports how many documents actually landed.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	pagesCollection       = "pages"
	failedTasksCollection = "failed_tasks"
)

// Store is the batched writer's view of the document store. A single
// call never mixes shards, per the writer's batching contract.
type Store interface {
	InsertSuccesses(ctx context.Context, shard int64, records []SuccessRecord) (inserted int, err error)
	InsertFailures(ctx context.Context, shard int64, records []FailureRecord) (inserted int, err error)
}

// MongoStore is the Store implementation backed by a real mongo.Client.
type MongoStore struct {
	client *mongo.Client
	prefix string
}

// NewMongoStore constructs a MongoStore. prefix combines with a shard
// number to form the database name for that shard.
func NewMongoStore(client *mongo.Client, prefix string) *MongoStore {
	return &MongoStore{client: client, prefix: prefix}
}

func (s *MongoStore) InsertSuccesses(ctx context.Context, shard int64, records []SuccessRecord) (int, error) {
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	return s.insertMany(ctx, shard, pagesCollection, docs)
}

func (s *MongoStore) InsertFailures(ctx context.Context, shard int64, records []FailureRecord) (int, error) {
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	return s.insertMany(ctx, shard, failedTasksCollection, docs)
}

func (s *MongoStore) insertMany(ctx context.Context, shard int64, collection string, docs []interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	db := s.client.Database(s.databaseName(shard))
	coll := db.Collection(collection)

	result, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(result.InsertedIDs), nil
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		// With unordered writes every document without a write error
		// landed, so the batch size minus the write errors is the
		// writer's "inserted" total for this flush, not zero.
		inserted := len(docs) - len(bwe.WriteErrors)
		if inserted < 0 {
			inserted = 0
		}
		return inserted, nil
	}

	return 0, err
}

func (s *MongoStore) databaseName(shard int64) string {
	return s.prefix + formatShard(shard)
}

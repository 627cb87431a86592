package cache

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore adapts a mongo collection to the tier-2 DocStore handle.
// Expiry is the manager's job: documents carry an expires_at field and are
// lazily deleted on the read that finds them expired.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ DocStore = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) FindOne(ctx context.Context, key string) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) Upsert(ctx context.Context, doc Document) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"key": doc.Key},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"key": key})
	return err
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

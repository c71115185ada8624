package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persiste as sessões numa coleção com índice TTL em updated_at.
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

func NewMongoStore(db *mongo.Database, ttl time.Duration) *MongoStore {
	return &MongoStore{coll: db.Collection("sessions"), ttl: ttl}
}

func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().
			SetExpireAfterSeconds(int32(m.ttl.Seconds())).
			SetName("ttl_updated_at"),
	}
	_, err := m.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// TTL alterado: dropa e recria
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := m.coll.Indexes().DropOne(ctx, "ttl_updated_at"); dropErr != nil {
			return fmt.Errorf("drop index ttl_updated_at: %w", dropErr)
		}
		_, createErr := m.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// o monitor TTL do Mongo roda a cada ~60s
	if m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MongoStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.coll.Database().Client().Ping(ctx, nil)
}

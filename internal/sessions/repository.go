package sessions

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository stores sessions by token hash. Get returns (nil, nil) for unknown hashes.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, hash string) (*Session, error)
	Delete(ctx context.Context, hash string) error
	// DeleteBySub drops every session of one admin and reports how many went.
	DeleteBySub(ctx context.Context, sub string) (int64, error)
}

// MongoRepository keeps sessions in the sessions collection; the TTL index on
// expiresAt purges stale ones.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, s *Session) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, hash string) (*Session, error) {
	var s Session
	err := r.col.FindOne(ctx, bson.M{"_id": hash}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) Delete(ctx context.Context, hash string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": hash})
	return err
}

func (r *MongoRepository) DeleteBySub(ctx context.Context, sub string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"sub": sub})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

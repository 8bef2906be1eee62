package siteconfig

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("config document not found")

// Store reads and merges singleton documents by id.
type Store interface {
	Load(ctx context.Context, id string, out any) error
	Merge(ctx context.Context, id string, doc any) error
}

// MemoryStore keeps documents as bson maps so merges behave like a Mongo $set.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]bson.M)}
}

func (m *MemoryStore) Load(_ context.Context, id string, out any) error {
	m.mu.RLock()
	d, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (m *MemoryStore) Merge(_ context.Context, id string, doc any) error {
	fields, err := toM(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[id]
	if !ok {
		cur = bson.M{"_id": id}
		m.docs[id] = cur
	}
	for k, v := range fields {
		cur[k] = v
	}
	return nil
}

// MongoStore writes to the public_config collection with upserts.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Load(ctx context.Context, id string, out any) error {
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *MongoStore) Merge(ctx context.Context, id string, doc any) error {
	fields, err := toM(doc)
	if err != nil {
		return err
	}
	delete(fields, "_id")
	_, err = m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, options.Update().SetUpsert(true))
	return err
}

func toM(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Package imports records the outcome of prospect file imports.
package imports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

var ErrNotFound = errors.New("import job not found")

// Job is the persisted metadata of one import run.
type Job struct {
	JobID     string    `bson:"jobId" json:"jobId"`
	Source    string    `bson:"source" json:"source"`
	FileName  string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	Status    string    `bson:"status" json:"status"`
	Rows      int       `bson:"rows" json:"rows"`
	Deleted   int64     `bson:"deleted" json:"deleted"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Store interface {
	Save(ctx context.Context, j *Job) error
	Load(ctx context.Context, jobID string) (*Job, error)
}

// MongoStore upserts jobs into import_jobs keyed by jobId.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Save(ctx context.Context, j *Job) error {
	filter := bson.M{"jobId": j.JobID}
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": j}, opts); err != nil {
		return fmt.Errorf("save import job: %w", err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context, jobID string) (*Job, error) {
	var j Job
	if err := m.col.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (m *MemoryStore) Save(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.JobID] = *j
	return nil
}

func (m *MemoryStore) Load(_ context.Context, jobID string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

package leads

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores leads in the "leads" collection keyed by a string _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, l *Lead) error {
	_, err := m.col.InsertOne(ctx, l)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Lead{}
	for cur.Next(ctx) {
		var l Lead
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		// older documents were written before status/notes existed
		if l.Status == "" {
			l.Status = StatusNew
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, p Patch) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.AdminNotes != nil {
		set["adminNotes"] = *p.AdminNotes
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package prospects

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores prospects in public_150.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) List(ctx context.Context) ([]*Prospect, error) {
	opts := options.Find().SetSort(bson.D{{Key: keySeq, Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Prospect{}
	for cur.Next(ctx) {
		var p Prospect
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Prospect, error) {
	var p Prospect
	if err := m.col.FindOne(ctx, bson.M{keyID: id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) set(ctx context.Context, id string, fields bson.M) error {
	res, err := m.col.UpdateOne(ctx, bson.M{keyID: id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) SetStatus(ctx context.Context, id string, st CallStatus) error {
	return m.set(ctx, id, bson.M{keyStatus: st})
}

func (m *MongoRepo) SetComments(ctx context.Context, id string, comments []Comment) error {
	if comments == nil {
		comments = []Comment{}
	}
	return m.set(ctx, id, bson.M{keyComments: comments})
}

func (m *MongoRepo) SetInsuranceNeeds(ctx context.Context, id string, needs map[InsuranceKey]InsuranceNeed) error {
	return m.set(ctx, id, bson.M{keyInsurance: needs})
}

func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) InsertMany(ctx context.Context, ps []*Prospect) error {
	if len(ps) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ps))
	for i, p := range ps {
		docs[i] = p
	}
	_, err := m.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

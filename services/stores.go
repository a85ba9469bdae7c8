package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-protect-assistant/models"
)

// Read-only accessors over the host platform's collections. Every accessor
// is optional: the context builder treats a nil store or a store error as an
// empty contribution, never a failed build.

type CodeStore interface {
	ActiveCount(ctx context.Context) (int64, error)
	TotalCount(ctx context.Context) (int64, error)
	TotalRedemptions(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int64) ([]models.GiftCode, error)
}

type VideoStore interface {
	ActiveCount(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int64) ([]models.ProtectedVideo, error)
}

type SessionStore interface {
	ActiveCount(ctx context.Context) (int64, error)
}

type EventStore interface {
	RecentErrors(ctx context.Context, limit int64) ([]models.AnalyticsEvent, error)
}

// errorTypeFilter matches the host's error-like analytics rows: anything
// with "error" in the type plus two exact types that do not follow the
// naming convention.
var errorTypeFilter = bson.M{"$or": bson.A{
	bson.M{"event_type": bson.M{"$regex": "error"}},
	bson.M{"event_type": "session_ip_mismatch"},
	bson.M{"event_type": "validation_failed"},
}}

type MongoCodeStore struct {
	col *mongo.Collection
}

func NewMongoCodeStore(db *mongo.Database, prefix string) *MongoCodeStore {
	return &MongoCodeStore{col: db.Collection(prefix + "giftcodes")}
}

func (s *MongoCodeStore) ActiveCount(ctx context.Context) (int64, error) {
	now := nowUTC()
	return s.col.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": bson.A{"unused", "redeemed"}},
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	})
}

func (s *MongoCodeStore) TotalCount(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *MongoCodeStore) TotalRedemptions(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$redemption_count"}}},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, nil
}

func (s *MongoCodeStore) Recent(ctx context.Context, limit int64) ([]models.GiftCode, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	codes := make([]models.GiftCode, 0)
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

type MongoVideoStore struct {
	col *mongo.Collection
}

func NewMongoVideoStore(db *mongo.Database, prefix string) *MongoVideoStore {
	return &MongoVideoStore{col: db.Collection(prefix + "protected_videos")}
}

func (s *MongoVideoStore) ActiveCount(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"status": "active"})
}

func (s *MongoVideoStore) Recent(ctx context.Context, limit int64) ([]models.ProtectedVideo, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := make([]models.ProtectedVideo, 0)
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

type MongoSessionStore struct {
	col *mongo.Collection
}

func NewMongoSessionStore(db *mongo.Database, prefix string) *MongoSessionStore {
	return &MongoSessionStore{col: db.Collection(prefix + "sessions")}
}

func (s *MongoSessionStore) ActiveCount(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{
		"status":     "active",
		"expires_at": bson.M{"$gt": nowUTC()},
	})
}

type MongoEventStore struct {
	col *mongo.Collection
}

func NewMongoEventStore(db *mongo.Database, prefix string) *MongoEventStore {
	return &MongoEventStore{col: db.Collection(prefix + "analytics")}
}

func (s *MongoEventStore) RecentErrors(ctx context.Context, limit int64) ([]models.AnalyticsEvent, error) {
	cursor, err := s.col.Find(ctx, errorTypeFilter,
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]models.AnalyticsEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

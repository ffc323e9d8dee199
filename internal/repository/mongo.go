package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared with the website's existing database.
const (
	StudentsCollection      = "students"
	AnnouncementsCollection = "announcements"
)

// QueryObserver receives timings for every store round-trip.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveDBQuery(string, time.Duration) {}

func observerOrNoop(o QueryObserver) QueryObserver {
	if o == nil {
		return noopObserver{}
	}
	return o
}

// parseID converts a hex id; malformed ids resolve to mongo.ErrNoDocuments.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, mongo.ErrNoDocuments)
	}
	return oid, nil
}

// storeNow returns the current time at the millisecond precision BSON dates keep.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

var returnUpdated = options.FindOneAndUpdate().SetReturnDocument(options.After)

// EnsureIndexes creates the secondary indexes both collections are queried by.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	studentIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "birthday", Value: 1}}},
		{Keys: bson.D{{Key: "class", Value: 1}, {Key: "section", Value: 1}}},
	}
	if _, err := db.Collection(StudentsCollection).Indexes().CreateMany(ctx, studentIdx); err != nil {
		return fmt.Errorf("create student indexes: %w", err)
	}

	announcementIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
	}
	if _, err := db.Collection(AnnouncementsCollection).Indexes().CreateMany(ctx, announcementIdx); err != nil {
		return fmt.Errorf("create announcement indexes: %w", err)
	}
	return nil
}

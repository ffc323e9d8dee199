package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/school-website-api/internal/models"
)

// AnnouncementRepository manages persistence for announcement documents.
type AnnouncementRepository struct {
	coll    *mongo.Collection
	metrics QueryObserver
	now     func() time.Time
}

// NewAnnouncementRepository constructs an AnnouncementRepository.
func NewAnnouncementRepository(db *mongo.Database, metrics QueryObserver) *AnnouncementRepository {
	return &AnnouncementRepository{
		coll:    db.Collection(AnnouncementsCollection),
		metrics: observerOrNoop(metrics),
		now:     time.Now,
	}
}

// ListVisible returns visible announcements narrowed by q, newest first.
func (r *AnnouncementRepository) ListVisible(ctx context.Context, q models.AnnouncementQuery) ([]models.Announcement, error) {
	defer r.observe("announcements.list_visible", time.Now())

	opts := options.Find().SetSort(newestFirst)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cursor, err := r.coll.Find(ctx, AnnouncementQueryFilter(q, r.now().UTC()), opts)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	items := make([]models.Announcement, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	return items, nil
}

// FindByID loads an announcement regardless of its active flag or expiry.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer r.observe("announcements.find_by_id", time.Now())

	var item models.Announcement
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&item); err != nil {
		return nil, fmt.Errorf("find announcement %s: %w", id, err)
	}
	return &item, nil
}

// Create inserts the announcement, assigning its id and timestamps.
// A zero CreatedAt is stamped with the current time; seeding may backdate it.
func (r *AnnouncementRepository) Create(ctx context.Context, item *models.Announcement) error {
	defer r.observe("announcements.create", time.Now())

	now := storeNow()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

// Update applies the non-nil fields of patch and returns the updated document.
func (r *AnnouncementRepository) Update(ctx context.Context, id string, patch models.AnnouncementPatch) (*models.Announcement, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer r.observe("announcements.update", time.Now())

	set := announcementSetFields(patch)
	set["updatedAt"] = storeNow()

	var item models.Announcement
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, returnUpdated).Decode(&item)
	if err != nil {
		return nil, fmt.Errorf("update announcement %s: %w", id, err)
	}
	return &item, nil
}

// Deactivate soft-deletes the announcement and returns the updated document.
func (r *AnnouncementRepository) Deactivate(ctx context.Context, id string) (*models.Announcement, error) {
	inactive := false
	return r.Update(ctx, id, models.AnnouncementPatch{Active: &inactive})
}

// DeleteAll physically removes every announcement; only the seeding tool calls it.
func (r *AnnouncementRepository) DeleteAll(ctx context.Context) (int64, error) {
	defer r.observe("announcements.delete_all", time.Now())
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete announcements: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *AnnouncementRepository) observe(label string, start time.Time) {
	r.metrics.ObserveDBQuery(label, time.Since(start))
}

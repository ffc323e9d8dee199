package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/noah-isme/school-website-api/internal/models"
)

func TestVisibleAnnouncementsFilter(t *testing.T) {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	filter := VisibleAnnouncementsFilter(now)

	assert.Equal(t, true, filter["active"])
	assert.Equal(t, bson.A{
		bson.M{"expiresAt": nil},
		bson.M{"expiresAt": bson.M{"$gt": now}},
	}, filter["$or"])
}

func TestAnnouncementQueryFilterAlwaysKeepsVisibility(t *testing.T) {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	sports := models.AnnouncementCategorySports
	since := now.AddDate(0, 0, -30)

	filter := AnnouncementQueryFilter(models.AnnouncementQuery{
		Category:     &sports,
		FeaturedOnly: true,
		CreatedSince: &since,
	}, now)

	assert.Equal(t, true, filter["active"])
	assert.Contains(t, filter, "$or")
	assert.Equal(t, "sports", filter["category"])
	assert.Equal(t, true, filter["featured"])
	assert.Equal(t, bson.M{"$gte": since}, filter["createdAt"])

	plain := AnnouncementQueryFilter(models.AnnouncementQuery{}, now)
	assert.Equal(t, VisibleAnnouncementsFilter(now), plain)
}

func TestBirthdayFilter(t *testing.T) {
	filter := BirthdayFilter(time.April, 14)

	assert.Equal(t, true, filter["active"])
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$month": "$birthday"}, 4}},
		bson.M{"$eq": bson.A{bson.M{"$dayOfMonth": "$birthday"}, 14}},
	}}, filter["$expr"])
}

func TestNewestFirstTieBreaksOnID(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, newestFirst)
}

func TestSetFieldsOnlyIncludesProvidedValues(t *testing.T) {
	name := "Jane"
	featured := true
	media := "school-website/students/abc"

	assert.Equal(t, bson.M{"name": "Jane", "cloudinary_id": media}, studentSetFields(models.StudentPatch{Name: &name, MediaID: &media}))
	assert.Equal(t, bson.M{"featured": true}, announcementSetFields(models.AnnouncementPatch{Featured: &featured}))
	assert.Empty(t, studentSetFields(models.StudentPatch{}))

	expiry := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"expiresAt": nil}, announcementSetFields(models.AnnouncementPatch{ExpiresAt: &expiry, ClearExpiresAt: true}))
}

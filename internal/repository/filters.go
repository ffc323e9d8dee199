package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/noah-isme/school-website-api/internal/models"
)

// newestFirst orders by creation time descending with the id as a deterministic tie-break.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// ActiveStudentsFilter selects students that have not been soft-deleted.
func ActiveStudentsFilter() bson.M {
	return bson.M{"active": true}
}

// BirthdayFilter selects active students born on the given month and day of any year.
// Birthdays are stored as midnight UTC so the server-side date operators read them in UTC.
func BirthdayFilter(month time.Month, day int) bson.M {
	filter := ActiveStudentsFilter()
	filter["$expr"] = bson.M{
		"$and": bson.A{
			bson.M{"$eq": bson.A{bson.M{"$month": "$birthday"}, int(month)}},
			bson.M{"$eq": bson.A{bson.M{"$dayOfMonth": "$birthday"}, day}},
		},
	}
	return filter
}

// VisibleAnnouncementsFilter is the standing rule for every client-facing announcement read:
// active and either without expiry or expiring after now. A null comparison matches both
// missing and explicitly null expiresAt fields.
func VisibleAnnouncementsFilter(now time.Time) bson.M {
	return bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": now}},
		},
	}
}

// AnnouncementQueryFilter composes VisibleAnnouncementsFilter with the optional narrowing in q.
func AnnouncementQueryFilter(q models.AnnouncementQuery, now time.Time) bson.M {
	filter := VisibleAnnouncementsFilter(now)
	if q.Category != nil {
		filter["category"] = string(*q.Category)
	}
	if q.FeaturedOnly {
		filter["featured"] = true
	}
	if q.CreatedSince != nil {
		filter["createdAt"] = bson.M{"$gte": *q.CreatedSince}
	}
	return filter
}

func studentSetFields(p models.StudentPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Birthday != nil {
		set["birthday"] = *p.Birthday
	}
	if p.ProfileImage != nil {
		set["profileImage"] = *p.ProfileImage
	}
	if p.MediaID != nil {
		set["cloudinary_id"] = *p.MediaID
	}
	if p.ClassLabel != nil {
		set["class"] = *p.ClassLabel
	}
	if p.Section != nil {
		set["section"] = *p.Section
	}
	if p.Active != nil {
		set["active"] = *p.Active
	}
	return set
}

func announcementSetFields(p models.AnnouncementPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Category != nil {
		set["category"] = string(*p.Category)
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.MediaID != nil {
		set["cloudinary_id"] = *p.MediaID
	}
	if p.ClearExpiresAt {
		set["expiresAt"] = nil
	} else if p.ExpiresAt != nil {
		set["expiresAt"] = *p.ExpiresAt
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.PublishedBy != nil {
		set["publishedBy"] = *p.PublishedBy
	}
	if p.Active != nil {
		set["active"] = *p.Active
	}
	return set
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementCategory classifies an announcement.
type AnnouncementCategory string

const (
	AnnouncementCategoryEvent    AnnouncementCategory = "event"
	AnnouncementCategoryAcademic AnnouncementCategory = "academic"
	AnnouncementCategorySports   AnnouncementCategory = "sports"
	AnnouncementCategoryGeneral  AnnouncementCategory = "general"
	AnnouncementCategoryHoliday  AnnouncementCategory = "holiday"
)

// AnnouncementCategories lists the accepted categories.
var AnnouncementCategories = []AnnouncementCategory{
	AnnouncementCategoryEvent,
	AnnouncementCategoryAcademic,
	AnnouncementCategorySports,
	AnnouncementCategoryGeneral,
	AnnouncementCategoryHoliday,
}

// Valid reports whether c is one of AnnouncementCategories.
func (c AnnouncementCategory) Valid() bool {
	for _, known := range AnnouncementCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Announcement represents a document in the announcements collection.
type Announcement struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Content     string               `bson:"content" json:"content"`
	Category    AnnouncementCategory `bson:"category" json:"category"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	MediaID     *string              `bson:"cloudinary_id,omitempty" json:"mediaId"`
	ExpiresAt   *time.Time           `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Featured    bool                 `bson:"featured" json:"featured"`
	PublishedBy string               `bson:"publishedBy" json:"publishedBy"`
	Active      bool                 `bson:"active" json:"active"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsExpiredAt reports whether the announcement has an expiry at or before now.
func (a Announcement) IsExpiredAt(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

// VisibleAt reports whether clients may see the announcement at now.
func (a Announcement) VisibleAt(now time.Time) bool {
	return a.Active && !a.IsExpiredAt(now)
}

// AnnouncementView is the serialised form of an announcement including computed fields.
type AnnouncementView struct {
	Announcement `bson:",inline"`
	IsExpired    bool `json:"isExpired"`
}

// View computes the derived fields against the supplied clock reading.
func (a Announcement) View(now time.Time) AnnouncementView {
	return AnnouncementView{Announcement: a, IsExpired: a.IsExpiredAt(now)}
}

// AnnouncementViews maps View over a slice.
func AnnouncementViews(items []Announcement, now time.Time) []AnnouncementView {
	views := make([]AnnouncementView, 0, len(items))
	for _, a := range items {
		views = append(views, a.View(now))
	}
	return views
}

// AnnouncementQuery narrows the visible announcements view.
type AnnouncementQuery struct {
	Category     *AnnouncementCategory
	FeaturedOnly bool
	CreatedSince *time.Time
	Limit        int64
}

// AnnouncementPatch lists the fields a partial update may change; nil fields are left untouched.
type AnnouncementPatch struct {
	Title     *string
	Content   *string
	Category  *AnnouncementCategory
	Image     *string
	MediaID   *string
	ExpiresAt *time.Time
	// ClearExpiresAt removes any expiry; it wins over ExpiresAt.
	ClearExpiresAt bool
	Featured       *bool
	PublishedBy    *string
	Active         *bool
}

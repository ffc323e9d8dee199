package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BirthdayLayout is the human readable rendering used for formattedBirthday.
const BirthdayLayout = "January 2, 2006"

// Student represents a learner document in the students collection.
// Birthday holds a calendar date stored as midnight UTC.
type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Birthday     time.Time          `bson:"birthday" json:"birthday"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	MediaID      *string            `bson:"cloudinary_id,omitempty" json:"mediaId"`
	ClassLabel   string             `bson:"class" json:"class"`
	Section      string             `bson:"section" json:"section"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StudentView is the serialised form of a student including computed fields.
type StudentView struct {
	Student           `bson:",inline"`
	ClassSection      string `json:"classSection"`
	IsBirthdayToday   bool   `json:"isBirthdayToday"`
	FormattedBirthday string `json:"formattedBirthday"`
}

// View computes the derived fields against the supplied clock reading.
func (s Student) View(now time.Time) StudentView {
	return StudentView{
		Student:           s,
		ClassSection:      ClassSection(s.ClassLabel, s.Section),
		IsBirthdayToday:   IsBirthdayOn(s.Birthday, now),
		FormattedBirthday: FormatBirthday(s.Birthday),
	}
}

// StudentViews maps View over a slice.
func StudentViews(students []Student, now time.Time) []StudentView {
	views := make([]StudentView, 0, len(students))
	for _, s := range students {
		views = append(views, s.View(now))
	}
	return views
}

// ClassSection renders the class grouping, e.g. "Class 5A".
func ClassSection(classLabel, section string) string {
	return "Class " + classLabel + section
}

// IsBirthdayOn reports whether the birthday's month and day match day's month and day.
// The birthday is read as a UTC calendar date; day is read in its own location. Years are ignored.
func IsBirthdayOn(birthday, day time.Time) bool {
	if birthday.IsZero() {
		return false
	}
	b := birthday.UTC()
	return b.Month() == day.Month() && b.Day() == day.Day()
}

// FormatBirthday renders a birthday such as "April 14, 2010"; zero dates render empty.
func FormatBirthday(birthday time.Time) string {
	if birthday.IsZero() {
		return ""
	}
	return birthday.UTC().Format(BirthdayLayout)
}

// CalendarDate truncates t to midnight UTC of its calendar date in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StudentPatch lists the fields a partial update may change; nil fields are left untouched.
type StudentPatch struct {
	Name         *string
	Birthday     *time.Time
	ProfileImage *string
	MediaID      *string
	ClassLabel   *string
	Section      *string
	Active       *bool
}

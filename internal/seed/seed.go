// Package seed resets the collections to a small sample data set for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/models"
)

type studentStore interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, student *models.Student) error
}

type announcementStore interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, item *models.Announcement) error
}

// Result counts what a run removed and inserted.
type Result struct {
	StudentsRemoved      int64
	AnnouncementsRemoved int64
	StudentsCreated      int
	AnnouncementsCreated int
}

// Run clears both collections and inserts the sample records. One student always has a birthday on now.
func Run(ctx context.Context, students studentStore, announcements announcementStore, now time.Time, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result
	var err error

	if res.StudentsRemoved, err = students.DeleteAll(ctx); err != nil {
		return res, fmt.Errorf("clear students: %w", err)
	}
	if res.AnnouncementsRemoved, err = announcements.DeleteAll(ctx); err != nil {
		return res, fmt.Errorf("clear announcements: %w", err)
	}
	logger.Info("previous data cleared",
		zap.Int64("students", res.StudentsRemoved),
		zap.Int64("announcements", res.AnnouncementsRemoved))

	for _, s := range sampleStudents(now) {
		s := s
		if err := students.Create(ctx, &s); err != nil {
			return res, fmt.Errorf("insert student %q: %w", s.Name, err)
		}
		res.StudentsCreated++
	}
	for _, a := range sampleAnnouncements() {
		a := a
		if err := announcements.Create(ctx, &a); err != nil {
			return res, fmt.Errorf("insert announcement %q: %w", a.Title, err)
		}
		res.AnnouncementsCreated++
	}

	logger.Info("database seeded",
		zap.Int("students", res.StudentsCreated),
		zap.Int("announcements", res.AnnouncementsCreated))
	return res, nil
}

const demoImageBase = "https://res.cloudinary.com/demo/image/upload/v1580125763/samples/people/"

func sampleStudents(now time.Time) []models.Student {
	return []models.Student{
		{
			Name:         "John Smith",
			Birthday:     time.Date(2010, time.April, 14, 0, 0, 0, 0, time.UTC),
			ClassLabel:   "7",
			Section:      "A",
			ProfileImage: demoImageBase + "boy-snow-hoodie.jpg",
			Active:       true,
		},
		{
			Name:         "Emma Johnson",
			Birthday:     models.CalendarDate(now.AddDate(-10, 0, 0)),
			ClassLabel:   "8",
			Section:      "B",
			ProfileImage: demoImageBase + "smiling-man.jpg",
			Active:       true,
		},
		{
			Name:         "Sophia Williams",
			Birthday:     time.Date(2011, time.July, 22, 0, 0, 0, 0, time.UTC),
			ClassLabel:   "6",
			Section:      "C",
			ProfileImage: demoImageBase + "jazz.jpg",
			Active:       true,
		},
	}
}

func sampleAnnouncements() []models.Announcement {
	return []models.Announcement{
		{
			Title:       "School Annual Day",
			Content:     "The school annual day will be celebrated on December 15th. All parents are invited.",
			Category:    models.AnnouncementCategoryEvent,
			PublishedBy: "Principal",
			Featured:    true,
			Active:      true,
		},
		{
			Title:       "Holiday Notice",
			Content:     "The school will remain closed from May 15th to June 15th for summer vacation.",
			Category:    models.AnnouncementCategoryHoliday,
			PublishedBy: "Administration",
			Active:      true,
		},
		{
			Title:       "Sports Tournament Results",
			Content:     "Congratulations to Blue House for winning the inter-house sports tournament!",
			Category:    models.AnnouncementCategorySports,
			PublishedBy: "Sports Department",
			Featured:    true,
			Active:      true,
		},
	}
}

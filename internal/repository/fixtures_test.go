package repository

import (
	"time"

	"github.com/noah-isme/school-website-api/internal/models"
)

func studentFixture() models.Student {
	return models.Student{
		Name:         "Sophia Williams",
		Birthday:     time.Date(2011, time.July, 22, 0, 0, 0, 0, time.UTC),
		ProfileImage: "https://img.example/default.jpg",
		ClassLabel:   "6",
		Section:      "C",
		Active:       true,
	}
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncementCategoryValid(t *testing.T) {
	for _, c := range AnnouncementCategories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, AnnouncementCategory("news").Valid())
	assert.False(t, AnnouncementCategory("Sports").Valid())
}

func TestAnnouncementVisibility(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cases := []struct {
		name    string
		a       Announcement
		visible bool
		expired bool
	}{
		{"active without expiry", Announcement{Active: true}, true, false},
		{"active with future expiry", Announcement{Active: true, ExpiresAt: &tomorrow}, true, false},
		{"active but expired", Announcement{Active: true, ExpiresAt: &yesterday}, false, true},
		{"expiring this instant", Announcement{Active: true, ExpiresAt: &now}, false, true},
		{"inactive", Announcement{Active: false}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.visible, tc.a.VisibleAt(now))
			assert.Equal(t, tc.expired, tc.a.View(now).IsExpired)
		})
	}
}

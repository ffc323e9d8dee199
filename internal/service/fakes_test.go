package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/school-website-api/internal/models"
	"github.com/noah-isme/school-website-api/pkg/media"
)

var errStoreDown = errors.New("server selection timeout")

// pngImage carries only the PNG signature, enough for format sniffing.
var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStudentRepo struct {
	students  map[string]models.Student
	err       error
	updateErr error
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: map[string]models.Student{}}
	for _, s := range students {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		repo.students[s.ID.Hex()] = s
	}
	return repo
}

func (f *fakeStudentRepo) ListActive(ctx context.Context) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Student, 0)
	for _, s := range f.students {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) ListBirthdays(ctx context.Context, month time.Month, day int) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Student, 0)
	for _, s := range f.students {
		b := s.Birthday.UTC()
		if s.Active && b.Month() == month && b.Day() == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.err != nil {
		return f.err
	}
	student.ID = primitive.NewObjectID()
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = student.CreatedAt
	f.students[student.ID.Hex()] = *student
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, id string, p models.StudentPatch) (*models.Student, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	s, ok := f.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Birthday != nil {
		s.Birthday = *p.Birthday
	}
	if p.ProfileImage != nil {
		s.ProfileImage = *p.ProfileImage
	}
	if p.MediaID != nil {
		s.MediaID = p.MediaID
	}
	if p.ClassLabel != nil {
		s.ClassLabel = *p.ClassLabel
	}
	if p.Section != nil {
		s.Section = *p.Section
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	f.students[id] = s
	return &s, nil
}

func (f *fakeStudentRepo) Deactivate(ctx context.Context, id string) (*models.Student, error) {
	inactive := false
	return f.Update(ctx, id, models.StudentPatch{Active: &inactive})
}

type fakeAnnouncementRepo struct {
	items     map[string]models.Announcement
	now       func() time.Time
	lastQuery models.AnnouncementQuery
	err       error
}

func newFakeAnnouncementRepo(now func() time.Time, items ...models.Announcement) *fakeAnnouncementRepo {
	repo := &fakeAnnouncementRepo{items: map[string]models.Announcement{}, now: now}
	for _, a := range items {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		repo.items[a.ID.Hex()] = a
	}
	return repo
}

func (f *fakeAnnouncementRepo) ListVisible(ctx context.Context, q models.AnnouncementQuery) ([]models.Announcement, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	now := f.now()
	out := make([]models.Announcement, 0)
	for _, a := range f.items {
		if !a.VisibleAt(now) {
			continue
		}
		if q.Category != nil && a.Category != *q.Category {
			continue
		}
		if q.FeaturedOnly && !a.Featured {
			continue
		}
		if q.CreatedSince != nil && a.CreatedAt.Before(*q.CreatedSince) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeAnnouncementRepo) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &a, nil
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, item *models.Announcement) error {
	if f.err != nil {
		return f.err
	}
	item.ID = primitive.NewObjectID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = f.now()
	}
	item.UpdatedAt = item.CreatedAt
	f.items[item.ID.Hex()] = *item
	return nil
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, id string, p models.AnnouncementPatch) (*models.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.MediaID != nil {
		a.MediaID = p.MediaID
	}
	if p.ClearExpiresAt {
		a.ExpiresAt = nil
	} else if p.ExpiresAt != nil {
		a.ExpiresAt = p.ExpiresAt
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	if p.PublishedBy != nil {
		a.PublishedBy = *p.PublishedBy
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	f.items[id] = a
	return &a, nil
}

func (f *fakeAnnouncementRepo) Deactivate(ctx context.Context, id string) (*models.Announcement, error) {
	inactive := false
	return f.Update(ctx, id, models.AnnouncementPatch{Active: &inactive})
}

type fakeHost struct {
	mu        sync.Mutex
	calls     []string
	uploads   int
	uploadErr error
	deleteErr error
}

func (h *fakeHost) Upload(ctx context.Context, data []byte, spec media.Spec) (media.Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "upload:"+spec.Folder)
	if h.uploadErr != nil {
		return media.Asset{}, h.uploadErr
	}
	h.uploads++
	id := spec.Folder + "/new"
	return media.Asset{URL: "https://media.example/" + id + ".jpg", ID: id}, nil
}

func (h *fakeHost) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "delete:"+id)
	return h.deleteErr
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

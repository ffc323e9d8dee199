package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/models"
	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/media"
	"github.com/noah-isme/school-website-api/pkg/validation"
)

const studentNotFound = "Student not found"

type studentRepository interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	ListBirthdays(ctx context.Context, month time.Month, day int) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error)
	Deactivate(ctx context.Context, id string) (*models.Student, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name         string `json:"name" validate:"notblank"`
	Birthday     string `json:"birthday" validate:"required,calendardate"`
	ProfileImage string `json:"profileImage" validate:"omitempty,url"`
	ClassLabel   string `json:"class" validate:"notblank"`
	Section      string `json:"section" validate:"notblank"`
	Active       *bool  `json:"active"`
}

// UpdateStudentRequest holds a partial student update; omitted fields are kept.
type UpdateStudentRequest struct {
	Name         *string `json:"name" validate:"omitempty,notblank"`
	Birthday     *string `json:"birthday" validate:"omitempty,calendardate"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
	ClassLabel   *string `json:"class" validate:"omitempty,notblank"`
	Section      *string `json:"section" validate:"omitempty,notblank"`
	Active       *bool   `json:"active"`
}

// StudentServiceConfig carries the tunables of the student service.
type StudentServiceConfig struct {
	DefaultProfileImage string
	MediaRoot           string
	MediaTimeout        time.Duration
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	images    imageReplacer
	validator *validation.Validator
	logger    *zap.Logger
	cfg       StudentServiceConfig
	now       clock
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, host media.Host, validate *validation.Validator, logger *zap.Logger, cfg StudentServiceConfig) *StudentService {
	if validate == nil {
		validate = NewRequestValidator()
	} else {
		registerRequestRules(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		images:    newImageReplacer(host, cfg.MediaTimeout, logger),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       systemClock,
	}
}

// ListActive returns every student that has not been soft-deleted.
func (s *StudentService) ListActive(ctx context.Context) ([]models.StudentView, error) {
	students, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, "failed to list students")
	}
	return models.StudentViews(students, s.now()), nil
}

// ListTodaysBirthdays returns active students whose birthday falls on today's month and day in the
// server's local calendar, plus a summary message for the response.
func (s *StudentService) ListTodaysBirthdays(ctx context.Context) ([]models.StudentView, string, error) {
	today := s.now()
	students, err := s.repo.ListBirthdays(ctx, today.Month(), today.Day())
	if err != nil {
		return nil, "", appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, "failed to list birthdays")
	}
	if len(students) == 0 {
		return []models.StudentView{}, "No students have birthdays today", nil
	}
	return models.StudentViews(students, today), fmt.Sprintf("%d student(s) have birthdays today!", len(students)), nil
}

// Get returns the student with id, including soft-deleted ones.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentView, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, studentNotFound, "failed to load student")
	}
	view := student.View(s.now())
	return &view, nil
}

// Create validates and stores a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(s.validator, err)
	}
	birthday, err := parseDateField("birthday", req.Birthday, models.ParseCalendarDate)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:         strings.TrimSpace(req.Name),
		Birthday:     birthday,
		ProfileImage: req.ProfileImage,
		ClassLabel:   strings.TrimSpace(req.ClassLabel),
		Section:      strings.TrimSpace(req.Section),
		Active:       true,
	}
	if student.ProfileImage == "" {
		student.ProfileImage = s.cfg.DefaultProfileImage
	}
	if req.Active != nil {
		student.Active = *req.Active
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID.Hex()))
	view := student.View(s.now())
	return &view, nil
}

// Update applies a partial change to the student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.StudentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(s.validator, err)
	}

	patch := models.StudentPatch{
		Name:         trimmed(req.Name),
		ProfileImage: req.ProfileImage,
		ClassLabel:   trimmed(req.ClassLabel),
		Section:      trimmed(req.Section),
		Active:       req.Active,
	}
	if req.Birthday != nil {
		birthday, err := parseDateField("birthday", *req.Birthday, models.ParseCalendarDate)
		if err != nil {
			return nil, err
		}
		patch.Birthday = &birthday
	}

	student, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err, studentNotFound, "failed to update student")
	}
	view := student.View(s.now())
	return &view, nil
}

// SoftDelete marks the student inactive. Repeating it is harmless.
func (s *StudentService) SoftDelete(ctx context.Context, id string) (*models.StudentView, error) {
	student, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, storeFailure(err, studentNotFound, "failed to delete student")
	}
	view := student.View(s.now())
	return &view, nil
}

// ReplaceProfileImage uploads data as the student's new picture, dropping the previous one.
func (s *StudentService) ReplaceProfileImage(ctx context.Context, id string, data []byte) (*models.StudentView, error) {
	if len(data) == 0 {
		return nil, appErrors.ErrUploadRejected
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, studentNotFound, "failed to load student")
	}

	var updated *models.Student
	err = s.images.replace(ctx, student.MediaID, data, media.StudentProfileSpec(s.cfg.MediaRoot), func(asset media.Asset) error {
		mediaID := asset.ID
		var saveErr error
		updated, saveErr = s.repo.Update(ctx, id, models.StudentPatch{ProfileImage: &asset.URL, MediaID: &mediaID})
		if saveErr != nil {
			return storeFailure(saveErr, studentNotFound, "failed to save profile image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := updated.View(s.now())
	return &view, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

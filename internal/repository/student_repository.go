package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/school-website-api/internal/models"
)

// StudentRepository manages persistence for student documents.
type StudentRepository struct {
	coll    *mongo.Collection
	metrics QueryObserver
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database, metrics QueryObserver) *StudentRepository {
	return &StudentRepository{coll: db.Collection(StudentsCollection), metrics: observerOrNoop(metrics)}
}

// ListActive returns every student not soft-deleted, in natural order.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	return r.find(ctx, "students.list_active", ActiveStudentsFilter())
}

// ListBirthdays returns active students born on month/day of any year.
func (r *StudentRepository) ListBirthdays(ctx context.Context, month time.Month, day int) ([]models.Student, error) {
	return r.find(ctx, "students.list_birthdays", BirthdayFilter(month, day))
}

// FindByID loads a student regardless of its active flag.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer r.observe("students.find_by_id", time.Now())

	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		return nil, fmt.Errorf("find student %s: %w", id, err)
	}
	return &student, nil
}

// Create inserts the student, assigning its id and timestamps.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	defer r.observe("students.create", time.Now())

	now := storeNow()
	student.CreatedAt = now
	student.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, student)
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		student.ID = oid
	}
	return nil
}

// Update applies the non-nil fields of patch and returns the updated document.
func (r *StudentRepository) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer r.observe("students.update", time.Now())

	set := studentSetFields(patch)
	set["updatedAt"] = storeNow()

	var student models.Student
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, returnUpdated).Decode(&student)
	if err != nil {
		return nil, fmt.Errorf("update student %s: %w", id, err)
	}
	return &student, nil
}

// Deactivate soft-deletes the student and returns the updated document.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) (*models.Student, error) {
	inactive := false
	return r.Update(ctx, id, models.StudentPatch{Active: &inactive})
}

// DeleteAll physically removes every student; only the seeding tool calls it.
func (r *StudentRepository) DeleteAll(ctx context.Context) (int64, error) {
	defer r.observe("students.delete_all", time.Now())
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete students: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *StudentRepository) find(ctx context.Context, label string, filter bson.M) ([]models.Student, error) {
	defer r.observe(label, time.Now())

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	students := make([]models.Student, 0)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("%s decode: %w", label, err)
	}
	return students, nil
}

func (r *StudentRepository) observe(label string, start time.Time) {
	r.metrics.ObserveDBQuery(label, time.Since(start))
}

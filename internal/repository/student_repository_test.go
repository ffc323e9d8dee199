package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func studentDoc(id primitive.ObjectID, name string, active bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "birthday", Value: time.Date(2010, time.April, 14, 0, 0, 0, 0, time.UTC)},
		{Key: "profileImage", Value: "https://img.example/default.jpg"},
		{Key: "class", Value: "7"},
		{Key: "section", Value: "A"},
		{Key: "active", Value: active},
	}
}

func TestStudentRepositoryListActive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		obs := &recordingObserver{}
		repo := NewStudentRepository(mt.DB, obs)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch, studentDoc(id, "John Smith", true)))

		students, err := repo.ListActive(context.Background())
		require.NoError(mt, err)
		require.Len(mt, students, 1)
		assert.Equal(mt, id, students[0].ID)
		assert.Equal(mt, "John Smith", students[0].Name)
		assert.Equal(mt, "7", students[0].ClassLabel)
		assert.Equal(mt, []string{"students.list_active"}, obs.labels)
	})

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch))

		students, err := repo.ListActive(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, students)
		assert.Empty(mt, students)
	})

	mt.Run("store failure surfaces", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Message: "interrupted at shutdown"}))

		_, err := repo.ListActive(context.Background())
		require.Error(mt, err)
	})
}

func TestStudentRepositoryFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		_, err := repo.FindByID(context.Background(), "not-an-id")
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("missing document is not found", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("inactive students are still returned", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch, studentDoc(id, "Gone", false)))

		student, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.False(mt, student.Active)
	})
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated document", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: studentDoc(id, "John Smith", false)},
		})

		student, err := repo.Deactivate(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.False(mt, student.Active)
	})

	mt.Run("unknown id is not found", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Deactivate(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})
}

func TestStudentRepositoryCreateAssignsIDAndTimestamps(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		student := studentFixture()
		require.NoError(mt, repo.Create(context.Background(), &student))
		assert.False(mt, student.ID.IsZero())
		assert.False(mt, student.CreatedAt.IsZero())
		assert.Equal(mt, student.CreatedAt, student.UpdatedAt)
	})
}

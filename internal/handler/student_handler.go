package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-website-api/internal/models"
	"github.com/noah-isme/school-website-api/internal/service"
	"github.com/noah-isme/school-website-api/pkg/response"
)

type studentService interface {
	ListActive(ctx context.Context) ([]models.StudentView, error)
	ListTodaysBirthdays(ctx context.Context) ([]models.StudentView, string, error)
	Get(ctx context.Context, id string) (*models.StudentView, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.StudentView, error)
	Update(ctx context.Context, id string, req service.UpdateStudentRequest) (*models.StudentView, error)
	SoftDelete(ctx context.Context, id string) (*models.StudentView, error)
	ReplaceProfileImage(ctx context.Context, id string, data []byte) (*models.StudentView, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students      studentService
	maxUploadSize int64
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, maxUploadSize int64) *StudentHandler {
	return &StudentHandler{students: students, maxUploadSize: maxUploadSize}
}

// List godoc
// @Summary List active students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students)
}

// TodaysBirthdays godoc
// @Summary List students whose birthday is today
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/birthdays/today [get]
func (h *StudentHandler) TodaysBirthdays(c *gin.Context) {
	students, message, err := h.students.ListTodaysBirthdays(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students, message)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Partially update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Soft delete student
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if _, err := h.students.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadProfile godoc
// @Summary Replace student profile picture
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param profileImage formData file true "jpg, jpeg, png or gif image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/upload-profile [post]
func (h *StudentHandler) UploadProfile(c *gin.Context) {
	data, err := readUpload(c, "profileImage", h.maxUploadSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.ReplaceProfileImage(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

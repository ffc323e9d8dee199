package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope represents the common response contract.
type Envelope struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// JSON sends a success response for a single resource.
func JSON(c *gin.Context, status int, data interface{}, message ...string) {
	noStore(c)
	envelope := Envelope{Status: StatusSuccess, Data: data}
	if len(message) > 0 {
		envelope.Message = message[0]
	}
	c.JSON(status, envelope)
}

// List sends a success response carrying a results count equal to the slice length.
func List(c *gin.Context, data interface{}, message ...string) {
	noStore(c)
	count := lengthOf(data)
	if data == nil || count == 0 {
		data = []interface{}{}
	}
	envelope := Envelope{Status: StatusSuccess, Results: &count, Data: data}
	if len(message) > 0 {
		envelope.Message = message[0]
	}
	c.JSON(http.StatusOK, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	status := StatusError
	if appErr.ClientCaused() {
		status = StatusFail
	}
	c.JSON(appErr.Status, Envelope{Status: status, Message: appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

func lengthOf(data interface{}) int {
	if data == nil {
		return 0
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len()
	default:
		return 1
	}
}

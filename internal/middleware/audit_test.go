package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func auditRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/students", Audit(logger, "student"))
	g.GET("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.PATCH("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r
}

func TestAuditLogsSuccessfulWrites(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := auditRouter(zap.New(core))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/students/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/students/2", nil))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "student", fields["resource"])
	assert.Equal(t, "1", fields["resource_id"])
	assert.Equal(t, http.MethodPatch, fields["method"])
}

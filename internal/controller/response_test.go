package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := map[error]int{
		apperr.NotFoundf("x"):                              http.StatusNotFound,
		apperr.Validationf("x"):                            http.StatusBadRequest,
		apperr.Wrap(apperr.External, errors.New("x"), "y"): http.StatusBadGateway,
		apperr.Unauthorizedf("x"):                          http.StatusUnauthorized,
		apperr.Forbiddenf("x"):                             http.StatusForbidden,
		apperr.Conflictf("x"):                              http.StatusConflict,
		errors.New("boom"):                                 http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, "Test", errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondError(c, "Test", apperr.NotFoundf("course 3 not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "course 3 not found")
}

func TestRespondErrorKeepsDriverTextOutOfBadGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	driverErr := errors.New(`ERROR: relation "test_sessions" does not exist (SQLSTATE 42P01)`)
	err := apperr.Wrap(apperr.External,
		apperr.Wrap(apperr.Internal, driverErr, "database error on test session"),
		"failed to save test session")
	RespondError(c, "SubmitText", err)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"message":"failed to save test session"}`, w.Body.String())
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParseID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, want := range map[string]int{
		"/items/5":   http.StatusOK,
		"/items/0":   http.StatusBadRequest,
		"/items/-1":  http.StatusBadRequest,
		"/items/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

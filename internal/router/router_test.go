package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSetupMiddlewareRecoversPanics(t *testing.T) {
	e := echo.New()
	e.Logger.SetOutput(httptest.NewRecorder().Body)
	SetupMiddleware(e)
	e.GET("/boom", func(c echo.Context) error { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

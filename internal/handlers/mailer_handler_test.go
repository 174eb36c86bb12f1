package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/services"
)

func postResetCode(t *testing.T, handler *MailerHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/send-reset-code", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.SendResetCode(e.NewContext(req, rec)))
	return rec
}

func TestSendResetCodeMissingFields(t *testing.T) {
	handler := NewMailerHandler(services.NewResendMailer("", "test@example.com"))

	rec := postResetCode(t, handler, `{"email": "user@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Email and code are required", resp["error"])
}

func TestSendResetCodeDevMode(t *testing.T) {
	// No API key: the relay echoes the code back instead of mailing it.
	handler := NewMailerHandler(services.NewResendMailer("", "test@example.com"))

	rec := postResetCode(t, handler, `{"email": "user@example.com", "code": "123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "123456", resp["code"])
}

func TestResetCodeEmailTemplate(t *testing.T) {
	subject, html := services.ResetCodeEmail("987654", "")
	assert.Equal(t, "Password Reset Code - CivilConnect", subject)
	assert.Contains(t, html, "987654")
	assert.Contains(t, html, "15 minutes")
}

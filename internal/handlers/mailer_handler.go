package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civilconnect/marketplace/backend/internal/services"
)

// MailerHandler exposes the standalone email relay: a thin,
// unauthenticated endpoint that wraps the mail provider for the
// password reset flow.
type MailerHandler struct {
	mailer *services.ResendMailer
}

// NewMailerHandler creates a new MailerHandler
func NewMailerHandler(mailer *services.ResendMailer) *MailerHandler {
	return &MailerHandler{mailer: mailer}
}

// RegisterMailerRoutes registers the relay routes at the server root
func (h *MailerHandler) RegisterMailerRoutes(e *echo.Echo) {
	e.POST("/send-reset-code", h.SendResetCode)
}

type sendResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendResetCode mails a verification code. The contract mirrors the
// relay the frontend already speaks: 400 on missing fields, 500 with
// details on provider failure, otherwise {success, messageId}. In
// development (no provider key) the code is echoed back instead of
// mailed.
func (h *MailerHandler) SendResetCode(c echo.Context) error {
	var req sendResetCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and code are required"})
	}

	subject, html := services.ResetCodeEmail(req.Code, "15 minutes")
	messageID, err := h.mailer.SendEmail(c.Request().Context(), req.Email, subject, html)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
	}

	if !h.mailer.Configured() {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Email sending not configured, code returned for development",
			"code":    req.Code,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"messageId": messageID,
		"message":   "Email sent successfully",
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/services"
)

// ChatHandler handles HTTP requests for chat messages and attachments
type ChatHandler struct {
	chatService *services.ChatService
	storage     *services.StorageService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService, storage *services.StorageService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		storage:     storage,
	}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat/:connectionId/messages", h.GetMessages)
	g.POST("/chat/:connectionId/messages", h.SendMessage)
	g.PUT("/chat/:connectionId/read", h.MarkRead)
	g.POST("/chat/uploads", h.CreateUpload)
}

func connectionIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("connectionId"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid connection ID")
	}
	return uint(id), nil
}

func mapChatError(err error) error {
	switch {
	case errors.Is(err, services.ErrConnectionNotAccepted):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotParticipant):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Connection not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// GetMessages returns the full ordered message history for a connection
func (h *ChatHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connectionID, err := connectionIDParam(c)
	if err != nil {
		return err
	}

	messages, err := h.chatService.GetMessages(c.Request().Context(), connectionID, currentUserID)
	if err != nil {
		return mapChatError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage persists a message in an accepted connection
func (h *ChatHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connectionID, err := connectionIDParam(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.chatService.SendMessage(c.Request().Context(), connectionID, currentUserID, req)
	if err != nil {
		return mapChatError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead marks messages addressed to the caller as read
func (h *ChatHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connectionID, err := connectionIDParam(c)
	if err != nil {
		return err
	}

	if err := h.chatService.MarkRead(c.Request().Context(), connectionID, currentUserID); err != nil {
		return mapChatError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CreateUpload validates a declared attachment and returns a presigned
// upload destination. Uploads over 10 MB are rejected here, before any
// URL is issued.
func (h *ChatHandler) CreateUpload(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateUploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.storage.CreateUploadTicket(c.Request().Context(), currentUserID, req)
	if err != nil {
		if errors.Is(err, services.ErrAttachmentTooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ticket)
}

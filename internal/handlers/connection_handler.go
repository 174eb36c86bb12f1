package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
	"github.com/civilconnect/marketplace/backend/internal/services"
)

// ConnectionHandler handles HTTP requests for the connection ledger
type ConnectionHandler struct {
	connectionRepository repositories.ConnectionRepository
	userRepository       repositories.UserRepository
	notifier             *services.Notifier
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	notifier *services.Notifier,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionRepository: connectionRepo,
		userRepository:       userRepo,
		notifier:             notifier,
	}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections", h.RequestConnection)
	g.PUT("/connections/:id", h.RespondToConnection)
	g.GET("/connections", h.ListConnections)
	g.GET("/connections/pending", h.ListPendingRequests)
	g.GET("/connections/status/:userId", h.GetStatus)
}

// RequestConnection handles sending a connection request
func (h *ConnectionHandler) RequestConnection(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if currentUserID == req.RecipientID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a connection request to yourself")
	}

	recipient, err := h.userRepository.GetUserByID(req.RecipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	connection := &models.Connection{
		RequesterID: currentUserID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
	}

	if err := h.connectionRepository.CreateConnection(connection); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelfConnection):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrConnectionPending), errors.Is(err, repositories.ErrConnectionExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	// The request is recorded; notification failures must not undo it
	if actor, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		h.notifier.ConnectionEvent(c.Request().Context(), recipient, services.EventRequest, actor)
	}

	return c.JSON(http.StatusCreated, connection)
}

// RespondToConnection accepts or rejects a pending request. Only the
// recipient may respond, and only once.
func (h *ConnectionHandler) RespondToConnection(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connectionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid connection ID")
	}

	var req models.UpdateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	connection, err := h.connectionRepository.GetConnectionByID(uint(connectionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Connection request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if connection.RecipientID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to respond to this connection request")
	}

	if err := h.connectionRepository.UpdateStatus(uint(connectionID), req.Status); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotPending) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	connection.Status = req.Status

	if req.Status == models.ConnectionAccepted {
		requester, rerr := h.userRepository.GetUserByID(connection.RequesterID)
		actor, aerr := h.userRepository.GetUserByID(currentUserID)
		if rerr == nil && aerr == nil {
			h.notifier.ConnectionEvent(c.Request().Context(), requester, services.EventAccepted, actor)
		}
	}

	return c.JSON(http.StatusOK, connection)
}

// ListConnections lists all connections involving the authenticated user
func (h *ConnectionHandler) ListConnections(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connections, err := h.connectionRepository.GetConnectionsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, connections)
}

// ListPendingRequests lists pending requests where the authenticated
// user is the recipient
func (h *ConnectionHandler) ListPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.connectionRepository.GetPendingForRecipient(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// GetStatus answers none/pending/accepted for the pair (current user,
// :userId). Chat and rating eligibility checks go through this read.
func (h *ConnectionHandler) GetStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	connection, err := h.connectionRepository.GetConnectionBetween(currentUserID, uint(targetID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, models.ConnectionStatusResponse{Status: "none"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// A rejected pair reads as "none": the pair never connected
	if connection.Status == models.ConnectionRejected {
		return c.JSON(http.StatusOK, models.ConnectionStatusResponse{Status: "none"})
	}

	return c.JSON(http.StatusOK, models.ConnectionStatusResponse{
		Status:       connection.Status,
		ConnectionID: connection.ID,
	})
}

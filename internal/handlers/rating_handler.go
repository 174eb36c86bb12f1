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
)

// RatingHandler handles HTTP requests for the rating ledger
type RatingHandler struct {
	ratingRepository     repositories.RatingRepository
	connectionRepository repositories.ConnectionRepository
	userRepository       repositories.UserRepository
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(
	ratingRepo repositories.RatingRepository,
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
) *RatingHandler {
	return &RatingHandler{
		ratingRepository:     ratingRepo,
		connectionRepository: connectionRepo,
		userRepository:       userRepo,
	}
}

// RegisterRatingRoutes registers rating-related routes
func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group) {
	g.POST("/ratings", h.SubmitRating)
	g.GET("/ratings/user/:id", h.GetUserRatings)
}

// SubmitRating records a 1-5 star rating. Ratings are append-only: no
// update or delete is exposed, and a duplicate (rater, ratee,
// connection) triple is rejected.
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.RateeID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot rate yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.RateeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Rating eligibility is gated on an accepted connection between the
	// two users, and the submitted connection must be that connection.
	connection, err := h.connectionRepository.GetConnectionByID(req.ConnectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Connection not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if connection.Status != models.ConnectionAccepted {
		return echo.NewHTTPError(http.StatusForbidden, "You can only rate users you are connected with")
	}
	isPair := (connection.RequesterID == currentUserID && connection.RecipientID == req.RateeID) ||
		(connection.RecipientID == currentUserID && connection.RequesterID == req.RateeID)
	if !isPair {
		return echo.NewHTTPError(http.StatusForbidden, "Connection does not belong to you and this user")
	}

	rating := &models.Rating{
		RateeID:      req.RateeID,
		RaterID:      currentUserID,
		ConnectionID: req.ConnectionID,
		Score:        req.Score,
		Review:       req.Review,
	}

	if err := h.ratingRepository.CreateRating(rating); err != nil {
		if errors.Is(err, repositories.ErrAlreadyRated) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, rating)
}

// GetUserRatings returns a user's ratings plus the read-time aggregate
func (h *RatingHandler) GetUserRatings(c echo.Context) error {
	rateeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	ratings, err := h.ratingRepository.GetByRateeID(uint(rateeID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summary, err := h.ratingRepository.GetSummary(uint(rateeID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ratings": ratings,
		"summary": summary,
	})
}

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

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	ratingRepository repositories.RatingRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		ratingRepository: ratingRepo,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/professional", h.UpdateProfessionalProfile)
	g.PUT("/profile/worker", h.UpdateWorkerProfile)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
}

// ProfileView is a user plus everything a profile page renders: the
// read-time rating aggregate and the role-specific detail record.
type ProfileView struct {
	models.User
	Rating       models.RatingSummary        `json:"rating"`
	Professional *models.ProfessionalProfile `json:"professional,omitempty"`
	Worker       *models.WorkerProfile       `json:"worker,omitempty"`
}

func (h *UserHandler) buildProfileView(user *models.User) ProfileView {
	view := ProfileView{User: *user}

	// A user with no ratings aggregates to 0 / 0, rendered as "New"
	summary, err := h.ratingRepository.GetSummary(user.ID)
	if err == nil {
		view.Rating = summary
	}

	switch user.UserType {
	case models.RoleArchitect, models.RoleEngineer, models.RoleContractor, models.RoleBuilder:
		if p, err := h.userRepository.GetProfessionalProfile(user.ID); err == nil {
			view.Professional = p
		}
	case models.RoleWorker:
		if w, err := h.userRepository.GetWorkerProfile(user.ID); err == nil {
			view.Worker = w
		}
	}
	return view
}

// GetUser retrieves another user's profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.buildProfileView(user))
}

// ListUsers lists profiles filtered by role, city and search query
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(
		c.QueryParam("user_type"),
		c.QueryParam("city"),
		c.QueryParam("q"),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]ProfileView, len(users))
	for i := range users {
		views[i] = h.buildProfileView(&users[i])
	}
	return c.JSON(http.StatusOK, views)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.buildProfileView(user))
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.City != "" {
		user.City = req.City
	}
	if req.State != "" {
		user.State = req.State
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfessionalProfile upserts the professional detail record for
// the authenticated user
func (h *UserHandler) UpdateProfessionalProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfessionalProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := &models.ProfessionalProfile{
		ProfileID:       currentUserID,
		ExperienceYears: req.ExperienceYears,
		PricePerSqft:    req.PricePerSqft,
	}
	if err := h.userRepository.UpsertProfessionalProfile(p); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, p)
}

// UpdateWorkerProfile upserts the worker detail record for the
// authenticated user
func (h *UserHandler) UpdateWorkerProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateWorkerProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	w := &models.WorkerProfile{
		ProfileID:       currentUserID,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
	}
	if err := h.userRepository.UpsertWorkerProfile(w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, w)
}

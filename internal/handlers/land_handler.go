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

// LandHandler handles HTTP requests for land listings
type LandHandler struct {
	landRepository repositories.LandRepository
	userRepository repositories.UserRepository
}

// NewLandHandler creates a new LandHandler
func NewLandHandler(landRepo repositories.LandRepository, userRepo repositories.UserRepository) *LandHandler {
	return &LandHandler{
		landRepository: landRepo,
		userRepository: userRepo,
	}
}

// RegisterLandRoutes registers land listing routes
func (h *LandHandler) RegisterLandRoutes(g *echo.Group) {
	g.POST("/lands", h.CreateListing)
	g.GET("/lands", h.ListListings)
	g.GET("/lands/mine", h.ListOwnListings)
	g.GET("/lands/:id", h.GetListing)
	g.PUT("/lands/:id", h.UpdateListing)
	g.DELETE("/lands/:id", h.DeleteListing)
}

// CreateListing puts a plot up for sale
func (h *LandHandler) CreateListing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateLandListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing := &models.LandListing{
		OwnerID:     currentUserID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		State:       req.State,
		Status:      models.LandActive,
		AreaSqft:    req.AreaSqft,
		Price:       req.Price,
		CoverImage:  req.CoverImage,
		Images:      req.Images,
	}
	if req.AreaSqft > 0 {
		listing.PricePerSqft = req.Price / req.AreaSqft
	}

	if err := h.landRepository.CreateListing(listing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, listing)
}

// ListListings lists active land listings, filterable by city and state
func (h *LandHandler) ListListings(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = models.LandActive
	}
	listings, err := h.landRepository.GetListings(c.QueryParam("city"), c.QueryParam("state"), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listings)
}

// ListOwnListings lists the authenticated user's listings
func (h *LandHandler) ListOwnListings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	listings, err := h.landRepository.GetListingsByOwner(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listings)
}

// GetListing retrieves one listing
func (h *LandHandler) GetListing(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing ID")
	}

	listing, err := h.landRepository.GetListingByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing)
}

func (h *LandHandler) ownListing(c echo.Context) (*models.LandListing, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid listing ID")
	}

	listing, err := h.landRepository.GetListingByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Listing not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if listing.OwnerID != currentUserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this listing")
	}
	return listing, nil
}

// UpdateListing mutates a listing the caller owns
func (h *LandHandler) UpdateListing(c echo.Context) error {
	listing, err := h.ownListing(c)
	if err != nil {
		return err
	}

	var req models.UpdateLandListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Title != "" {
		listing.Title = req.Title
	}
	if req.Description != "" {
		listing.Description = req.Description
	}
	if req.Status != "" {
		listing.Status = req.Status
	}
	if req.AreaSqft > 0 {
		listing.AreaSqft = req.AreaSqft
	}
	if req.Price > 0 {
		listing.Price = req.Price
	}
	if listing.AreaSqft > 0 {
		listing.PricePerSqft = listing.Price / listing.AreaSqft
	}
	if req.CoverImage != "" {
		listing.CoverImage = req.CoverImage
	}
	if req.Images != "" {
		listing.Images = req.Images
	}

	if err := h.landRepository.UpdateListing(listing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing)
}

// DeleteListing removes a listing the caller owns
func (h *LandHandler) DeleteListing(c echo.Context) error {
	listing, err := h.ownListing(c)
	if err != nil {
		return err
	}

	if err := h.landRepository.DeleteListing(listing.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
	"github.com/civilconnect/marketplace/backend/internal/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	resetCodes     repositories.ResetCodeRepository
	firebaseAuth   *auth.Client
	mailer         *services.ResendMailer
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo repositories.UserRepository,
	resetCodes repositories.ResetCodeRepository,
	firebaseAuthClient *auth.Client,
	mailer *services.ResendMailer,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		resetCodes:     resetCodes,
		firebaseAuth:   firebaseAuthClient,
		mailer:         mailer,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
	g.POST("/password-reset/request", h.RequestPasswordReset)
	g.POST("/password-reset/confirm", h.ConfirmPasswordReset)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		UserType: req.UserType,
		City:     req.City,
		State:    req.State,
		Password: string(hashedPassword),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=land_owner buyer architect engineer contractor builder worker material_seller"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT.
// The profile is upserted keyed by the Firebase UID, so a client that
// retries signup after a timeout lands on the same row instead of
// failing with a conflict.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.firebaseAuth.VerifyIDToken(context.Background(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name := email
	if displayName, ok := token.Claims["name"].(string); ok && displayName != "" {
		name = displayName
	}
	userType := req.UserType
	if userType == "" {
		userType = models.RoleBuyer
	}

	uid := token.UID
	user := &models.User{
		FullName:    name,
		Email:       email,
		UserType:    userType,
		FirebaseUID: &uid,
	}
	if err := h.userRepository.UpsertByFirebaseUID(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Re-read so retried signups return the persisted row, not the upsert input
	user, err = h.userRepository.GetUserByFirebaseUID(token.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	localToken, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": localToken, "user": user})
}

// RequestPasswordReset generates a verification code, persists it with
// its expiry and emails it. The response never reveals whether the email
// is registered; in development (no mail provider key) it carries the
// code so the flow stays testable end to end.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req models.PasswordResetRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response as the success path
			return c.JSON(http.StatusOK, echo.Map{"success": true})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	code, err := generateResetCode()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate reset code")
	}

	record := &models.PasswordResetCode{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(models.ResetCodeTTL),
	}
	if err := h.resetCodes.CreateCode(record); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	subject, html := services.ResetCodeEmail(code, "15 minutes")
	if _, err := h.mailer.SendEmail(c.Request().Context(), req.Email, subject, html); err != nil {
		log.Printf("[auth] reset code email to %s failed: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send email")
	}

	if !h.mailer.Configured() {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "dev_code": code})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ConfirmPasswordReset consumes a code and sets the new password.
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req models.PasswordResetConfirm

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.resetCodes.ConsumeCode(req.Email, req.Code); err != nil {
		if errors.Is(err, repositories.ErrInvalidResetCode) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.userRepository.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateResetCode returns a random six digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

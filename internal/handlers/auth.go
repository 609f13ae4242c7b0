package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/anonto42/info-blog/backend/pkg/mailer"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const activationCodeLength = 20

// AuthHandler handles account registration, activation, login and password reset
type AuthHandler struct {
	userRepository  repositories.UserRepository
	tokenRepository repositories.TokenRepository
	mailer          mailer.Mailer
	jwtSecret       string
	tokenTTL        time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, m mailer.Mailer, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository:  userRepo,
		tokenRepository: tokenRepo,
		mailer:          m,
		jwtSecret:       jwtSecret,
		tokenTTL:        tokenTTL,
	}
}

// RegisterAuthRoutes registers the account routes. auth guards logout.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.GET("/activate/:code", h.Activate)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout, auth)
	g.GET("/forgot-password", h.ForgotPassword)
	g.POST("/forgot-password-complete", h.ForgotPasswordComplete)
}

func newActivationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:activationCodeLength]
}

// Register creates an inactive user and mails the activation link. The user
// row is rolled back when the mail cannot be sent.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password != req.PasswordConfirm {
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}

	ctx := c.Request().Context()
	exists, err := h.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return storeError(err, "")
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "User with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:          req.Email,
		Password:       string(hashedPassword),
		ActivationCode: newActivationCode(),
	}
	err = h.userRepository.Register(ctx, user, func(u *models.User) error {
		return h.mailer.SendActivationCode(ctx, u.Email, u.ActivationCode, false)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return echo.NewHTTPError(http.StatusBadRequest, "User with this email already exists")
	}
	if err != nil {
		logger.Log.Error("registration failed", zap.String("email", req.Email), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Successfully signed up!"})
}

func (h *AuthHandler) Activate(c echo.Context) error {
	if err := h.userRepository.Activate(c.Request().Context(), c.Param("code")); err != nil {
		return storeError(err, "Activation code not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Your account successfully activated!"})
}

// Login checks credentials and issues a bearer token whose id is recorded in
// the token store.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	invalid := echo.NewHTTPError(http.StatusBadRequest, "Unable to log in with provided credentials")
	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid
	}
	if err != nil {
		return storeError(err, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return invalid
	}
	if !user.IsActive {
		return invalid
	}

	token, err := h.issueToken(c, user)
	if err != nil {
		logger.Log.Error("token issue failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Logout revokes every token of the caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.tokenRepository.DeleteUserTokens(c.Request().Context(), userID); err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out"})
}

// ForgotPassword deactivates the account and mails a fresh code.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}

	ctx := c.Request().Context()
	err := h.userRepository.IssueResetCode(ctx, email, newActivationCode(), func(u *models.User) error {
		return h.mailer.SendActivationCode(ctx, u.Email, u.ActivationCode, true)
	})
	if err != nil {
		return storeError(err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Send activation code"})
}

func (h *AuthHandler) ForgotPasswordComplete(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	exists, err := h.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return storeError(err, "")
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "User with given email does not exists")
	}
	pending, err := h.userRepository.PendingCodeExists(ctx, req.ActivationCode)
	if err != nil {
		return storeError(err, "")
	}
	if !pending {
		return echo.NewHTTPError(http.StatusBadRequest, "Wrong activation code")
	}
	if req.Password != req.PasswordConfirmation {
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	err = h.userRepository.CompleteReset(ctx, req.Email, req.ActivationCode, string(hashedPassword))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "User not found")
	}
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully saved new password"})
}

// issueToken signs a JWT for user and records its id in the token store
func (h *AuthHandler) issueToken(c echo.Context, user *models.User) (string, error) {
	now := time.Now().UTC()
	expires := now.Add(h.tokenTTL)
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}

	err = h.tokenRepository.CreateToken(c.Request().Context(), &models.AuthToken{
		Key:       claims.ID,
		UserID:    user.ID,
		ExpiresAt: expires,
	})
	if err != nil {
		return "", err
	}
	return signed, nil
}

package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // SQL sentinel errors
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // token TTL arithmetic

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/smartpark/carwash-api/internal/config"     // app configuration
	"github.com/smartpark/carwash-api/internal/repository" // DB repositories
	"github.com/smartpark/carwash-api/internal/utils"      // helper functions (hashing, token issuing)
)

// minPasswordLen is the single password-length contract for signup. The
// persisted-entity constraint (8) wins over any laxer front-end check.
const minPasswordLen = 8

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPart is the public projection of a user. It never carries the
// password hash.
type userPart struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
type authResp struct {
	Message string   `json:"message"`
	User    userPart `json:"user"`
	Token   string   `json:"token"`
}

// Signup: create the operator account and return a session token
// immediately. Tokens issued at signup live 30 days.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters long"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// Single OR query for the friendly message; the UNIQUE keys are the
	// real guard under concurrency.
	exists, err := h.Users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username or email already exists"})
	}

	// Hashing is an explicit pre-persist step here, not a storage hook.
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		if err == repository.ErrUsernameExists || err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	ttl := time.Duration(h.Cfg.SignupTTLDays) * 24 * time.Hour
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, uid, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Message: "user registered successfully",
		User:    userPart{UserID: uid, Username: req.Username, Email: req.Email},
		Token:   token.Token,
	})
}

// Login: verify credentials and return a fresh session token. Tokens
// issued at login live 24 hours. An unknown username and a wrong password
// produce the identical response so the caller learns nothing about which
// part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ttl := time.Duration(h.Cfg.LoginTTLHours) * time.Hour
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Message: "login successful",
		User:    userPart{UserID: u.ID, Username: u.Username, Email: u.Email},
		Token:   token.Token,
	})
}

// Me: simple protected endpoint returning the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, userPart{UserID: u.ID, Username: u.Username, Email: u.Email})
}

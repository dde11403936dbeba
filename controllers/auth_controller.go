package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/middleware"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username  string `json:"username" binding:"max=80"`
	Email     string `json:"email" binding:"max=120"`
	Password  string `json:"password"`
	FirstName string `json:"first_name" binding:"max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Phone     string `json:"phone" binding:"max=20"`
	Address   string `json:"address"`
}

// LoginRequest is the body of POST /api/auth/login. Username may also be
// the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthController handles account and session endpoints
type AuthController struct {
	auth   *services.AuthService
	cookie CookieConfig
}

// NewAuthController creates an auth controller
func NewAuthController(auth *services.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{auth: auth, cookie: cookie}
}

// Register handles POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    models.NewUserResponse(*user),
	})
}

// Login handles POST /api/auth/login. The token is set as an HttpOnly
// cookie and also returned for clients that send it as a Bearer header.
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	result, err := a.auth.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, result.Token, int(a.cookie.TTL.Seconds()), "/", "", a.cookie.Secure, true)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"user":       models.NewUserResponse(*result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout
func (a *AuthController) Logout(c *gin.Context) {
	if err := a.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", a.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewUserResponse(*middleware.CurrentUser(c)))
}

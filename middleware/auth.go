package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

const (
	userKey      = "user"
	sessionIDKey = "session_id"
)

// SessionConfig describes the tokens accepted by Authenticate
type SessionConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// SessionResolver turns a validated token into the live user
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string, userID uint) (*models.User, error)
}

// Authenticate resolves the session token, when present, to the current
// user. It never rejects a request: an absent, invalid or dead token leaves
// the request anonymous and the guards decide.
func Authenticate(cfg SessionConfig, resolver SessionResolver) (gin.HandlerFunc, error) {
	keyFunc := func(context.Context) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	// Header first: a missing header is not an error, a missing cookie may be.
	extractToken := jwtmiddleware.MultiTokenExtractor(
		jwtmiddleware.AuthHeaderTokenExtractor,
		jwtmiddleware.CookieTokenExtractor(SessionCookieName),
	)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := logging.FromContext(ctx)

		token, err := extractToken(c.Request)
		if err != nil || token == "" {
			c.Next()
			return
		}

		validated, err := jwtValidator.ValidateToken(ctx, token)
		if err != nil {
			logger.Debug("rejected session token", "error", err)
			c.Next()
			return
		}
		claims, ok := validated.(*validator.ValidatedClaims)
		if !ok {
			c.Next()
			return
		}

		userID, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
		if err != nil || claims.RegisteredClaims.ID == "" {
			c.Next()
			return
		}

		user, err := resolver.ResolveSession(ctx, claims.RegisteredClaims.ID, uint(userID))
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				logger.Error("failed to resolve session", "error", err)
			}
			c.Next()
			return
		}

		SetUser(c, user, claims.RegisteredClaims.ID)
		c.Request = c.Request.WithContext(logging.IntoContext(ctx, logger.With("user_id", user.ID)))
		c.Next()
	}, nil
}

// SetUser marks the request as made by user within sessionID
func SetUser(c *gin.Context, user *models.User, sessionID string) {
	c.Set(userKey, user)
	c.Set(sessionIDKey, sessionID)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SessionID returns the session of the authenticated request, if any
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// RequireUser rejects anonymous requests with 401
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"github.com/kendall-kelly/petnic-studio-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSession = SessionConfig{
	Secret:   "test-secret",
	Issuer:   "petnic-studio-api",
	Audience: "petnic-studio-web",
}

func tokenConfig(cfg SessionConfig) services.TokenConfig {
	return services.TokenConfig{Secret: cfg.Secret, Issuer: cfg.Issuer, Audience: cfg.Audience, TTL: time.Hour}
}

type authFixture struct {
	db     *gorm.DB
	auth   *services.AuthService
	router *gin.Engine
}

func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	auth := services.NewAuthService(db, services.NewGormSessionStore(db), tokenConfig(testSession))

	authenticate, err := Authenticate(testSession, auth)
	require.NoError(t, err)

	router := gin.New()
	router.Use(authenticate)
	router.GET("/whoami", func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Username, "session": SessionID(c)})
	})
	router.GET("/private", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &authFixture{db: db, auth: auth, router: router}
}

func (f *authFixture) login(t *testing.T, username string) *services.LoginResult {
	t.Helper()
	result, err := f.auth.Login(context.Background(), username, testutil.TestPassword)
	require.NoError(t, err)
	return result
}

func (f *authFixture) do(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthenticateAcceptsCookieAndBearer(t *testing.T) {
	f := setupAuthFixture(t)
	testutil.CreateUser(t, f.db, "alice", false)
	login := f.login(t, "alice")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: login.Token})
	_, body := f.do(req)
	assert.Equal(t, "alice", body["user"])
	assert.Equal(t, login.SessionID, body["session"])

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	_, body = f.do(req)
	assert.Equal(t, "alice", body["user"])
}

func TestAuthenticateLeavesBadTokensAnonymous(t *testing.T) {
	f := setupAuthFixture(t)
	testutil.CreateUser(t, f.db, "alice", false)
	login := f.login(t, "alice")

	otherAudience := testSession
	otherAudience.Audience = "someone-else"
	foreign := services.NewAuthService(f.db, services.NewGormSessionStore(f.db), tokenConfig(otherAudience))
	foreignLogin, err := foreign.Login(context.Background(), "alice", testutil.TestPassword)
	require.NoError(t, err)

	wrongSecret := testSession
	wrongSecret.Secret = "not-the-secret"
	forger := services.NewAuthService(f.db, services.NewGormSessionStore(f.db), tokenConfig(wrongSecret))
	forged, err := forger.Login(context.Background(), "alice", testutil.TestPassword)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.token"},
		{"malformed header", "Token " + login.Token},
		{"wrong audience", "Bearer " + foreignLogin.Token},
		{"wrong signing key", "Bearer " + forged.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", tt.header)
			w, body := f.do(req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Nil(t, body["user"])
		})
	}
}

func TestAuthenticateRejectsDeadSessions(t *testing.T) {
	f := setupAuthFixture(t)
	user := testutil.CreateUser(t, f.db, "alice", false)

	loggedOut := f.login(t, "alice")
	require.NoError(t, f.auth.Logout(context.Background(), loggedOut.SessionID))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+loggedOut.Token)
	w, body := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", body["error"])

	live := f.login(t, "alice")
	require.NoError(t, f.db.Model(user).Update("is_active", false).Error)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+live.Token)
	w, _ = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "deactivated users are anonymous")
}

func TestGuards(t *testing.T) {
	f := setupAuthFixture(t)
	testutil.CreateUser(t, f.db, "alice", false)
	testutil.CreateUser(t, f.db, "root", true)
	customer := f.login(t, "alice")
	admin := f.login(t, "root")

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantError  string
	}{
		{"anonymous private", "/private", "", http.StatusUnauthorized, "Authentication required"},
		{"customer private", "/private", customer.Token, http.StatusOK, ""},
		{"anonymous admin", "/admin", "", http.StatusUnauthorized, "Authentication required"},
		{"customer admin", "/admin", customer.Token, http.StatusForbidden, "Admin access required"},
		{"admin admin", "/admin", admin.Token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w, body := f.do(req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/config"
	"github.com/kendall-kelly/petnic-studio-api/metrics"
	"github.com/kendall-kelly/petnic-studio-api/routes"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"github.com/kendall-kelly/petnic-studio-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	os.Exit(m.Run())
}

// ShopperAcceptanceTestSuite runs a real HTTP server and a cookie-keeping
// client, the way a browser talks to the API.
type ShopperAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
}

func (suite *ShopperAcceptanceTestSuite) SetupTest() {
	t := suite.T()
	testutil.RequireTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	suite.db = testutil.NewTestDB(t)
	suite.Require().NoError(services.Seed(t.Context(), suite.db, services.SeedConfig{
		AdminUsername: "admin",
		AdminEmail:    "admin@petnicstudio.com",
		AdminPassword: "admin-password",
	}))

	router, err := routes.Setup(routes.Dependencies{
		Config: &config.Config{
			GoEnv:              "test",
			SessionSecret:      "acceptance-secret",
			SessionIssuer:      "petnic-studio-api",
			SessionAudience:    "petnic-studio-web",
			SessionTTL:         time.Hour,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		DB:       suite.db,
		Metrics:  metrics.New(),
		Sessions: services.NewGormSessionStore(suite.db),
		Storage:  services.NewMemoryStorage("/uploads"),
	})
	suite.Require().NoError(err)
	suite.server = httptest.NewServer(router)
}

func (suite *ShopperAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *ShopperAcceptanceTestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// makeRequest sends body as JSON and decodes the JSON response into out
func (suite *ShopperAcceptanceTestSuite) makeRequest(client *http.Client, method, path string, body, out interface{}) int {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestShopperJourney registers, shops, checks out and is fulfilled by an admin
func (suite *ShopperAcceptanceTestSuite) TestShopperJourney() {
	shopper := suite.newClient()

	var products []map[string]interface{}
	suite.Require().Equal(http.StatusOK, suite.makeRequest(shopper, http.MethodGet, "/api/products?featured=true", nil, &products))
	suite.Require().NotEmpty(products, "seeded featured products should be listed")
	productID := products[0]["id"]
	price := products[0]["price"].(float64)

	suite.Equal(http.StatusCreated, suite.makeRequest(shopper, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bella_owner",
		"email":    "bella@example.com",
		"password": "bella-loves-walks",
	}, nil))
	suite.Equal(http.StatusOK, suite.makeRequest(shopper, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bella@example.com",
		"password": "bella-loves-walks",
	}, nil))

	var me map[string]interface{}
	suite.Require().Equal(http.StatusOK, suite.makeRequest(shopper, http.MethodGet, "/api/auth/me", nil, &me))
	suite.Equal("bella_owner", me["username"])

	suite.Require().Equal(http.StatusCreated, suite.makeRequest(shopper, http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id":  productID,
		"quantity":    3,
		"custom_text": "Bella",
	}, nil))

	var placed struct {
		Order map[string]interface{} `json:"order"`
	}
	suite.Require().Equal(http.StatusCreated, suite.makeRequest(shopper, http.MethodPost, "/api/checkout",
		map[string]string{"shipping_address": "4 Kennel Road"}, &placed))
	suite.InDelta(price*3, placed.Order["total_amount"].(float64), 0.001)
	orderID := int(placed.Order["id"].(float64))

	admin := suite.newClient()
	suite.Require().Equal(http.StatusOK, suite.makeRequest(admin, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "admin-password",
	}, nil))
	suite.Equal(http.StatusForbidden, suite.makeRequest(shopper, http.MethodGet, "/api/admin/orders", nil, nil))
	suite.Require().Equal(http.StatusOK, suite.makeRequest(admin, http.MethodPut,
		fmt.Sprintf("/api/admin/orders/%d/status", orderID), map[string]string{"status": "processing"}, nil))

	var order map[string]interface{}
	suite.Require().Equal(http.StatusOK, suite.makeRequest(shopper, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, &order))
	suite.Equal("processing", order["status"])

	suite.Equal(http.StatusOK, suite.makeRequest(shopper, http.MethodPost, "/api/auth/logout", nil, nil))
	suite.Equal(http.StatusUnauthorized, suite.makeRequest(shopper, http.MethodGet, "/api/cart", nil, nil))
}

// TestAdminCatalogManagement creates, lists and exports products as an admin
func (suite *ShopperAcceptanceTestSuite) TestAdminCatalogManagement() {
	admin := suite.newClient()
	suite.Require().Equal(http.StatusOK, suite.makeRequest(admin, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "admin-password",
	}, nil))

	var created map[string]interface{}
	suite.Require().Equal(http.StatusCreated, suite.makeRequest(admin, http.MethodPost, "/api/admin/products", map[string]interface{}{
		"name":     "Pet Portrait Blanket",
		"price":    49.5,
		"category": "home",
	}, &created))

	var page struct {
		Products []map[string]interface{} `json:"products"`
		Total    int                      `json:"total"`
	}
	suite.Require().Equal(http.StatusOK, suite.makeRequest(admin, http.MethodGet, "/api/admin/products?search=blanket", nil, &page))
	suite.Equal(1, page.Total)

	resp, err := admin.Get(suite.server.URL + "/api/admin/products/export")
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(services.ExportContentType, resp.Header.Get("Content-Type"))

	var categories []string
	suite.Require().Equal(http.StatusOK, suite.makeRequest(admin, http.MethodGet, "/api/categories", nil, &categories))
	suite.Contains(categories, "home")
}

func TestShopperAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(ShopperAcceptanceTestSuite))
}

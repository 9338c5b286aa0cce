package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/cart"
	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/db"
	"github.com/meshawi/Pharmacy-Management-System/internal/handlers"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
	"github.com/meshawi/Pharmacy-Management-System/internal/reports"
	"github.com/meshawi/Pharmacy-Management-System/internal/reviews"
)

const (
	testSessionName   = "pharmsess"
	testSessionSecret = "test-secret-key"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(testDB))

	catalogStore := catalog.NewStore(testDB)
	h := &handlers.Handler{
		Catalog: catalogStore,
		Cart:    cart.NewService(catalogStore),
		Orders:  orders.NewEngine(testDB, 0),
		Reviews: reviews.NewAggregator(testDB, nil),
		Reports: reports.NewService(testDB),
		Users:   auth.NewUsers(testDB),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(testSessionSecret))
	r.Use(sessions.Sessions(testSessionName, store))

	api := r.Group("/api")
	api.Use(auth.RequireAuth())
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/reviews", h.ListReviews)

		customer := api.Group("")
		customer.Use(auth.RequireRole(models.RoleCustomer))
		{
			customer.GET("/cart", h.GetCart)
			customer.POST("/cart/items/:id", h.AddToCart)
			customer.DELETE("/cart/items/:id", h.RemoveFromCart)
			customer.POST("/orders", h.ConfirmOrder)
			customer.GET("/orders", h.OrderHistory)
			customer.POST("/products/:id/reviews", h.SubmitReview)
		}

		admin := api.Group("/admin")
		admin.Use(auth.RequireRole(models.RoleAdmin))
		{
			admin.GET("/orders", h.ListAllOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
			admin.GET("/users", h.ListUsers)
			admin.PUT("/users/:id", h.UpdateUser)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.GET("/reports/sales", h.SalesReport)
		}

		api.POST("/products", auth.RequireRole(models.RoleAdmin), h.CreateProduct)
		api.PUT("/products/:id", auth.RequireRole(models.RoleAdmin), h.UpdateProduct)
		api.DELETE("/products/:id", auth.RequireRole(models.RoleAdmin), h.DeleteProduct)

		api.GET("/admin/reports/inventory",
			auth.RequireRole(models.RoleAdmin, models.RolePharmacist), h.InventoryReport)
	}

	return r, testDB
}

// loginCookie builds a session cookie carrying the given user id and role,
// simulating a completed OIDC callback.
func loginCookie(t *testing.T, userID uint, role string) string {
	t.Helper()

	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	store := cookie.NewStore([]byte(testSessionSecret))
	sessions.Sessions(testSessionName, store)(tempC)

	sess := sessions.Default(tempC)
	sess.Set("user_id", userID)
	sess.Set("role", role)
	require.NoError(t, sess.Save())

	return tempW.Header().Get("Set-Cookie")
}

// doRequest performs a request with the given session cookie and returns the
// recorder plus the cookie to use for the next request in the flow (the
// response's refreshed session cookie when one was written).
func doRequest(router *gin.Engine, method, path string, body interface{}, sessionCookie string) (*httptest.ResponseRecorder, string) {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if sessionCookie != "" {
		req.Header.Set("Cookie", sessionCookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	next := sessionCookie
	if sc := recorder.Header().Get("Set-Cookie"); sc != "" {
		next = sc
	}
	return recorder, next
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
}

func pathFor(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func seedCustomer(t *testing.T, testDB *gorm.DB) models.User {
	t.Helper()
	u := models.User{
		FirstName: "Test",
		LastName:  "Customer",
		Username:  "testcustomer",
		Email:     "customer@example.com",
		Role:      models.RoleCustomer,
		OIDCID:    "sub-customer",
	}
	require.NoError(t, testDB.Create(&u).Error)
	return u
}

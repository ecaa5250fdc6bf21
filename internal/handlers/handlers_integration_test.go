package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"laptopshop/internal/database"
	"laptopshop/internal/handlers"
	"laptopshop/internal/middleware"
	"laptopshop/internal/ratelimit"
	"laptopshop/internal/repositories"
	"laptopshop/internal/routes"
	"laptopshop/internal/services"
	"laptopshop/internal/warranty"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	superEmail    = "root@laptopshop.vn"
	superPassword = "supersecret"
)

// setupApp builds the full API on an in-memory SQLite database.
func setupApp(t *testing.T, rateLimitMax int) *fiber.App {
	t.Helper()

	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.EnsureSuperAdmin(db, superEmail, superPassword))

	store := repositories.NewStore(db)
	authService := services.NewAuthService(store.Users, services.AuthConfig{JWTSecret: "test_jwt_secret"})
	productService := services.NewProductService(store.Products, store.Categories, store.Brands)

	app := routes.NewApp("test", false)
	routes.Register(app, authService, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, false),
		User:     handlers.NewUserHandler(authService),
		Product:  handlers.NewProductHandler(productService),
		Catalog:  handlers.NewCatalogHandler(services.NewCatalogService(store.Categories, store.Brands)),
		Order:    handlers.NewOrderHandler(services.NewOrderService(store, nil, 50_000_000)),
		Customer: handlers.NewCustomerHandler(services.NewCustomerService(store.Customers)),
		Warranty: handlers.NewWarrantyHandler(services.NewWarrantyService(store.Orders, store.Products)),
		Review:   handlers.NewReviewHandler(services.NewReviewService(store.Reviews, store.Products)),
		Post:     handlers.NewPostHandler(services.NewPostService(store.Posts)),
		Software: handlers.NewSoftwareHandler(services.NewSoftwareService(store.Software)),
		AI:       handlers.NewAIHandler(services.NewAIService(nil, productService)),
		Media:    handlers.NewMediaHandler(nil),
	}, routes.RateLimit{
		Storage: ratelimit.NewStorage(db),
		Max:     rateLimitMax,
		Window:  time.Minute,
	})
	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type envelope struct {
	Success   bool               `json:"success"`
	Data      json.RawMessage    `json:"data"`
	Message   string             `json:"message"`
	Error     string             `json:"error"`
	Errors    map[string]string  `json:"errors"`
	LockUntil *time.Time         `json:"lockUntil"`
	Meta      *handlers.PageMeta `json:"meta"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var result struct {
		Token string `json:"token"`
	}
	decode(t, env, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestHealth(t *testing.T) {
	app := setupApp(t, 100)
	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	app := setupApp(t, 100)
	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/nope", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestAuthLoginCookieAndMe(t *testing.T) {
	app := setupApp(t, 100)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"email": superEmail, "password": "wrong-password",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Errors, "Password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/login",
		bytes.NewReader([]byte(`{"email":"`+superEmail+`","password":"`+superPassword+`"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login sets the session cookie")
	assert.True(t, cookie.HttpOnly)

	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	meReq.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: cookie.Value})
	resp, err = app.Test(meReq, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthLockout(t *testing.T) {
	app := setupApp(t, 100)
	wrong := map[string]string{"email": superEmail, "password": "wrong-password"}

	for i := 1; i <= 4; i++ {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", wrong, "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "attempt %d", i)
	}

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", wrong, "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	require.NotNil(t, env.LockUntil)
	assert.True(t, env.LockUntil.After(time.Now()))

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"email": superEmail, "password": superPassword,
	}, "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "correct password is refused while locked")
}

type seeded struct {
	token     string
	productID string
	slug      string
}

func seedCatalog(t *testing.T, app *fiber.App) seeded {
	t.Helper()
	token := login(t, app, superEmail, superPassword)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Laptop Gaming"}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var category struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	decode(t, env, &category)
	assert.Equal(t, "laptop-gaming", category.Slug)

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/admin/brands", map[string]string{"name": "ASUS"}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var brand struct {
		ID string `json:"id"`
	}
	decode(t, env, &brand)

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name":            "ASUS ROG Strix G16",
		"model":           "G614JU",
		"category_id":     category.ID,
		"brand_id":        brand.ID,
		"price":           32_990_000,
		"sale_price":      29_990_000,
		"stock":           5,
		"warranty_months": 24,
		"specs":           map[string]string{"cpu": "i7-13650HX", "ram": "16GB"},
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var product struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	decode(t, env, &product)
	return seeded{token: token, productID: product.ID, slug: product.Slug}
}

func TestCatalogAndCheckoutFlow(t *testing.T) {
	app := setupApp(t, 100)
	s := seedCatalog(t, app)

	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/products?category=laptop-gaming&brand=asus", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+s.slug, nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer":       map[string]string{"name": "Lê Văn Cường", "phone": "12345", "address": "Đà Nẵng"},
		"items":          []map[string]interface{}{{"product_id": s.productID, "quantity": 1}},
		"payment_method": "cod",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Field 'Phone' failed on the 'vnphone' tag", env.Errors["Phone"])

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer":       map[string]string{"name": "Lê Văn Cường", "phone": "0912 345 678", "address": "Đà Nẵng"},
		"items":          []map[string]interface{}{{"product_id": s.productID, "quantity": 9}},
		"payment_method": "cod",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "insufficient stock")

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer":       map[string]string{"name": "Lê Văn Cường", "phone": "0912 345 678", "address": "Đà Nẵng"},
		"items":          []map[string]interface{}{{"product_id": s.productID, "quantity": 2}},
		"payment_method": "bank_transfer",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var order struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		TotalAmount int64  `json:"total_amount"`
		Status      string `json:"status"`
	}
	decode(t, env, &order)
	assert.Equal(t, int64(59_980_000), order.TotalAmount)
	assert.Equal(t, "pending", order.Status)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/admin/products/"+s.productID, nil, s.token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var product struct {
		Stock int `json:"stock"`
	}
	decode(t, env, &product)
	assert.Equal(t, 3, product.Stock)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders/"+order.OrderNumber, nil, s.token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/warranty?q=0912345678", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var pending []warranty.OrderWarranty
	decode(t, env, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, warranty.StatusPendingDelivery, pending[0].Items[0].Status)

	resp, env = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{"status": "delivered"}, s.token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	resp, env = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{"status": "cancelled"}, s.token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "delivered is terminal")

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/warranty?q="+order.OrderNumber, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var active []warranty.OrderWarranty
	decode(t, env, &active)
	require.Len(t, active, 1)
	assert.Equal(t, warranty.StatusActive, active[0].Items[0].Status)
	assert.Equal(t, 24, active[0].Items[0].WarrantyMonths)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/warranty?q=0999999999", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/admin/customers/0912345678", nil, s.token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var customer struct {
		TotalSpent int64 `json:"total_spent"`
		OrderCount int   `json:"order_count"`
	}
	decode(t, env, &customer)
	assert.Equal(t, int64(59_980_000), customer.TotalSpent)
	assert.Equal(t, 1, customer.OrderCount)
}

func TestDuplicateProductSlugConflict(t *testing.T) {
	app := setupApp(t, 100)
	s := seedCatalog(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name": "Another", "slug": s.slug, "price": 1,
	}, s.token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestReviewModeration(t *testing.T) {
	app := setupApp(t, 100)
	s := seedCatalog(t, app)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/reviews", map[string]interface{}{
		"product_id":    s.productID,
		"customer_name": "Minh",
		"rating":        4,
		"content":       "Máy chạy mát, pin ổn.",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var review struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env, &review)
	assert.Equal(t, "pending", review.Status)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/reviews?product_id="+s.productID, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list services.ReviewList
	decode(t, env, &list)
	assert.Empty(t, list.Reviews)

	resp, env = doJSON(t, app, http.MethodPatch, "/api/v1/admin/reviews/"+review.ID+"/status", map[string]string{"status": "approved"}, s.token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/reviews?product_id="+s.productID, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, env, &list)
	assert.Len(t, list.Reviews, 1)
	assert.Equal(t, 4.0, list.Average)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/products/"+s.slug, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var product struct {
		RatingAverage float64 `json:"rating_average"`
		RatingCount   int     `json:"rating_count"`
	}
	decode(t, env, &product)
	assert.Equal(t, 4.0, product.RatingAverage)
	assert.Equal(t, 1, product.RatingCount)
}

func TestOptionalCollaborators(t *testing.T) {
	app := setupApp(t, 100)
	s := seedCatalog(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/media/presign", map[string]string{
		"filename": "rog.jpg", "content_type": "image/jpeg",
	}, s.token)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/ai/parse-specs", map[string]string{"text": "ASUS ROG i7 16GB"}, s.token)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/ai/search", map[string]string{"query": "rog strix"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var result services.SearchResult
	decode(t, env, &result)
	assert.Equal(t, services.SearchSourceFallback, result.Source)
	assert.Equal(t, int64(1), result.Total)
}

func TestUserManagementRequiresSuperadmin(t *testing.T) {
	app := setupApp(t, 100)
	superToken := login(t, app, superEmail, superPassword)

	newUser := map[string]string{
		"email": "staff@laptopshop.vn", "name": "Staff", "password": "staffpass1", "role": "admin",
	}
	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/users", newUser, superToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/users", newUser, superToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	staffToken := login(t, app, "staff@laptopshop.vn", "staffpass1")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", nil, staffToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", nil, staffToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminGateIgnoresPathCase(t *testing.T) {
	app := setupApp(t, 100)

	for _, path := range []string{
		"/api/v1/admin/customers",
		"/API/v1/admin/customers",
		"/api/v1/Admin/orders",
		"/Api/V1/ADMIN/products",
	} {
		resp, env := doJSON(t, app, http.MethodGet, path, nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		assert.False(t, env.Success, path)
	}

	token := login(t, app, superEmail, superPassword)
	resp, env := doJSON(t, app, http.MethodGet, "/API/v1/Admin/customers", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestAdminGateUsesStoredAccountState(t *testing.T) {
	app := setupApp(t, 100)
	superToken := login(t, app, superEmail, superPassword)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/users", map[string]string{
		"email": "promoted@laptopshop.vn", "name": "Promoted", "password": "staffpass1", "role": "admin",
	}, superToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	var user struct {
		ID string `json:"id"`
	}
	decode(t, env, &user)

	staffToken := login(t, app, "promoted@laptopshop.vn", "staffpass1")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", nil, staffToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/admin/users/"+user.ID, map[string]string{"role": "superadmin"}, superToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", nil, staffToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "a role change applies to the existing session")

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/admin/users/"+user.ID, map[string]string{"status": "inactive"}, superToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/admin/customers", nil, staffToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestContentEndpoints(t *testing.T) {
	app := setupApp(t, 100)
	token := login(t, app, superEmail, superPassword)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/posts", map[string]interface{}{
		"title": "Cách chọn laptop cho sinh viên", "content": "...", "published": true,
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/posts/cach-chon-laptop-cho-sinh-vien", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var post struct {
		Views int64 `json:"views"`
	}
	decode(t, env, &post)
	assert.Equal(t, int64(1), post.Views)

	resp, env = doJSON(t, app, http.MethodPost, "/api/v1/admin/software", map[string]interface{}{
		"name": "MyASUS", "category": "utility", "platform": "windows", "download_url": "https://dl.example.com/myasus.exe",
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/software/myasus/download", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var download struct {
		URL string `json:"download_url"`
	}
	decode(t, env, &download)
	assert.Equal(t, "https://dl.example.com/myasus.exe", download.URL)
}

func TestCheckoutRateLimited(t *testing.T) {
	app := setupApp(t, 1)

	body := map[string]interface{}{"items": []interface{}{}}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", body, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/orders", body, "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, env.Success)
}

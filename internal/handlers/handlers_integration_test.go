package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Atwoto/solara-mvp-sub000/internal/handlers"
	"github.com/Atwoto/solara-mvp-sub000/internal/middleware"
	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"
	"github.com/Atwoto/solara-mvp-sub000/pkg/paystack"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPaystackSecret = "sk_test_webhook_secret"

// fakeGateway stands in for Paystack so checkout never leaves the process.
type fakeGateway struct{}

func (fakeGateway) InitializeTransaction(req paystack.InitializeRequest) (*paystack.Transaction, error) {
	return &paystack.Transaction{
		AuthorizationURL: "https://checkout.paystack.com/test",
		AccessCode:       "test_access",
		Reference:        "PSK-" + req.Reference,
	}, nil
}

func (fakeGateway) VerifyTransaction(reference string) (*paystack.VerifyResult, error) {
	return &paystack.VerifyResult{Status: "success", Reference: reference}, nil
}

// testEnv exposes the storage layer behind the app so tests can seed data
// the HTTP surface cannot create (drafts, admin flags).
type testEnv struct {
	db           *gorm.DB
	blog         repositories.BlogRepository
	pages        repositories.ServicePageRepository
	testimonials repositories.TestimonialRepository
}

// setupApp wires a Fiber app against an in-memory SQLite database, one per
// test to keep state isolated.
func setupApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(
		&models.Product{}, &models.User{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.WishlistEntry{},
		&models.BlogPost{}, &models.ServicePage{}, &models.Testimonial{},
	)
	assert.NoError(t, err)

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)
	blogRepo := repositories.NewGORMBlogRepository(db)
	pageRepo := repositories.NewGORMServicePageRepository(db)
	testimonialRepo := repositories.NewGORMTestimonialRepository(db)
	guestCarts := repositories.NewGuestCartStorage()

	seedProductsForTest(t, productRepo)

	verifier, err := paystack.NewClient(paystack.Config{SecretKey: testPaystackSecret})
	assert.NoError(t, err)

	productService := services.NewProductService(productRepo)
	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	cartService := services.NewCartService(cartRepo, guestCarts)
	merger := services.NewMergeCoordinator(cartService, productRepo)
	orderService := services.NewOrderService(orderRepo, nil)
	checkoutService := services.NewCheckoutService(orderService, cartService, fakeGateway{}, "KES", 500)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)
	blogService := services.NewBlogService(blogRepo)
	pageService := services.NewServicePageService(pageRepo)
	testimonialService := services.NewTestimonialService(testimonialRepo)

	authHandler := handlers.NewAuthHandler(authService, merger)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, productService, 500)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, verifier)
	orderHandler := handlers.NewOrderHandler(orderService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, cartService)
	cmsHandler := handlers.NewCMSHandler(blogService, pageService, testimonialService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	cmsHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterWebhookRoutes(apiV1)

	optional := apiV1.Group("", middleware.AuthOptional(authService))
	cartHandler.RegisterRoutes(optional)
	checkoutHandler.RegisterRoutes(optional)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(protected)
	wishlistHandler.RegisterRoutes(protected)

	admin := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	cmsHandler.RegisterAdminRoutes(admin)

	return app, &testEnv{
		db:           db,
		blog:         blogRepo,
		pages:        pageRepo,
		testimonials: testimonialRepo,
	}
}

func seedProductsForTest(t *testing.T, repo repositories.ProductRepository) {
	t.Helper()
	products := []models.Product{
		{ID: "panel-400w", Name: "400W Mono Panel", Category: "panels", PriceMinor: 18500_00},
		{ID: "inverter-3kw", Name: "3kW Hybrid Inverter", Category: "inverters", PriceMinor: 64000_00},
	}
	for i := range products {
		assert.NoError(t, repo.Create(&products[i]))
	}
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON issues a JSON request and decodes the response body into a map.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	decoded := make(map[string]interface{})
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	if len(raw) > 0 {
		// Some endpoints return bare status codes with no body.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates a user and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, email string, headers map[string]string) (string, map[string]interface{}) {
	t.Helper()
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Test Customer",
		"email":    email,
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, headers)
	assert.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token, body
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	registration := map[string]string{
		"name":     "Ada Wanjiru",
		"email":    "ada@example.com",
		"password": "password123",
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", registration, nil)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", body["message"])

	// Duplicate registration
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", registration, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Wrong password
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ada@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestGuestCartLifecycle(t *testing.T) {
	app, _ := setupApp(t)
	session := map[string]string{"X-Session-ID": "sess-guest-1"}

	// No identity at all is rejected.
	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w", "quantity": 2,
	}, session)
	assert.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	assert.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, float64(2), line["quantity"])

	// Totals ride along with every cart response.
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, float64(2*18500_00), totals["subtotal_minor"])
	assert.Equal(t, float64(500), totals["shipping_minor"])
	assert.Equal(t, float64(2*18500_00+500), totals["total_minor"])

	// Adding again increments, and the totals follow the new contents.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w",
	}, session)
	assert.Equal(t, http.StatusOK, status)
	line = body["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(3), line["quantity"])
	totals = body["totals"].(map[string]interface{})
	assert.Equal(t, float64(3*18500_00+500), totals["total_minor"])

	// Unknown product is a 404.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "no-such-product",
	}, session)
	assert.Equal(t, http.StatusNotFound, status)

	// Absolute update to zero removes the line; an empty cart ships nothing
	// and owes nothing.
	status, body = doJSON(t, app, http.MethodPut, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w", "quantity": 0,
	}, session)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])
	totals = body["totals"].(map[string]interface{})
	assert.Equal(t, float64(0), totals["shipping_minor"])
	assert.Equal(t, float64(0), totals["total_minor"])

	// Another session sees nothing.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Session-ID": "sess-guest-2"})
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])
}

func TestLoginMergesGuestCart(t *testing.T) {
	app, _ := setupApp(t)
	session := map[string]string{"X-Session-ID": "sess-merge-1"}

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w", "quantity": 2,
	}, session)
	assert.Equal(t, http.StatusOK, status)

	token, loginBody := registerAndLogin(t, app, "merge@example.com", session)
	cart, ok := loginBody["cart"].([]interface{})
	assert.True(t, ok, "login with a session id must return the merged cart")
	assert.Len(t, cart, 1)

	// Server cart now owns the items.
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])

	// The guest session was emptied by the merge.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, session)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])
}

func TestCheckoutFlow(t *testing.T) {
	app, _ := setupApp(t)
	token, _ := registerAndLogin(t, app, "buyer@example.com", nil)
	auth := map[string]string{"Authorization": "Bearer " + token}

	// Checkout with an empty cart is rejected.
	shipping := map[string]interface{}{
		"shipping": map[string]string{
			"full_name": "Ada Wanjiru",
			"phone":     "+254 712 345678",
			"address":   "14 Riverside Drive, Nairobi",
		},
	}
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/checkout", shipping, auth)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w", "quantity": 2,
	}, auth)
	assert.Equal(t, http.StatusOK, status)

	// Bad shipping details fail validation before the gateway.
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"shipping": map[string]string{"full_name": "", "phone": "x", "address": ""},
	}, auth)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "errors")

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout", shipping, auth)
	assert.Equal(t, http.StatusCreated, status)
	orderID := body["order_id"].(string)
	gateway := body["paystack"].(map[string]interface{})
	reference := gateway["reference"].(string)
	assert.NotEmpty(t, orderID)
	assert.NotEmpty(t, reference)
	assert.Equal(t, float64(2*18500_00+500), body["total_minor"])

	// Widget closed: order stays pending, cart stays full.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+orderID+"/abort", nil, auth)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(models.StatusPendingPayment), body["status"])
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, auth)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	// Widget succeeded: order paid, cart cleared.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+orderID+"/confirm", map[string]string{
		"reference": reference,
	}, auth)
	assert.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, auth)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	// The order shows up in the user's history.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, nil, auth)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(models.StatusPaid), body["status"])

	// Orders are never visible without a token.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testPaystackSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhook(t *testing.T) {
	app, _ := setupApp(t)
	session := map[string]string{"X-Session-ID": "sess-webhook-1"}

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "inverter-3kw",
	}, session)
	assert.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"shipping": map[string]string{
			"full_name": "Guest Buyer",
			"phone":     "0712345678",
			"address":   "Langata Road, Nairobi",
		},
		"email": "guest@example.com",
	}, session)
	assert.Equal(t, http.StatusCreated, status)
	orderID := body["order_id"].(string)
	reference := body["paystack"].(map[string]interface{})["reference"].(string)

	payload, err := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data":  map[string]string{"reference": reference, "status": "success"},
	})
	assert.NoError(t, err)

	// Missing or wrong signature is rejected without touching the order.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/paystack/webhook", bytes.NewReader(payload))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/v1/paystack/webhook", bytes.NewReader(payload))
	req.Header.Set(paystack.SignatureHeader, "deadbeef")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A correctly signed delivery marks the order paid; replaying it is fine.
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/paystack/webhook", bytes.NewReader(payload))
		req.Header.Set(paystack.SignatureHeader, signWebhook(payload))
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Confirm via abort endpoint view of status (guest has no /orders access).
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+orderID+"/abort", nil, session)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(models.StatusPaid), body["status"])
}

func getWishlist(t *testing.T, app *fiber.App, auth map[string]string) []models.Product {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	for k, v := range auth {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	return products
}

func TestWishlistFlow(t *testing.T) {
	app, _ := setupApp(t)
	token, _ := registerAndLogin(t, app, "wisher@example.com", nil)
	auth := map[string]string{"Authorization": "Bearer " + token}

	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/wishlist", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/panel-400w", nil, auth)
	assert.Equal(t, http.StatusCreated, status)
	// Re-adding is idempotent.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/panel-400w", nil, auth)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/no-such-product", nil, auth)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Len(t, getWishlist(t, app, auth), 1)

	// Move to cart removes from the wishlist and adds one unit to the cart.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/panel-400w/move-to-cart", nil, auth)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, getWishlist(t, app, auth))

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/cart", nil, auth)
	assert.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), items[0].(map[string]interface{})["quantity"])
}

func TestPublicCMSReads(t *testing.T) {
	app, env := setupApp(t)

	assert.NoError(t, env.blog.Create(&models.BlogPost{
		Title: "Sizing your solar array", Slug: "sizing-your-solar-array",
		Content: "Start from your daily consumption.", Published: true,
	}))
	assert.NoError(t, env.blog.Create(&models.BlogPost{
		Title: "Draft post", Slug: "draft-post", Content: "Unfinished.",
	}))
	assert.NoError(t, env.pages.Create(&models.ServicePage{
		Title: "Residential installation", Slug: "residential-installation",
		Content: "Full rooftop installation.", Published: true,
	}))
	assert.NoError(t, env.testimonials.Create(&models.Testimonial{
		Author: "Ada Wanjiru", Quote: "Flawless install.", Rating: 5, Approved: true,
	}))
	assert.NoError(t, env.testimonials.Create(&models.Testimonial{
		Author: "Pending Reviewer", Quote: "Awaiting moderation.", Rating: 4,
	}))

	// Public blog list carries published posts only.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.BlogPost
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	resp.Body.Close()
	assert.Len(t, posts, 1)
	assert.Equal(t, "sizing-your-solar-array", posts[0].Slug)

	// A draft 404s by slug for the public.
	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/blog/draft-post", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/blog/sizing-your-solar-array", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sizing your solar array", body["title"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/services/residential-installation", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Residential installation", body["title"])

	// Only approved testimonials are public.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/testimonials", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var quotes []models.Testimonial
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&quotes))
	resp.Body.Close()
	assert.Len(t, quotes, 1)
	assert.Equal(t, "Ada Wanjiru", quotes[0].Author)
}

func TestAdminRoutes(t *testing.T) {
	app, env := setupApp(t)

	// A regular user cannot reach the admin console.
	token, _ := registerAndLogin(t, app, "regular@example.com", nil)
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name": "Unauthorized product",
	}, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusForbidden, status)

	// Promote a user and log in again for a token with the admin claim.
	registerAndLogin(t, app, "admin@example.com", nil)
	assert.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "admin@example.com").
		Update("is_admin", true).Error)
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	adminAuth := map[string]string{"Authorization": "Bearer " + body["token"].(string)}

	// Catalog CRUD through the admin console.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name":        "200Ah Gel Battery",
		"category":    "batteries",
		"price_minor": 2950000,
	}, adminAuth)
	assert.Equal(t, http.StatusCreated, status)
	productID := body["id"].(string)
	assert.NotEmpty(t, productID)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/admin/products/"+productID, nil, adminAuth)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Admin order listing and the status guard over HTTP.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", nil, adminAuth)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	app, env := setupApp(t)

	token, _ := registerAndLogin(t, app, "buyer2@example.com", nil)
	auth := map[string]string{"Authorization": "Bearer " + token}
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "panel-400w",
	}, auth)
	assert.Equal(t, http.StatusOK, status)
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"shipping": map[string]string{
			"full_name": "Second Buyer",
			"phone":     "0712345678",
			"address":   "Moi Avenue, Nairobi",
		},
	}, auth)
	assert.Equal(t, http.StatusCreated, status)
	orderID := body["order_id"].(string)
	reference := body["paystack"].(map[string]interface{})["reference"].(string)
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+orderID+"/confirm", map[string]string{
		"reference": reference,
	}, auth)
	assert.Equal(t, http.StatusOK, status)

	registerAndLogin(t, app, "ops@example.com", nil)
	assert.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "ops@example.com").
		Update("is_admin", true).Error)
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ops@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	adminAuth := map[string]string{"Authorization": "Bearer " + body["token"].(string)}

	// Skipping ahead in the lifecycle is rejected.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", map[string]string{
		"status": "delivered",
	}, adminAuth)
	assert.Equal(t, http.StatusConflict, status)

	for _, next := range []string{"processing", "shipped", "delivered"} {
		status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", map[string]string{
			"status": next,
		}, adminAuth)
		assert.Equal(t, http.StatusOK, status, "advance to %s", next)
	}

	// Delivered is terminal, even for admins.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", map[string]string{
		"status": "cancelled",
	}, adminAuth)
	assert.Equal(t, http.StatusConflict, status)
}

func TestPublicProductListing(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 2)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?category=panels", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 1)
	assert.Equal(t, "panel-400w", products[0].ID)
}

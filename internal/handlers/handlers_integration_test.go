package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"shoeshop/internal/handlers"
	"shoeshop/internal/middleware"
	"shoeshop/internal/models"
	"shoeshop/internal/repositories"
	"shoeshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

// setupApp builds a Fiber app over store with every handler registered.
func setupApp(store *repositories.Store) *fiber.App {
	authService := services.NewAuthService(store.Users, nil, false)
	productService := services.NewProductService(store.Products, nil)
	cartService := services.NewCartService(store.Cart, nil)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.CORS("*"))

	handlers.NewHealthHandler(store.Driver, store).RegisterRoutes(app)
	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app)
	handlers.NewCartHandler(cartService).RegisterRoutes(app)
	return app
}

// setupSQLiteApp returns an app backed by a fresh in-memory SQLite database.
func setupSQLiteApp(t *testing.T) *fiber.App {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repositories.OpenGORM(repositories.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	return setupApp(repositories.NewGORMStore(repositories.DriverSQLite, db))
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			jsonBody, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(jsonBody)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupSQLiteApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "Password123",
		"img":      "avatars/1.png",
	}

	// Test Registration returns the stored record, password included
	resp := doJSON(t, app, http.MethodPost, "/register", userToRegister)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered map[string]interface{}
	decode(t, resp, &registered)
	assert.NotEmpty(t, registered["_id"])
	for k, v := range userToRegister {
		assert.Equal(t, v, registered[k], k)
	}

	// Test Duplicate Registration (email)
	resp = doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "someoneelse",
		"email":    "test@example.com",
		"password": "x",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "Error registering user", errBody["error"])

	// Same username with another email is allowed
	resp = doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "testuser",
		"email":    "second@example.com",
		"password": "other",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Test Login by username
	resp = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "testuser",
		"password": "Password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loggedIn models.User
	decode(t, resp, &loggedIn)
	assert.Equal(t, registered["_id"], loggedIn.ID)
	assert.Equal(t, "Password123", loggedIn.Password)

	// Test Login by email
	resp = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "test@example.com",
		"password": "Password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterMissingFieldIs500(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "nopass",
		"email":    "nopass@example.com",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginFailures(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "casey",
		"email":    "casey@example.com",
		"password": "Secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	cases := []struct {
		name string
		body interface{}
	}{
		{"wrong password", map[string]string{"username": "casey", "password": "wrong"}},
		{"password is case-sensitive", map[string]string{"username": "casey", "password": "secret"}},
		{"unknown user", map[string]string{"username": "nobody", "password": "Secret"}},
		{"missing password", map[string]string{"username": "casey"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/login", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, "Invalid username or password", body["error"])
		})
	}
}

func TestForgotPassword(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "forgetful",
		"email":    "forgetful@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/forgot-password", map[string]string{"email": "forgetful@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ok map[string]string
	decode(t, resp, &ok)
	assert.Equal(t, "Reset password link has been sent to your email.", ok["message"])

	resp = doJSON(t, app, http.MethodPost, "/forgot-password", map[string]string{"email": "unknown@example.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var notFound map[string]string
	decode(t, resp, &notFound)
	assert.Equal(t, "User not found", notFound["message"])
}

func TestProductEndpoints(t *testing.T) {
	app := setupSQLiteApp(t)

	// Empty catalog is an empty array
	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []models.Product
	decode(t, resp, &empty)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	submitted := []map[string]interface{}{
		{
			"productName": "Air Runner",
			"shoeType":    "running",
			"image":       []string{"img/1.png", "img/2.png"},
			"price":       "129.99",
			"rating":      4.5,
			"description": "Lightweight runner",
			"color":       []string{"black", "white"},
			"size":        []string{"41", "42", "43"},
		},
		{
			"productName": "Trail Boot",
			"shoeType":    "hiking",
			"price":       "not-a-number",
			"rating":      11,
			"description": "Rating and price are stored as given",
		},
	}

	for _, p := range submitted {
		resp = doJSON(t, app, http.MethodPost, "/products", p)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var created models.Product
		decode(t, resp, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, p["productName"], created.ProductName)
		assert.Equal(t, p["price"], created.Price)
	}

	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decode(t, resp, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Air Runner", products[0].ProductName)
	assert.Equal(t, []string{"img/1.png", "img/2.png"}, products[0].Image)
	assert.Equal(t, []string{"41", "42", "43"}, products[0].Size)
	assert.Equal(t, 4.5, products[0].Rating)
	assert.Equal(t, float64(11), products[1].Rating)
	assert.Equal(t, []string{}, products[1].Color)

	// Missing required field
	resp = doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{"productName": "Half"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "Error adding product", errBody["error"])
}

func TestProductExport(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"productName": "Court Classic",
		"shoeType":    "tennis",
		"price":       "80",
		"rating":      4,
		"description": "Leather",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/products/export", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "products.xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	sheet := file.Sheet["Products"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Court Classic", sheet.Rows[1].Cells[1].String())
}

func TestCartEndpoints(t *testing.T) {
	app := setupSQLiteApp(t)

	// Add with explicit quantity
	resp := doJSON(t, app, http.MethodPost, "/cart", map[string]interface{}{
		"id": "p1", "productName": "Shoe", "price": "10", "quantity": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var added models.CartItem
	decode(t, resp, &added)
	assert.Equal(t, "p1", added.ProductID)
	assert.Equal(t, 2.0, added.Quantity)

	// Add without quantity defaults to 1
	resp = doJSON(t, app, http.MethodPost, "/cart", map[string]interface{}{
		"id": "p2", "productName": "Sandal", "price": "5",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var defaulted models.CartItem
	decode(t, resp, &defaulted)
	assert.Equal(t, 1.0, defaulted.Quantity)

	// Update quantity changes only the quantity
	resp = doJSON(t, app, http.MethodPut, "/cart/p1", map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	decode(t, resp, &updated)
	assert.Equal(t, map[string]interface{}{
		"_id":         added.Key,
		"id":          "p1",
		"productName": "Shoe",
		"price":       "10",
		"quantity":    float64(5),
	}, updated)

	// Update on a missing id
	resp = doJSON(t, app, http.MethodPut, "/cart/nope", map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var notFound map[string]string
	decode(t, resp, &notFound)
	assert.Equal(t, "Cart item not found", notFound["message"])

	// Update without quantity
	resp = doJSON(t, app, http.MethodPut, "/cart/p1", map[string]interface{}{})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()

	// Delete on a missing id leaves the cart unchanged
	resp = doJSON(t, app, http.MethodDelete, "/cart/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	var items []models.CartItem
	decode(t, resp, &items)
	assert.Len(t, items, 2)

	// Delete existing
	resp = doJSON(t, app, http.MethodDelete, "/cart/p1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted map[string]string
	decode(t, resp, &deleted)
	assert.Equal(t, "Cart item deleted successfully", deleted["message"])

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	items = nil
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestCartFractionalQuantities(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/cart", map[string]interface{}{
		"id": "p1", "productName": "Shoe", "price": "10", "quantity": 2.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added models.CartItem
	decode(t, resp, &added)
	assert.Equal(t, 2.5, added.Quantity)

	resp = doJSON(t, app, http.MethodPut, "/cart/p1", map[string]interface{}{"quantity": 1.5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.CartItem
	decode(t, resp, &updated)
	assert.Equal(t, 1.5, updated.Quantity)

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	var items []models.CartItem
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 1.5, items[0].Quantity)
}

func TestCartNullQuantityIs500(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/cart", map[string]interface{}{
		"id": "p1", "productName": "Shoe", "price": "10", "quantity": nil,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "Error adding cart item", body["error"])

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	var items []models.CartItem
	decode(t, resp, &items)
	assert.Empty(t, items)
}

func TestCartDuplicateIDsTouchFirstOnly(t *testing.T) {
	app := setupSQLiteApp(t)

	for _, qty := range []int{1, 7} {
		resp := doJSON(t, app, http.MethodPost, "/cart", map[string]interface{}{
			"id": "dup", "productName": "Twin", "price": "3", "quantity": qty,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodPut, "/cart/dup", map[string]interface{}{"quantity": 9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	var items []models.CartItem
	decode(t, resp, &items)
	require.Len(t, items, 2)
	quantities := []float64{items[0].Quantity, items[1].Quantity}
	assert.ElementsMatch(t, []float64{9, 7}, quantities)

	resp = doJSON(t, app, http.MethodDelete, "/cart/dup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/cart", nil)
	items = nil
	decode(t, resp, &items)
	assert.Len(t, items, 1)
}

func TestMalformedAndUnknownBodies(t *testing.T) {
	app := setupSQLiteApp(t)

	resp := doJSON(t, app, http.MethodPost, "/cart", `{"id": "p1",`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "Invalid request body", body["error"])

	resp = doJSON(t, app, http.MethodPost, "/register", map[string]string{
		"username": "u", "email": "u@example.com", "password": "p", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUnavailableStorage(t *testing.T) {
	store := repositories.NewUnavailableStore(repositories.DriverMongo, errors.New("connection refused"))
	app := setupApp(store)

	checks := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/products", nil},
		{http.MethodGet, "/cart", nil},
		{http.MethodPost, "/cart", map[string]interface{}{"id": "p1", "productName": "Shoe", "price": "10"}},
		{http.MethodDelete, "/cart/p1", nil},
		{http.MethodPut, "/cart/p1", map[string]interface{}{"quantity": 2}},
		{http.MethodPost, "/login", map[string]string{"username": "a", "password": "b"}},
		{http.MethodPost, "/forgot-password", map[string]string{"email": "a@example.com"}},
	}
	for _, c := range checks {
		resp := doJSON(t, app, c.method, c.path, c.body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "%s %s", c.method, c.path)
		var body map[string]string
		decode(t, resp, &body)
		assert.NotEmpty(t, body["error"], "%s %s", c.method, c.path)
	}

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthCheck(t *testing.T) {
	app := setupApp(repositories.NewMemoryStore())

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

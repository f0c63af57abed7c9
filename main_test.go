package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khadijah/storefront-backend/cache"
	"github.com/khadijah/storefront-backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestApp wires an App against a fresh in-memory sqlite database, an
// in-process cache and a noop mailer. Admin routes run without auth.
func newTestApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect to test database: ", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatal("failed to migrate test database: ", err)
	}
	app := NewApp(db, cache.NewMemory(time.Minute), noopMailer{}, time.Minute, NoAuth())
	return app, SetupRouter(app)
}

func doRequest(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

type testEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	if data != nil && env.Data != nil {
		assert.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ----------------------- TESTS ----------------------- //

func TestHealth(t *testing.T) {
	_, router := newTestApp(t)
	w := doRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCategory(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/categories", map[string]any{"name": "Shirts"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var category models.Category
	env := decodeEnvelope(t, w, &category)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Shirts", category.Name)
	assert.NotEmpty(t, category.ID)
}

func TestCreateCategoryMissingName(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/categories", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w, nil)
	assert.Equal(t, "error", env.Status)
}

func TestListCategoriesRepeatedReadsAreByteIdentical(t *testing.T) {
	app, router := newTestApp(t)
	app.db.Create(&models.Category{Name: "Shirts"})

	first := doRequest(router, "GET", "/categories", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(router, "GET", "/categories", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	var categories []models.Category
	decodeEnvelope(t, second, &categories)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Shirts", categories[0].Name)
}

// A write through the admin path must be visible on the very next read, not
// after TTL expiry.
func TestProductListInvalidationOnPriceUpdate(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/categories", map[string]any{"name": "Shirts"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var category models.Category
	decodeEnvelope(t, w, &category)

	w = doRequest(router, "POST", "/admin/sizes", map[string]any{"size": "M"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var size models.Size
	decodeEnvelope(t, w, &size)

	w = doRequest(router, "POST", "/admin/products", map[string]any{
		"title":       "Red Shirt",
		"price":       500,
		"category_id": category.ID,
		"sizes":       []string{size.ID},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	decodeEnvelope(t, w, &product)

	// Populate the cache.
	w = doRequest(router, "GET", "/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	decodeEnvelope(t, w, &products)
	assert.Len(t, products, 1)
	assert.Equal(t, "Red Shirt", products[0].Title)
	assert.Equal(t, 500, *products[0].Price)

	w = doRequest(router, "PUT", "/admin/products/"+product.ID, map[string]any{
		"title":       "Red Shirt",
		"price":       600,
		"category_id": category.ID,
		"sizes":       []string{size.ID},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// The listing read right after the write response must reflect 600.
	w = doRequest(router, "GET", "/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	products = nil
	decodeEnvelope(t, w, &products)
	assert.Len(t, products, 1)
	assert.Equal(t, 600, *products[0].Price)
}

func TestProductDetailInvalidationOnUpdate(t *testing.T) {
	app, router := newTestApp(t)
	product := models.Product{Title: "Scarf", Price: intPtr(200)}
	app.db.Create(&product)

	w := doRequest(router, "GET", "/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "PUT", "/admin/products/"+product.ID, map[string]any{
		"title": "Scarf",
		"price": 250,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Product
	decodeEnvelope(t, w, &got)
	assert.Equal(t, 250, *got.Price)
}

func TestProductDetailNotFound(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "GET", "/products/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w, nil)
	assert.Equal(t, "error", env.Status)
}

func TestFeaturedProductsLimitedToTen(t *testing.T) {
	app, router := newTestApp(t)
	for i := 0; i < 12; i++ {
		app.db.Create(&models.Product{Title: "Item", Price: intPtr(10)})
	}

	w := doRequest(router, "GET", "/featured-products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	decodeEnvelope(t, w, &products)
	assert.Len(t, products, 10)
}

func TestCreateProductRejectsImageWithBothSources(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/products", map[string]any{
		"title": "Red Shirt",
		"images": []map[string]any{
			{"image": "shirt.jpg", "image_url": "https://example.com/shirt.jpg"},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateProductRejectsImageWithNoSource(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/products", map[string]any{
		"title":  "Red Shirt",
		"images": []map[string]any{{}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/admin/products", map[string]any{
		"title":       "Red Shirt",
		"category_id": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryCascadesToProducts(t *testing.T) {
	app, router := newTestApp(t)

	category := models.Category{Name: "Shirts"}
	app.db.Create(&category)
	product := models.Product{Title: "Red Shirt", Price: intPtr(500), CategoryID: &category.ID}
	app.db.Create(&product)

	// Warm both listing caches so the delete has something to invalidate.
	doRequest(router, "GET", "/products", nil)
	doRequest(router, "GET", "/categories", nil)

	w := doRequest(router, "DELETE", "/admin/categories/"+category.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	app.db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(0), count)

	w = doRequest(router, "GET", "/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	decodeEnvelope(t, w, &products)
	assert.Empty(t, products)

	w = doRequest(router, "GET", "/categories", nil)
	var categories []models.Category
	decodeEnvelope(t, w, &categories)
	assert.Empty(t, categories)
}

func TestDeleteProductKeepsSharedSizes(t *testing.T) {
	app, router := newTestApp(t)

	size := models.Size{Size: "M"}
	app.db.Create(&size)
	product := models.Product{Title: "Red Shirt", Sizes: []models.Size{size}}
	app.db.Create(&product)

	w := doRequest(router, "DELETE", "/admin/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var sizeCount int64
	app.db.Model(&models.Size{}).Count(&sizeCount)
	assert.Equal(t, int64(1), sizeCount)
}

func TestContactUsValidation(t *testing.T) {
	_, router := newTestApp(t)

	w := doRequest(router, "POST", "/contact-us", map[string]any{"name": "Amina"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "POST", "/contact-us", map[string]any{
		"name":    "Amina",
		"email":   "amina@example.com",
		"message": "Do you ship abroad?",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var contact models.ContactUs
	env := decodeEnvelope(t, w, &contact)
	assert.Equal(t, "success", env.Status)
	assert.Empty(t, env.Warning)
	assert.Equal(t, "Amina", contact.Name)
}

func TestReviewsOnlyApprovedArePublic(t *testing.T) {
	app, router := newTestApp(t)
	app.db.Create(&models.Review{Name: "A", Message: "Great", Rating: 5, Approved: true})
	app.db.Create(&models.Review{Name: "B", Message: "Pending", Rating: 4})

	w := doRequest(router, "GET", "/reviews", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	decodeEnvelope(t, w, &reviews)
	assert.Len(t, reviews, 1)
	assert.Equal(t, "A", reviews[0].Name)
}

func TestApproveReview(t *testing.T) {
	app, router := newTestApp(t)
	review := models.Review{Name: "B", Message: "Pending", Rating: 4}
	app.db.Create(&review)

	w := doRequest(router, "PUT", "/admin/reviews/"+review.ID+"/approve", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Review
	app.db.First(&got, "id = ?", review.ID)
	assert.True(t, got.Approved)
}

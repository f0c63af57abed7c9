package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khadijah/storefront-backend/cache"
)

// App wires the handlers to their collaborators. Everything is injected so
// tests can swap the store, cache and mailer.
type App struct {
	db     *gorm.DB
	cache  cache.Cache
	mailer Mailer
	ttl    time.Duration
	auth   gin.HandlerFunc
}

func NewApp(db *gorm.DB, store cache.Cache, mailer Mailer, ttl time.Duration, auth gin.HandlerFunc) *App {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &App{db: db, cache: store, mailer: mailer, ttl: ttl, auth: auth}
}

func SetupRouter(app *App) *gin.Engine {
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public storefront
	r.GET("/products", app.listProducts)
	r.GET("/products/:id", app.productDetail)
	r.GET("/categories", app.listCategories)
	r.GET("/featured-products", app.featuredProducts)
	r.GET("/sizes", app.listSizes)
	r.GET("/reviews", app.listReviews)
	r.POST("/reviews", app.createReview)
	r.GET("/team", app.listTeam)
	r.POST("/order", app.createOrder)
	r.POST("/contact-us", app.contactUs)

	// Admin panel
	admin := r.Group("/admin", app.auth)
	{
		admin.GET("/categories", app.adminListCategories)
		admin.POST("/categories", app.createCategory)
		admin.PUT("/categories/:id", app.updateCategory)
		admin.DELETE("/categories/:id", app.deleteCategory)

		admin.GET("/products", app.adminListProducts)
		admin.POST("/products", app.createProduct)
		admin.GET("/categorised-products/:id", app.adminListProducts)
		admin.GET("/products/:id", app.adminProductDetail)
		admin.PUT("/products/:id", app.updateProduct)
		admin.DELETE("/products/:id", app.deleteProduct)

		admin.GET("/sizes", app.adminListSizes)
		admin.POST("/sizes", app.createSize)
		admin.PUT("/sizes/:id", app.updateSize)
		admin.DELETE("/sizes/:id", app.deleteSize)

		admin.GET("/contact-us", app.adminListContacts)
		admin.DELETE("/contact-us/:id", app.deleteContact)

		admin.GET("/orders", app.adminListOrders)
		admin.GET("/orders/:id", app.adminOrderDetail)
		admin.PUT("/orders/:id/confirm", app.confirmOrder)
		admin.DELETE("/orders/:id", app.deleteOrder)

		admin.GET("/reviews", app.adminListReviews)
		admin.PUT("/reviews/:id/approve", app.approveReview)
		admin.DELETE("/reviews/:id", app.deleteReview)

		admin.POST("/team", app.createTeamMember)
		admin.DELETE("/team/:id", app.deleteTeamMember)
	}

	return r
}

// AuthMiddleware verifies admin bearer tokens against the configured OIDC
// provider.
func AuthMiddleware(verifier *oidc.IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				envelope{Status: "error", Message: "Missing or invalid Authorization header"})
			return
		}
		token := strings.TrimPrefix(authHeader, prefix)
		if _, err := verifier.Verify(c.Request.Context(), token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				envelope{Status: "error", Message: "Invalid token"})
			return
		}
		c.Next()
	}
}

// NoAuth is the pass-through used when auth is disabled and in tests.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func logCacheErr(op, key string, err error) {
	log.Printf("cache %s %s: %v", op, key, err)
}

func logMailErr(err error) {
	log.Printf("Email sending failed: %v", err)
}

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khadijah/storefront-backend/cache"
	"github.com/khadijah/storefront-backend/models"
)

// serveCached is the read-through path for the public listing endpoints. On a
// hit the stored response body is written back verbatim, so repeated reads
// within the TTL are byte-identical. On a miss the fetched data is wrapped in
// the response envelope, marshaled once, cached, and served. Concurrent
// misses may all recompute; the last Set wins, which is fine because the
// computation is pure.
func (a *App) serveCached(c *gin.Context, key, message string, fetch func() (any, error)) {
	ctx := c.Request.Context()

	if body, ok := a.cache.Get(ctx, key); ok {
		c.Data(http.StatusOK, jsonContentType, body)
		return
	}

	data, err := fetch()
	if err != nil {
		failFromErr(c, err)
		return
	}

	body, err := json.Marshal(envelope{Status: "success", Message: message, Data: data})
	if err != nil {
		failFromErr(c, err)
		return
	}
	if err := a.cache.Set(ctx, key, body, a.ttl); err != nil {
		// A cache write failure only costs us the next read.
		logCacheErr("set", key, err)
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

// List all products with category, sizes and images embedded
func (a *App) listProducts(c *gin.Context) {
	a.serveCached(c, cache.KeyProductList, "Products fetched successfully", func() (any, error) {
		var products []models.Product
		err := a.db.Preload("Category").Preload("Sizes").Preload("Images").
			Order("created_at DESC").Find(&products).Error
		return products, err
	})
}

// First ten products, for the landing page
func (a *App) featuredProducts(c *gin.Context) {
	a.serveCached(c, cache.KeyFeaturedProducts, "Products fetched successfully", func() (any, error) {
		var products []models.Product
		err := a.db.Preload("Category").Preload("Sizes").Preload("Images").
			Order("created_at DESC").Limit(10).Find(&products).Error
		return products, err
	})
}

func (a *App) listCategories(c *gin.Context) {
	a.serveCached(c, cache.KeyCategoryList, "Categories fetched successfully", func() (any, error) {
		var categories []models.Category
		err := a.db.Find(&categories).Error
		return categories, err
	})
}

func (a *App) productDetail(c *gin.Context) {
	id := c.Param("id")
	a.serveCached(c, cache.ProductDetailKey(id), "Product details fetched successfully", func() (any, error) {
		var product models.Product
		err := a.db.Preload("Category").Preload("Sizes").Preload("Images").
			First(&product, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("Product not found with id: " + id)
		}
		return product, err
	})
}

func (a *App) listSizes(c *gin.Context) {
	var sizes []models.Size
	if err := a.db.Find(&sizes).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Sizes fetched successfully", sizes)
}

func (a *App) listReviews(c *gin.Context) {
	var reviews []models.Review
	if err := a.db.Where("approved = ?", true).Order("created_at DESC").Find(&reviews).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

func (a *App) createReview(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Message string `json:"message" binding:"required"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	// New reviews wait for admin approval before showing up publicly.
	review := models.Review{Name: req.Name, Message: req.Message, Rating: req.Rating}
	if err := a.db.Create(&review).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusCreated, "Review submitted successfully", review)
}

func (a *App) listTeam(c *gin.Context) {
	var team []models.Stuff
	if err := a.db.Find(&team).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Team members fetched successfully", team)
}

func (a *App) contactUs(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	contact := models.ContactUs{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := a.db.Create(&contact).Error; err != nil {
		failFromErr(c, err)
		return
	}

	if err := a.mailer.SendContactNotification(contact); err != nil {
		logMailErr(err)
		successWithWarning(c, http.StatusCreated, "Contact form submitted successfully", contact,
			"Form submitted but notification email failed")
		return
	}
	success(c, http.StatusCreated, "Contact form submitted successfully", contact)
}

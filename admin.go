package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/khadijah/storefront-backend/cache"
	"github.com/khadijah/storefront-backend/models"
)

// invalidateListings deletes every listing key a catalog write could affect:
// the fixed listing keys plus the per-entity keys for all ids currently in the
// store. Over-invalidation is preferred to a stale read. Deletes must pass
// the ids captured before the row went away, since those can no longer be
// enumerated from the store.
func (a *App) invalidateListings(c *gin.Context, deletedProductIDs, deletedCategoryIDs []string) {
	var productIDs, categoryIDs []string
	if err := a.db.Model(&models.Product{}).Pluck("id", &productIDs).Error; err != nil {
		logCacheErr("enumerate products", "", err)
	}
	if err := a.db.Model(&models.Category{}).Pluck("id", &categoryIDs).Error; err != nil {
		logCacheErr("enumerate categories", "", err)
	}
	productIDs = append(productIDs, deletedProductIDs...)
	categoryIDs = append(categoryIDs, deletedCategoryIDs...)

	keys := cache.ListingKeys(productIDs, categoryIDs)
	if err := a.cache.Delete(c.Request.Context(), keys...); err != nil {
		// Best effort: a missed key expires via TTL anyway.
		logCacheErr("invalidate", "listing keys", err)
	}
}

// ---------- categories ----------

type categoryRequest struct {
	Name  string  `json:"name" binding:"required"`
	Image *string `json:"image"`
}

func (a *App) adminListCategories(c *gin.Context) {
	var categories []models.Category
	if err := a.db.Find(&categories).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Categories fetched successfully", categories)
}

func (a *App) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	category := models.Category{Name: req.Name, Image: req.Image}
	if err := a.db.Create(&category).Error; err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusCreated, "Category created successfully", category)
}

func (a *App) updateCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := a.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Category not found")
			return
		}
		failFromErr(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	category.Name = req.Name
	if req.Image != nil {
		category.Image = req.Image
	}
	if err := a.db.Save(&category).Error; err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusOK, "Category updated successfully", category)
}

// Deleting a category cascades to its products, so the per-product detail
// keys must be enumerated before anything is removed.
func (a *App) deleteCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := a.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Category not found")
			return
		}
		failFromErr(c, err)
		return
	}

	var productIDs []string
	if err := a.db.Model(&models.Product{}).Where("category_id = ?", id).
		Pluck("id", &productIDs).Error; err != nil {
		failFromErr(c, err)
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, productIDs, []string{id})
	success(c, http.StatusOK, "Category deleted successfully", nil)
}

// ---------- products ----------

type productImageRequest struct {
	Image    *string `json:"image"`
	ImageURL *string `json:"image_url"`
}

type productRequest struct {
	Title       string                `json:"title" binding:"required"`
	Price       *int                  `json:"price" binding:"omitempty,gte=0"`
	Description string                `json:"description"`
	CategoryID  *string               `json:"category_id"`
	SizeIDs     []string              `json:"sizes"`
	Images      []productImageRequest `json:"images"`
}

// resolveProductRefs checks the category and size references and builds the
// image rows, enforcing that each image carries exactly one of a stored
// reference or an external URL.
func resolveProductRefs(db *gorm.DB, req productRequest) ([]models.Size, []models.ProductImage, error) {
	if req.CategoryID != nil && *req.CategoryID != "" {
		var category models.Category
		if err := db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, notFoundErr("Category not found with id: " + *req.CategoryID)
			}
			return nil, nil, err
		}
	}

	var sizes []models.Size
	if len(req.SizeIDs) > 0 {
		if err := db.Where("id IN ?", req.SizeIDs).Find(&sizes).Error; err != nil {
			return nil, nil, err
		}
		if len(sizes) != len(req.SizeIDs) {
			return nil, nil, notFoundErr("One or more sizes not found")
		}
	}

	var images []models.ProductImage
	for _, img := range req.Images {
		hasImage := img.Image != nil && *img.Image != ""
		hasURL := img.ImageURL != nil && *img.ImageURL != ""
		if hasImage && hasURL {
			return nil, nil, conflictErr("An image cannot have both image and image_url")
		}
		if !hasImage && !hasURL {
			return nil, nil, validationErr("An image requires either image or image_url")
		}
		images = append(images, models.ProductImage{Image: img.Image, ImageURL: img.ImageURL})
	}

	return sizes, images, nil
}

func (a *App) adminListProducts(c *gin.Context) {
	query := a.db.Preload("Category").Preload("Sizes").Preload("Images")
	if pk := c.Param("id"); pk != "" {
		query = query.Where("category_id = ?", pk)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Products fetched successfully", products)
}

func (a *App) adminProductDetail(c *gin.Context) {
	var product models.Product
	err := a.db.Preload("Category").Preload("Sizes").Preload("Images").
		First(&product, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Product fetched successfully", product)
}

func (a *App) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	var product models.Product
	err := a.db.Transaction(func(tx *gorm.DB) error {
		sizes, images, err := resolveProductRefs(tx, req)
		if err != nil {
			return err
		}
		product = models.Product{
			Title:       req.Title,
			Price:       req.Price,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Sizes:       sizes,
			Images:      images,
		}
		return tx.Create(&product).Error
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusCreated, "Product created successfully", product)
}

func (a *App) updateProduct(c *gin.Context) {
	id := c.Param("id")
	var product models.Product
	if err := a.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		failFromErr(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		sizes, images, err := resolveProductRefs(tx, req)
		if err != nil {
			return err
		}
		product.Title = req.Title
		product.Price = req.Price
		product.Description = req.Description
		product.CategoryID = req.CategoryID
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := replaceAssociation(tx, &product, "Sizes", &sizes, len(sizes)); err != nil {
			return err
		}
		return replaceAssociation(tx, &product, "Images", &images, len(images))
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusOK, "Product updated successfully", product)
}

// replaceAssociation swaps a product's many2many set, clearing it when the
// request carries none.
func replaceAssociation(tx *gorm.DB, product *models.Product, name string, values any, count int) error {
	assoc := tx.Model(product).Association(name)
	if count == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func (a *App) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	var product models.Product
	if err := a.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		failFromErr(c, err)
		return
	}

	// Clears the size/image join rows; the shared Size and ProductImage rows
	// themselves stay.
	if err := a.db.Select(clause.Associations).Delete(&product).Error; err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, []string{id}, nil)
	success(c, http.StatusOK, "Product deleted successfully", nil)
}

// ---------- sizes ----------

type sizeRequest struct {
	Size string `json:"size" binding:"required"`
}

func (a *App) adminListSizes(c *gin.Context) {
	var sizes []models.Size
	if err := a.db.Find(&sizes).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Sizes fetched successfully", sizes)
}

func (a *App) createSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}
	size := models.Size{Size: req.Size}
	if err := a.db.Create(&size).Error; err != nil {
		failFromErr(c, err)
		return
	}
	// Sizes are embedded in the cached product listings.
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusCreated, "Size created successfully", size)
}

func (a *App) updateSize(c *gin.Context) {
	id := c.Param("id")
	var size models.Size
	if err := a.db.First(&size, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Size not found")
			return
		}
		failFromErr(c, err)
		return
	}

	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}
	size.Size = req.Size
	if err := a.db.Save(&size).Error; err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusOK, "Size updated successfully", size)
}

func (a *App) deleteSize(c *gin.Context) {
	id := c.Param("id")
	var size models.Size
	if err := a.db.First(&size, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Size not found")
			return
		}
		failFromErr(c, err)
		return
	}
	if err := a.db.Delete(&size).Error; err != nil {
		failFromErr(c, err)
		return
	}
	a.invalidateListings(c, nil, nil)
	success(c, http.StatusOK, "Size deleted successfully", nil)
}

// ---------- contact forms ----------

func (a *App) adminListContacts(c *gin.Context) {
	var contacts []models.ContactUs
	if err := a.db.Order("created_at DESC").Find(&contacts).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Contact forms fetched successfully", contacts)
}

func (a *App) deleteContact(c *gin.Context) {
	var contact models.ContactUs
	if err := a.db.First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Contact form not found")
			return
		}
		failFromErr(c, err)
		return
	}
	if err := a.db.Delete(&contact).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Contact form deleted successfully", nil)
}

// ---------- orders ----------

func (a *App) adminListOrders(c *gin.Context) {
	var orders []models.Order
	err := a.db.Preload("Items.Product").Preload("Items.Size").
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "All inquiries fetched successfully", orders)
}

func (a *App) adminOrderDetail(c *gin.Context) {
	var order models.Order
	err := a.db.Preload("Items.Product").Preload("Items.Size").
		First(&order, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Inquiry details fetched successfully", order)
}

func (a *App) confirmOrder(c *gin.Context) {
	var order models.Order
	if err := a.db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		failFromErr(c, err)
		return
	}
	order.IsConfirmed = true
	if err := a.db.Save(&order).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Order confirmed successfully", order)
}

func (a *App) deleteOrder(c *gin.Context) {
	id := c.Param("id")
	var order models.Order
	if err := a.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		failFromErr(c, err)
		return
	}
	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Inquiry deleted successfully", nil)
}

// ---------- reviews ----------

func (a *App) adminListReviews(c *gin.Context) {
	var reviews []models.Review
	if err := a.db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

func (a *App) approveReview(c *gin.Context) {
	var review models.Review
	if err := a.db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Review not found")
			return
		}
		failFromErr(c, err)
		return
	}
	review.Approved = true
	if err := a.db.Save(&review).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Review approved successfully", review)
}

func (a *App) deleteReview(c *gin.Context) {
	var review models.Review
	if err := a.db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Review not found")
			return
		}
		failFromErr(c, err)
		return
	}
	if err := a.db.Delete(&review).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Review deleted successfully", nil)
}

// ---------- team ----------

func (a *App) createTeamMember(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Position string  `json:"position"`
		Image    *string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data provided", err.Error())
		return
	}
	member := models.Stuff{Name: req.Name, Position: req.Position, Image: req.Image}
	if err := a.db.Create(&member).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusCreated, "Team member created successfully", member)
}

func (a *App) deleteTeamMember(c *gin.Context) {
	var member models.Stuff
	if err := a.db.First(&member, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Team member not found")
			return
		}
		failFromErr(c, err)
		return
	}
	if err := a.db.Delete(&member).Error; err != nil {
		failFromErr(c, err)
		return
	}
	success(c, http.StatusOK, "Team member deleted successfully", nil)
}

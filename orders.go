package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khadijah/storefront-backend/models"
)

type orderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  *int    `json:"quantity"`
	SizeID    *string `json:"size_id"`
}

type orderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	CustomerAddress string             `json:"customer_address" binding:"required"`
	Items           []orderItemRequest `json:"items" binding:"required,min=1"`
}

// buildOrder resolves every line item against the catalog and creates the
// Order together with its OrderItems. It must run inside a transaction: a
// failed lookup on the Nth item aborts the whole thing and nothing persists.
// The total is a snapshot of current prices, a missing price counts as zero.
func buildOrder(tx *gorm.DB, req orderRequest) (models.Order, error) {
	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
	}

	var total int
	for _, item := range req.Items {
		quantity := 1
		if item.Quantity != nil {
			if *item.Quantity < 1 {
				return order, validationErr("quantity must be a positive integer")
			}
			quantity = *item.Quantity
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return order, notFoundErr("Product not found with id: " + item.ProductID)
			}
			return order, err
		}

		var sizeID *string
		if item.SizeID != nil && *item.SizeID != "" {
			var size models.Size
			if err := tx.First(&size, "id = ?", *item.SizeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return order, notFoundErr("Size not found with id: " + *item.SizeID)
				}
				return order, err
			}
			sizeID = &size.ID
		}

		total += product.UnitPrice() * quantity
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			SizeID:    sizeID,
			Quantity:  quantity,
		})
	}

	order.TotalPrice = total
	return order, tx.Create(&order).Error
}

// Create an order
func (a *App) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "Invalid data", err.Error())
		return
	}

	var order models.Order
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = buildOrder(tx, req)
		return txErr
	})
	if err != nil {
		failFromErr(c, err)
		return
	}

	// Reload with products and sizes embedded for the response and the receipt.
	if err := a.db.Preload("Items.Product").Preload("Items.Size").
		First(&order, "id = ?", order.ID).Error; err != nil {
		failFromErr(c, err)
		return
	}

	if err := a.mailer.SendOrderReceipt(order); err != nil {
		logMailErr(err)
		successWithWarning(c, http.StatusCreated, "Order created successfully", order,
			"Order created but notification email failed")
		return
	}
	success(c, http.StatusCreated, "Order created successfully", order)
}

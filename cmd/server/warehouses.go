package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"warehub/pkg/models"
)

func warehouseJSON(w models.Warehouse) gin.H {
	return gin.H{
		"warehouseUid":  w.WarehouseUid,
		"name":          w.Name,
		"description":   w.Description,
		"address":       w.Address,
		"city":          w.City,
		"state":         w.State,
		"zipCode":       w.ZipCode,
		"sizeSqft":      w.SizeSqft,
		"pricePerMonth": w.PricePerMonth,
		"features":      models.StringsFrom(w.Features),
		"images":        models.StringsFrom(w.Images),
		"isAvailable":   w.IsAvailable,
		"createdAt":     w.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

type warehouseRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Address       string   `json:"address" binding:"required"`
	City          string   `json:"city" binding:"required"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zipCode"`
	SizeSqft      int      `json:"sizeSqft" binding:"required,gt=0"`
	PricePerMonth float64  `json:"pricePerMonth" binding:"required,gt=0"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	IsAvailable   *bool    `json:"isAvailable"`
}

// getWarehouses lists available warehouses. Admins see every listing
// with ?all=true.
func getWarehouses(c *gin.Context) {
	q := db.Model(&models.Warehouse{}).Order("created_at DESC")
	if c.Query("all") == "true" {
		if _, ok := requireAdmin(c); !ok {
			return
		}
	} else {
		q = q.Where("is_available = ?", true)
	}
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}

	var warehouses []models.Warehouse
	if err := q.Find(&warehouses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(warehouses))
	for i, w := range warehouses {
		items[i] = warehouseJSON(w)
	}
	c.JSON(http.StatusOK, items)
}

func getWarehouse(c *gin.Context) {
	var w models.Warehouse
	err := db.Where("warehouse_uid = ?", c.Param("warehouseUid")).Take(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "warehouse not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, warehouseJSON(w))
}

func createWarehouse(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	w := models.Warehouse{
		WarehouseUid:  uuid.New().String(),
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		SizeSqft:      req.SizeSqft,
		PricePerMonth: req.PricePerMonth,
		Features:      models.StringList(req.Features),
		Images:        models.StringList(req.Images),
		IsAvailable:   available,
	}
	if err := db.Create(&w).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create warehouse"})
		return
	}
	c.JSON(http.StatusCreated, warehouseJSON(w))
}

func updateWarehouse(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var w models.Warehouse
	err := db.Where("warehouse_uid = ?", c.Param("warehouseUid")).Take(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "warehouse not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	w.Name = req.Name
	w.Description = req.Description
	w.Address = req.Address
	w.City = req.City
	w.State = req.State
	w.ZipCode = req.ZipCode
	w.SizeSqft = req.SizeSqft
	w.PricePerMonth = req.PricePerMonth
	w.Features = models.StringList(req.Features)
	w.Images = models.StringList(req.Images)
	if req.IsAvailable != nil {
		w.IsAvailable = *req.IsAvailable
	}
	if err := db.Save(&w).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update warehouse"})
		return
	}
	c.JSON(http.StatusOK, warehouseJSON(w))
}

func deleteWarehouse(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	warehouseUid := c.Param("warehouseUid")

	// Listings with live bookings cannot be removed.
	var active int64
	err := db.Model(&models.Booking{}).
		Where("warehouse_uid = ? AND status IN ?", warehouseUid,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&active).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "warehouse has active bookings"})
		return
	}

	res := db.Where("warehouse_uid = ?", warehouseUid).Delete(&models.Warehouse{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "warehouse not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

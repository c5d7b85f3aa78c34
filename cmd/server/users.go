package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"warehub/pkg/models"
)

func userJSON(u models.User) gin.H {
	return gin.H{
		"userUid":   u.UserUid,
		"email":     u.Email,
		"fullName":  u.FullName,
		"role":      u.Role,
		"createdAt": u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func getUsers(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(users))
	for i, u := range users {
		items[i] = userJSON(u)
	}
	c.JSON(http.StatusOK, items)
}

func getUser(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var u models.User
	err := db.Where("user_uid = ?", c.Param("userUid")).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

func updateUser(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var u models.User
	err := db.Where("user_uid = ?", c.Param("userUid")).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if req.Role != "" && req.Role != models.RoleCustomer && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be customer or admin"})
		return
	}

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if err := db.Save(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

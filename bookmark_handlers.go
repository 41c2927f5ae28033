package main

import (
	"errors"
	"net/http"
	"strconv"

	"linkvault/models"
	"linkvault/pkg/access"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createBookmarkHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	var req struct {
		Title string `json:"title" binding:"required,max=100"`
		URL   string `json:"url" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	bm := models.Bookmark{UserID: user.ID, Title: req.Title, URL: req.URL}
	if err := db.WithContext(c.Request.Context()).Create(&bm).Error; err != nil {
		logger.Error("bookmark create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	c.JSON(http.StatusOK, bm)
}

// listBookmarksHandler lists the caller's bookmarks; admins see all.
func listBookmarksHandler(c *gin.Context) {
	p, _ := principalFrom(c)
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.Bookmark{})
	if !access.RequireRole(p, access.RoleAdmin) {
		q = q.Where("user_id = ?", user.ID)
	}
	var items []models.Bookmark
	if err := q.Order("id desc").Find(&items).Error; err != nil {
		logger.Error("bookmark listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getBookmarkHandler(c *gin.Context) {
	p, _ := principalFrom(c)
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid bookmark id."})
		return
	}
	var bm models.Bookmark
	if err := db.WithContext(c.Request.Context()).First(&bm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Bookmark not found."})
			return
		}
		logger.Error("bookmark fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	if bm.UserID != user.ID && !access.RequireRole(p, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	c.JSON(http.StatusOK, bm)
}

func deleteBookmarkHandler(c *gin.Context) {
	p, _ := principalFrom(c)
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid bookmark id."})
		return
	}
	var bm models.Bookmark
	if err := db.WithContext(c.Request.Context()).First(&bm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Bookmark not found."})
			return
		}
		logger.Error("bookmark fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	if bm.UserID != user.ID && !access.RequireRole(p, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	if err := db.WithContext(c.Request.Context()).Delete(&bm).Error; err != nil {
		logger.Error("bookmark delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted."})
}

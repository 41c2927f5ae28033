package main

import (
	"errors"
	"net/http"
	"strconv"

	"linkvault/models"
	"linkvault/pkg/access"
	"linkvault/pkg/password"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// listUsersHandler returns all users. Admin only.
func listUsersHandler(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok || !access.RequireRole(p, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	var users []models.User
	if err := db.WithContext(c.Request.Context()).Preload("Roles").Find(&users).Error; err != nil {
		logger.Error("user listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	c.JSON(http.StatusOK, users)
}

func meHandler(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	var user models.User
	if err := db.WithContext(c.Request.Context()).Preload("Roles").Where("username = ?", p.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// getUserHandler returns a user by id. Self or admin.
func getUserHandler(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id."})
		return
	}
	var user models.User
	if err := db.WithContext(c.Request.Context()).Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		logger.Error("user fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	if !access.RequireSelfOrRole(p, user.Username, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUserHandler applies a partial update. Self or admin; only admins may
// change roles.
func updateUserHandler(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id."})
		return
	}
	var target models.User
	if err := db.WithContext(c.Request.Context()).Preload("Roles").First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		logger.Error("user fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
		return
	}
	if !access.RequireSelfOrRole(p, target.Username, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	var req struct {
		Username *string  `json:"username"`
		Email    *string  `json:"email"`
		Password *string  `json:"password"`
		Roles    []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	upd := userUpdate{Username: req.Username, Email: req.Email, Password: req.Password, Roles: req.Roles}
	err = authSvc.UpdateUser(c.Request.Context(), &target, upd, access.RequireRole(p, access.RoleAdmin))
	switch {
	case errors.Is(err, errUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "Username is already taken."})
	case errors.Is(err, errEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "Email is already in use."})
	case errors.Is(err, errInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format."})
	case errors.Is(err, password.ErrTooWeak):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is too weak."})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusOK, target)
	}
}

// deleteUserHandler removes a user. Admin only, and never the admin's own
// account.
func deleteUserHandler(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok || !access.RequireRole(p, access.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied."})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id."})
		return
	}
	err = authSvc.DeleteUser(c.Request.Context(), uint(id), p.Username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
	case errors.Is(err, errSelfDelete):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Admin cannot delete themselves."})
	case err != nil:
		logger.Error("user delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
	}
}

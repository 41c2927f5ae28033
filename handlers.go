package main

import (
	"errors"
	"net/http"

	"linkvault/pkg/password"
	"linkvault/pkg/revocation"
	"linkvault/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRoutes(r *gin.Engine, codec *token.Codec, store revocation.Store) {
	api := r.Group("/api")

	// Public allow-list: login, register and the password-reset flow run
	// without the gate. Logout is public too so it can report "already
	// expired" precisely instead of a generic gate rejection.
	auth := api.Group("/auth")
	auth.POST("/register", registerHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/logout", logoutHandler)
	auth.POST("/forgot-password", forgotPasswordHandler)
	auth.POST("/reset-password", resetPasswordHandler)

	protected := api.Group("", authRequired(codec, store))
	users := protected.Group("/users")
	users.GET("", listUsersHandler)
	users.GET("/me", meHandler)
	users.GET("/:id", getUserHandler)
	users.PATCH("/:id", updateUserHandler)
	users.DELETE("/:id", deleteUserHandler)

	bookmarks := protected.Group("/bookmarks")
	bookmarks.POST("", createBookmarkHandler)
	bookmarks.GET("", listBookmarksHandler)
	bookmarks.GET("/:id", getBookmarkHandler)
	bookmarks.DELETE("/:id", deleteBookmarkHandler)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=20"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	_, err := authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
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
		logger.Error("registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
	}
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	tok, err := authSvc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, errInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password."})
	case errors.Is(err, errAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"message": "Account is disabled."})
	case err != nil:
		logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
	default:
		c.JSON(http.StatusOK, gin.H{"token": tok})
	}
}

func logoutHandler(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing token."})
		return
	}
	err := authSvc.Logout(c.Request.Context(), raw)
	switch {
	case errors.Is(err, errTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is already expired."})
	case errors.Is(err, token.ErrMalformed), errors.Is(err, token.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing token."})
	case err != nil:
		logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Authentication backend unavailable."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully."})
	}
}

func forgotPasswordHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required."})
		return
	}
	err := authSvc.CreateResetToken(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No user found with this email."})
	case err != nil:
		logger.Error("password reset request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to email."})
	}
}

func resetPasswordHandler(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	err := authSvc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, errInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token."})
	case errors.Is(err, password.ErrTooWeak):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is too weak."})
	case err != nil:
		logger.Error("password reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected server error."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
	}
}

package main

import (
	"errors"
	"net/http"
	"strings"

	"linkvault/models"
	"linkvault/pkg/access"
	"linkvault/pkg/revocation"
	"linkvault/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const principalKey = "principal"

// authRequired is the per-request authentication gate. Check order is load
// bearing: cheap signature/expiry first, then the revocation lookup, then the
// user-existence lookup (a storage round-trip) last. Roles come from the
// token's claims, not from storage. The gate only reads; revocation writes
// happen at logout.
func authRequired(codec *token.Codec, store revocation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing."})
			return
		}
		claims, err := codec.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}
		revoked, err := store.IsRevoked(c.Request.Context(), raw)
		if err != nil {
			// Backend outage must not read as bad credentials.
			logger.Error("revocation store lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Authentication backend unavailable."})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is already revoked."})
			return
		}
		var user models.User
		if err := db.WithContext(c.Request.Context()).Where("username = ?", claims.Subject).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists."})
				return
			}
			logger.Error("user lookup failed", zap.String("subject", claims.Subject), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Authentication backend unavailable."})
			return
		}
		c.Set(principalKey, access.Principal{Username: user.Username, Roles: claims.Roles})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

func principalFrom(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

// currentUser loads the full user record for the authenticated principal.
func currentUser(c *gin.Context) (*models.User, bool) {
	p, ok := principalFrom(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := db.WithContext(c.Request.Context()).Where("username = ?", p.Username).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
)

// ClerkAuthMiddleware verifies the identity provider's RS256 session token
// and lazily syncs the account row: the first request carrying an unseen
// subject creates the local User. The token is trusted once verified; no
// re-verification of the identity happens downstream.
func ClerkAuthMiddleware(publicKeyPEM string) (gin.HandlerFunc, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parsing Clerk JWT public key: %w", err)
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required.")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return publicKey, nil
		})
		if err != nil || !token.Valid {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		clerkID, _ := claims["sub"].(string)
		if clerkID == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid authentication.")
			c.Abort()
			return
		}

		gormDB, ok := GetDB(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}

		user, err := syncClerkUser(gormDB, clerkID, claims)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve user account.")
			c.Abort()
			return
		}

		c.Set("clerk_id", clerkID)
		c.Set("user_id", user.ID)
		c.Set("current_user", user)
		c.Next()
	}, nil
}

func syncClerkUser(db *gorm.DB, clerkID string, claims jwt.MapClaims) (*models.User, error) {
	email, _ := claims["email"].(string)
	fullName, _ := claims["name"].(string)
	provider, _ := claims["provider"].(string)

	var user models.User
	err := db.Where("clerk_id = ?", clerkID).First(&user).Error
	if err == nil {
		// Keep provider-owned fields current without touching local ones.
		updates := map[string]interface{}{}
		if email != "" && email != user.Email {
			updates["email"] = email
		}
		if fullName != "" && fullName != user.FullName {
			updates["full_name"] = fullName
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{
		ClerkID:  clerkID,
		Email:    email,
		FullName: fullName,
		Provider: provider,
		Plan:     models.PlanFree,
		UserType: models.UserTypeUser,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the authenticated account placed by the middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("current_user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentUserID returns the authenticated account's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

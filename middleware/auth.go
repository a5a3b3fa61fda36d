package middleware

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	// SessionUserKey is the cookie-session key holding the account ID.
	SessionUserKey = "user_id"
	// ContextUserKey is the gin context key the resolved account is
	// stored under by AuthRequired.
	ContextUserKey = "currentUser"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

// IssueToken creates a signed bearer token for user, for clients that
// cannot hold a session cookie.
func IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"exp":  time.Now().Add(constants.TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func userIDFromBearer(c *gin.Context) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// AuthRequired resolves the caller from the session cookie or a Bearer
// token, loads the account, and aborts with 401 when neither is valid or
// the account has been deactivated.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		session := sessions.Default(c)
		if v := session.Get(SessionUserKey); v != nil {
			if id, ok := v.(uint); ok {
				userID = id
			}
		}
		if userID == 0 {
			if id, ok := userIDFromBearer(c); ok {
				userID = id
			}
		}
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "authentication required",
			})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "account not found",
			})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "account is deactivated",
			})
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the account resolved by AuthRequired.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUserKey).(*models.User)
}

package controllers

import (
	"net/http"

	"ChipBook/middleware"
	models "ChipBook/models/postgres"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Log in with username and password
// @Description Sets the session cookie and returns a bearer token for non-browser clients
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} object{user=object,token=string}
// @Failure 401 {object} object{status=string,code=string,message=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error", "code": "INVALID_INPUT", "message": "username and password are required",
			})
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "invalid username or password",
			})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "invalid username or password",
			})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error", "code": "UNAUTHORIZED", "message": "account is deactivated",
			})
			return
		}

		session := sessions.Default(c)
		session.Set(middleware.SessionUserKey, user.ID)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error", "code": "INTERNAL", "message": "failed to save session",
			})
			return
		}

		token, err := middleware.IssueToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error", "code": "INTERNAL", "message": "failed to issue token",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// @Summary Log out
// @Description Deletes the caller's session
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "code": "INTERNAL", "message": "failed to save session",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// @Summary Current account
// @Description Returns the authenticated account
// @Tags auth
// @Produce json
// @Success 200 {object} object{user=object}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

package controllers

import (
	"net/http"

	"ChipBook/middleware"
	models "ChipBook/models/postgres"
	"ChipBook/services/ledger"
	"ChipBook/utils"

	"github.com/gin-gonic/gin"
)

type createPlayerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=player admin"`
}

type setPlayerActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// @Summary List players
// @Description Returns every account, newest first (admin only)
// @Tags players
// @Produce json
// @Success 200 {array} object
// @Failure 403 {object} object{status=string,code=string,message=string}
// @Router /players [get]
// @Security ApiKeyAuth
func ListPlayers(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		players, err := svc.ListPlayers(c.Request.Context(), ident)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, players)
	}
}

// @Summary Create a player
// @Description Registers a new account (admin only)
// @Tags players
// @Accept json
// @Produce json
// @Param player body createPlayerRequest true "Account details"
// @Success 201 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /players [post]
// @Security ApiKeyAuth
func CreatePlayer(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var req createPlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		player, err := svc.CreatePlayer(c.Request.Context(), ident, ledger.CreatePlayerInput{
			Username: req.Username,
			Email:    req.Email,
			FullName: req.FullName,
			Password: req.Password,
			Role:     models.Role(req.Role),
		})
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, player)
	}
}

// @Summary Delete a player
// @Description Removes an account; self-deletion is rejected (admin only)
// @Tags players
// @Produce json
// @Param id path integer true "Player ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /players/{id} [delete]
// @Security ApiKeyAuth
func DeletePlayer(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.DeletePlayer(c.Request.Context(), ident, id); err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "player deleted successfully"})
	}
}

// @Summary Activate or deactivate a player
// @Description Flips an account's active flag (admin only)
// @Tags players
// @Accept json
// @Produce json
// @Param id path integer true "Player ID"
// @Param flag body setPlayerActiveRequest true "Target active flag"
// @Success 200 {object} object
// @Failure 404 {object} object{status=string,code=string,message=string}
// @Router /players/{id}/active [patch]
// @Security ApiKeyAuth
func SetPlayerActive(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req setPlayerActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		player, err := svc.SetPlayerActive(c.Request.Context(), ident, id, *req.IsActive)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, player)
	}
}

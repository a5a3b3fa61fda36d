package controllers

import (
	"net/http"
	"strconv"
	"time"

	"ChipBook/middleware"
	models "ChipBook/models/postgres"
	"ChipBook/services/ledger"
	"ChipBook/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type recordSettlementRequest struct {
	PlayerID       uint            `json:"playerId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=payment receipt"`
	SettlementDate string          `json:"settlementDate" binding:"required"`
	ReferenceNote  string          `json:"referenceNote"`
}

// @Summary List settlements
// @Description Returns settlements newest first. Players only see their own.
// @Tags settlements
// @Produce json
// @Param playerId query integer false "Player filter (admin, or self)"
// @Success 200 {array} object
// @Router /settlements [get]
// @Security ApiKeyAuth
func ListSettlements(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var playerID uint
		if raw := c.Query("playerId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				utils.RenderBindingError(c, err)
				return
			}
			playerID = uint(id)
		}

		settlements, err := svc.ListSettlements(c.Request.Context(), ident, playerID)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, settlements)
	}
}

// @Summary Record a settlement
// @Description Records a payment or receipt squaring up a player's balance (admin only)
// @Tags settlements
// @Accept json
// @Produce json
// @Param settlement body recordSettlementRequest true "Settlement details"
// @Success 201 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /settlements [post]
// @Security ApiKeyAuth
func RecordSettlement(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var req recordSettlementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}
		settlementDate, err := time.Parse("2006-01-02", req.SettlementDate)
		if err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		settlement, err := svc.RecordSettlement(c.Request.Context(), ident, ledger.RecordSettlementInput{
			PlayerID:       req.PlayerID,
			Amount:         req.Amount,
			Type:           models.SettlementType(req.Type),
			SettlementDate: settlementDate,
			ReferenceNote:  req.ReferenceNote,
		})
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, settlement)
	}
}

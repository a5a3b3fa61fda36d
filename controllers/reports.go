package controllers

import (
	"net/http"

	"ChipBook/middleware"
	"ChipBook/services/ledger"
	"ChipBook/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Player summary report
// @Description Returns a player's lifetime totals over approved cash-outs. Players may only ask about themselves.
// @Tags reports
// @Produce json
// @Param id path integer true "Player ID"
// @Success 200 {object} object{playerId=integer,sessionsPlayed=integer,totalBuyIn=number,totalFinal=number,netProfitLoss=number}
// @Failure 403 {object} object{status=string,code=string,message=string}
// @Router /reports/players/{id} [get]
// @Security ApiKeyAuth
func PlayerSummary(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		summary, err := svc.GetPlayerSummary(c.Request.Context(), ident, id)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

package controllers

import (
	"net/http"

	"ChipBook/middleware"
	models "ChipBook/models/postgres"
	"ChipBook/services/ledger"
	"ChipBook/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type requestCashOutRequest struct {
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

type approveCashOutRequest struct {
	PlayerID    uint             `json:"playerId" binding:"required"`
	FinalAmount *decimal.Decimal `json:"finalAmount"`
}

type rejectCashOutRequest struct {
	PlayerID      uint   `json:"playerId" binding:"required"`
	RejectionNote string `json:"rejectionNote"`
}

// cashOutResponse augments a result row with the derived profit/loss.
type cashOutResponse struct {
	*models.SessionResult
	ProfitLoss decimal.Decimal `json:"profitLoss"`
}

func withProfitLoss(r *models.SessionResult) cashOutResponse {
	return cashOutResponse{SessionResult: r, ProfitLoss: r.ProfitLoss()}
}

// @Summary Submit a cash-out
// @Description Declares the caller's final stack for a session. Repeat submissions overwrite the prior declaration.
// @Tags cash-outs
// @Accept json
// @Produce json
// @Param id path integer true "Session ID"
// @Param cashOut body requestCashOutRequest true "Declared final stack"
// @Success 200 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id}/cashout [post]
// @Security ApiKeyAuth
func RequestCashOut(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req requestCashOutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		result, err := svc.RequestCashOut(c.Request.Context(), ident, id, req.FinalAmount)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, withProfitLoss(result))
	}
}

// @Summary Get own cash-out
// @Description Returns the caller's result row for a session with computed profit/loss
// @Tags cash-outs
// @Produce json
// @Param id path integer true "Session ID"
// @Success 200 {object} object
// @Failure 404 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id}/cashout [get]
// @Security ApiKeyAuth
func GetCashOut(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		result, err := svc.GetCashOut(c.Request.Context(), ident, id)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, withProfitLoss(result))
	}
}

// @Summary List session cash-outs
// @Description Returns every cash-out request for a session with profit/loss (admin only)
// @Tags cash-outs
// @Produce json
// @Param id path integer true "Session ID"
// @Success 200 {array} object
// @Failure 403 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id}/cashouts [get]
// @Security ApiKeyAuth
func ListCashOuts(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		results, err := svc.ListCashOuts(c.Request.Context(), ident, id)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		out := make([]cashOutResponse, len(results))
		for i, r := range results {
			out[i] = withProfitLoss(r)
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Approve a cash-out
// @Description Approves a player's pending cash-out, optionally overriding the final amount (admin only)
// @Tags cash-outs
// @Accept json
// @Produce json
// @Param id path integer true "Session ID"
// @Param approval body approveCashOutRequest true "Player and optional final amount"
// @Success 200 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id}/cashout/approve [patch]
// @Security ApiKeyAuth
func ApproveCashOut(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req approveCashOutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		result, err := svc.ApproveCashOut(c.Request.Context(), ident, id, req.PlayerID, req.FinalAmount)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, withProfitLoss(result))
	}
}

// @Summary Reject a cash-out
// @Description Rejects a player's pending cash-out with an optional note (admin only)
// @Tags cash-outs
// @Accept json
// @Produce json
// @Param id path integer true "Session ID"
// @Param rejection body rejectCashOutRequest true "Player and optional note"
// @Success 200 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id}/cashout/reject [patch]
// @Security ApiKeyAuth
func RejectCashOut(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req rejectCashOutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		result, err := svc.RejectCashOut(c.Request.Context(), ident, id, req.PlayerID, req.RejectionNote)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, withProfitLoss(result))
	}
}

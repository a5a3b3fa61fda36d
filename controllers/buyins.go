package controllers

import (
	"net/http"
	"strconv"

	"ChipBook/middleware"
	models "ChipBook/models/postgres"
	"ChipBook/services/ledger"
	"ChipBook/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type requestBuyInRequest struct {
	SessionID uint            `json:"sessionId" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

type approveBuyInRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type rejectBuyInRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// @Summary List buy-ins
// @Description Returns buy-ins newest request first. Players only see their own.
// @Tags buy-ins
// @Produce json
// @Param sessionId query integer false "Session filter"
// @Param playerId query integer false "Player filter (admin, or self)"
// @Param status query string false "Status filter: pending, approved or rejected"
// @Success 200 {array} object
// @Router /buyins [get]
// @Security ApiKeyAuth
func ListBuyIns(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var filter ledger.BuyInFilter
		for _, q := range []struct {
			name string
			dest *uint
		}{{"sessionId", &filter.SessionID}, {"playerId", &filter.PlayerID}} {
			if raw := c.Query(q.name); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 64)
				if err != nil {
					utils.RenderBindingError(c, err)
					return
				}
				*q.dest = uint(id)
			}
		}
		filter.Status = models.RequestStatus(c.Query("status"))

		buyIns, err := svc.ListBuyIns(c.Request.Context(), ident, filter)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, buyIns)
	}
}

// @Summary Request a buy-in
// @Description Creates a pending buy-in request in an active session
// @Tags buy-ins
// @Accept json
// @Produce json
// @Param buyIn body requestBuyInRequest true "Session and amount"
// @Success 201 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /buyins [post]
// @Security ApiKeyAuth
func RequestBuyIn(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var req requestBuyInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		buyIn, err := svc.SubmitBuyIn(c.Request.Context(), ident, req.SessionID, req.Amount)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, buyIn)
	}
}

// @Summary Approve a buy-in
// @Description Approves a pending buy-in, optionally overriding the amount (admin only)
// @Tags buy-ins
// @Accept json
// @Produce json
// @Param id path integer true "Buy-in ID"
// @Param override body approveBuyInRequest false "Optional amount override"
// @Success 200 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /buyins/{id}/approve [patch]
// @Security ApiKeyAuth
func ApproveBuyIn(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req approveBuyInRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			utils.RenderBindingError(c, err)
			return
		}

		buyIn, err := svc.ApproveBuyIn(c.Request.Context(), ident, id, req.Amount)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, buyIn)
	}
}

// @Summary Reject a buy-in
// @Description Rejects a pending buy-in with an optional reason (admin only)
// @Tags buy-ins
// @Accept json
// @Produce json
// @Param id path integer true "Buy-in ID"
// @Param rejection body rejectBuyInRequest false "Optional rejection reason"
// @Success 200 {object} object
// @Failure 400 {object} object{status=string,code=string,message=string}
// @Router /buyins/{id}/reject [patch]
// @Security ApiKeyAuth
func RejectBuyIn(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req rejectBuyInRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			utils.RenderBindingError(c, err)
			return
		}

		buyIn, err := svc.RejectBuyIn(c.Request.Context(), ident, id, req.RejectionReason)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, buyIn)
	}
}

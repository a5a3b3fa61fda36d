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
)

type createSessionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	SessionDate string `json:"sessionDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	Notes       string `json:"notes"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed cancelled"`
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "code": "INVALID_INPUT", "message": "invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// @Summary List sessions
// @Description Returns sessions newest date first, optionally filtered by status or player
// @Tags sessions
// @Produce json
// @Param status query string false "Session status filter"
// @Param playerId query integer false "Only sessions the player bought into"
// @Success 200 {array} object
// @Router /sessions [get]
// @Security ApiKeyAuth
func ListSessions(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		filter := ledger.SessionFilter{
			Status: models.SessionStatus(c.Query("status")),
		}
		if raw := c.Query("playerId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				utils.RenderBindingError(c, err)
				return
			}
			filter.PlayerID = uint(id)
		}

		sessions, err := svc.ListSessions(c.Request.Context(), ident, filter)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessions)
	}
}

// @Summary Create a session
// @Description Opens a new session in active status (admin only)
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body createSessionRequest true "Session details"
// @Success 201 {object} object
// @Failure 403 {object} object{status=string,code=string,message=string}
// @Router /sessions [post]
// @Security ApiKeyAuth
func CreateSession(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))

		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}
		sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
		if err != nil {
			utils.RenderBindingError(c, err)
			return
		}
		startTime, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		session, err := svc.CreateSession(c.Request.Context(), ident, ledger.CreateSessionInput{
			Name:        req.Name,
			SessionDate: sessionDate,
			StartTime:   startTime,
			Notes:       req.Notes,
		})
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

// @Summary Get one session
// @Description Returns a session with its buy-ins (newest first) and results
// @Tags sessions
// @Produce json
// @Param id path integer true "Session ID"
// @Success 200 {object} object
// @Failure 404 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id} [get]
// @Security ApiKeyAuth
func GetSession(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		session, err := svc.GetSession(c.Request.Context(), ident, id)
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// @Summary Update session status
// @Description Moves a session between active, completed and cancelled (admin only). Closing stamps the end time.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path integer true "Session ID"
// @Param status body updateSessionStatusRequest true "Target status"
// @Success 200 {object} object
// @Failure 403 {object} object{status=string,code=string,message=string}
// @Router /sessions/{id} [patch]
// @Security ApiKeyAuth
func UpdateSessionStatus(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := utils.IdentityOf(middleware.CurrentUser(c))
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req updateSessionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RenderBindingError(c, err)
			return
		}

		session, err := svc.SetSessionStatus(c.Request.Context(), ident, id, models.SessionStatus(req.Status))
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

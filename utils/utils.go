package utils

import (
	"errors"
	"net/http"

	models "ChipBook/models/postgres"
	"ChipBook/services/ledger"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// IdentityOf builds the workflow identity for an authenticated account.
func IdentityOf(user *models.User) ledger.Identity {
	return ledger.Identity{UserID: user.ID, Role: user.Role}
}

// RenderError writes a workflow error as a JSON response with a stable
// code, mapping error kinds onto HTTP statuses. Unknown errors become an
// opaque 500 and get logged.
func RenderError(c *gin.Context, err error) {
	var status int
	switch ledger.KindOf(err) {
	case ledger.KindUnauthorized:
		status = http.StatusUnauthorized
	case ledger.KindForbidden:
		status = http.StatusForbidden
	case ledger.KindNotFound:
		status = http.StatusNotFound
	case ledger.KindInvalidState, ledger.KindValidation:
		status = http.StatusBadRequest
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "code": "INTERNAL", "message": "internal server error",
		})
		return
	}

	var code, message string
	var e *ledger.Error
	if errors.As(err, &e) {
		code, message = e.Code, e.Message
	}
	c.JSON(status, gin.H{"status": "error", "code": code, "message": message})
}

// RenderBindingError reports a malformed or failing request body.
func RenderBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": "error", "code": "INVALID_INPUT", "message": err.Error(),
	})
}

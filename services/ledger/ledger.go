// Package ledger implements the session financial workflow: buy-in
// requests and their approval, cash-out declarations and their approval,
// per-player profit/loss, and the session lifecycle gating all of it.
//
// Every operation takes the caller's Identity explicitly; there is no
// ambient request state down here. Role checks happen in this package so
// that no transport can reach a mutation without passing them.
package ledger

import (
	models "ChipBook/models/postgres"
	"ChipBook/services/redcache"

	"gorm.io/gorm"
)

// Identity is the authenticated caller of a workflow operation.
type Identity struct {
	UserID uint
	Role   models.Role
}

// Service owns the ledger workflow. All state lives in the relational
// store; concurrent requests only share the database.
type Service struct {
	db    *gorm.DB
	cache *redcache.Client // nil when report caching is disabled
}

// New creates a Service over db. cache may be nil.
func New(db *gorm.DB, cache *redcache.Client) *Service {
	return &Service{db: db, cache: cache}
}

func (s *Service) requireAdmin(ident Identity) error {
	if ident.UserID == 0 {
		return errUnauthorized("UNAUTHORIZED", "authentication required")
	}
	if !ident.Role.IsAdmin() {
		return errForbidden("FORBIDDEN", "admin role required")
	}
	return nil
}

func (s *Service) requireAuthenticated(ident Identity) error {
	if ident.UserID == 0 {
		return errUnauthorized("UNAUTHORIZED", "authentication required")
	}
	return nil
}

package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
 * 'SessionResult' is the per-player financial ledger row for a session:
 * cumulative approved buy-ins against the declared final stack. At most
 * one row exists per (session, player) pair. The row is created lazily,
 * either by the first approved buy-in or by the first cash-out request.
 */
type SessionResult struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SessionID     uint            `gorm:"not null;uniqueIndex:idx_session_results_session_player" json:"sessionId"`
	PlayerID      uint            `gorm:"not null;uniqueIndex:idx_session_results_session_player" json:"playerId"`
	TotalBuyIn    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalBuyIn"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"finalAmount"`
	CashOutStatus RequestStatus   `gorm:"size:20;not null;default:pending" json:"cashOutStatus"`
	ApprovedByID  *uint           `json:"approvedById"`
	ApprovedAt    *time.Time      `json:"approvedAt"`
	RejectionNote *string         `gorm:"size:255" json:"rejectionNote"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relationships
	Session  *GameSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Player   *User        `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Approver *User        `gorm:"foreignKey:ApprovedByID" json:"approver,omitempty"`
}

// ProfitLoss is FinalAmount minus TotalBuyIn. It is always derived from
// the stored components, never persisted.
func (r *SessionResult) ProfitLoss() decimal.Decimal {
	return r.FinalAmount.Sub(r.TotalBuyIn)
}

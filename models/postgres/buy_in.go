package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the approval state of a buy-in request. The only legal
// transitions are pending -> approved and pending -> rejected; resolved
// rows are never modified again.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

/*
 * 'BuyIn' is a player's requested stake addition to a session. Amount is
 * what the player asked for until an admin approves, at which point it may
 * be overridden with the amount actually put on the table.
 */
type BuyIn struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SessionID       uint            `gorm:"not null;index:idx_buy_ins_session" json:"sessionId"`
	PlayerID        uint            `gorm:"not null;index:idx_buy_ins_player" json:"playerId"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	RequestStatus   RequestStatus   `gorm:"size:20;not null;default:pending;index:idx_buy_ins_status" json:"requestStatus"`
	RequestedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"requestedAt"`
	ApprovedByID    *uint           `json:"approvedById"`
	ApprovedAt      *time.Time      `json:"approvedAt"`
	RejectionReason *string         `gorm:"size:255" json:"rejectionReason"`

	// Relationships
	Session  *GameSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Player   *User        `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Approver *User        `gorm:"foreignKey:ApprovedByID" json:"approver,omitempty"`
}

func (b *BuyIn) IsPending() bool {
	return b.RequestStatus == RequestPending
}

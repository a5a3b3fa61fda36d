package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SettlementType says which way the money moved: a payment made by the
// player or a receipt handed to them.
type SettlementType string

const (
	SettlementPayment SettlementType = "payment"
	SettlementReceipt SettlementType = "receipt"
)

func (t SettlementType) Valid() bool {
	return t == SettlementPayment || t == SettlementReceipt
}

/*
 * 'Settlement' records money actually changing hands outside any single
 * session, squaring up a player's accumulated profit or loss.
 */
type Settlement struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PlayerID       uint            `gorm:"not null;index:idx_settlements_player" json:"playerId"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type           SettlementType  `gorm:"size:20;not null" json:"type"`
	SettlementDate datatypes.Date  `json:"settlementDate"`
	ReferenceNote  *string         `gorm:"size:255" json:"referenceNote"`
	RecordedByID   uint            `gorm:"not null" json:"recordedById"`
	CreatedAt      time.Time       `json:"createdAt"`

	// Relationships
	Player     *User `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	RecordedBy *User `gorm:"foreignKey:RecordedByID" json:"recordedBy,omitempty"`
}

package ledger

import (
	"context"
	"time"

	models "ChipBook/models/postgres"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RecordSettlementInput carries the fields of a settlement entry.
type RecordSettlementInput struct {
	PlayerID       uint
	Amount         decimal.Decimal
	Type           models.SettlementType
	SettlementDate time.Time
	ReferenceNote  string
}

// RecordSettlement stores a payment or receipt squaring up a player's
// balance. Admin only.
func (s *Service) RecordSettlement(ctx context.Context, ident Identity, input RecordSettlementInput) (*models.Settlement, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errValidation("INVALID_AMOUNT", "settlement amount must be positive")
	}
	if !input.Type.Valid() {
		return nil, errValidation("INVALID_TYPE", "settlement type must be payment or receipt")
	}
	if _, err := s.findUser(ctx, input.PlayerID); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		PlayerID:       input.PlayerID,
		Amount:         input.Amount,
		Type:           input.Type,
		SettlementDate: datatypes.Date(input.SettlementDate),
		RecordedByID:   ident.UserID,
	}
	if input.ReferenceNote != "" {
		settlement.ReferenceNote = &input.ReferenceNote
	}
	if err := s.db.WithContext(ctx).Create(settlement).Error; err != nil {
		return nil, err
	}
	return settlement, nil
}

// ListSettlements returns settlement entries newest first. Non-admins
// only see their own.
func (s *Service) ListSettlements(ctx context.Context, ident Identity, playerID uint) ([]*models.Settlement, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}
	if !ident.Role.IsAdmin() {
		if playerID != 0 && playerID != ident.UserID {
			return nil, errForbidden("FORBIDDEN", "players may only list their own settlements")
		}
		playerID = ident.UserID
	}

	query := s.db.WithContext(ctx).
		Preload("Player").
		Order("settlement_date DESC, id DESC")
	if playerID != 0 {
		query = query.Where("player_id = ?", playerID)
	}

	var settlements []*models.Settlement
	if err := query.Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}

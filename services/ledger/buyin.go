package ledger

import (
	"context"
	"errors"
	"time"

	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitBuyIn creates a pending buy-in request for the caller. The
// session must be active and the amount positive, at most the configured
// ceiling.
func (s *Service) SubmitBuyIn(ctx context.Context, ident Identity, sessionID uint, amount decimal.Decimal) (*models.BuyIn, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errValidation("INVALID_AMOUNT", "buy-in amount must be positive")
	}
	if amount.GreaterThan(constants.MaxBuyInAmount) {
		return nil, errValidation("INVALID_AMOUNT", "buy-in amount exceeds the maximum of %s", constants.MaxBuyInAmount)
	}

	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, errInvalidState("SESSION_NOT_ACTIVE", "can only request buy-ins for active sessions")
	}

	buyIn := &models.BuyIn{
		SessionID:     sessionID,
		PlayerID:      ident.UserID,
		Amount:        amount,
		RequestStatus: models.RequestPending,
		RequestedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(buyIn).Error; err != nil {
		return nil, err
	}
	return buyIn, nil
}

// ApproveBuyIn resolves a pending buy-in as approved, optionally
// overriding the amount with what actually hit the table, and folds the
// approved amount into the player's SessionResult. The result upsert is
// a single atomic statement so concurrent approvals for the same
// (session, player) pair cannot lose an increment. Admin only.
func (s *Service) ApproveBuyIn(ctx context.Context, ident Identity, buyInID uint, overrideAmount *decimal.Decimal) (*models.BuyIn, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if overrideAmount != nil && overrideAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errValidation("INVALID_AMOUNT", "override amount must be positive")
	}

	buyIn, err := s.findBuyIn(ctx, buyInID)
	if err != nil {
		return nil, err
	}
	if !buyIn.IsPending() {
		return nil, errInvalidState("BUYIN_NOT_PENDING", "buy-in is not pending")
	}

	amount := buyIn.Amount
	if overrideAmount != nil {
		amount = *overrideAmount
	}
	now := time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"request_status": models.RequestApproved,
			"approved_by_id": ident.UserID,
			"approved_at":    now,
			"amount":         amount,
		}
		res := tx.Model(&models.BuyIn{}).
			Where("id = ? AND request_status = ?", buyInID, models.RequestPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInvalidState("BUYIN_NOT_PENDING", "buy-in is not pending")
		}

		result := &models.SessionResult{
			SessionID:     buyIn.SessionID,
			PlayerID:      buyIn.PlayerID,
			TotalBuyIn:    amount,
			FinalAmount:   decimal.Zero,
			CashOutStatus: models.RequestPending,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "player_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_buy_in": gorm.Expr("total_buy_in + ?", amount),
			}),
		}).Create(result).Error
	})
	if err != nil {
		return nil, err
	}

	buyIn.RequestStatus = models.RequestApproved
	buyIn.ApprovedByID = &ident.UserID
	buyIn.ApprovedAt = &now
	buyIn.Amount = amount
	return buyIn, nil
}

// RejectBuyIn resolves a pending buy-in as rejected. The player's
// SessionResult is untouched. Admin only.
func (s *Service) RejectBuyIn(ctx context.Context, ident Identity, buyInID uint, reason string) (*models.BuyIn, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}

	buyIn, err := s.findBuyIn(ctx, buyInID)
	if err != nil {
		return nil, err
	}
	if !buyIn.IsPending() {
		return nil, errInvalidState("BUYIN_NOT_PENDING", "buy-in is not pending")
	}

	if reason == "" {
		reason = constants.DefaultRejectionReason
	}
	res := s.db.WithContext(ctx).Model(&models.BuyIn{}).
		Where("id = ? AND request_status = ?", buyInID, models.RequestPending).
		Updates(map[string]interface{}{
			"request_status":   models.RequestRejected,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errInvalidState("BUYIN_NOT_PENDING", "buy-in is not pending")
	}

	buyIn.RequestStatus = models.RequestRejected
	buyIn.RejectionReason = &reason
	return buyIn, nil
}

// BuyInFilter narrows ListBuyIns. Zero values mean no filter.
type BuyInFilter struct {
	SessionID uint
	PlayerID  uint
	Status    models.RequestStatus
}

// ListBuyIns returns buy-ins newest request first. Non-admins are always
// scoped to their own rows; asking for another player's is Forbidden.
func (s *Service) ListBuyIns(ctx context.Context, ident Identity, filter BuyInFilter) ([]*models.BuyIn, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}

	if !ident.Role.IsAdmin() {
		if filter.PlayerID != 0 && filter.PlayerID != ident.UserID {
			return nil, errForbidden("FORBIDDEN", "players may only list their own buy-ins")
		}
		filter.PlayerID = ident.UserID
	}

	query := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Session").
		Preload("Approver").
		Order("requested_at DESC, id DESC")

	if filter.SessionID != 0 {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.PlayerID != 0 {
		query = query.Where("player_id = ?", filter.PlayerID)
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, errValidation("INVALID_STATUS", "unknown request status %q", filter.Status)
		}
		query = query.Where("request_status = ?", filter.Status)
	}

	var buyIns []*models.BuyIn
	if err := query.Find(&buyIns).Error; err != nil {
		return nil, err
	}
	return buyIns, nil
}

func (s *Service) findBuyIn(ctx context.Context, buyInID uint) (*models.BuyIn, error) {
	var buyIn models.BuyIn
	if err := s.db.WithContext(ctx).First(&buyIn, buyInID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("BUYIN_NOT_FOUND", "buy-in %d not found", buyInID)
		}
		return nil, err
	}
	return &buyIn, nil
}

package ledger

import (
	"context"
	"errors"
	"time"

	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"
	"ChipBook/services/redcache"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestCashOut records the caller's declared final stack for a session.
// The player must have at least one approved buy-in there. Repeat
// submissions before approval overwrite the declared stack; resubmitting
// after a rejection puts the cash-out back to pending and clears the
// rejection note.
func (s *Service) RequestCashOut(ctx context.Context, ident Identity, sessionID uint, finalAmount decimal.Decimal) (*models.SessionResult, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}
	if finalAmount.IsNegative() {
		return nil, errValidation("INVALID_AMOUNT", "final amount cannot be negative")
	}

	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, errInvalidState("SESSION_NOT_ACTIVE", "can only cash out of active sessions")
	}

	var approvedTotal decimal.Decimal
	err = s.db.WithContext(ctx).Model(&models.BuyIn{}).
		Where("session_id = ? AND player_id = ? AND request_status = ?",
			sessionID, ident.UserID, models.RequestApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&approvedTotal).Error
	if err != nil {
		return nil, err
	}
	if approvedTotal.LessThanOrEqual(decimal.Zero) {
		return nil, errInvalidState("NO_APPROVED_BUYINS", "no approved buy-ins found for this session")
	}

	result := &models.SessionResult{
		SessionID:     sessionID,
		PlayerID:      ident.UserID,
		TotalBuyIn:    approvedTotal,
		FinalAmount:   finalAmount,
		CashOutStatus: models.RequestPending,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "player_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"final_amount":    finalAmount,
			"cash_out_status": models.RequestPending,
			"rejection_note":  nil,
			"approved_by_id":  nil,
			"approved_at":     nil,
		}),
	}).Create(result).Error
	if err != nil {
		return nil, err
	}

	return s.findResult(ctx, sessionID, ident.UserID)
}

// GetCashOut returns the caller's own result row for a session.
func (s *Service) GetCashOut(ctx context.Context, ident Identity, sessionID uint) (*models.SessionResult, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}
	return s.findResult(ctx, sessionID, ident.UserID)
}

// ApproveCashOut resolves a pending cash-out, optionally overriding the
// declared final stack with the admin's recount. Any prior rejection
// note is cleared. Admin only.
func (s *Service) ApproveCashOut(ctx context.Context, ident Identity, sessionID, playerID uint, overrideFinalAmount *decimal.Decimal) (*models.SessionResult, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if overrideFinalAmount != nil && overrideFinalAmount.IsNegative() {
		return nil, errValidation("INVALID_AMOUNT", "final amount cannot be negative")
	}

	result, err := s.findResult(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if result.CashOutStatus != models.RequestPending {
		return nil, errInvalidState("CASHOUT_NOT_PENDING", "cash-out is not pending")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"cash_out_status": models.RequestApproved,
		"approved_by_id":  ident.UserID,
		"approved_at":     now,
		"rejection_note":  nil,
	}
	if overrideFinalAmount != nil {
		updates["final_amount"] = *overrideFinalAmount
	}
	res := s.db.WithContext(ctx).Model(&models.SessionResult{}).
		Where("id = ? AND cash_out_status = ?", result.ID, models.RequestPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errInvalidState("CASHOUT_NOT_PENDING", "cash-out is not pending")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, redcache.PlayerSummaryKey(playerID))
	}

	return s.findResult(ctx, sessionID, playerID)
}

// RejectCashOut resolves a pending cash-out as rejected, storing the
// admin's note and clearing the approver fields. The player may resubmit
// via RequestCashOut. Admin only.
func (s *Service) RejectCashOut(ctx context.Context, ident Identity, sessionID, playerID uint, note string) (*models.SessionResult, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}

	result, err := s.findResult(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if result.CashOutStatus != models.RequestPending {
		return nil, errInvalidState("CASHOUT_NOT_PENDING", "cash-out is not pending")
	}

	if note == "" {
		note = constants.DefaultCashOutNote
	}
	res := s.db.WithContext(ctx).Model(&models.SessionResult{}).
		Where("id = ? AND cash_out_status = ?", result.ID, models.RequestPending).
		Updates(map[string]interface{}{
			"cash_out_status": models.RequestRejected,
			"rejection_note":  note,
			"approved_by_id":  nil,
			"approved_at":     nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errInvalidState("CASHOUT_NOT_PENDING", "cash-out is not pending")
	}

	return s.findResult(ctx, sessionID, playerID)
}

// ListCashOuts returns every result row for a session, newest first,
// with player and approver preloaded. Admin only.
func (s *Service) ListCashOuts(ctx context.Context, ident Identity, sessionID uint) ([]*models.SessionResult, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return nil, err
	}

	var results []*models.SessionResult
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Approver").
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) findResult(ctx context.Context, sessionID, playerID uint) (*models.SessionResult, error) {
	var result models.SessionResult
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Approver").
		Where("session_id = ? AND player_id = ?", sessionID, playerID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("CASHOUT_NOT_FOUND", "cash-out request not found")
		}
		return nil, err
	}
	return &result, nil
}

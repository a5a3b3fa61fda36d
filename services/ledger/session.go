package ledger

import (
	"context"
	"errors"
	"time"

	models "ChipBook/models/postgres"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateSessionInput carries the fields an admin sets when opening a
// new session.
type CreateSessionInput struct {
	Name        string
	SessionDate time.Time
	StartTime   time.Time
	Notes       string
}

// CreateSession opens a new session in active status. Admin only.
func (s *Service) CreateSession(ctx context.Context, ident Identity, input CreateSessionInput) (*models.GameSession, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, errValidation("INVALID_INPUT", "session name is required")
	}
	if input.StartTime.IsZero() {
		return nil, errValidation("INVALID_INPUT", "start time is required")
	}

	session := &models.GameSession{
		Name:        input.Name,
		SessionDate: datatypes.Date(input.SessionDate),
		StartTime:   input.StartTime,
		Status:      models.SessionActive,
		Notes:       input.Notes,
		CreatedByID: ident.UserID,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// SetSessionStatus moves a session between active and its two terminal
// states. Entering a terminal state stamps EndTime; reopening back to
// active leaves EndTime and all historical buy-ins and results in place.
// Admin only.
func (s *Service) SetSessionStatus(ctx context.Context, ident Identity, sessionID uint, status models.SessionStatus) (*models.GameSession, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errValidation("INVALID_STATUS", "status must be active, completed, or cancelled")
	}

	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = status
	if status.Terminal() {
		now := time.Now()
		session.EndTime = &now
	}
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// SessionFilter narrows ListSessions. A zero PlayerID means no player
// filter.
type SessionFilter struct {
	Status   models.SessionStatus
	PlayerID uint
}

// ListSessions returns sessions newest date first. When a non-admin
// filters by player, only sessions that player bought into are visible,
// and only for themselves.
func (s *Service) ListSessions(ctx context.Context, ident Identity, filter SessionFilter) ([]*models.GameSession, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Creator").
		Order("session_date DESC, id DESC")

	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, errValidation("INVALID_STATUS", "unknown session status %q", filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PlayerID != 0 {
		if !ident.Role.IsAdmin() && filter.PlayerID != ident.UserID {
			return nil, errForbidden("FORBIDDEN", "players may only list their own sessions")
		}
		query = query.Where(
			"id IN (?)",
			s.db.Model(&models.BuyIn{}).Select("session_id").Where("player_id = ?", filter.PlayerID),
		)
	}

	var sessions []*models.GameSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns one session with its creator, buy-ins (newest
// request first) and results preloaded.
func (s *Service) GetSession(ctx context.Context, ident Identity, sessionID uint) (*models.GameSession, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}

	var session models.GameSession
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("BuyIns", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at DESC")
		}).
		Preload("BuyIns.Player").
		Preload("BuyIns.Approver").
		Preload("Results").
		Preload("Results.Player").
		First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("SESSION_NOT_FOUND", "session %d not found", sessionID)
		}
		return nil, err
	}
	return &session, nil
}

func (s *Service) findSession(ctx context.Context, sessionID uint) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("SESSION_NOT_FOUND", "session %d not found", sessionID)
		}
		return nil, err
	}
	return &session, nil
}

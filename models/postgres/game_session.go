package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// SessionStatus is the lifecycle state of a poker session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is a known lifecycle state.
func (s SessionStatus) Valid() bool {
	return s == SessionActive || s == SessionCompleted || s == SessionCancelled
}

// Terminal reports whether s is one of the two closed states.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

/*
 * 'GameSession' is one discrete poker game being tracked. Buy-in and
 * cash-out submissions are only accepted while the session is active.
 * EndTime is stamped whenever the session leaves the active state.
 */
type GameSession struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	SessionDate datatypes.Date `gorm:"index:idx_game_sessions_date" json:"sessionDate"`
	StartTime   time.Time      `gorm:"not null" json:"startTime"`
	EndTime     *time.Time     `json:"endTime"`
	Status      SessionStatus  `gorm:"size:20;not null;default:active;index:idx_game_sessions_status" json:"status"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedByID uint           `gorm:"not null;index:idx_game_sessions_creator" json:"createdById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Relationships
	Creator *User            `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	BuyIns  []*BuyIn         `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"buyIns,omitempty"`
	Results []*SessionResult `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"results,omitempty"`
}

func (s *GameSession) IsActive() bool {
	return s.Status == SessionActive
}

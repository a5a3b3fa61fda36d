package ledger

import (
	"context"
	"testing"
	"time"

	models "ChipBook/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	svc, admin, _ := newTestService(t)
	ctx := context.Background()

	t.Run("opens in active status", func(t *testing.T) {
		session, err := svc.CreateSession(ctx, admin, CreateSessionInput{
			Name:        "Saturday Game",
			SessionDate: time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
			StartTime:   time.Date(2025, 7, 12, 20, 0, 0, 0, time.UTC),
			Notes:       "high stakes",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SessionActive, session.Status)
		assert.Nil(t, session.EndTime)
		assert.Equal(t, admin.UserID, session.CreatedByID)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, admin, CreateSessionInput{StartTime: time.Now()})
		require.True(t, IsKind(err, KindValidation))
	})
}

func TestSetSessionStatus(t *testing.T) {
	svc, admin, player := newTestService(t)
	ctx := context.Background()

	t.Run("closing stamps the end time", func(t *testing.T) {
		session := createActiveSession(t, svc, admin)

		completed, err := svc.SetSessionStatus(ctx, admin, session.ID, models.SessionCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, completed.Status)
		require.NotNil(t, completed.EndTime)
	})

	t.Run("cancelling stamps the end time too", func(t *testing.T) {
		session := createActiveSession(t, svc, admin)

		cancelled, err := svc.SetSessionStatus(ctx, admin, session.ID, models.SessionCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCancelled, cancelled.Status)
		require.NotNil(t, cancelled.EndTime)
	})

	t.Run("reopening keeps historical data", func(t *testing.T) {
		session := createActiveSession(t, svc, admin)
		approvedBuyIn(t, svc, admin, player, session.ID, "300")
		_, err := svc.RequestCashOut(ctx, player, session.ID, dec("250"))
		require.NoError(t, err)

		_, err = svc.SetSessionStatus(ctx, admin, session.ID, models.SessionCompleted)
		require.NoError(t, err)
		reopened, err := svc.SetSessionStatus(ctx, admin, session.ID, models.SessionActive)
		require.NoError(t, err)
		assert.Equal(t, models.SessionActive, reopened.Status)

		full, err := svc.GetSession(ctx, admin, session.ID)
		require.NoError(t, err)
		assert.Len(t, full.BuyIns, 1)
		assert.Len(t, full.Results, 1)
	})

	t.Run("non-admins cannot change status", func(t *testing.T) {
		session := createActiveSession(t, svc, admin)
		_, err := svc.SetSessionStatus(ctx, player, session.ID, models.SessionCompleted)
		require.True(t, IsKind(err, KindForbidden))
	})

	t.Run("unknown states are rejected", func(t *testing.T) {
		session := createActiveSession(t, svc, admin)
		_, err := svc.SetSessionStatus(ctx, admin, session.ID, "paused")
		require.True(t, IsKind(err, KindValidation))
	})
}

func TestListSessions(t *testing.T) {
	svc, admin, player := newTestService(t)
	ctx := context.Background()

	mkSession := func(name string, date time.Time) *models.GameSession {
		s, err := svc.CreateSession(ctx, admin, CreateSessionInput{
			Name:        name,
			SessionDate: date,
			StartTime:   date.Add(19 * time.Hour),
		})
		require.NoError(t, err)
		return s
	}

	older := mkSession("older", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	newer := mkSession("newer", time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC))
	approvedBuyIn(t, svc, admin, player, older.ID, "100")

	t.Run("newest date first", func(t *testing.T) {
		sessions, err := svc.ListSessions(ctx, player, SessionFilter{})
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, newer.ID, sessions[0].ID)
		assert.Equal(t, older.ID, sessions[1].ID)
	})

	t.Run("player filter keeps only sessions bought into", func(t *testing.T) {
		sessions, err := svc.ListSessions(ctx, player, SessionFilter{PlayerID: player.UserID})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, older.ID, sessions[0].ID)
	})

	t.Run("players cannot filter by another player", func(t *testing.T) {
		other, _ := seededPlayer(t, svc)
		_, err := svc.ListSessions(ctx, player, SessionFilter{PlayerID: other.ID})
		require.True(t, IsKind(err, KindForbidden))
	})

	t.Run("status filter applies", func(t *testing.T) {
		_, err := svc.SetSessionStatus(ctx, admin, older.ID, models.SessionCompleted)
		require.NoError(t, err)

		sessions, err := svc.ListSessions(ctx, admin, SessionFilter{Status: models.SessionActive})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, newer.ID, sessions[0].ID)
	})
}

func TestGetSession(t *testing.T) {
	svc, admin, player := newTestService(t)
	ctx := context.Background()
	session := createActiveSession(t, svc, admin)
	approvedBuyIn(t, svc, admin, player, session.ID, "200")

	t.Run("preloads creator and buy-ins", func(t *testing.T) {
		full, err := svc.GetSession(ctx, player, session.ID)
		require.NoError(t, err)
		require.NotNil(t, full.Creator)
		assert.Equal(t, admin.UserID, full.Creator.ID)
		require.Len(t, full.BuyIns, 1)
		require.NotNil(t, full.BuyIns[0].Player)
	})

	t.Run("missing session is not found", func(t *testing.T) {
		_, err := svc.GetSession(ctx, player, 9999)
		require.True(t, IsKind(err, KindNotFound))
	})
}

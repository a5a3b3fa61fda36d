package ledger

import (
	"context"
	"testing"
	"time"

	models "ChipBook/models/postgres"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.GameSession{},
		&models.BuyIn{},
		&models.SessionResult{},
		&models.Settlement{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// newTestService returns a service over a fresh in-memory database plus
// an admin identity and a player identity.
func newTestService(t *testing.T) (*Service, Identity, Identity) {
	t.Helper()
	db := openTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	player := seedUser(t, db, "player1", models.RolePlayer)
	svc := New(db, nil)
	return svc,
		Identity{UserID: admin.ID, Role: admin.Role},
		Identity{UserID: player.ID, Role: player.Role}
}

func createActiveSession(t *testing.T, svc *Service, admin Identity) *models.GameSession {
	t.Helper()
	session, err := svc.CreateSession(context.Background(), admin, CreateSessionInput{
		Name:        "Friday Night",
		SessionDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		StartTime:   time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return session
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIdentityChecks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		_, err := svc.ListSessions(ctx, Identity{}, SessionFilter{})
		require.True(t, IsKind(err, KindUnauthorized))
	})

	t.Run("player cannot create sessions", func(t *testing.T) {
		_, player := seededPlayer(t, svc)
		_, err := svc.CreateSession(ctx, player, CreateSessionInput{
			Name:      "Sneaky Game",
			StartTime: time.Now(),
		})
		require.True(t, IsKind(err, KindForbidden))
	})
}

// seededPlayer adds one more player account to an existing service DB.
func seededPlayer(t *testing.T, svc *Service) (*models.User, Identity) {
	t.Helper()
	user := seedUser(t, svc.db, "extra_"+time.Now().Format("150405.000000000"), models.RolePlayer)
	return user, Identity{UserID: user.ID, Role: user.Role}
}

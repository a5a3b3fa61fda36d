package ledger

import (
	"context"
	"testing"
	"time"

	models "ChipBook/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSettlement(t *testing.T) {
	svc, admin, player := newTestService(t)
	ctx := context.Background()

	t.Run("records a payment", func(t *testing.T) {
		settlement, err := svc.RecordSettlement(ctx, admin, RecordSettlementInput{
			PlayerID:       player.UserID,
			Amount:         dec("250.00"),
			Type:           models.SettlementPayment,
			SettlementDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			ReferenceNote:  "bank transfer",
		})
		require.NoError(t, err)
		assert.Equal(t, admin.UserID, settlement.RecordedByID)
		require.NotNil(t, settlement.ReferenceNote)
		assert.Equal(t, "bank transfer", *settlement.ReferenceNote)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := svc.RecordSettlement(ctx, admin, RecordSettlementInput{
			PlayerID: player.UserID,
			Amount:   dec("0"),
			Type:     models.SettlementReceipt,
		})
		require.True(t, IsKind(err, KindValidation))
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		_, err := svc.RecordSettlement(ctx, admin, RecordSettlementInput{
			PlayerID: player.UserID,
			Amount:   dec("10"),
			Type:     "refund",
		})
		require.True(t, IsKind(err, KindValidation))
	})

	t.Run("non-admins cannot record", func(t *testing.T) {
		_, err := svc.RecordSettlement(ctx, player, RecordSettlementInput{
			PlayerID: player.UserID,
			Amount:   dec("10"),
			Type:     models.SettlementPayment,
		})
		require.True(t, IsKind(err, KindForbidden))
	})
}

func TestListSettlements(t *testing.T) {
	svc, admin, player := newTestService(t)
	ctx := context.Background()
	other, otherIdent := seededPlayer(t, svc)

	for _, in := range []RecordSettlementInput{
		{PlayerID: player.UserID, Amount: dec("100"), Type: models.SettlementPayment, SettlementDate: time.Now()},
		{PlayerID: other.ID, Amount: dec("200"), Type: models.SettlementReceipt, SettlementDate: time.Now()},
	} {
		_, err := svc.RecordSettlement(ctx, admin, in)
		require.NoError(t, err)
	}

	t.Run("admin sees everything", func(t *testing.T) {
		settlements, err := svc.ListSettlements(ctx, admin, 0)
		require.NoError(t, err)
		assert.Len(t, settlements, 2)
	})

	t.Run("players only see their own", func(t *testing.T) {
		settlements, err := svc.ListSettlements(ctx, otherIdent, 0)
		require.NoError(t, err)
		require.Len(t, settlements, 1)
		assert.Equal(t, other.ID, settlements[0].PlayerID)
	})

	t.Run("players cannot ask for another player's", func(t *testing.T) {
		_, err := svc.ListSettlements(ctx, otherIdent, player.UserID)
		require.True(t, IsKind(err, KindForbidden))
	})
}

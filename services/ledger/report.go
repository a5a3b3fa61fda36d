package ledger

import (
	"context"

	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"
	"ChipBook/services/redcache"

	"github.com/shopspring/decimal"
)

// PlayerSummary aggregates a player's approved session results.
type PlayerSummary struct {
	PlayerID       uint            `json:"playerId"`
	SessionsPlayed int64           `json:"sessionsPlayed"`
	TotalBuyIn     decimal.Decimal `json:"totalBuyIn"`
	TotalFinal     decimal.Decimal `json:"totalFinal"`
	NetProfitLoss  decimal.Decimal `json:"netProfitLoss"`
}

// GetPlayerSummary computes a player's lifetime totals over approved
// cash-outs. Non-admins can only ask about themselves. Summaries are
// cached briefly; approval of a cash-out invalidates the entry.
func (s *Service) GetPlayerSummary(ctx context.Context, ident Identity, playerID uint) (*PlayerSummary, error) {
	if err := s.requireAuthenticated(ident); err != nil {
		return nil, err
	}
	if !ident.Role.IsAdmin() && playerID != ident.UserID {
		return nil, errForbidden("FORBIDDEN", "players may only view their own summary")
	}
	if _, err := s.findUser(ctx, playerID); err != nil {
		return nil, err
	}

	key := redcache.PlayerSummaryKey(playerID)
	if s.cache != nil {
		var cached PlayerSummary
		if s.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	var results []*models.SessionResult
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND cash_out_status = ?", playerID, models.RequestApproved).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	summary := &PlayerSummary{PlayerID: playerID}
	for _, r := range results {
		summary.SessionsPlayed++
		summary.TotalBuyIn = summary.TotalBuyIn.Add(r.TotalBuyIn)
		summary.TotalFinal = summary.TotalFinal.Add(r.FinalAmount)
		summary.NetProfitLoss = summary.NetProfitLoss.Add(r.ProfitLoss())
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, summary, constants.ReportCacheTTL)
	}
	return summary, nil
}

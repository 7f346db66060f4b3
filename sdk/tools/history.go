package tools

import (
	"context"
	"errors"

	"github.com/k3s4/adk-poker-42/internal/history"
	"github.com/k3s4/adk-poker-42/poker"
)

// ErrNoHistory is returned by the history tools when the toolkit has no
// history source.
var ErrNoHistory = errors.New("tools: no hand history available")

// HistorySource is the read path to past hands. *history.Store implements it.
type HistorySource interface {
	RecentHands(ctx context.Context, limit int) ([]*history.Hand, error)
	OpponentStats(ctx context.Context, playerIDs []int64) (map[int64]history.PlayerStats, error)
}

var _ HistorySource = (*history.Store)(nil)

// HistoryReport holds recent hands, newest first.
type HistoryReport struct {
	Count int             `json:"hands_count"`
	Hands []*history.Hand `json:"hands"`
}

// OpponentProfile summarises an opponent's recorded tendencies.
type OpponentProfile struct {
	PlayerID    int64 `json:"player_id"`
	HandsPlayed int   `json:"hands_played"`
	// Aggression is raises and all-ins per call; zero without calls.
	Aggression      float64  `json:"aggression"`
	FoldRate        float64  `json:"fold_rate"`
	ShowdownWinRate float64  `json:"showdown_win_rate"`
	TotalWinnings   int64    `json:"total_winnings"`
	ShownHands      []string `json:"shown_hands,omitempty"`
}

// RecentHands returns up to limit recent hands.
func (t *Toolkit) RecentHands(ctx context.Context, limit int) (HistoryReport, error) {
	if t.history == nil {
		return HistoryReport{}, ErrNoHistory
	}
	if limit <= 0 {
		return HistoryReport{}, &InputError{Field: "limit", Reason: "must be positive"}
	}
	hands, err := t.history.RecentHands(ctx, limit)
	if err != nil {
		return HistoryReport{}, err
	}
	return HistoryReport{Count: len(hands), Hands: hands}, nil
}

// OpponentProfiles summarises each opponent. Shown hands are collected
// from the showdowns among the most recent recentHands hands.
func (t *Toolkit) OpponentProfiles(ctx context.Context, playerIDs []int64, recentHands int) ([]OpponentProfile, error) {
	if t.history == nil {
		return nil, ErrNoHistory
	}
	stats, err := t.history.OpponentStats(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	shown := make(map[int64][]string)
	if recentHands > 0 {
		hands, err := t.history.RecentHands(ctx, recentHands)
		if err != nil {
			return nil, err
		}
		for _, h := range hands {
			for _, sd := range h.Showdowns {
				cards, err := sd.Cards()
				if err != nil || len(cards) != 2 {
					t.logger.Debug().Err(err).Int64("hand_id", h.ID).Int64("player_id", sd.PlayerID).Msg("Skipping unreadable showdown cards")
					continue
				}
				shown[sd.PlayerID] = append(shown[sd.PlayerID], poker.HoleNotation(cards[0], cards[1]))
			}
		}
	}

	profiles := make([]OpponentProfile, 0, len(playerIDs))
	for _, id := range playerIDs {
		s := stats[id]
		p := OpponentProfile{
			PlayerID:      id,
			HandsPlayed:   s.HandsPlayed,
			FoldRate:      s.Frequency("fold"),
			TotalWinnings: s.TotalWinnings,
			ShownHands:    shown[id],
		}
		if calls := s.ActionCounts["call"]; calls > 0 {
			p.Aggression = float64(s.ActionCounts["raise"]+s.ActionCounts["all_in"]) / float64(calls)
		}
		if s.Showdowns > 0 {
			p.ShowdownWinRate = float64(s.ShowdownWins) / float64(s.Showdowns)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

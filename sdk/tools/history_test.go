package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3s4/adk-poker-42/internal/history"
)

type fakeHistory struct {
	hands []*history.Hand
	stats map[int64]history.PlayerStats
	err   error
}

func (f *fakeHistory) RecentHands(_ context.Context, limit int) ([]*history.Hand, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.hands) {
		return f.hands[:limit], nil
	}
	return f.hands, nil
}

func (f *fakeHistory) OpponentStats(_ context.Context, ids []int64) (map[int64]history.PlayerStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]history.PlayerStats, len(ids))
	for _, id := range ids {
		if s, ok := f.stats[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func testHistory() *fakeHistory {
	return &fakeHistory{
		hands: []*history.Hand{
			{ID: 3, Showdowns: []history.Showdown{
				{PlayerID: 7, HoleCards: []string{"Kh", "Ks"}, Winnings: 120},
				{PlayerID: 9, HoleCards: []string{"Ad"}},
			}},
			{ID: 2},
			{ID: 1, Showdowns: []history.Showdown{
				{PlayerID: 7, HoleCards: []string{"9c", "Tc"}},
			}},
		},
		stats: map[int64]history.PlayerStats{
			7: {
				PlayerID:      7,
				HandsPlayed:   10,
				ActionCounts:  map[string]int{"call": 4, "raise": 5, "all_in": 1, "fold": 10},
				Showdowns:     4,
				ShowdownWins:  3,
				TotalWinnings: 350,
			},
		},
	}
}

func TestRecentHandsTool(t *testing.T) {
	ctx := context.Background()

	tk := newToolkit(t)
	_, err := tk.RecentHands(ctx, 5)
	assert.ErrorIs(t, err, ErrNoHistory)

	tk = newToolkit(t, WithHistory(testHistory()))
	r, err := tk.RecentHands(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, int64(3), r.Hands[0].ID)

	_, err = tk.RecentHands(ctx, 0)
	var ie *InputError
	assert.ErrorAs(t, err, &ie)

	boom := errors.New("disk gone")
	tk = newToolkit(t, WithHistory(&fakeHistory{err: boom}))
	_, err = tk.RecentHands(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestOpponentProfiles(t *testing.T) {
	ctx := context.Background()
	tk := newToolkit(t, WithHistory(testHistory()))

	profiles, err := tk.OpponentProfiles(ctx, []int64{7, 8}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	p := profiles[0]
	assert.Equal(t, int64(7), p.PlayerID)
	assert.Equal(t, 10, p.HandsPlayed)
	assert.InDelta(t, 1.5, p.Aggression, 1e-9)
	assert.InDelta(t, 0.5, p.FoldRate, 1e-9)
	assert.InDelta(t, 0.75, p.ShowdownWinRate, 1e-9)
	assert.Equal(t, int64(350), p.TotalWinnings)
	assert.Equal(t, []string{"KK", "T9s"}, p.ShownHands)

	unknown := profiles[1]
	assert.Equal(t, OpponentProfile{PlayerID: 8}, unknown)

	noShown, err := tk.OpponentProfiles(ctx, []int64{7}, 0)
	require.NoError(t, err)
	assert.Empty(t, noShown[0].ShownHands)
}

// Package history reads the SQLite hand-history databases written by the
// game engine. The store is strictly read-only; the schema belongs to the
// writer.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/k3s4/adk-poker-42/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FilePattern matches the database files produced by the game engine.
const FilePattern = "game_history_*.sqlite3"

var (
	// ErrNoDatabase is returned by FindLatest when the directory holds no
	// history database.
	ErrNoDatabase = errors.New("history: no game history database found")

	// ErrHandNotFound is returned when a hand id does not exist.
	ErrHandNotFound = errors.New("history: hand not found")
)

// Action is one recorded player action.
type Action struct {
	ID        int64  `db:"action_id" json:"action_id"`
	HandID    int64  `db:"hand_id" json:"hand_id"`
	Phase     string `db:"phase" json:"phase"`
	PlayerID  int64  `db:"player_id" json:"player_id"`
	Type      string `db:"action_type" json:"action_type"`
	Amount    int64  `db:"amount" json:"amount"`
	PotAfter  int64  `db:"pot_after" json:"pot_after"`
	Timestamp string `db:"timestamp" json:"timestamp"`
}

// Showdown is a player's revealed result at the end of a hand.
type Showdown struct {
	PlayerID  int64    `json:"player_id"`
	HoleCards []string `json:"hole_cards,omitempty"`
	HandRank  string   `json:"hand_rank,omitempty"`
	Winnings  int64    `json:"winnings"`
	Timestamp string   `json:"timestamp"`
}

// Cards parses the revealed hole cards. Suit symbols are accepted.
func (s Showdown) Cards() ([]poker.Card, error) {
	return poker.ParseCards(strings.Join(s.HoleCards, " "))
}

// Hand is the complete record of one hand.
type Hand struct {
	ID             int64               `json:"hand_id"`
	Timestamp      string              `json:"timestamp"`
	SmallBlind     int64               `json:"small_blind"`
	BigBlind       int64               `json:"big_blind"`
	DealerButton   int                 `json:"dealer_button"`
	PlayerIDs      []int64             `json:"player_ids"`
	EndedAt        string              `json:"ended_at,omitempty"`
	Actions        []Action            `json:"actions"`
	CommunityCards map[string][]string `json:"community_cards"`
	Showdowns      []Showdown          `json:"showdown_results"`
}

// PlayerStats aggregates one player's recorded actions and showdowns.
type PlayerStats struct {
	PlayerID      int64          `json:"player_id"`
	HandsPlayed   int            `json:"hands_played"`
	ActionCounts  map[string]int `json:"action_counts"`
	Showdowns     int            `json:"showdowns"`
	ShowdownWins  int            `json:"showdown_wins"`
	TotalWinnings int64          `json:"total_winnings"`
}

// TotalActions is the number of recorded actions.
func (p PlayerStats) TotalActions() int {
	total := 0
	for _, n := range p.ActionCounts {
		total += n
	}
	return total
}

// Frequency is the share of the player's actions of the given type.
func (p PlayerStats) Frequency(actionType string) float64 {
	total := p.TotalActions()
	if total == 0 {
		return 0
	}
	return float64(p.ActionCounts[actionType]) / float64(total)
}

type handRow struct {
	ID           int64          `db:"hand_id"`
	Timestamp    string         `db:"timestamp"`
	SmallBlind   int64          `db:"small_blind"`
	BigBlind     int64          `db:"big_blind"`
	DealerButton int            `db:"dealer_button"`
	PlayerIDs    string         `db:"player_ids"`
	EndedAt      sql.NullString `db:"ended_at"`
}

type showdownRow struct {
	PlayerID  int64          `db:"player_id"`
	HoleCards sql.NullString `db:"hole_cards"`
	HandRank  sql.NullString `db:"hand_rank"`
	Winnings  int64          `db:"winnings"`
	Timestamp string         `db:"timestamp"`
}

type communityRow struct {
	Phase string `db:"phase"`
	Cards string `db:"cards"`
}

// Store is a read-only handle on one history database. It is safe for
// concurrent use.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens the database at path read-only.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "history database %s", path)
	}
	db, err := sqlx.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open history database %s", path)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "Unable to connect to history database %s", path)
	}
	return &Store{db: db, path: path}, nil
}

// FindLatest returns the most recently modified history database in dir.
func FindLatest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		return "", errors.Wrap(err, "Unable to list history databases")
	}
	var latest string
	var latestInfo os.FileInfo
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if latestInfo == nil || info.ModTime().After(latestInfo.ModTime()) {
			latest, latestInfo = m, info
		}
	}
	if latest == "" {
		return "", errors.Wrapf(ErrNoDatabase, "in %s", dir)
	}
	return latest, nil
}

// Path returns the database file the store reads.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hand returns the full record of one hand: actions in recording order,
// community cards keyed by phase and showdown results.
func (s *Store) Hand(ctx context.Context, handID int64) (*Hand, error) {
	var row handRow
	err := s.db.GetContext(ctx, &row, "SELECT hand_id, timestamp, small_blind, big_blind, dealer_button, player_ids, ended_at FROM hands WHERE hand_id = ?", handID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrHandNotFound, "hand %d", handID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to fetch hand %d", handID)
	}

	h := &Hand{
		ID:             row.ID,
		Timestamp:      row.Timestamp,
		SmallBlind:     row.SmallBlind,
		BigBlind:       row.BigBlind,
		DealerButton:   row.DealerButton,
		EndedAt:        row.EndedAt.String,
		CommunityCards: make(map[string][]string),
	}
	if err := json.Unmarshal([]byte(row.PlayerIDs), &h.PlayerIDs); err != nil {
		return nil, errors.Wrapf(err, "hand %d has malformed player_ids", handID)
	}

	if err := s.db.SelectContext(ctx, &h.Actions, "SELECT action_id, hand_id, phase, player_id, action_type, amount, pot_after, timestamp FROM actions WHERE hand_id = ? ORDER BY action_id", handID); err != nil {
		return nil, errors.Wrapf(err, "Unable to fetch actions of hand %d", handID)
	}

	var community []communityRow
	if err := s.db.SelectContext(ctx, &community, "SELECT phase, cards FROM community_cards WHERE hand_id = ?", handID); err != nil {
		return nil, errors.Wrapf(err, "Unable to fetch community cards of hand %d", handID)
	}
	for _, c := range community {
		var cards []string
		if err := json.Unmarshal([]byte(c.Cards), &cards); err != nil {
			return nil, errors.Wrapf(err, "hand %d has malformed %s cards", handID, c.Phase)
		}
		h.CommunityCards[c.Phase] = cards
	}

	var showdowns []showdownRow
	if err := s.db.SelectContext(ctx, &showdowns, "SELECT player_id, hole_cards, hand_rank, winnings, timestamp FROM showdown_results WHERE hand_id = ? ORDER BY player_id", handID); err != nil {
		return nil, errors.Wrapf(err, "Unable to fetch showdown results of hand %d", handID)
	}
	for _, r := range showdowns {
		sd := Showdown{PlayerID: r.PlayerID, HandRank: r.HandRank.String, Winnings: r.Winnings, Timestamp: r.Timestamp}
		if r.HoleCards.Valid && r.HoleCards.String != "" {
			if err := json.Unmarshal([]byte(r.HoleCards.String), &sd.HoleCards); err != nil {
				return nil, errors.Wrapf(err, "hand %d has malformed hole cards for player %d", handID, r.PlayerID)
			}
		}
		h.Showdowns = append(h.Showdowns, sd)
	}
	return h, nil
}

// RecentHands returns up to limit hands, newest first.
func (s *Store) RecentHands(ctx context.Context, limit int) ([]*Hand, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, "SELECT hand_id FROM hands ORDER BY hand_id DESC LIMIT ?", limit); err != nil {
		return nil, errors.Wrap(err, "Unable to list recent hands")
	}
	hands := make([]*Hand, 0, len(ids))
	for _, id := range ids {
		h, err := s.Hand(ctx, id)
		if err != nil {
			return nil, err
		}
		hands = append(hands, h)
	}
	return hands, nil
}

// PlayerStats aggregates a player's actions and showdowns.
func (s *Store) PlayerStats(ctx context.Context, playerID int64) (PlayerStats, error) {
	stats := PlayerStats{PlayerID: playerID, ActionCounts: make(map[string]int)}

	var counts []struct {
		Type  string `db:"action_type"`
		Count int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &counts, "SELECT action_type, COUNT(*) AS count FROM actions WHERE player_id = ? GROUP BY action_type", playerID); err != nil {
		return stats, errors.Wrapf(err, "Unable to count actions of player %d", playerID)
	}
	for _, c := range counts {
		stats.ActionCounts[c.Type] = c.Count
	}

	if err := s.db.GetContext(ctx, &stats.HandsPlayed, "SELECT COUNT(DISTINCT hand_id) FROM actions WHERE player_id = ?", playerID); err != nil {
		return stats, errors.Wrapf(err, "Unable to count hands of player %d", playerID)
	}

	var sd struct {
		Showdowns     int   `db:"showdowns"`
		Wins          int   `db:"wins"`
		TotalWinnings int64 `db:"total_winnings"`
	}
	err := s.db.GetContext(ctx, &sd, `
		SELECT COUNT(*) AS showdowns,
		       COALESCE(SUM(CASE WHEN winnings > 0 THEN 1 ELSE 0 END), 0) AS wins,
		       COALESCE(SUM(winnings), 0) AS total_winnings
		FROM showdown_results WHERE player_id = ?`, playerID)
	if err != nil {
		return stats, errors.Wrapf(err, "Unable to summarise showdowns of player %d", playerID)
	}
	stats.Showdowns, stats.ShowdownWins, stats.TotalWinnings = sd.Showdowns, sd.Wins, sd.TotalWinnings
	return stats, nil
}

// PlayerRecentActions returns up to limit of a player's actions, newest first.
func (s *Store) PlayerRecentActions(ctx context.Context, playerID int64, limit int) ([]Action, error) {
	var actions []Action
	err := s.db.SelectContext(ctx, &actions, "SELECT action_id, hand_id, phase, player_id, action_type, amount, pot_after, timestamp FROM actions WHERE player_id = ? ORDER BY action_id DESC LIMIT ?", playerID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to fetch recent actions of player %d", playerID)
	}
	return actions, nil
}

// OpponentStats returns PlayerStats for each id.
func (s *Store) OpponentStats(ctx context.Context, playerIDs []int64) (map[int64]PlayerStats, error) {
	out := make(map[int64]PlayerStats, len(playerIDs))
	for _, id := range playerIDs {
		stats, err := s.PlayerStats(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = stats
	}
	return out, nil
}

// LastHandID returns the highest hand id, and false when no hand exists.
func (s *Store) LastHandID(ctx context.Context) (int64, bool, error) {
	var id sql.NullInt64
	if err := s.db.GetContext(ctx, &id, "SELECT MAX(hand_id) FROM hands"); err != nil {
		return 0, false, errors.Wrap(err, "Unable to fetch last hand id")
	}
	return id.Int64, id.Valid, nil
}

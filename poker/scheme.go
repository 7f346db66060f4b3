package poker

import (
	"fmt"
	"strings"
)

// Scheme is a hand-ranking rule: how a 5-card grouping is valued and how two
// valued hands compare. A pot may be split between several schemes (high and
// low), each awarding an equal share.
type Scheme interface {
	// Name identifies the scheme in configuration and output.
	Name() string
	// Evaluate5 values five distinct cards. It returns false when the
	// grouping is not a valid hand under the scheme.
	Evaluate5(cards [5]Card) (Hand, bool)
	// Compare returns a positive number when a beats b, negative when b
	// beats a and zero for a tie.
	Compare(a, b Hand) int
}

// BestHand returns the best 5-card hand the scheme can form from the union
// of hole and board cards.
func BestHand(s Scheme, hole, board []Card) (Hand, error) {
	if _, err := DistinctSet(hole, board); err != nil {
		return Hand{}, err
	}
	n := len(hole) + len(board)
	if n < 5 {
		return Hand{}, &InsufficientCardsError{Have: n, Need: 5}
	}
	all := make([]Card, 0, n)
	all = append(all, hole...)
	all = append(all, board...)

	var (
		best  Hand
		found bool
		five  [5]Card
	)
	for a := 0; a < n-4; a++ {
		five[0] = all[a]
		for b := a + 1; b < n-3; b++ {
			five[1] = all[b]
			for c := b + 1; c < n-2; c++ {
				five[2] = all[c]
				for d := c + 1; d < n-1; d++ {
					five[3] = all[d]
					for e := d + 1; e < n; e++ {
						five[4] = all[e]
						h, ok := s.Evaluate5(five)
						if !ok {
							continue
						}
						if !found || s.Compare(h, best) > 0 {
							best, found = h, true
						}
					}
				}
			}
		}
	}
	if !found {
		return Hand{}, ErrNoQualifyingHand
	}
	return best, nil
}

// SchemeByName resolves the scheme names accepted in configuration:
// "high", "low" (ace-to-five) and "low8" (eight or better).
func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high", "":
		return StandardHigh{}, nil
	case "low", "a5", "ace-to-five":
		return AceToFiveLow{}, nil
	case "low8", "8-or-better", "eight-or-better":
		return EightOrBetterLow{}, nil
	}
	return nil, fmt.Errorf("poker: unknown scheme %q", name)
}

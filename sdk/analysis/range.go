// Package analysis provides poker hand analysis tools: hand ranges, range
// equity simulation, hand strength scoring and preflop classification.
package analysis

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/k3s4/adk-poker-42/poker"
)

// Range is a set of hole-card combinations, each a poker.CardSet. The usual
// combination holds two cards, but literal tokens may hold fewer and the
// simulator draws whatever is missing.
type Range struct {
	combos map[poker.CardSet]struct{}
}

// NewRange creates a range holding the given combinations.
func NewRange(combos ...poker.CardSet) *Range {
	r := &Range{
		combos: make(map[poker.CardSet]struct{}, len(combos)),
	}
	for _, c := range combos {
		r.Add(c)
	}
	return r
}

// AnyTwo returns all 1326 two-card combinations.
func AnyTwo() *Range {
	r := &Range{combos: make(map[poker.CardSet]struct{}, 1326)}
	for a := poker.Card(0); a < poker.NumCards; a++ {
		for b := a + 1; b < poker.NumCards; b++ {
			r.Add(poker.NewCardSet(a, b))
		}
	}
	return r
}

// Unknown returns the range of a completely unknown hand: one empty
// combination whose cards are all drawn from the deck during simulation.
func Unknown() *Range {
	return NewRange(0)
}

// RangeSyntaxError reports a token that could not be expanded.
type RangeSyntaxError struct {
	Token  string
	Reason string
	Err    error
}

func (e *RangeSyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis: invalid range token %q: %s: %v", e.Token, e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis: invalid range token %q: %s", e.Token, e.Reason)
}

func (e *RangeSyntaxError) Unwrap() error {
	return e.Err
}

// ParseRange expands range notation into a Range.
//
// Tokens are separated by whitespace, commas or semicolons and each one is:
//
//	XX, XY        a pocket pair (6 combos) or any two ranks (16 combos)
//	XYs, XYo      suited (4) or offsuit (12) combos; XXo is XX and XXs is empty
//	XX+, XYs+     pairs up to aces, or the lower rank walking up to one below the higher
//	XY-WZ         every pair of ranks between the endpoints with the same gap
//	AsKh          literal cards
//
// An empty notation yields an empty range.
func ParseRange(notation string) (*Range, error) {
	r := NewRange()

	parts := strings.FieldsFunc(notation, func(c rune) bool {
		switch c {
		case ' ', '\t', '\n', '\r', ',', ';':
			return true
		}
		return false
	})
	for _, part := range parts {
		if err := r.addRangePart(part); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustParseRange is like ParseRange but panics on error.
func MustParseRange(notation string) *Range {
	r, err := ParseRange(notation)
	if err != nil {
		panic(err)
	}
	return r
}

// addRangePart adds a single range notation part to the range.
func (r *Range) addRangePart(part string) error {
	tok := strings.ReplaceAll(part, "10", "T")
	if len(tok) >= 2 {
		rank1, ok1 := poker.ParseRank(tok[0])
		rank2, ok2 := poker.ParseRank(tok[1])
		if ok1 && ok2 {
			return r.addShorthand(part, rank1, rank2, tok[2:])
		}
	}
	return r.addLiteral(part)
}

func (r *Range) addShorthand(part string, rank1, rank2 poker.Rank, rest string) error {
	suffix := ""
	if rest != "" && (rest[0] == 's' || rest[0] == 'o') {
		suffix, rest = rest[:1], rest[1:]
	}
	switch {
	case rest == "":
		r.addHand(rank1, rank2, suffix)
		return nil
	case rest == "+":
		r.addPlusRange(rank1, rank2, suffix)
		return nil
	case rest[0] == '-':
		return r.addDashRange(part, rank1, rank2, suffix, rest[1:])
	}
	return &RangeSyntaxError{Token: part, Reason: fmt.Sprintf("unexpected %q after ranks", rest)}
}

// addLiteral adds fully specified cards as a single combination.
func (r *Range) addLiteral(part string) error {
	cards, err := poker.ParseCards(part)
	if err != nil {
		return &RangeSyntaxError{Token: part, Reason: "not range shorthand or cards", Err: err}
	}
	if len(cards) == 0 {
		return &RangeSyntaxError{Token: part, Reason: "no cards"}
	}
	set, err := poker.DistinctSet(cards)
	if err != nil {
		return &RangeSyntaxError{Token: part, Reason: "repeated card", Err: err}
	}
	r.Add(set)
	return nil
}

// addHand adds every combination of one shorthand class.
func (r *Range) addHand(rank1, rank2 poker.Rank, suffix string) {
	if rank1 == rank2 {
		if suffix != "s" {
			r.addPocketPair(rank1)
		}
		return
	}
	if suffix != "o" {
		r.addSuitedCombos(rank1, rank2)
	}
	if suffix != "s" {
		r.addOffsuitCombos(rank1, rank2)
	}
}

// addPlusRange handles notations like "TT+" (all pairs TT and higher) and
// "KTs+" (the lower card walks up to one below the higher).
func (r *Range) addPlusRange(rank1, rank2 poker.Rank, suffix string) {
	if rank1 == rank2 {
		for rank := rank1; rank <= poker.Ace; rank++ {
			r.addHand(rank, rank, suffix)
		}
		return
	}

	high, low := max(rank1, rank2), min(rank1, rank2)
	for rank := low; rank < high; rank++ {
		r.addHand(high, rank, suffix)
	}
}

// addDashRange handles notations like "22-66", "KQs-65s" or "J9o-86o". Both
// endpoints must have the same gap between their ranks. A suffix may be given
// on either or both ends and applies to the whole interval; pair intervals
// ignore it.
func (r *Range) addDashRange(part string, startHigh, startLow poker.Rank, suffix, end string) error {
	if len(end) < 2 {
		return &RangeSyntaxError{Token: part, Reason: "interval end needs two ranks"}
	}
	endHigh, ok1 := poker.ParseRank(end[0])
	endLow, ok2 := poker.ParseRank(end[1])
	if !ok1 || !ok2 {
		return &RangeSyntaxError{Token: part, Reason: "interval end needs two ranks"}
	}
	switch endSuffix := end[2:]; {
	case endSuffix == "":
	case endSuffix != "s" && endSuffix != "o":
		return &RangeSyntaxError{Token: part, Reason: fmt.Sprintf("unexpected %q after interval end", endSuffix)}
	case suffix != "" && suffix != endSuffix:
		return &RangeSyntaxError{Token: part, Reason: "interval ends disagree on suitedness"}
	default:
		suffix = endSuffix
	}

	if startHigh < startLow {
		startHigh, startLow = startLow, startHigh
	}
	if endHigh < endLow {
		endHigh, endLow = endLow, endHigh
	}
	gap := startHigh - startLow
	if endHigh-endLow != gap {
		return &RangeSyntaxError{Token: part, Reason: "interval ends must have the same rank gap"}
	}

	if gap == 0 {
		suffix = ""
	}
	for low := min(startLow, endLow); low <= max(startLow, endLow); low++ {
		r.addHand(low+gap, low, suffix)
	}
	return nil
}

// addPocketPair adds all 6 combinations of a pocket pair.
func (r *Range) addPocketPair(rank poker.Rank) {
	for suit1 := poker.Clubs; suit1 <= poker.Spades; suit1++ {
		for suit2 := suit1 + 1; suit2 <= poker.Spades; suit2++ {
			r.Add(poker.NewCardSet(poker.NewCard(rank, suit1), poker.NewCard(rank, suit2)))
		}
	}
}

// addSuitedCombos adds all 4 suited combinations.
func (r *Range) addSuitedCombos(rank1, rank2 poker.Rank) {
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		r.Add(poker.NewCardSet(poker.NewCard(rank1, suit), poker.NewCard(rank2, suit)))
	}
}

// addOffsuitCombos adds all 12 offsuit combinations.
func (r *Range) addOffsuitCombos(rank1, rank2 poker.Rank) {
	for suit1 := poker.Clubs; suit1 <= poker.Spades; suit1++ {
		for suit2 := poker.Clubs; suit2 <= poker.Spades; suit2++ {
			if suit1 != suit2 {
				r.Add(poker.NewCardSet(poker.NewCard(rank1, suit1), poker.NewCard(rank2, suit2)))
			}
		}
	}
}

// Add inserts a combination.
func (r *Range) Add(combo poker.CardSet) {
	r.combos[combo] = struct{}{}
}

// Contains reports whether the exact combination is in the range.
func (r *Range) Contains(combo poker.CardSet) bool {
	_, ok := r.combos[combo]
	return ok
}

// ContainsCards checks if hole cards are in the range.
func (r *Range) ContainsCards(c1, c2 poker.Card) bool {
	return r.Contains(poker.NewCardSet(c1, c2))
}

// Size returns the number of combinations in the range.
func (r *Range) Size() int {
	return len(r.combos)
}

// Combos returns the combinations sorted by numeric value.
func (r *Range) Combos() []poker.CardSet {
	combos := make([]poker.CardSet, 0, len(r.combos))
	for c := range r.combos {
		combos = append(combos, c)
	}
	slices.Sort(combos)
	return combos
}

// IsSubsetOf reports whether every combination of r is also in o.
func (r *Range) IsSubsetOf(o *Range) bool {
	for c := range r.combos {
		if !o.Contains(c) {
			return false
		}
	}
	return true
}

// Equal reports whether both ranges hold the same combinations.
func (r *Range) Equal(o *Range) bool {
	return r.Size() == o.Size() && r.IsSubsetOf(o)
}

// Without returns a copy of the range without combinations that use any
// dead card.
func (r *Range) Without(dead poker.CardSet) *Range {
	out := NewRange()
	for c := range r.combos {
		if !c.Overlaps(dead) {
			out.Add(c)
		}
	}
	return out
}

// String renders the range as literal combinations in sorted order. The
// result parses back to an equal range.
func (r *Range) String() string {
	combos := r.Combos()
	parts := make([]string, len(combos))
	for i, c := range combos {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// IsSyntaxError reports whether err is a range notation error.
func IsSyntaxError(err error) bool {
	var syn *RangeSyntaxError
	return errors.As(err, &syn)
}

package poker

import (
	"errors"
	"fmt"
)

// ErrNoQualifyingHand is returned by BestHand when no 5-card grouping is a
// valid hand under the scheme, e.g. no eight-or-better low exists.
var ErrNoQualifyingHand = errors.New("poker: no qualifying hand")

// ParseError describes malformed card notation.
type ParseError struct {
	Input  string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("poker: cannot parse %q at offset %d: %s", e.Input, e.Pos, e.Reason)
}

// DuplicateCardError reports a card that appears more than once where
// cards must be distinct.
type DuplicateCardError struct {
	Card Card
}

func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("poker: duplicate card %s", e.Card)
}

// InsufficientCardsError reports too few cards to form a hand.
type InsufficientCardsError struct {
	Have int
	Need int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("poker: need at least %d cards, have %d", e.Need, e.Have)
}

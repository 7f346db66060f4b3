package poker

import (
	"strings"
)

// Rank is a card rank, Two (0) through Ace (12).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks.
const NumRanks = 13

const rankChars = "23456789TJQKA"

func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return rankChars[r : r+1]
}

// Name returns the plural English name used in hand descriptions ("Aces", "Sixes").
func (r Rank) Name() string {
	if r > Ace {
		return "?"
	}
	return rankNames[r]
}

var rankNames = [NumRanks]string{
	"Twos", "Threes", "Fours", "Fives", "Sixes", "Sevens", "Eights",
	"Nines", "Tens", "Jacks", "Queens", "Kings", "Aces",
}

// ParseRank converts a rank character. Letters are accepted in either case.
func ParseRank(b byte) (Rank, bool) {
	switch b {
	case 't':
		b = 'T'
	case 'j':
		b = 'J'
	case 'q':
		b = 'Q'
	case 'k':
		b = 'K'
	case 'a':
		b = 'A'
	}
	idx := strings.IndexByte(rankChars, b)
	if idx < 0 {
		return 0, false
	}
	return Rank(idx), true
}

// Suit is one of the four card suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of suits.
const NumSuits = 4

const suitChars = "cdhs"

func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return suitChars[s : s+1]
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	}
	return "?"
}

// ParseSuit converts a suit letter in either case.
func ParseSuit(b byte) (Suit, bool) {
	idx := strings.IndexByte(suitChars, b|0x20)
	if idx < 0 {
		return 0, false
	}
	return Suit(idx), true
}

// Card packs a rank and suit as rank*4+suit, so the natural ordering of
// Card values is the StandardDeck order.
type Card uint8

// NumCards is the size of the standard deck.
const NumCards = NumRanks * NumSuits

// NewCard creates a card from rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(rank)<<2 | uint8(suit))
}

// Rank returns the card rank.
func (c Card) Rank() Rank {
	return Rank(c >> 2)
}

// Suit returns the card suit.
func (c Card) Suit() Suit {
	return Suit(c & 3)
}

// Valid reports whether the card lies within the standard deck.
func (c Card) Valid() bool {
	return c < NumCards
}

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// Pretty renders the card with its suit symbol, for example "A♠".
func (c Card) Pretty() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().Symbol()
}

var symbolReplacer = strings.NewReplacer(
	"♠", "s", "♤", "s",
	"♥", "h", "♡", "h",
	"♦", "d", "♢", "d",
	"♣", "c", "♧", "c",
)

// normalizeCards maps suit symbols and the two-character "10" to the
// single-letter notation.
func normalizeCards(s string) string {
	s = symbolReplacer.Replace(s)
	return strings.ReplaceAll(s, "10", "T")
}

// ParseCard parses a single card such as "As", "10♥" or "td".
func ParseCard(s string) (Card, error) {
	norm := normalizeCards(strings.TrimSpace(s))
	if len(norm) != 2 {
		return 0, &ParseError{Input: s, Pos: 0, Reason: "a card is one rank followed by one suit"}
	}
	return parseCardAt(s, norm, 0)
}

func parseCardAt(input, norm string, pos int) (Card, error) {
	rank, ok := ParseRank(norm[pos])
	if !ok {
		return 0, &ParseError{Input: input, Pos: pos, Reason: "unknown rank " + quoteByte(norm[pos])}
	}
	suit, ok := ParseSuit(norm[pos+1])
	if !ok {
		return 0, &ParseError{Input: input, Pos: pos + 1, Reason: "unknown suit " + quoteByte(norm[pos+1])}
	}
	return NewCard(rank, suit), nil
}

func quoteByte(b byte) string {
	return "'" + string(rune(b)) + "'"
}

// ParseCards parses a run of cards. Whitespace and commas between cards are
// ignored, so "AsKd", "As Kd" and "A♠,K♦" are equivalent. Duplicates are not
// rejected here; see DistinctSet.
func ParseCards(s string) ([]Card, error) {
	norm := normalizeCards(s)
	norm = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ',':
			return -1
		}
		return r
	}, norm)
	if len(norm)%2 != 0 {
		return nil, &ParseError{Input: s, Pos: len(norm) - 1, Reason: "dangling character"}
	}
	cards := make([]Card, 0, len(norm)/2)
	for i := 0; i < len(norm); i += 2 {
		c, err := parseCardAt(s, norm, i)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and package-level tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards back to back, e.g. "AsKd".
func FormatCards(cards []Card) string {
	var b strings.Builder
	b.Grow(len(cards) * 2)
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}

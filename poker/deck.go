package poker

import (
	"math/rand/v2"
)

// StandardDeck returns the 52 cards ordered rank-major (deuces first) and
// clubs, diamonds, hearts, spades within a rank.
func StandardDeck() []Card {
	cards := make([]Card, NumCards)
	for i := range cards {
		cards[i] = Card(i)
	}
	return cards
}

// Deck draws cards without replacement from a fixed pool.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand // Random source for deterministic draws
}

// NewDeck creates a deck over cards. The deck takes ownership of the slice
// and reorders it as cards are drawn.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	return &Deck{cards: cards, rng: rng}
}

// Draw removes n uniformly chosen cards from the deck using a partial
// Fisher-Yates shuffle. It returns false, drawing nothing, when fewer than n
// cards remain. The returned slice aliases the deck's storage.
func (d *Deck) Draw(n int) ([]Card, bool) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, false
	}
	for i := d.next; i < d.next+n; i++ {
		var j int
		if d.rng != nil {
			j = i + d.rng.IntN(len(d.cards)-i)
		} else {
			j = i + rand.IntN(len(d.cards)-i)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	drawn := d.cards[d.next : d.next+n]
	d.next += n
	return drawn, true
}

// Reset returns every drawn card to the deck.
func (d *Deck) Reset() {
	d.next = 0
}

// CardsRemaining returns the number of cards left in the deck.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

package poker

// HoleNotation returns the shorthand class of two hole cards: "QQ" for a
// pocket pair, otherwise the higher rank first with an "s" (suited) or "o"
// (offsuit) suffix, e.g. "AKs" or "T9o".
func HoleNotation(card1, card2 Card) string {
	r1, r2 := card1.Rank(), card2.Rank()
	if r1 < r2 {
		r1, r2 = r2, r1
	}
	if r1 == r2 {
		return r1.String() + r2.String()
	}
	if card1.Suit() == card2.Suit() {
		return r1.String() + r2.String() + "s"
	}
	return r1.String() + r2.String() + "o"
}

// HoleNotationFromStrings is a convenience wrapper accepting card strings.
// It returns an empty string unless exactly two valid, distinct cards are given.
func HoleNotationFromStrings(cards []string) string {
	if len(cards) != 2 {
		return ""
	}
	c1, err := ParseCard(cards[0])
	if err != nil {
		return ""
	}
	c2, err := ParseCard(cards[1])
	if err != nil || c1 == c2 {
		return ""
	}
	return HoleNotation(c1, c2)
}

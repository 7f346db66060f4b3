package analysis

import (
	"errors"
	"math/bits"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/k3s4/adk-poker-42/poker"
)

// assigner picks one combination per entrant, uniformly among the joint
// assignments whose cards are pairwise disjoint and avoid the board.
type assigner interface {
	assign(rng *rand.Rand, dst []poker.CardSet) error
	// count returns the number of legal joint assignments, or -1 if unknown.
	count() int
}

func newAssigner(ranges [][]poker.CardSet, board poker.CardSet) (assigner, error) {
	product := 1
	for _, r := range ranges {
		product *= len(r)
		if product > EnumerationLimit {
			return newRejectionAssigner(ranges, board)
		}
	}
	return newEnumeratedAssigner(ranges, board)
}

// enumeratedAssigner holds every legal joint assignment, flattened with one
// combination per entrant.
type enumeratedAssigner struct {
	entrants int
	legal    []poker.CardSet
}

func newEnumeratedAssigner(ranges [][]poker.CardSet, board poker.CardSet) (*enumeratedAssigner, error) {
	a := &enumeratedAssigner{entrants: len(ranges)}
	current := make([]poker.CardSet, len(ranges))

	var walk func(e int, used poker.CardSet)
	walk = func(e int, used poker.CardSet) {
		if e == len(ranges) {
			a.legal = append(a.legal, current...)
			return
		}
		for _, combo := range ranges[e] {
			if combo.Overlaps(used) {
				continue
			}
			current[e] = combo
			walk(e+1, used|combo)
		}
	}
	walk(0, board)

	if len(a.legal) == 0 {
		return nil, &ImpossibleRangeError{Entrant: -1, Reason: "no card-disjoint combination of the ranges exists"}
	}
	return a, nil
}

func (a *enumeratedAssigner) assign(rng *rand.Rand, dst []poker.CardSet) error {
	k := rng.IntN(a.count())
	copy(dst, a.legal[k*a.entrants:(k+1)*a.entrants])
	return nil
}

func (a *enumeratedAssigner) count() int {
	return len(a.legal) / a.entrants
}

// rejectionAssigner draws each entrant's combination independently and
// retries on collision. Accepted draws are uniform over legal assignments.
// When legal assignments are too rare for rejection to find one, sampling
// falls back to a countingAssigner.
type rejectionAssigner struct {
	ranges [][]poker.CardSet
	board  poker.CardSet

	// exact is chosen up front when a trial run finds no legal assignment.
	exact *countingAssigner

	fallbackOnce sync.Once
	fallback     *countingAssigner
}

func newRejectionAssigner(ranges [][]poker.CardSet, board poker.CardSet) (*rejectionAssigner, error) {
	if !feasible(ranges, board) {
		return nil, &ImpossibleRangeError{Entrant: -1, Reason: "no card-disjoint combination of the ranges exists"}
	}
	a := &rejectionAssigner{ranges: ranges, board: board}
	trial := rand.New(rand.NewPCG(uint64(len(ranges)), uint64(board)))
	if !a.tryDraw(trial, make([]poker.CardSet, len(ranges))) {
		a.exact, _ = newCountingAssigner(ranges, board)
	}
	return a, nil
}

func (a *rejectionAssigner) assign(rng *rand.Rand, dst []poker.CardSet) error {
	if a.exact != nil {
		return a.exact.assign(rng, dst)
	}
	if a.tryDraw(rng, dst) {
		return nil
	}
	a.fallbackOnce.Do(func() {
		a.fallback, _ = newCountingAssigner(a.ranges, a.board)
	})
	if a.fallback == nil {
		return ErrSamplingExhausted
	}
	return a.fallback.assign(rng, dst)
}

// tryDraw spends up to maxRejections attempts on one legal assignment.
func (a *rejectionAssigner) tryDraw(rng *rand.Rand, dst []poker.CardSet) bool {
	for attempt := 0; attempt < maxRejections; attempt++ {
		used := a.board
		ok := true
		for e, combos := range a.ranges {
			combo := combos[rng.IntN(len(combos))]
			if combo.Overlaps(used) {
				ok = false
				break
			}
			dst[e] = combo
			used |= combo
		}
		if ok {
			return true
		}
	}
	return false
}

func (a *rejectionAssigner) count() int {
	return -1
}

type countKey struct {
	entrant int
	used    poker.CardSet
}

// countingAssigner counts the legal completions of every reachable partial
// assignment, then samples exactly uniformly by choosing each entrant's
// combination with probability proportional to its completions. The table
// is read-only once built.
type countingAssigner struct {
	ranges [][]poker.CardSet
	board  poker.CardSet
	counts map[countKey]uint64
}

var errTooManyStates = errors.New("analysis: too many partial assignments to count")

func newCountingAssigner(ranges [][]poker.CardSet, board poker.CardSet) (*countingAssigner, error) {
	a := &countingAssigner{ranges: ranges, board: board, counts: make(map[countKey]uint64)}

	var failed bool
	var walk func(e int, used poker.CardSet) uint64
	walk = func(e int, used poker.CardSet) uint64 {
		if e == len(ranges) {
			return 1
		}
		key := countKey{e, used}
		if n, ok := a.counts[key]; ok {
			return n
		}
		var total uint64
		for _, combo := range ranges[e] {
			if failed {
				return 0
			}
			if combo.Overlaps(used) {
				continue
			}
			var carry uint64
			total, carry = bits.Add64(total, walk(e+1, used|combo), 0)
			if carry != 0 {
				failed = true
			}
		}
		a.counts[key] = total
		if len(a.counts) > EnumerationLimit {
			failed = true
		}
		return total
	}

	total := walk(0, board)
	if failed {
		return nil, errTooManyStates
	}
	if total == 0 {
		return nil, &ImpossibleRangeError{Entrant: -1, Reason: "no card-disjoint combination of the ranges exists"}
	}
	return a, nil
}

func (a *countingAssigner) completions(e int, used poker.CardSet) uint64 {
	if e == len(a.ranges) {
		return 1
	}
	return a.counts[countKey{e, used}]
}

func (a *countingAssigner) assign(rng *rand.Rand, dst []poker.CardSet) error {
	used := a.board
	for e, combos := range a.ranges {
		pick := rng.Uint64N(a.completions(e, used))
		for _, combo := range combos {
			if combo.Overlaps(used) {
				continue
			}
			n := a.completions(e+1, used|combo)
			if pick < n {
				dst[e] = combo
				used |= combo
				break
			}
			pick -= n
		}
	}
	return nil
}

// feasible reports whether at least one legal joint assignment exists,
// searching the most constrained entrants first.
func feasible(ranges [][]poker.CardSet, board poker.CardSet) bool {
	order := make([]int, len(ranges))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return len(ranges[a]) - len(ranges[b])
	})

	var search func(k int, used poker.CardSet) bool
	search = func(k int, used poker.CardSet) bool {
		if k == len(order) {
			return true
		}
		for _, combo := range ranges[order[k]] {
			if !combo.Overlaps(used) && search(k+1, used|combo) {
				return true
			}
		}
		return false
	}
	return search(0, board)
}

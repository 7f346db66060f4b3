package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/k3s4/adk-poker-42/internal/randutil"
	"github.com/k3s4/adk-poker-42/internal/statistics"
	"github.com/k3s4/adk-poker-42/poker"
)

const (
	// DefaultSamples is the sample count used when a request leaves it unset.
	DefaultSamples = 1000

	// EnumerationLimit bounds the product of range sizes for which every
	// legal joint assignment is enumerated up front. Larger products are
	// sampled by rejection.
	EnumerationLimit = 1 << 18

	// maxRejections bounds the draws spent finding one legal joint
	// assignment in rejection mode.
	maxRejections = 10000
)

var (
	// ErrDeckExhausted means the deck cannot supply the cards a sample needs.
	ErrDeckExhausted = errors.New("analysis: deck exhausted while completing a sample")

	// ErrSamplingExhausted means rejection sampling failed to find a legal
	// joint assignment within its budget and the ranges were too wide to
	// count the legal assignments instead.
	ErrSamplingExhausted = errors.New("analysis: no legal joint assignment found within the rejection budget")
)

// ImpossibleRangeError reports ranges that admit no legal deal. Entrant is
// the offending entrant, or -1 when no card-disjoint combination of all
// ranges exists.
type ImpossibleRangeError struct {
	Entrant int
	Reason  string
}

func (e *ImpossibleRangeError) Error() string {
	if e.Entrant < 0 {
		return "analysis: impossible ranges: " + e.Reason
	}
	return fmt.Sprintf("analysis: impossible range for entrant %d: %s", e.Entrant, e.Reason)
}

// Request describes one equity calculation.
type Request struct {
	// Ranges holds one range per entrant.
	Ranges []*Range
	// Board holds the community cards already dealt.
	Board []poker.Card
	// HoleCount is the number of hole cards per entrant (default 2).
	HoleCount int
	// BoardCount is the final number of community cards (default 5).
	BoardCount int
	// Deck is the sampling pool (default poker.StandardDeck).
	Deck []poker.Card
	// Schemes splits each pot between ranking schemes (default StandardHigh).
	Schemes []poker.Scheme
	// Samples is the number of simulated deals (default DefaultSamples).
	Samples int
}

// Result holds per-entrant equities in the order of Request.Ranges.
type Result struct {
	Equities []float64
	// StdErrors holds the standard error of each equity estimate.
	StdErrors []float64
	Samples   int
	// Assignments is the number of legal joint assignments when they were
	// enumerated, or -1 when they were sampled by rejection.
	Assignments int
	Elapsed     time.Duration
}

// Observer is notified once per calculation.
type Observer interface {
	ObserveCalculation(res Result, err error)
}

// Option configures CalculateEquities.
type Option func(*calculator)

// WithExecutor sets how samples are scheduled. The default is Sequential.
func WithExecutor(e Executor) Option {
	return func(c *calculator) { c.executor = e }
}

// WithSeed makes the calculation reproducible. Results for a given seed do
// not depend on the executor.
func WithSeed(seed int64) Option {
	return func(c *calculator) {
		c.seed = seed
		c.seeded = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *calculator) { c.logger = logger }
}

// WithClock sets the clock used to measure Result.Elapsed.
func WithClock(clock quartz.Clock) Option {
	return func(c *calculator) { c.clock = clock }
}

// WithObserver registers an observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(c *calculator) { c.observer = o }
}

type calculator struct {
	executor Executor
	seed     int64
	seeded   bool
	logger   zerolog.Logger
	clock    quartz.Clock
	observer Observer
}

// CalculateEquities estimates each entrant's share of the pot by Monte Carlo
// simulation.
//
// Every sample draws a joint assignment of one combination per entrant,
// uniformly among assignments whose cards are pairwise disjoint and avoid
// the board. Missing hole and board cards are then drawn from what is left
// of the deck, entrants first in order and the board last. For each scheme
// the best hands win an equal part of 1/len(Schemes); when nobody qualifies
// under a scheme that part is split between all entrants.
//
// Conflicting inputs are reported before any sampling: duplicate known
// cards as *poker.DuplicateCardError and unsatisfiable ranges as
// *ImpossibleRangeError.
func CalculateEquities(ctx context.Context, req Request, opts ...Option) (Result, error) {
	c := calculator{
		executor: Sequential,
		logger:   zerolog.Nop(),
		clock:    quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.seeded {
		c.seed = randutil.Seed()
	}

	start := c.clock.Now()
	res, err := c.calculate(ctx, req)
	res.Elapsed = c.clock.Since(start)

	if err != nil {
		c.logger.Debug().Err(err).Int("entrants", len(req.Ranges)).Msg("Equity calculation failed")
	} else {
		c.logger.Debug().
			Int("entrants", len(res.Equities)).
			Int("samples", res.Samples).
			Int("assignments", res.Assignments).
			Int64("seed", c.seed).
			Dur("elapsed", res.Elapsed).
			Floats64("equities", res.Equities).
			Msg("Equity calculation finished")
	}
	if c.observer != nil {
		c.observer.ObserveCalculation(res, err)
	}
	return res, err
}

func (c *calculator) calculate(ctx context.Context, req Request) (Result, error) {
	sim, err := newSimulation(req, c.seed)
	if err != nil {
		return Result{}, err
	}

	if err := c.executor.Run(ctx, sim.samples, sim.runSample); err != nil {
		return Result{}, err
	}

	n := len(sim.ranges)
	summaries := make([]statistics.Summary, n)
	for i := 0; i < sim.samples; i++ {
		for e, credit := range sim.credits[i*n : (i+1)*n] {
			summaries[e].Add(credit)
		}
	}
	res := Result{
		Equities:    make([]float64, n),
		StdErrors:   make([]float64, n),
		Samples:     sim.samples,
		Assignments: sim.assigner.count(),
	}
	for e, s := range summaries {
		res.Equities[e] = s.Mean()
		res.StdErrors[e] = s.StdError()
	}
	return res, nil
}

// simulation is the validated, read-only state shared by all samples.
// Samples only write their own slot of credits.
type simulation struct {
	ranges     [][]poker.CardSet
	board      []poker.Card
	boardSet   poker.CardSet
	deck       []poker.Card
	holeCount  int
	boardCount int
	schemes    []poker.Scheme
	samples    int
	seed       int64
	assigner   assigner
	credits    []float64
}

func newSimulation(req Request, seed int64) (*simulation, error) {
	s := &simulation{
		board:      req.Board,
		deck:       req.Deck,
		holeCount:  req.HoleCount,
		boardCount: req.BoardCount,
		schemes:    req.Schemes,
		samples:    req.Samples,
		seed:       seed,
	}
	if s.holeCount == 0 {
		s.holeCount = 2
	}
	if s.boardCount == 0 {
		s.boardCount = 5
	}
	if s.deck == nil {
		s.deck = poker.StandardDeck()
	}
	if len(s.schemes) == 0 {
		s.schemes = []poker.Scheme{poker.StandardHigh{}}
	}
	if s.samples == 0 {
		s.samples = DefaultSamples
	}

	switch {
	case len(req.Ranges) == 0:
		return nil, errors.New("analysis: at least one range is required")
	case s.samples < 0:
		return nil, fmt.Errorf("analysis: sample count must be positive, got %d", s.samples)
	case s.holeCount < 0 || s.boardCount < 0:
		return nil, errors.New("analysis: card counts must not be negative")
	case s.holeCount+s.boardCount < 5:
		return nil, fmt.Errorf("analysis: %d hole and %d board cards cannot form a 5-card hand", s.holeCount, s.boardCount)
	case len(s.board) > s.boardCount:
		return nil, fmt.Errorf("analysis: board has %d cards, more than the %d dealt", len(s.board), s.boardCount)
	}

	var err error
	if s.boardSet, err = poker.DistinctSet(s.board); err != nil {
		return nil, err
	}
	deckSet, err := poker.DistinctSet(s.deck)
	if err != nil {
		return nil, err
	}
	for _, c := range s.board {
		if !deckSet.Contains(c) {
			return nil, fmt.Errorf("analysis: board card %s is not in the deck", c)
		}
	}

	s.ranges = make([][]poker.CardSet, len(req.Ranges))
	for e, r := range req.Ranges {
		if r == nil || r.Size() == 0 {
			return nil, &ImpossibleRangeError{Entrant: e, Reason: "empty range"}
		}
		var combos []poker.CardSet
		for _, combo := range r.Combos() {
			if combo.Count() > s.holeCount || combo.Overlaps(s.boardSet) || combo&^deckSet != 0 {
				continue
			}
			combos = append(combos, combo)
		}
		if len(combos) == 0 {
			return nil, &ImpossibleRangeError{Entrant: e, Reason: "every combination collides with the board or does not fit the hand"}
		}
		s.ranges[e] = combos
	}

	if s.assigner, err = newAssigner(s.ranges, s.boardSet); err != nil {
		return nil, err
	}
	s.credits = make([]float64, s.samples*len(s.ranges))
	return s, nil
}

// runSample deals and scores one sample, writing the credits of sample i.
func (s *simulation) runSample(i int) error {
	rng := randutil.Derive(s.seed, uint64(i))
	n := len(s.ranges)

	holes := make([]poker.CardSet, n)
	if err := s.assigner.assign(rng, holes); err != nil {
		return err
	}

	used := s.boardSet
	need := s.boardCount - len(s.board)
	for _, h := range holes {
		used |= h
		need += s.holeCount - h.Count()
	}

	residual := make([]poker.Card, 0, len(s.deck))
	for _, c := range s.deck {
		if !used.Contains(c) {
			residual = append(residual, c)
		}
	}
	drawn, ok := poker.NewDeck(residual, rng).Draw(need)
	if !ok {
		return fmt.Errorf("sample %d needs %d cards, %d remain: %w", i, need, len(residual), ErrDeckExhausted)
	}

	hands := make([][]poker.Card, n)
	for e, h := range holes {
		missing := s.holeCount - h.Count()
		hands[e] = append(h.AppendCards(make([]poker.Card, 0, s.holeCount)), drawn[:missing]...)
		drawn = drawn[missing:]
	}
	board := append(append(make([]poker.Card, 0, s.boardCount), s.board...), drawn...)

	return scoreSample(s.schemes, hands, board, s.credits[i*n:(i+1)*n])
}

// scoreSample adds each entrant's share of one deal to credits.
func scoreSample(schemes []poker.Scheme, hands [][]poker.Card, board []poker.Card, credits []float64) error {
	best := make([]poker.Hand, len(hands))
	valid := make([]bool, len(hands))
	share := 1 / float64(len(schemes))

	for _, scheme := range schemes {
		var top poker.Hand
		found := false
		for e, hole := range hands {
			h, err := poker.BestHand(scheme, hole, board)
			switch {
			case errors.Is(err, poker.ErrNoQualifyingHand):
				valid[e] = false
				continue
			case err != nil:
				return err
			}
			best[e], valid[e] = h, true
			if !found || scheme.Compare(h, top) > 0 {
				top, found = h, true
			}
		}

		winners := 0
		for e := range hands {
			if !found || (valid[e] && scheme.Compare(best[e], top) == 0) {
				winners++
			}
		}
		for e := range hands {
			if !found || (valid[e] && scheme.Compare(best[e], top) == 0) {
				credits[e] += share / float64(winners)
			}
		}
	}
	return nil
}

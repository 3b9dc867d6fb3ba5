package practice

import (
	"context"
	"math/rand"
	"strings"

	"github.com/satchel-tui/satchel/internal/api"
)

// Step is the quiz flow position.
type Step int

const (
	StepIntro Step = iota
	StepGame
	StepResults
)

// ReportState tracks the one-shot score submission.
type ReportState int

const (
	// ReportIdle: results not reached, or preconditions still unresolved.
	ReportIdle ReportState = iota
	// ReportPending: a submission is in flight.
	ReportPending
	// ReportDone: the score reached the backend for this run.
	ReportDone
	// ReportSkipped: the deck is not in the user's collection; scores are
	// only durable for decks the user opted into, so nothing is sent and
	// no error is shown.
	ReportSkipped
	// ReportFailed: submission was attempted and failed; the error is kept
	// for display.
	ReportFailed
)

// Result records one answered card.
type Result struct {
	CardID   int
	Position int // 1-based position within the run
	Prompt   string
	Expected string
	Given    string
	Correct  bool
}

// Reporter is the slice of the API client that persists scores.
type Reporter interface {
	SubmitTest(ctx context.Context, deckID, total, score int) (*api.TestResult, error)
}

// Membership is the slice of the collection store gating score durability.
type Membership interface {
	Loaded() bool
	Err() error
	Has(deckID int) bool
}

// Session is one practice run over a deck.
type Session struct {
	deck    api.Deck
	order   []int
	current int
	results []Result

	step      Step
	report    ReportState
	reportErr error
}

// New creates a session in the intro step.
func New(deck api.Deck) *Session {
	return &Session{deck: deck}
}

// Deck returns the deck under practice.
func (s *Session) Deck() api.Deck { return s.deck }

// Step returns the current flow position.
func (s *Session) Step() Step { return s.step }

// Total returns the deck's card count.
func (s *Session) Total() int { return len(s.deck.Cards) }

// Results returns the answered records so far.
func (s *Session) Results() []Result { return s.results }

// Correct counts the correct answers so far.
func (s *Session) Correct() int {
	n := 0
	for _, r := range s.results {
		if r.Correct {
			n++
		}
	}
	return n
}

// Position returns the 1-based index of the card being asked.
func (s *Session) Position() int { return s.current + 1 }

// Start moves intro → game with a fresh shuffle and empty accumulators. It
// is a no-op for an empty deck.
func (s *Session) Start() {
	if len(s.deck.Cards) == 0 {
		return
	}
	s.order = rand.Perm(len(s.deck.Cards))
	s.current = 0
	s.results = s.results[:0]
	s.step = StepGame
	s.report = ReportIdle
	s.reportErr = nil
}

// Abandon moves game → intro, discarding progress.
func (s *Session) Abandon() {
	if s.step != StepGame {
		return
	}
	s.step = StepIntro
}

// Restart moves results → intro and clears the pending report state so the
// next completed run may submit again.
func (s *Session) Restart() {
	if s.step != StepResults {
		return
	}
	s.step = StepIntro
	s.report = ReportIdle
	s.reportErr = nil
}

// Current returns the card being asked.
func (s *Session) Current() (api.Card, bool) {
	if s.step != StepGame || s.current >= len(s.order) {
		return api.Card{}, false
	}
	return s.deck.Cards[s.order[s.current]], true
}

// Submit records one answer. Submissions that are empty after normalization
// are rejected and the flow does not advance. The last card's submission
// moves the session to results.
func (s *Session) Submit(answer string) bool {
	card, ok := s.Current()
	if !ok {
		return false
	}
	if Normalize(answer) == "" {
		return false
	}

	s.results = append(s.results, Result{
		CardID:   card.ID,
		Position: s.current + 1,
		Prompt:   card.Front,
		Expected: card.Back,
		Given:    answer,
		Correct:  Normalize(answer) == Normalize(card.Back),
	})

	if s.current+1 >= len(s.order) {
		s.step = StepResults
		return true
	}
	s.current++
	return true
}

// ReportState returns the submission state, and the error when it failed.
func (s *Session) ReportState() (ReportState, error) {
	return s.report, s.reportErr
}

// BeginReport evaluates the one-shot submission guards. The score is only
// submitted when the whole deck was answered, the collection finished loading
// without error, and the deck is in the collection; a deck outside the
// collection resolves to ReportSkipped with no error, and while the
// collection is still loading the state stays ReportIdle so the caller may
// retry. When every guard passes the session moves to ReportPending and the
// score to submit is returned with submit true.
func (s *Session) BeginReport(membership Membership) (deckID, total, score int, submit bool) {
	if s.step != StepResults || s.report != ReportIdle {
		return 0, 0, 0, false
	}
	if len(s.results) != len(s.deck.Cards) {
		return 0, 0, 0, false
	}
	if !membership.Loaded() {
		if err := membership.Err(); err != nil {
			s.report = ReportFailed
			s.reportErr = err
		}
		return 0, 0, 0, false
	}
	if !membership.Has(s.deck.ID) {
		s.report = ReportSkipped
		return 0, 0, 0, false
	}

	s.report = ReportPending
	return s.deck.ID, s.Total(), s.Correct(), true
}

// FinishReport applies the submission outcome. A canceled submission rewinds
// to ReportIdle so the run may report again later.
func (s *Session) FinishReport(err error) {
	if s.report != ReportPending {
		return
	}
	switch {
	case err == nil:
		s.report = ReportDone
	case api.IsCanceled(err):
		s.report = ReportIdle
	default:
		s.report = ReportFailed
		s.reportErr = err
	}
}

// Report composes BeginReport and FinishReport around a synchronous submit,
// at most once per completed run.
func (s *Session) Report(ctx context.Context, reporter Reporter, membership Membership) error {
	deckID, total, score, submit := s.BeginReport(membership)
	if !submit {
		if s.report == ReportFailed {
			return s.reportErr
		}
		return nil
	}

	_, err := reporter.SubmitTest(ctx, deckID, total, score)
	s.FinishReport(err)
	if s.report == ReportFailed {
		return s.reportErr
	}
	return nil
}

// Normalize prepares answers for comparison: trim, lower-case, and collapse
// internal whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Order exposes the shuffled card index order for the current run.
func (s *Session) Order() []int {
	dup := make([]int, len(s.order))
	copy(dup, s.order)
	return dup
}

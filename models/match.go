package models

import (
	"errors"
	"strings"
)

// Outcome of a qualification match. Matches the values persisted by the
// match repository, so renaming a constant is a schema change.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Points awarded per outcome (win=3, draw=1, loss=0).
const (
	WinScore  = 3
	DrawScore = 1
	LossScore = 0
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return true
	}
	return false
}

var (
	ErrUnknownOutcome    = errors.New("unknown match outcome")
	ErrDrawWithWinner    = errors.New("draw outcome must not carry a winner")
	ErrMissingWinner     = errors.New("win/loss outcome requires a winner")
	ErrWinnerNotInMatch  = errors.New("winner is not one of the match participants")
	ErrResultAlreadySet  = errors.New("match result is already recorded")
	ErrByeMatchHasResult = errors.New("bye matches do not carry a result")
)

// Result is the write-once outcome of a match. Winner is nil iff the
// outcome is a draw.
type Result struct {
	Outcome Outcome       `json:"outcome"`
	Winner  *CompetitorID `json:"winner,omitempty"`
}

func (r Result) Validate(p1 CompetitorID, p2 *CompetitorID) error {
	if !r.Outcome.Valid() {
		return ErrUnknownOutcome
	}
	if r.Outcome == OutcomeDraw {
		if r.Winner != nil {
			return ErrDrawWithWinner
		}
		return nil
	}
	if r.Winner == nil {
		return ErrMissingWinner
	}
	if *r.Winner == p1 {
		return nil
	}
	if p2 != nil && *r.Winner == *p2 {
		return nil
	}
	return ErrWinnerNotInMatch
}

// Match is a single qualification-phase pairing. Participant2 is nil for a
// bye. Once Result is set the match is immutable.
type Match struct {
	Participant1 CompetitorID  `json:"participant1"`
	Participant2 *CompetitorID `json:"participant2,omitempty"`
	Round        int           `json:"round"`
	Result       *Result       `json:"result,omitempty"`
}

func (m Match) IsBye() bool {
	return m.Participant2 == nil
}

// SetResult records the outcome exactly once.
func (m *Match) SetResult(r Result) error {
	if m.Result != nil {
		return ErrResultAlreadySet
	}
	if m.IsBye() {
		return ErrByeMatchHasResult
	}
	if err := r.Validate(m.Participant1, m.Participant2); err != nil {
		return err
	}
	m.Result = &r
	return nil
}

// PairKey builds an order-independent key for a two-sided matchup, used to
// match expected pairings against stored matches.
func PairKey(a, b CompetitorID) string {
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return a.String() + "|" + b.String()
}

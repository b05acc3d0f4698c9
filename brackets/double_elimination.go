// Package brackets holds the playoff engines. They are pure transformers:
// the tournament manager loads the persisted bracket, calls in, and persists
// whatever comes back. Nothing in here touches storage.
package brackets

import (
	"errors"

	"github.com/bryler/creature-arena/models"
)

var (
	ErrBracketSize   = errors.New("double elimination requires exactly 16 seeded participants")
	ErrMatchNotFound = errors.New("bracket match not found")
	ErrMatchNotReady = errors.New("bracket match is missing a participant")
	ErrMatchDecided  = errors.New("bracket match already has a winner")
)

// NewDoubleElimination builds the initial playoff structure from 16 seeds
// ordered best to worst. Winner-ladder round 1 pairs seed i against seed
// 15-i; every other round starts empty and fills as results arrive.
func NewDoubleElimination(seeds []models.CompetitorID) (*models.Bracket, error) {
	if len(seeds) != models.BracketSize {
		return nil, ErrBracketSize
	}

	b := &models.Bracket{
		WinnerRounds: make([][]string, models.WinnerLadderRounds),
		LoserRounds:  make([][]string, models.LoserLadderRounds),
		Matches:      make(map[string]models.BracketMatch, models.BracketSize),
	}

	for i := 0; i < models.BracketSize/2; i++ {
		high, low := seeds[i], seeds[models.BracketSize-1-i]
		id := models.WinnerMatchID(1, i+1)
		b.Matches[id] = models.BracketMatch{ID: id, Slot1: &high, Slot2: &low}
		b.WinnerRounds[0] = append(b.WinnerRounds[0], id)
	}
	b.Matches[models.GrandFinalID] = models.BracketMatch{ID: models.GrandFinalID}

	return b, nil
}

// NextVotableMatch returns the single match results should be collected for
// next, or nothing if the bracket is complete. Processing is strictly
// sequential: winner rounds 1-4 drain fully, then loser rounds 1-5, then the
// grand final, because later matches only gain participants as their
// predecessors resolve.
func NextVotableMatch(b *models.Bracket) (models.BracketMatch, bool) {
	for _, round := range b.WinnerRounds {
		for _, id := range round {
			if m := b.Matches[id]; m.Winner == nil {
				return m, true
			}
		}
	}
	for _, round := range b.LoserRounds {
		for _, id := range round {
			if m := b.Matches[id]; m.Winner == nil {
				return m, true
			}
		}
	}
	if gf := b.GrandFinal(); gf.Winner == nil {
		return gf, true
	}
	return models.BracketMatch{}, false
}

// RecordResult sets the winner of the identified match and advances both
// competitors: the winner up its ladder (or into the grand final), the loser
// into the parallel loser-ladder round. The input bracket is left untouched;
// the advanced state is returned.
func RecordResult(b *models.Bracket, matchID string, winner models.CompetitorID) (*models.Bracket, error) {
	next := b.Clone()

	m, ok := next.Matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Winner != nil {
		return nil, ErrMatchDecided
	}
	if m.HasOpenSlot() {
		return nil, ErrMatchNotReady
	}
	if !m.Holds(winner) {
		return nil, models.ErrWinnerNotInMatch
	}

	loser := *m.Other(winner)
	w := winner
	m.Winner = &w
	next.Matches[matchID] = m

	if matchID == models.GrandFinalID {
		return next, nil
	}

	if round, found := locate(next.WinnerRounds, matchID); found {
		if round < models.WinnerLadderRounds-1 {
			fillWinnerRound(next, round+1, winner)
		} else {
			// Winner-ladder champion takes the first grand-final slot.
			setGrandFinalSlot(next, 1, winner)
		}
		// Losers drop into the loser-ladder round matching the one they
		// fell from (winner round 4's loser lands in loser round 4).
		fillLoserRound(next, round, loser)
		return next, nil
	}

	if round, found := locate(next.LoserRounds, matchID); found {
		if round < models.LoserLadderRounds-1 {
			fillLoserRound(next, round+1, winner)
		} else {
			// Loser-ladder champion takes the second grand-final slot.
			setGrandFinalSlot(next, 2, winner)
		}
		return next, nil
	}

	return nil, ErrMatchNotFound
}

// IsComplete reports whether the grand final winner has been recorded.
func IsComplete(b *models.Bracket) bool {
	return b.IsComplete()
}

func locate(rounds [][]string, matchID string) (int, bool) {
	for i, round := range rounds {
		for _, id := range round {
			if id == matchID {
				return i, true
			}
		}
	}
	return 0, false
}

// fillWinnerRound and fillLoserRound place a competitor into the first match
// of the round with an open slot, creating a fresh match at the end of the
// round when none has room. round is zero-indexed.
func fillWinnerRound(b *models.Bracket, round int, id models.CompetitorID) {
	b.WinnerRounds[round] = fillRound(b, b.WinnerRounds[round], id, func(seq int) string {
		return models.WinnerMatchID(round+1, seq)
	})
}

func fillLoserRound(b *models.Bracket, round int, id models.CompetitorID) {
	b.LoserRounds[round] = fillRound(b, b.LoserRounds[round], id, func(seq int) string {
		return models.LoserMatchID(round+1, seq)
	})
}

func fillRound(b *models.Bracket, round []string, id models.CompetitorID, makeID func(seq int) string) []string {
	v := id
	for _, matchID := range round {
		m := b.Matches[matchID]
		if !m.HasOpenSlot() {
			continue
		}
		if m.Slot1 == nil {
			m.Slot1 = &v
		} else {
			m.Slot2 = &v
		}
		b.Matches[matchID] = m
		return round
	}
	newID := makeID(len(round) + 1)
	b.Matches[newID] = models.BracketMatch{ID: newID, Slot1: &v}
	return append(round, newID)
}

func setGrandFinalSlot(b *models.Bracket, slot int, id models.CompetitorID) {
	v := id
	gf := b.GrandFinal()
	if slot == 1 {
		gf.Slot1 = &v
	} else {
		gf.Slot2 = &v
	}
	b.Matches[models.GrandFinalID] = gf
}

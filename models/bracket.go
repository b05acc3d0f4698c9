package models

import "fmt"

// Ladder counts are fixed by the 16-entrant double-elimination format.
const (
	WinnerLadderRounds = 4
	LoserLadderRounds  = 5
	BracketSize        = 16
	GrandFinalID       = "gf"
)

// BracketMatch is one slot-pair in either ladder or the grand final. Slots
// are nil until an advancing competitor fills them; Winner is nil until the
// match is decided.
type BracketMatch struct {
	ID     string        `json:"id"`
	Slot1  *CompetitorID `json:"slot1,omitempty"`
	Slot2  *CompetitorID `json:"slot2,omitempty"`
	Winner *CompetitorID `json:"winner,omitempty"`
}

// Ready means both slots are filled and no winner has been recorded yet.
func (m BracketMatch) Ready() bool {
	return m.Slot1 != nil && m.Slot2 != nil && m.Winner == nil
}

func (m BracketMatch) HasOpenSlot() bool {
	return m.Slot1 == nil || m.Slot2 == nil
}

// Other returns the participant that is not id, if both slots are filled.
func (m BracketMatch) Other(id CompetitorID) *CompetitorID {
	if m.Slot1 != nil && *m.Slot1 == id {
		return m.Slot2
	}
	if m.Slot2 != nil && *m.Slot2 == id {
		return m.Slot1
	}
	return nil
}

func (m BracketMatch) Holds(id CompetitorID) bool {
	if m.Slot1 != nil && *m.Slot1 == id {
		return true
	}
	return m.Slot2 != nil && *m.Slot2 == id
}

// Bracket is the serialized playoff structure: two ladders of match-id lists
// plus the grand final, with every match record held once in Matches. Round
// slices are zero-indexed (WinnerRounds[0] is winner-ladder round 1). The
// indirection through ids keeps the structure free of interior aliasing, so
// engine operations can clone-and-return instead of mutating in place.
type Bracket struct {
	WinnerRounds [][]string              `json:"winner_rounds"`
	LoserRounds  [][]string              `json:"loser_rounds"`
	Matches      map[string]BracketMatch `json:"matches"`
}

// WinnerMatchID and LoserMatchID derive the stable id for a ladder position,
// so repeated load/mutate/save cycles locate the same logical match.
func WinnerMatchID(round, seq int) string {
	return fmt.Sprintf("w%dm%d", round, seq)
}

func LoserMatchID(round, seq int) string {
	return fmt.Sprintf("l%dm%d", round, seq)
}

func (b *Bracket) Match(id string) (BracketMatch, bool) {
	m, ok := b.Matches[id]
	return m, ok
}

func (b *Bracket) GrandFinal() BracketMatch {
	return b.Matches[GrandFinalID]
}

// IsComplete reports whether the grand final has a recorded winner.
func (b *Bracket) IsComplete() bool {
	return b.GrandFinal().Winner != nil
}

// Clone deep-copies the bracket so callers can derive a new state without
// touching the original.
func (b *Bracket) Clone() *Bracket {
	clone := &Bracket{
		WinnerRounds: make([][]string, len(b.WinnerRounds)),
		LoserRounds:  make([][]string, len(b.LoserRounds)),
		Matches:      make(map[string]BracketMatch, len(b.Matches)),
	}
	for i, round := range b.WinnerRounds {
		clone.WinnerRounds[i] = append([]string(nil), round...)
	}
	for i, round := range b.LoserRounds {
		clone.LoserRounds[i] = append([]string(nil), round...)
	}
	for id, m := range b.Matches {
		clone.Matches[id] = copyBracketMatch(m)
	}
	return clone
}

func copyBracketMatch(m BracketMatch) BracketMatch {
	if m.Slot1 != nil {
		v := *m.Slot1
		m.Slot1 = &v
	}
	if m.Slot2 != nil {
		v := *m.Slot2
		m.Slot2 = &v
	}
	if m.Winner != nil {
		v := *m.Winner
		m.Winner = &v
	}
	return m
}

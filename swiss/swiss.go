// Package swiss implements the qualification-phase pairing engine. All
// functions are pure: the tournament manager supplies the current state and
// persists whatever comes back.
package swiss

import (
	"errors"
	"math"
	"sort"

	"github.com/bryler/creature-arena/models"
)

var (
	ErrNoParticipants          = errors.New("cannot generate pairings without participants")
	ErrInvalidParticipantCount = errors.New("participant count must be positive")
)

const (
	minRounds = 3
	maxRounds = 8
)

// Pairing is one matchup for the upcoming round. Participant2 is nil for a
// bye.
type Pairing struct {
	Participant1 models.CompetitorID  `json:"participant1"`
	Participant2 *models.CompetitorID `json:"participant2,omitempty"`
}

func (p Pairing) IsBye() bool {
	return p.Participant2 == nil
}

// RankedCompetitor is one row of a tie-broken standings ordering.
type RankedCompetitor struct {
	Participant models.CompetitorID `json:"participant"`
	Score       int                 `json:"score"`
}

// GeneratePairings produces the next round's matchups. Participants are
// ordered by standings (score descending, identifier ascending) when
// standings are supplied, then paired greedily: each unpaired participant in
// priority order takes the closest-scored opponent it has not met before.
// When every remaining candidate is a rematch the closest-scored rematch is
// taken instead, so a round never contains more than one bye: only the odd
// participant left with nobody to play receives one.
//
// previousMatchups is keyed by models.PairKey. Ties in score distance break
// by scan order, which keeps the output deterministic for a given input
// ordering.
func GeneratePairings(
	participants []models.CompetitorID,
	previousMatchups map[string]bool,
	standings map[models.CompetitorID]int,
) ([]Pairing, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if len(participants) == 1 {
		return []Pairing{{Participant1: participants[0]}}, nil
	}

	ordered := append([]models.CompetitorID(nil), participants...)
	if standings != nil {
		sort.SliceStable(ordered, func(i, j int) bool {
			si, sj := standings[ordered[i]], standings[ordered[j]]
			if si != sj {
				return si > sj
			}
			return ordered[i] < ordered[j]
		})
	}

	scoreOf := func(id models.CompetitorID) int {
		if standings == nil {
			return 0
		}
		return standings[id]
	}

	paired := make(map[models.CompetitorID]bool, len(ordered))
	pairings := make([]Pairing, 0, (len(ordered)+1)/2)

	for i, current := range ordered {
		if paired[current] {
			continue
		}

		fresh, rematch := -1, -1
		freshGap, rematchGap := 0, 0
		for j := i + 1; j < len(ordered); j++ {
			candidate := ordered[j]
			if paired[candidate] {
				continue
			}
			gap := scoreOf(current) - scoreOf(candidate)
			if gap < 0 {
				gap = -gap
			}
			if previousMatchups[models.PairKey(current, candidate)] {
				if rematch == -1 || gap < rematchGap {
					rematch, rematchGap = j, gap
				}
				continue
			}
			if fresh == -1 || gap < freshGap {
				fresh, freshGap = j, gap
			}
		}

		opponent := fresh
		if opponent == -1 {
			opponent = rematch
		}
		if opponent == -1 {
			// Odd participant out: nobody left to play.
			pairings = append(pairings, Pairing{Participant1: current})
			paired[current] = true
			continue
		}

		other := ordered[opponent]
		pairings = append(pairings, Pairing{Participant1: current, Participant2: &other})
		paired[current] = true
		paired[other] = true
	}

	return pairings, nil
}

// CalculateTotalRounds returns the number of swiss rounds for n participants:
// ceil(log2(n)) clamped to [3, 8], with the degenerate single-participant
// tournament needing none.
func CalculateTotalRounds(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidParticipantCount
	}
	if n == 1 {
		return 0, nil
	}
	rounds := int(math.Ceil(math.Log2(float64(n))))
	if rounds < minRounds {
		rounds = minRounds
	}
	if rounds > maxRounds {
		rounds = maxRounds
	}
	return rounds, nil
}

// SortStandings orders the union of pool and standings entries by score
// descending, identifier ascending. The result is a total order: no two rows
// compare equal.
func SortStandings(standings map[models.CompetitorID]int, pool []models.CompetitorID) []RankedCompetitor {
	seen := make(map[models.CompetitorID]bool, len(pool))
	ranked := make([]RankedCompetitor, 0, len(pool))
	for _, id := range pool {
		if seen[id] {
			continue
		}
		seen[id] = true
		ranked = append(ranked, RankedCompetitor{Participant: id, Score: standings[id]})
	}
	for id, score := range standings {
		if seen[id] {
			continue
		}
		seen[id] = true
		ranked = append(ranked, RankedCompetitor{Participant: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Participant < ranked[j].Participant
	})
	return ranked
}

// ScoreForOutcome maps an outcome to the points it awards the participant
// that recorded it.
func ScoreForOutcome(outcome models.Outcome) (int, error) {
	switch outcome {
	case models.OutcomeWin:
		return models.WinScore, nil
	case models.OutcomeLoss:
		return models.LossScore, nil
	case models.OutcomeDraw:
		return models.DrawScore, nil
	default:
		return 0, models.ErrUnknownOutcome
	}
}

package brackets

import (
	"errors"
	"fmt"
	"math"

	"github.com/bryler/creature-arena/models"
)

var ErrNotEnoughSeeds = errors.New("not enough participants for a single elimination bracket (minimum 2)")

// SeededMatch is one match of a generated single-elimination bracket. Later
// rounds reference the matches that feed them via source ids instead of
// participants.
type SeededMatch struct {
	ID           string `json:"id"`
	Round        int    `json:"round"`
	OrderInRound int    `json:"order_in_round"`

	Participant1 *models.CompetitorID `json:"participant1,omitempty"`
	Participant2 *models.CompetitorID `json:"participant2,omitempty"`

	SourceMatch1 *string `json:"source_match1,omitempty"`
	SourceMatch2 *string `json:"source_match2,omitempty"`

	IsBye          bool                 `json:"is_bye,omitempty"`
	ByeParticipant *models.CompetitorID `json:"bye_participant,omitempty"`
}

type seedNode struct {
	participant *models.CompetitorID
	source      *string
}

// NewSingleElimination lays out a knockout bracket over the seeds, best to
// worst. The field is padded to the next power of two; the byes that padding
// creates all land on the top seeds because round 1 pairs seed i against
// seed size-1-i.
func NewSingleElimination(seeds []models.CompetitorID) ([]*SeededMatch, error) {
	n := len(seeds)
	if n < 2 {
		return nil, ErrNotEnoughSeeds
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(numRounds)

	current := make([]seedNode, size)
	for i := 0; i < size/2; i++ {
		current[2*i] = seedFor(seeds, i)
		current[2*i+1] = seedFor(seeds, size-1-i)
	}

	matches := make([]*SeededMatch, 0, size-1)
	for round := 1; round <= numRounds; round++ {
		next := make([]seedNode, 0, len(current)/2)
		order := 0

		for i := 0; i < len(current); i += 2 {
			a, b := current[i], current[i+1]
			order++
			id := fmt.Sprintf("R%dM%d", round, order)

			sm := &SeededMatch{ID: id, Round: round, OrderInRound: order}

			switch {
			case a.participant != nil && b.participant == nil && b.source == nil:
				sm.IsBye = true
				sm.ByeParticipant = a.participant
				sm.Participant1 = a.participant
				next = append(next, seedNode{participant: a.participant})
			case b.participant != nil && a.participant == nil && a.source == nil:
				sm.IsBye = true
				sm.ByeParticipant = b.participant
				sm.Participant1 = b.participant
				next = append(next, seedNode{participant: b.participant})
			default:
				sm.Participant1 = a.participant
				sm.Participant2 = b.participant
				sm.SourceMatch1 = a.source
				sm.SourceMatch2 = b.source
				next = append(next, seedNode{source: &sm.ID})
			}

			matches = append(matches, sm)
		}
		current = next
	}

	return matches, nil
}

func seedFor(seeds []models.CompetitorID, i int) seedNode {
	if i >= len(seeds) {
		return seedNode{}
	}
	v := seeds[i]
	return seedNode{participant: &v}
}

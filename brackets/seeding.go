package brackets

import (
	"errors"

	"github.com/bryler/creature-arena/models"
	"github.com/bryler/creature-arena/swiss"
)

var ErrNotEnoughQualifiers = errors.New("not enough qualifiers for the requested bracket size")

// SeedTopN cuts a standings map down to its top n competitors, ordered best
// to worst by the tie-break ordering (score descending, identifier
// ascending). Standings entries missing from the pool still seed: a
// placeholder competitor is synthesized from the standings key, which lets
// brackets be built directly from an externally supplied top-N.
func SeedTopN(pool []models.CompetitorID, standings map[models.CompetitorID]int, n int) ([]models.CompetitorID, error) {
	ranked := swiss.SortStandings(standings, pool)
	if len(ranked) < n {
		return nil, ErrNotEnoughQualifiers
	}
	seeds := make([]models.CompetitorID, n)
	for i := 0; i < n; i++ {
		seeds[i] = ranked[i].Participant
	}
	return seeds, nil
}

// BuildDoubleElimination seeds the top 16 of the standings into the playoff
// structure used after qualification.
func BuildDoubleElimination(pool []models.CompetitorID, standings map[models.CompetitorID]int) (*models.Bracket, error) {
	seeds, err := SeedTopN(pool, standings, models.BracketSize)
	if err != nil {
		return nil, err
	}
	return NewDoubleElimination(seeds)
}

// BuildSingleElimination seeds the top n of the standings into a knockout
// bracket.
func BuildSingleElimination(pool []models.CompetitorID, standings map[models.CompetitorID]int, n int) ([]*SeededMatch, error) {
	seeds, err := SeedTopN(pool, standings, n)
	if err != nil {
		return nil, err
	}
	return NewSingleElimination(seeds)
}

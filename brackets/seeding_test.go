package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryler/creature-arena/models"
)

func TestSeedTopNOrdersByScoreThenID(t *testing.T) {
	pool := []models.CompetitorID{"drake", "aspid", "cockatrice", "basilisk"}
	standings := map[models.CompetitorID]int{
		"aspid": 3, "basilisk": 9, "cockatrice": 3, "drake": 0,
	}

	seeds, err := SeedTopN(pool, standings, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.CompetitorID{"basilisk", "aspid", "cockatrice"}, seeds)
}

func TestSeedTopNNotEnoughQualifiers(t *testing.T) {
	pool := []models.CompetitorID{"aspid", "basilisk"}
	_, err := SeedTopN(pool, map[models.CompetitorID]int{"aspid": 3}, 16)
	assert.ErrorIs(t, err, ErrNotEnoughQualifiers)
}

func TestBuildDoubleEliminationTakesTopSixteen(t *testing.T) {
	pool := make([]models.CompetitorID, 20)
	standings := make(map[models.CompetitorID]int, 20)
	for i := range pool {
		id := models.CompetitorID(fmt.Sprintf("c%02d", i+1))
		pool[i] = id
		standings[id] = 20 - i // c01 leads, c20 trails
	}

	b, err := BuildDoubleElimination(pool, standings)
	require.NoError(t, err)

	seeded := make(map[models.CompetitorID]bool)
	for _, id := range b.WinnerRounds[0] {
		m, _ := b.Match(id)
		seeded[*m.Slot1] = true
		seeded[*m.Slot2] = true
	}
	require.Len(t, seeded, 16)
	for i := 17; i <= 20; i++ {
		assert.False(t, seeded[models.CompetitorID(fmt.Sprintf("c%02d", i))],
			"competitor below the cut must not seed")
	}

	// Seed 1 opens against seed 16.
	opener, _ := b.Match(b.WinnerRounds[0][0])
	assert.Equal(t, models.CompetitorID("c01"), *opener.Slot1)
	assert.Equal(t, models.CompetitorID("c16"), *opener.Slot2)
}

func TestNewSingleEliminationPadsWithByes(t *testing.T) {
	seeds := []models.CompetitorID{"aspid", "basilisk", "cockatrice", "drake", "ettin"}

	matches, err := NewSingleElimination(seeds)
	require.NoError(t, err)
	// Padded to 8: rounds of 4, 2 and 1 matches.
	require.Len(t, matches, 7)

	byes := 0
	for _, m := range matches {
		if m.IsBye {
			byes++
			require.NotNil(t, m.ByeParticipant)
			// Byes land on the top seeds via the i vs size-1-i layout.
			assert.Contains(t, []models.CompetitorID{"aspid", "basilisk", "cockatrice"}, *m.ByeParticipant)
		}
	}
	assert.Equal(t, 3, byes)
}

func TestNewSingleEliminationRejectsTinyFields(t *testing.T) {
	_, err := NewSingleElimination([]models.CompetitorID{"aspid"})
	assert.ErrorIs(t, err, ErrNotEnoughSeeds)
}

func TestBuildSingleElimination(t *testing.T) {
	pool := []models.CompetitorID{"aspid", "basilisk", "cockatrice", "drake"}
	standings := map[models.CompetitorID]int{
		"aspid": 0, "basilisk": 3, "cockatrice": 6, "drake": 9,
	}

	matches, err := BuildSingleElimination(pool, standings, 4)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Round 1: 1v4 and 2v3 by standings order.
	assert.Equal(t, models.CompetitorID("drake"), *matches[0].Participant1)
	assert.Equal(t, models.CompetitorID("aspid"), *matches[0].Participant2)
	assert.Equal(t, models.CompetitorID("cockatrice"), *matches[1].Participant1)
	assert.Equal(t, models.CompetitorID("basilisk"), *matches[1].Participant2)

	// The final references its feeder matches.
	final := matches[2]
	require.NotNil(t, final.SourceMatch1)
	require.NotNil(t, final.SourceMatch2)
	assert.Equal(t, matches[0].ID, *final.SourceMatch1)
	assert.Equal(t, matches[1].ID, *final.SourceMatch2)
}

package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryler/creature-arena/models"
)

func sixteenSeeds() []models.CompetitorID {
	seeds := make([]models.CompetitorID, models.BracketSize)
	for i := range seeds {
		seeds[i] = models.CompetitorID(fmt.Sprintf("s%02d", i+1))
	}
	return seeds
}

func TestNewDoubleEliminationSeeding(t *testing.T) {
	seeds := sixteenSeeds()
	b, err := NewDoubleElimination(seeds)
	require.NoError(t, err)

	require.Len(t, b.WinnerRounds[0], 8)
	for i, id := range b.WinnerRounds[0] {
		m, ok := b.Match(id)
		require.True(t, ok)
		require.NotNil(t, m.Slot1)
		require.NotNil(t, m.Slot2)
		assert.Equal(t, seeds[i], *m.Slot1)
		assert.Equal(t, seeds[models.BracketSize-1-i], *m.Slot2)
	}

	// Top seed meets bottom seed in the opener.
	first, _ := b.Match(b.WinnerRounds[0][0])
	assert.Equal(t, models.CompetitorID("s01"), *first.Slot1)
	assert.Equal(t, models.CompetitorID("s16"), *first.Slot2)

	// Every later round starts empty; the grand final exists but is open.
	for r := 1; r < models.WinnerLadderRounds; r++ {
		assert.Empty(t, b.WinnerRounds[r])
	}
	for r := 0; r < models.LoserLadderRounds; r++ {
		assert.Empty(t, b.LoserRounds[r])
	}
	gf := b.GrandFinal()
	assert.True(t, gf.HasOpenSlot())
	assert.Nil(t, gf.Winner)
}

func TestNewDoubleEliminationRequiresSixteen(t *testing.T) {
	_, err := NewDoubleElimination(sixteenSeeds()[:8])
	assert.ErrorIs(t, err, ErrBracketSize)

	_, err = NewDoubleElimination(append(sixteenSeeds(), "s17"))
	assert.ErrorIs(t, err, ErrBracketSize)
}

func TestRecordResultValidation(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	_, err = RecordResult(b, "w9m9", "s01")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = RecordResult(b, models.GrandFinalID, "s01")
	assert.ErrorIs(t, err, ErrMatchNotReady)

	_, err = RecordResult(b, "w1m1", "s02")
	assert.ErrorIs(t, err, models.ErrWinnerNotInMatch)

	next, err := RecordResult(b, "w1m1", "s01")
	require.NoError(t, err)
	_, err = RecordResult(next, "w1m1", "s01")
	assert.ErrorIs(t, err, ErrMatchDecided)
}

func TestRecordResultLeavesInputUntouched(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	next, err := RecordResult(b, "w1m1", "s16")
	require.NoError(t, err)

	original, _ := b.Match("w1m1")
	assert.Nil(t, original.Winner, "input bracket must not be mutated")
	updated, _ := next.Match("w1m1")
	require.NotNil(t, updated.Winner)
	assert.Equal(t, models.CompetitorID("s16"), *updated.Winner)
	assert.Empty(t, b.LoserRounds[0])
	assert.Len(t, next.LoserRounds[0], 1)
}

func TestRecordResultRoutesWinnerAndLoser(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	b, err = RecordResult(b, "w1m1", "s01")
	require.NoError(t, err)

	// Winner waits in winner round 2, loser in loser round 1.
	require.Len(t, b.WinnerRounds[1], 1)
	w2, _ := b.Match(b.WinnerRounds[1][0])
	require.NotNil(t, w2.Slot1)
	assert.Equal(t, models.CompetitorID("s01"), *w2.Slot1)
	assert.Nil(t, w2.Slot2)

	require.Len(t, b.LoserRounds[0], 1)
	l1, _ := b.Match(b.LoserRounds[0][0])
	require.NotNil(t, l1.Slot1)
	assert.Equal(t, models.CompetitorID("s16"), *l1.Slot1)
}

// playOut drains the bracket through NextVotableMatch, always advancing the
// slot1 competitor, and returns the finished bracket plus the match count.
func playOut(t *testing.T, b *models.Bracket) (*models.Bracket, int) {
	t.Helper()
	played := 0
	for {
		m, ok := NextVotableMatch(b)
		if !ok {
			return b, played
		}
		require.NotNil(t, m.Slot1, "votable match %s must be ready", m.ID)
		require.NotNil(t, m.Slot2, "votable match %s must be ready", m.ID)

		next, err := RecordResult(b, m.ID, *m.Slot1)
		require.NoError(t, err)
		b = next
		played++
	}
}

func TestFullPlayoffRun(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	final, played := playOut(t, b)

	// 15 winner-ladder matches, 14 loser-ladder matches, one grand final.
	assert.Equal(t, 30, played)
	assert.True(t, final.IsComplete())

	gf := final.GrandFinal()
	require.NotNil(t, gf.Winner)
	assert.Equal(t, models.CompetitorID("s01"), *gf.Winner)

	// The grand final met the winner-ladder champion and the loser-ladder
	// survivor.
	require.NotNil(t, gf.Slot1)
	require.NotNil(t, gf.Slot2)
	assert.Equal(t, models.CompetitorID("s01"), *gf.Slot1)
	assert.Equal(t, models.CompetitorID("s05"), *gf.Slot2)

	// Ladder shapes for a 16-entrant field.
	wantWinner := []int{8, 4, 2, 1}
	for r, want := range wantWinner {
		assert.Len(t, final.WinnerRounds[r], want, "winner round %d", r+1)
	}
	wantLoser := []int{4, 4, 3, 2, 1}
	for r, want := range wantLoser {
		assert.Len(t, final.LoserRounds[r], want, "loser round %d", r+1)
	}

	// Every match is decided.
	for _, m := range final.Matches {
		assert.NotNil(t, m.Winner, "match %s left undecided", m.ID)
	}
}

func TestNextVotableMatchSequence(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	// Winner rounds drain completely before any loser-ladder match is
	// offered, and the grand final comes last.
	var order []string
	for {
		m, ok := NextVotableMatch(b)
		if !ok {
			break
		}
		order = append(order, m.ID)
		b, err = RecordResult(b, m.ID, *m.Slot1)
		require.NoError(t, err)
	}

	require.Len(t, order, 30)
	assert.Equal(t, "w1m1", order[0])
	assert.Equal(t, "w4m1", order[14])
	assert.Equal(t, "l1m1", order[15])
	assert.Equal(t, "l5m1", order[28])
	assert.Equal(t, models.GrandFinalID, order[29])
}

func TestCompletionIsPermanent(t *testing.T) {
	b, err := NewDoubleElimination(sixteenSeeds())
	require.NoError(t, err)

	final, _ := playOut(t, b)
	require.True(t, IsComplete(final))

	_, ok := NextVotableMatch(final)
	assert.False(t, ok)

	_, err = RecordResult(final, models.GrandFinalID, "s01")
	assert.ErrorIs(t, err, ErrMatchDecided)
}

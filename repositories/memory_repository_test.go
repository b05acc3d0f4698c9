package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryler/creature-arena/brackets"
	"github.com/bryler/creature-arena/models"
)

func seedTournament(t *testing.T, repo TournamentRepository, id, owner string) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		ID:         id,
		OwnerEmail: owner,
		Participants: []models.Participant{
			models.NewParticipant("aspid"),
			models.NewParticipant("basilisk"),
		},
		TotalRounds: 3,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Save(context.Background(), tournament))
	return tournament
}

func TestMemoryRepositoryIsolatesStoredState(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()
	tournament := seedTournament(t, repo, "t1", "keeper@arena.test")

	// Mutating the saved aggregate must not leak into the store.
	tournament.Participants[0].AddWin()

	loaded, err := repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Participants[0].Score)

	// Nor must mutating a loaded copy.
	loaded.Participants[1].AddDraw()
	again, err := repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Participants[1].Score)
}

func TestMemoryRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMemoryRepositoryExists(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()
	seedTournament(t, repo, "t1", "keeper@arena.test")

	ok, err := repo.Exists(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepositoryMatchesRoundTrip(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()
	seedTournament(t, repo, "t1", "keeper@arena.test")

	winner := models.CompetitorID("aspid")
	loser := models.CompetitorID("basilisk")
	match := models.Match{
		Participant1: winner,
		Participant2: &loser,
		Round:        0,
		Result:       &models.Result{Outcome: models.OutcomeWin, Winner: &winner},
	}
	require.NoError(t, repo.SaveMatch(ctx, "t1", match))

	// A bye is a one-sided match without a result.
	require.NoError(t, repo.SaveMatch(ctx, "t1", models.Match{Participant1: "cockatrice", Round: 0}))

	matches, err := repo.LoadMatches(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, winner, *matches[0].Result.Winner)
	assert.True(t, matches[1].IsBye())

	err = repo.SaveMatch(ctx, "missing", match)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMemoryRepositoryBracketRoundTrip(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()
	seedTournament(t, repo, "t1", "keeper@arena.test")

	_, err := repo.LoadBracket(ctx, "t1")
	assert.ErrorIs(t, err, ErrBracketNotFound)

	seeds := make([]models.CompetitorID, models.BracketSize)
	for i := range seeds {
		seeds[i] = models.CompetitorID(string(rune('a' + i)))
	}
	bracket, err := brackets.NewDoubleElimination(seeds)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBracket(ctx, "t1", bracket))

	loaded, err := repo.LoadBracket(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, loaded.WinnerRounds[0], 8)

	// The stored bracket is insulated from later mutation of either copy.
	loaded.Matches["w1m1"] = models.BracketMatch{ID: "w1m1"}
	again, err := repo.LoadBracket(ctx, "t1")
	require.NoError(t, err)
	assert.NotNil(t, again.Matches["w1m1"].Slot1)
}

func TestMemoryRepositoryDeleteCascades(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()
	seedTournament(t, repo, "t1", "keeper@arena.test")
	require.NoError(t, repo.SaveMatch(ctx, "t1", models.Match{Participant1: "aspid", Round: 0}))

	require.NoError(t, repo.Delete(ctx, "t1"))

	_, err := repo.FindByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	matches, err := repo.LoadMatches(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.ErrorIs(t, repo.Delete(ctx, "t1"), ErrTournamentNotFound)
}

func TestMemoryRepositoryFindByOwnerNewestFirst(t *testing.T) {
	repo := NewMemoryTournamentRepository()
	ctx := context.Background()

	older := seedTournament(t, repo, "t1", "keeper@arena.test")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))
	seedTournament(t, repo, "t2", "keeper@arena.test")
	seedTournament(t, repo, "t3", "other@arena.test")

	mine, err := repo.FindByOwner(ctx, "keeper@arena.test")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "t2", mine[0].ID)
	assert.Equal(t, "t1", mine[1].ID)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompetitorIDNormalization(t *testing.T) {
	cases := []struct {
		raw  string
		want CompetitorID
	}{
		{"Aspid", "aspid"},
		{"  Frost Drake  ", "frost-drake"},
		{"bog_wraith", "bog-wraith"},
		{"Tri   Headed\tHydra", "tri-headed-hydra"},
		{"already-normal", "already-normal"},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewCompetitorID(tc.raw), "raw=%q", tc.raw)
	}
}

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("aspid", "basilisk"), PairKey("basilisk", "aspid"))
	assert.NotEqual(t, PairKey("aspid", "basilisk"), PairKey("aspid", "cockatrice"))
}

func TestResultValidate(t *testing.T) {
	p1 := CompetitorID("aspid")
	p2 := CompetitorID("basilisk")
	outsider := CompetitorID("drake")

	assert.NoError(t, Result{Outcome: OutcomeWin, Winner: &p1}.Validate(p1, &p2))
	assert.NoError(t, Result{Outcome: OutcomeLoss, Winner: &p2}.Validate(p1, &p2))
	assert.NoError(t, Result{Outcome: OutcomeDraw}.Validate(p1, &p2))

	err := Result{Outcome: OutcomeDraw, Winner: &p1}.Validate(p1, &p2)
	assert.ErrorIs(t, err, ErrDrawWithWinner)

	err = Result{Outcome: OutcomeWin}.Validate(p1, &p2)
	assert.ErrorIs(t, err, ErrMissingWinner)

	err = Result{Outcome: OutcomeWin, Winner: &outsider}.Validate(p1, &p2)
	assert.ErrorIs(t, err, ErrWinnerNotInMatch)

	err = Result{Outcome: Outcome("forfeit")}.Validate(p1, &p2)
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestMatchSetResultWriteOnce(t *testing.T) {
	p1 := CompetitorID("aspid")
	p2 := CompetitorID("basilisk")
	m := Match{Participant1: p1, Participant2: &p2, Round: 1}

	require.NoError(t, m.SetResult(Result{Outcome: OutcomeWin, Winner: &p1}))
	err := m.SetResult(Result{Outcome: OutcomeDraw})
	assert.ErrorIs(t, err, ErrResultAlreadySet)
}

func TestMatchSetResultRejectsByes(t *testing.T) {
	m := Match{Participant1: "aspid", Round: 1}
	require.True(t, m.IsBye())
	err := m.SetResult(Result{Outcome: OutcomeDraw})
	assert.ErrorIs(t, err, ErrByeMatchHasResult)
}

func TestParticipantScoreInvariant(t *testing.T) {
	p := NewParticipant("aspid")
	p.AddWin()
	p.AddWin()
	p.AddDraw()
	p.AddLoss()

	assert.Equal(t, 2, p.Wins)
	assert.Equal(t, 1, p.Draws)
	assert.Equal(t, 1, p.Losses)
	assert.Equal(t, WinScore*p.Wins+DrawScore*p.Draws, p.Score)
}

func TestTournamentIsComplete(t *testing.T) {
	tournament := Tournament{TotalRounds: 3}
	assert.False(t, tournament.IsComplete())
	tournament.CurrentRound = 2
	assert.False(t, tournament.IsComplete())
	tournament.CurrentRound = 3
	assert.True(t, tournament.IsComplete())
}

func TestTournamentFindParticipantReturnsMutableRecord(t *testing.T) {
	tournament := Tournament{
		Participants: []Participant{NewParticipant("aspid"), NewParticipant("basilisk")},
		CreatedAt:    time.Now(),
	}

	p := tournament.FindParticipant("basilisk")
	require.NotNil(t, p)
	p.AddWin()
	assert.Equal(t, 3, tournament.Participants[1].Score)

	assert.Nil(t, tournament.FindParticipant("drake"))
}

func TestTournamentStandingsInEnrollmentOrder(t *testing.T) {
	tournament := Tournament{
		Participants: []Participant{
			{ID: "drake", Score: 1, Draws: 1},
			{ID: "aspid", Score: 6, Wins: 2},
		},
	}

	standings := tournament.Standings()
	require.Len(t, standings, 2)
	assert.Equal(t, CompetitorID("drake"), standings[0].Participant)
	assert.Equal(t, CompetitorID("aspid"), standings[1].Participant)
	assert.Equal(t, 6, standings[1].Score)
}

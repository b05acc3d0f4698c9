package repositories

import (
	"context"
	"errors"

	"github.com/bryler/creature-arena/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrBracketNotFound    = errors.New("bracket data not found")
)

// TournamentRepository is the persistence contract the tournament manager
// runs against. A tournament is saved and loaded whole (participants
// included), matches append per round, and the bracket is one serialized
// structure per tournament replaced on every save.
type TournamentRepository interface {
	Save(ctx context.Context, tournament *models.Tournament) error
	FindByID(ctx context.Context, id string) (*models.Tournament, error)
	FindByOwner(ctx context.Context, ownerEmail string) ([]models.Tournament, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error

	SaveMatch(ctx context.Context, tournamentID string, match models.Match) error
	LoadMatches(ctx context.Context, tournamentID string) ([]models.Match, error)

	LoadBracket(ctx context.Context, tournamentID string) (*models.Bracket, error)
	SaveBracket(ctx context.Context, tournamentID string, bracket *models.Bracket) error
}

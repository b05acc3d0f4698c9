package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/bryler/creature-arena/models"
)

// memoryTournamentRepository keeps everything in process. It backs the
// manager tests and the STORE=memory development mode; a mutex serializes
// access, which also gives the single-writer-per-tournament behavior the
// manager assumes.
type memoryTournamentRepository struct {
	mu          sync.Mutex
	tournaments map[string]*models.Tournament
	matches     map[string][]models.Match
	brackets    map[string]*models.Bracket
}

func NewMemoryTournamentRepository() TournamentRepository {
	return &memoryTournamentRepository{
		tournaments: make(map[string]*models.Tournament),
		matches:     make(map[string][]models.Match),
		brackets:    make(map[string]*models.Bracket),
	}
}

func (r *memoryTournamentRepository) Save(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tournaments[t.ID] = copyTournament(t)
	return nil
}

func (r *memoryTournamentRepository) FindByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return copyTournament(t), nil
}

func (r *memoryTournamentRepository) FindByOwner(_ context.Context, ownerEmail string) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournaments := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.OwnerEmail == ownerEmail {
			tournaments = append(tournaments, *copyTournament(t))
		}
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].CreatedAt.After(tournaments[j].CreatedAt)
	})
	return tournaments, nil
}

func (r *memoryTournamentRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tournaments[id]
	return ok, nil
}

func (r *memoryTournamentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	delete(r.matches, id)
	delete(r.brackets, id)
	return nil
}

func (r *memoryTournamentRepository) SaveMatch(_ context.Context, tournamentID string, match models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournamentID]; !ok {
		return ErrTournamentNotFound
	}
	r.matches[tournamentID] = append(r.matches[tournamentID], copyMatch(match))
	return nil
}

func (r *memoryTournamentRepository) LoadMatches(_ context.Context, tournamentID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.matches[tournamentID]
	matches := make([]models.Match, 0, len(stored))
	for _, m := range stored {
		matches = append(matches, copyMatch(m))
	}
	return matches, nil
}

func (r *memoryTournamentRepository) LoadBracket(_ context.Context, tournamentID string) (*models.Bracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.brackets[tournamentID]
	if !ok {
		return nil, ErrBracketNotFound
	}
	return b.Clone(), nil
}

func (r *memoryTournamentRepository) SaveBracket(_ context.Context, tournamentID string, bracket *models.Bracket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournamentID]; !ok {
		return ErrTournamentNotFound
	}
	r.brackets[tournamentID] = bracket.Clone()
	return nil
}

func copyTournament(t *models.Tournament) *models.Tournament {
	clone := *t
	clone.Participants = append([]models.Participant(nil), t.Participants...)
	if t.BannerKey != nil {
		v := *t.BannerKey
		clone.BannerKey = &v
	}
	if t.BannerURL != nil {
		v := *t.BannerURL
		clone.BannerURL = &v
	}
	return &clone
}

func copyMatch(m models.Match) models.Match {
	if m.Participant2 != nil {
		v := *m.Participant2
		m.Participant2 = &v
	}
	if m.Result != nil {
		result := *m.Result
		if result.Winner != nil {
			w := *result.Winner
			result.Winner = &w
		}
		m.Result = &result
	}
	return m
}

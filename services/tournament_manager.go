package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryler/creature-arena/brackets"
	"github.com/bryler/creature-arena/metrics"
	"github.com/bryler/creature-arena/models"
	"github.com/bryler/creature-arena/repositories"
	"github.com/bryler/creature-arena/storage"
	"github.com/bryler/creature-arena/swiss"
)

// TournamentManager orchestrates the swiss and bracket engines against the
// persistence contract. Every operation is a synchronous read-compute-write
// cycle; the manager holds no state between calls and assumes one mutation
// in flight per tournament (last writer wins otherwise).
type TournamentManager interface {
	CreateTournament(ctx context.Context, ownerEmail string, competitors []string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournamentsByOwner(ctx context.Context, ownerEmail string) ([]models.Tournament, error)
	GetTournamentDetail(ctx context.Context, id string) (*TournamentDetail, error)
	DeleteTournament(ctx context.Context, id string) error

	GetCurrentRoundPairings(ctx context.Context, id string) ([]swiss.Pairing, error)
	RecordMatchResult(ctx context.Context, id string, input RecordResultInput) (*models.Tournament, error)
	RecordBye(ctx context.Context, id string, competitor string) (*models.Tournament, error)
	IsCurrentRoundComplete(ctx context.Context, id string) (bool, error)
	AdvanceToNextRound(ctx context.Context, id string) (*models.Tournament, error)

	InitializeBracket(ctx context.Context, id string) (*models.Bracket, error)
	GetBracket(ctx context.Context, id string) (*models.Bracket, error)
	GetNextBracketMatch(ctx context.Context, id string) (*models.BracketMatch, error)
	RecordBracketMatchResult(ctx context.Context, id, matchID, winner string) (*models.Bracket, error)
	IsBracketComplete(ctx context.Context, id string) (bool, error)

	GetCurrentStandings(ctx context.Context, id string) ([]models.Standing, error)
	GetFinalStandings(ctx context.Context, id string) ([]models.Standing, error)

	UploadBanner(ctx context.Context, id, contentType string, banner io.Reader) (*models.Tournament, error)
}

// RecordResultInput is one qualification result as submitted by the route
// layer. Winner must be empty for a draw and must name one of the two
// participants otherwise.
type RecordResultInput struct {
	Participant1 string         `json:"participant1"`
	Participant2 string         `json:"participant2"`
	Outcome      models.Outcome `json:"outcome"`
	Winner       string         `json:"winner,omitempty"`
}

// TournamentDetail is the aggregate view the detail endpoint serves.
type TournamentDetail struct {
	Tournament *models.Tournament `json:"tournament"`
	Matches    []models.Match     `json:"matches"`
	Bracket    *models.Bracket    `json:"bracket,omitempty"`
}

// Notifier is the slice of the websocket hub the manager publishes on.
type Notifier interface {
	BroadcastToRoom(roomID string, event brackets.Event)
}

type tournamentManager struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
	notifier Notifier
	logger   *slog.Logger
}

// NewTournamentManager wires the manager. uploader and notifier may be nil;
// banner uploads and live updates are then disabled.
func NewTournamentManager(
	repo repositories.TournamentRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
) TournamentManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentManager{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
	}
}

func (m *tournamentManager) CreateTournament(ctx context.Context, ownerEmail string, competitors []string) (*models.Tournament, error) {
	seen := make(map[models.CompetitorID]bool, len(competitors))
	participants := make([]models.Participant, 0, len(competitors))
	for _, raw := range competitors {
		id := models.NewCompetitorID(raw)
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		participants = append(participants, models.NewParticipant(id))
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	totalRounds, err := swiss.CalculateTotalRounds(len(participants))
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:           uuid.NewString(),
		OwnerEmail:   ownerEmail,
		Participants: participants,
		CurrentRound: 0,
		TotalRounds:  totalRounds,
		CreatedAt:    time.Now().UTC(),
	}
	if err := m.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tournament: %w", err)
	}

	metrics.TournamentsCreated.Inc()
	m.logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.Int("participants", len(participants)),
		slog.Int("total_rounds", totalRounds))
	return t, nil
}

func (m *tournamentManager) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return m.findTournament(ctx, id)
}

func (m *tournamentManager) ListTournamentsByOwner(ctx context.Context, ownerEmail string) ([]models.Tournament, error) {
	tournaments, err := m.repo.FindByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		m.resolveBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

// GetTournamentDetail assembles the tournament, its stored matches and its
// bracket (when initialized) in parallel.
func (m *tournamentManager) GetTournamentDetail(ctx context.Context, id string) (*TournamentDetail, error) {
	detail := &TournamentDetail{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := m.findTournament(gCtx, id)
		if err != nil {
			return err
		}
		detail.Tournament = t
		return nil
	})
	g.Go(func() error {
		matches, err := m.repo.LoadMatches(gCtx, id)
		if err != nil {
			return err
		}
		detail.Matches = matches
		return nil
	})
	g.Go(func() error {
		bracket, err := m.repo.LoadBracket(gCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrBracketNotFound) {
				return nil
			}
			return err
		}
		detail.Bracket = bracket
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (m *tournamentManager) DeleteTournament(ctx context.Context, id string) error {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	// Banner cleanup is best effort; an orphaned object is not worth
	// failing the delete over.
	if m.uploader != nil && t.BannerKey != nil {
		if err := m.uploader.Delete(ctx, *t.BannerKey); err != nil {
			m.logger.Warn("failed to delete banner object",
				slog.String("tournament_id", id),
				slog.Any("error", err))
		}
	}

	m.logger.Info("tournament deleted", slog.String("tournament_id", id))
	return nil
}

func (m *tournamentManager) GetCurrentRoundPairings(ctx context.Context, id string) ([]swiss.Pairing, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsComplete() {
		return []swiss.Pairing{}, nil
	}
	matches, err := m.repo.LoadMatches(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.pairingsFor(t, matches)
}

// pairingsFor computes the pairings for the tournament's current round:
// matchups stored under earlier rounds are barred as rematches, and scores
// are rolled back to their round-start values by reversing any results
// already recorded this round. That keeps the pairing set stable no matter
// when during the round it is recomputed.
func (m *tournamentManager) pairingsFor(t *models.Tournament, matches []models.Match) ([]swiss.Pairing, error) {
	previous := make(map[string]bool)

	pool := make([]models.CompetitorID, len(t.Participants))
	standings := make(map[models.CompetitorID]int, len(t.Participants))
	for i, p := range t.Participants {
		pool[i] = p.ID
		standings[p.ID] = p.Score
	}

	for _, match := range matches {
		if match.Round < t.CurrentRound {
			if match.Participant2 != nil {
				previous[models.PairKey(match.Participant1, *match.Participant2)] = true
			}
			continue
		}
		if match.Round > t.CurrentRound {
			continue
		}
		if match.Participant2 == nil {
			standings[match.Participant1] -= models.WinScore
			continue
		}
		if match.Result == nil {
			continue
		}
		if match.Result.Outcome == models.OutcomeDraw {
			standings[match.Participant1] -= models.DrawScore
			standings[*match.Participant2] -= models.DrawScore
		} else if match.Result.Winner != nil {
			standings[*match.Result.Winner] -= models.WinScore
		}
	}

	return swiss.GeneratePairings(pool, previous, standings)
}

func (m *tournamentManager) RecordMatchResult(ctx context.Context, id string, input RecordResultInput) (*models.Tournament, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsComplete() {
		return nil, ErrTournamentComplete
	}

	p1 := t.FindParticipant(models.NewCompetitorID(input.Participant1))
	p2 := t.FindParticipant(models.NewCompetitorID(input.Participant2))
	if p1 == nil || p2 == nil {
		return nil, ErrParticipantNotInTournament
	}

	matches, err := m.repo.LoadMatches(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, existing := range matches {
		if existing.Round != t.CurrentRound || existing.Participant2 == nil {
			continue
		}
		if models.PairKey(existing.Participant1, *existing.Participant2) == models.PairKey(p1.ID, p2.ID) {
			return nil, models.ErrResultAlreadySet
		}
	}

	p2ID := p2.ID
	match := models.Match{
		Participant1: p1.ID,
		Participant2: &p2ID,
		Round:        t.CurrentRound,
	}
	result := models.Result{Outcome: input.Outcome}
	if input.Winner != "" {
		winner := models.NewCompetitorID(input.Winner)
		result.Winner = &winner
	}
	if err := match.SetResult(result); err != nil {
		return nil, err
	}

	if result.Outcome == models.OutcomeDraw {
		p1.AddDraw()
		p2.AddDraw()
	} else if *result.Winner == p1.ID {
		p1.AddWin()
		p2.AddLoss()
	} else {
		p2.AddWin()
		p1.AddLoss()
	}

	if err := m.repo.SaveMatch(ctx, id, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}
	if err := m.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save participant stats: %w", err)
	}

	metrics.ResultsRecorded.Inc()
	m.broadcast(id, "STANDINGS_UPDATED", t.Standings())
	return t, nil
}

// RecordBye credits a win-equivalent score and stores a one-sided match so
// the round-completion check can see the bye was taken.
func (m *tournamentManager) RecordBye(ctx context.Context, id string, competitor string) (*models.Tournament, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsComplete() {
		return nil, ErrTournamentComplete
	}

	p := t.FindParticipant(models.NewCompetitorID(competitor))
	if p == nil {
		return nil, ErrParticipantNotInTournament
	}

	matches, err := m.repo.LoadMatches(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, existing := range matches {
		if existing.Round == t.CurrentRound && existing.Participant2 == nil && existing.Participant1 == p.ID {
			return nil, models.ErrResultAlreadySet
		}
	}

	p.AddWin()

	if err := m.repo.SaveMatch(ctx, id, models.Match{Participant1: p.ID, Round: t.CurrentRound}); err != nil {
		return nil, fmt.Errorf("failed to save bye: %w", err)
	}
	if err := m.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save participant stats: %w", err)
	}
	m.broadcast(id, "STANDINGS_UPDATED", t.Standings())
	return t, nil
}

func (m *tournamentManager) IsCurrentRoundComplete(ctx context.Context, id string) (bool, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return false, err
	}
	if t.IsComplete() {
		return true, nil
	}
	matches, err := m.repo.LoadMatches(ctx, id)
	if err != nil {
		return false, err
	}
	return m.roundComplete(t, matches)
}

// roundComplete checks the expected pairings against the matches stored for
// the current round, byes included. An empty pairing set counts as a
// vacuously finished round.
func (m *tournamentManager) roundComplete(t *models.Tournament, matches []models.Match) (bool, error) {
	pairings, err := m.pairingsFor(t, matches)
	if err != nil {
		return false, err
	}

	played := make(map[string]bool)
	byes := make(map[models.CompetitorID]bool)
	for _, match := range matches {
		if match.Round != t.CurrentRound {
			continue
		}
		if match.Participant2 == nil {
			byes[match.Participant1] = true
		} else {
			played[models.PairKey(match.Participant1, *match.Participant2)] = true
		}
	}

	for _, pairing := range pairings {
		if pairing.IsBye() {
			if !byes[pairing.Participant1] {
				return false, nil
			}
			continue
		}
		if !played[models.PairKey(pairing.Participant1, *pairing.Participant2)] {
			return false, nil
		}
	}
	return true, nil
}

func (m *tournamentManager) AdvanceToNextRound(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsComplete() {
		return nil, ErrTournamentComplete
	}

	matches, err := m.repo.LoadMatches(ctx, id)
	if err != nil {
		return nil, err
	}
	complete, err := m.roundComplete(t, matches)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, ErrRoundNotComplete
	}

	t.CurrentRound++
	if err := m.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to advance round: %w", err)
	}
	m.logger.Info("round advanced",
		slog.String("tournament_id", id),
		slog.Int("current_round", t.CurrentRound),
		slog.Int("total_rounds", t.TotalRounds))

	if t.IsComplete() {
		// Qualification just ended; cut over to the playoff. Fields too
		// small for a 16-entrant bracket simply finish without one.
		if _, err := m.InitializeBracket(ctx, id); err != nil && !errors.Is(err, brackets.ErrNotEnoughQualifiers) {
			return nil, err
		}
	}

	m.broadcast(id, "ROUND_ADVANCED", t)
	return t, nil
}

func (m *tournamentManager) InitializeBracket(ctx context.Context, id string) (*models.Bracket, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	// Idempotent: an already-initialized bracket is returned untouched.
	existing, err := m.repo.LoadBracket(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrBracketNotFound) {
		return nil, err
	}

	if !t.IsComplete() {
		return nil, ErrTournamentNotComplete
	}

	pool := make([]models.CompetitorID, len(t.Participants))
	standings := make(map[models.CompetitorID]int, len(t.Participants))
	for i, p := range t.Participants {
		pool[i] = p.ID
		standings[p.ID] = p.Score
	}

	bracket, err := brackets.BuildDoubleElimination(pool, standings)
	if err != nil {
		return nil, err
	}
	if err := m.repo.SaveBracket(ctx, id, bracket); err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", err)
	}

	m.logger.Info("bracket initialized", slog.String("tournament_id", id))
	m.broadcast(id, "BRACKET_UPDATED", bracket)
	return bracket, nil
}

func (m *tournamentManager) GetBracket(ctx context.Context, id string) (*models.Bracket, error) {
	return m.loadBracket(ctx, id)
}

func (m *tournamentManager) GetNextBracketMatch(ctx context.Context, id string) (*models.BracketMatch, error) {
	bracket, err := m.loadBracket(ctx, id)
	if err != nil {
		return nil, err
	}
	match, ok := brackets.NextVotableMatch(bracket)
	if !ok {
		return nil, nil
	}
	return &match, nil
}

func (m *tournamentManager) RecordBracketMatchResult(ctx context.Context, id, matchID, winner string) (*models.Bracket, error) {
	bracket, err := m.loadBracket(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := brackets.RecordResult(bracket, matchID, models.NewCompetitorID(winner))
	if err != nil {
		return nil, err
	}
	if err := m.repo.SaveBracket(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", err)
	}

	metrics.ResultsRecorded.Inc()
	if next.IsComplete() {
		metrics.BracketsCompleted.Inc()
		m.logger.Info("bracket complete",
			slog.String("tournament_id", id),
			slog.String("champion", next.GrandFinal().Winner.String()))
	}
	m.broadcast(id, "BRACKET_UPDATED", next)
	return next, nil
}

func (m *tournamentManager) IsBracketComplete(ctx context.Context, id string) (bool, error) {
	bracket, err := m.loadBracket(ctx, id)
	if err != nil {
		return false, err
	}
	return brackets.IsComplete(bracket), nil
}

func (m *tournamentManager) GetCurrentStandings(ctx context.Context, id string) ([]models.Standing, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Standings(), nil
}

func (m *tournamentManager) GetFinalStandings(ctx context.Context, id string) ([]models.Standing, error) {
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsComplete() {
		return nil, ErrTournamentNotComplete
	}
	return t.Standings(), nil
}

func (m *tournamentManager) UploadBanner(ctx context.Context, id, contentType string, banner io.Reader) (*models.Tournament, error) {
	if m.uploader == nil {
		return nil, errors.New("banner storage is not configured")
	}
	t, err := m.findTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%s/banner", t.ID)
	result, err := m.uploader.Upload(ctx, key, contentType, banner)
	if err != nil {
		return nil, fmt.Errorf("failed to upload banner: %w", err)
	}

	t.BannerKey = &result.Key
	t.BannerURL = &result.Location
	if err := m.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save banner key: %w", err)
	}
	return t, nil
}

func (m *tournamentManager) findTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	m.resolveBannerURL(t)
	return t, nil
}

func (m *tournamentManager) loadBracket(ctx context.Context, id string) (*models.Bracket, error) {
	if _, err := m.findTournament(ctx, id); err != nil {
		return nil, err
	}
	bracket, err := m.repo.LoadBracket(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return nil, ErrBracketNotInitialized
		}
		return nil, err
	}
	return bracket, nil
}

func (m *tournamentManager) resolveBannerURL(t *models.Tournament) {
	if m.uploader == nil || t.BannerKey == nil {
		return
	}
	url := m.uploader.GetPublicURL(*t.BannerKey)
	if url != "" {
		t.BannerURL = &url
	}
}

func (m *tournamentManager) broadcast(roomID, eventType string, payload interface{}) {
	if m.notifier == nil {
		return
	}
	m.notifier.BroadcastToRoom(roomID, brackets.Event{Type: eventType, Payload: payload})
}

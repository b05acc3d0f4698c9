package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bryler/creature-arena/models"
	"github.com/lib/pq"
)

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

// Save upserts the tournament row. Participants travel as a JSONB document
// so the whole aggregate lands in one statement, matching the contract's
// single-save semantics.
func (r *postgresTournamentRepository) Save(ctx context.Context, t *models.Tournament) error {
	participants, err := json.Marshal(t.Participants)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}

	query := `
		INSERT INTO tournaments (id, owner_email, participants, current_round, total_rounds, created_at, banner_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			owner_email   = EXCLUDED.owner_email,
			participants  = EXCLUDED.participants,
			current_round = EXCLUDED.current_round,
			total_rounds  = EXCLUDED.total_rounds,
			banner_key    = EXCLUDED.banner_key`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.OwnerEmail, participants, t.CurrentRound, t.TotalRounds, t.CreatedAt, t.BannerKey,
	)
	return r.handleError(err)
}

func (r *postgresTournamentRepository) FindByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, owner_email, participants, current_round, total_rounds, created_at, banner_key
		FROM tournaments
		WHERE id = $1`

	t, err := r.scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) FindByOwner(ctx context.Context, ownerEmail string) ([]models.Tournament, error) {
	query := `
		SELECT id, owner_email, participants, current_round, total_rounds, created_at, banner_key
		FROM tournaments
		WHERE owner_email = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	// Matches and bracket rows cascade via their FK constraints.
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SaveMatch(ctx context.Context, tournamentID string, match models.Match) error {
	var p2 *string
	if match.Participant2 != nil {
		s := match.Participant2.String()
		p2 = &s
	}
	var outcome *string
	var winner *string
	if match.Result != nil {
		o := string(match.Result.Outcome)
		outcome = &o
		if match.Result.Winner != nil {
			w := match.Result.Winner.String()
			winner = &w
		}
	}

	query := `
		INSERT INTO matches (tournament_id, round, participant1, participant2, outcome, winner)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		tournamentID, match.Round, match.Participant1.String(), p2, outcome, winner,
	)
	return r.handleError(err)
}

func (r *postgresTournamentRepository) LoadMatches(ctx context.Context, tournamentID string) ([]models.Match, error) {
	query := `
		SELECT round, participant1, participant2, outcome, winner
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round, id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m       models.Match
			p1      string
			p2      sql.NullString
			outcome sql.NullString
			winner  sql.NullString
		)
		if scanErr := rows.Scan(&m.Round, &p1, &p2, &outcome, &winner); scanErr != nil {
			return nil, scanErr
		}
		m.Participant1 = models.CompetitorID(p1)
		if p2.Valid {
			id := models.CompetitorID(p2.String)
			m.Participant2 = &id
		}
		if outcome.Valid {
			result := &models.Result{Outcome: models.Outcome(outcome.String)}
			if winner.Valid {
				id := models.CompetitorID(winner.String)
				result.Winner = &id
			}
			m.Result = result
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresTournamentRepository) LoadBracket(ctx context.Context, tournamentID string) (*models.Bracket, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM brackets WHERE tournament_id = $1`, tournamentID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}

	bracket := &models.Bracket{}
	if err := json.Unmarshal(data, bracket); err != nil {
		return nil, fmt.Errorf("failed to decode bracket for tournament %s: %w", tournamentID, err)
	}
	return bracket, nil
}

func (r *postgresTournamentRepository) SaveBracket(ctx context.Context, tournamentID string, bracket *models.Bracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to encode bracket for tournament %s: %w", tournamentID, err)
	}

	query := `
		INSERT INTO brackets (tournament_id, data)
		VALUES ($1, $2)
		ON CONFLICT (tournament_id) DO UPDATE SET data = EXCLUDED.data`

	_, err = r.db.ExecContext(ctx, query, tournamentID, data)
	return r.handleError(err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresTournamentRepository) scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var participants []byte
	if err := row.Scan(
		&t.ID, &t.OwnerEmail, &participants, &t.CurrentRound, &t.TotalRounds, &t.CreatedAt, &t.BannerKey,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &t.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// FK violations on matches/brackets mean the referenced tournament
		// is gone.
		if pqErr.Code == "23503" {
			return ErrTournamentNotFound
		}
	}
	return err
}

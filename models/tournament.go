package models

import "time"

// Tournament is the aggregate root of a qualification run. Participants are
// kept in enrollment order; standings callers sort as needed. CurrentRound
// starts at 0 and only moves forward.
type Tournament struct {
	ID           string        `json:"id"`
	OwnerEmail   string        `json:"owner_email"`
	Participants []Participant `json:"participants"`
	CurrentRound int           `json:"current_round"`
	TotalRounds  int           `json:"total_rounds"`
	CreatedAt    time.Time     `json:"created_at"`

	BannerKey *string `json:"-"`
	BannerURL *string `json:"banner_url,omitempty"`
}

func (t *Tournament) IsComplete() bool {
	return t.CurrentRound >= t.TotalRounds
}

// FindParticipant returns a pointer into the participant list so the caller
// can mutate the record in place before persisting the tournament.
func (t *Tournament) FindParticipant(id CompetitorID) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

func (t *Tournament) HasParticipant(id CompetitorID) bool {
	return t.FindParticipant(id) != nil
}

// Standing is one row of a standings listing, in participant-list order.
type Standing struct {
	Participant CompetitorID `json:"participant"`
	Score       int          `json:"score"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	Draws       int          `json:"draws"`
}

func (t *Tournament) Standings() []Standing {
	standings := make([]Standing, 0, len(t.Participants))
	for _, p := range t.Participants {
		standings = append(standings, Standing{
			Participant: p.ID,
			Score:       p.Score,
			Wins:        p.Wins,
			Losses:      p.Losses,
			Draws:       p.Draws,
		})
	}
	return standings
}

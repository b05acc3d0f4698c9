package models

// Participant is a competitor enrolled in a tournament together with its
// cumulative qualification record. Score always equals 3*Wins + Draws;
// the counters are only ever incremented, via the mutators below.
type Participant struct {
	ID     CompetitorID `json:"id"`
	Wins   int          `json:"wins"`
	Losses int          `json:"losses"`
	Draws  int          `json:"draws"`
	Score  int          `json:"score"`
}

func NewParticipant(id CompetitorID) Participant {
	return Participant{ID: id}
}

func (p *Participant) AddWin() {
	p.Wins++
	p.Score += WinScore
}

func (p *Participant) AddLoss() {
	p.Losses++
}

func (p *Participant) AddDraw() {
	p.Draws++
	p.Score += DrawScore
}

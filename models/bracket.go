package models

import "time"

// Bracket is the stored envelope around one built match collection.
type Bracket struct {
	ID               string    `json:"id" db:"id"`
	TournamentID     *string   `json:"tournament_id,omitempty" db:"tournament_id"`
	Format           Format    `json:"format" db:"format"`
	ParticipantCount int       `json:"participant_count" db:"participant_count"`
	BracketSize      int       `json:"bracket_size" db:"bracket_size"`
	ByeCount         int       `json:"bye_count" db:"bye_count"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	Matches []Match `json:"matches" db:"-"`
}

// Standing is one row of a round-robin table.
type Standing struct {
	Participant   Participant `json:"participant"`
	Played        int         `json:"played"`
	Wins          int         `json:"wins"`
	Losses        int         `json:"losses"`
	PointsFor     int         `json:"points_for"`
	PointsAgainst int         `json:"points_against"`
}

// Differential is points scored minus points conceded.
func (s Standing) Differential() int {
	return s.PointsFor - s.PointsAgainst
}

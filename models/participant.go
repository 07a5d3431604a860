package models

type ParticipantID string

// Participant is the display identity bound to a seed. Placeholders are created with the
// bracket and stay placeholders until a real name is bound.
type Participant struct {
	ID            ParticipantID `json:"id"`
	Name          string        `json:"name"`
	Seed          *int          `json:"seed,omitempty"`
	IsPlaceholder bool          `json:"isPlaceholder"`
}

func (p Participant) Clone() Participant {
	c := p
	if p.Seed != nil {
		s := *p.Seed
		c.Seed = &s
	}
	return c
}

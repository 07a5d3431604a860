package models

import "fmt"

type MatchID string

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusBye       MatchStatus = "bye"
)

// IsTerminal reports whether no transition out of the status exists.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusBye
}

func ParseMatchStatus(s string) (MatchStatus, error) {
	switch st := MatchStatus(s); st {
	case MatchStatusPending, MatchStatusScheduled, MatchStatusLive, MatchStatusCompleted, MatchStatusBye:
		return st, nil
	default:
		return "", fmt.Errorf("unknown match status %q", s)
	}
}

// BracketSegment tags which part of the bracket a match belongs to.
type BracketSegment string

const (
	SegmentWinners    BracketSegment = "winners"
	SegmentLosers     BracketSegment = "losers"
	SegmentGrandFinal BracketSegment = "grand_final"
	SegmentRoundRobin BracketSegment = "round_robin"
)

func ParseBracketSegment(s string) (BracketSegment, error) {
	switch seg := BracketSegment(s); seg {
	case SegmentWinners, SegmentLosers, SegmentGrandFinal, SegmentRoundRobin:
		return seg, nil
	default:
		return "", fmt.Errorf("unknown bracket segment %q", s)
	}
}

// Slot is one of the two participant positions of a match.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

func (s Slot) Valid() bool { return s == Slot1 || s == Slot2 }

// Link is a forward destination: the match and slot a resolved participant advances into.
type Link struct {
	MatchID MatchID
	Slot    Slot
}

// Match is the persisted shape of a single bracket match. Forward links are flattened into
// nullable id/slot pairs so the record round-trips through storage unchanged.
type Match struct {
	ID           MatchID        `json:"id"`
	Round        int            `json:"round"`
	MatchNumber  int            `json:"matchNumber"`
	Bracket      BracketSegment `json:"bracket"`
	Position     int            `json:"position"`
	Participant1 *Participant   `json:"participant1"`
	Participant2 *Participant   `json:"participant2"`
	Score1       int            `json:"score1"`
	Score2       int            `json:"score2"`
	Status       MatchStatus    `json:"status"`
	WinnerID     *ParticipantID `json:"winnerId"`

	NextMatchID    *MatchID `json:"nextMatchId"`
	NextMatchSlot  *Slot    `json:"nextMatchSlot"`
	LoserMatchID   *MatchID `json:"loserMatchId,omitempty"`
	LoserMatchSlot *Slot    `json:"loserMatchSlot,omitempty"`
}

// WinnerLink returns the winner destination, if any.
func (m *Match) WinnerLink() (Link, bool) {
	if m.NextMatchID == nil || m.NextMatchSlot == nil {
		return Link{}, false
	}
	return Link{MatchID: *m.NextMatchID, Slot: *m.NextMatchSlot}, true
}

// LoserLink returns the loser destination, if any. Only winners-bracket matches of a double
// elimination bracket carry one.
func (m *Match) LoserLink() (Link, bool) {
	if m.LoserMatchID == nil || m.LoserMatchSlot == nil {
		return Link{}, false
	}
	return Link{MatchID: *m.LoserMatchID, Slot: *m.LoserMatchSlot}, true
}

func (m *Match) SetWinnerLink(l Link) {
	id, slot := l.MatchID, l.Slot
	m.NextMatchID = &id
	m.NextMatchSlot = &slot
}

func (m *Match) SetLoserLink(l Link) {
	id, slot := l.MatchID, l.Slot
	m.LoserMatchID = &id
	m.LoserMatchSlot = &slot
}

// ParticipantAt returns the participant in the given slot, or nil.
func (m *Match) ParticipantAt(s Slot) *Participant {
	if s == Slot1 {
		return m.Participant1
	}
	return m.Participant2
}

func (m *Match) SetParticipantAt(s Slot, p *Participant) {
	if s == Slot1 {
		m.Participant1 = p
		return
	}
	m.Participant2 = p
}

// HasBothParticipants reports whether both slots are populated.
func (m *Match) HasBothParticipants() bool {
	return m.Participant1 != nil && m.Participant2 != nil
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (m Match) Clone() Match {
	c := m
	if m.Participant1 != nil {
		p := m.Participant1.Clone()
		c.Participant1 = &p
	}
	if m.Participant2 != nil {
		p := m.Participant2.Clone()
		c.Participant2 = &p
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		c.WinnerID = &w
	}
	c.NextMatchID, c.NextMatchSlot = cloneLink(m.NextMatchID, m.NextMatchSlot)
	c.LoserMatchID, c.LoserMatchSlot = cloneLink(m.LoserMatchID, m.LoserMatchSlot)
	return c
}

func cloneLink(id *MatchID, slot *Slot) (*MatchID, *Slot) {
	var idCopy *MatchID
	var slotCopy *Slot
	if id != nil {
		v := *id
		idCopy = &v
	}
	if slot != nil {
		v := *slot
		slotCopy = &v
	}
	return idCopy, slotCopy
}

// CloneMatches deep-copies a collection.
func CloneMatches(matches []Match) []Match {
	out := make([]Match, len(matches))
	for i := range matches {
		out[i] = matches[i].Clone()
	}
	return out
}

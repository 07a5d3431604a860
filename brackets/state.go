package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

var allowedTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusPending:   {models.MatchStatusScheduled, models.MatchStatusLive},
	models.MatchStatusScheduled: {models.MatchStatusLive},
	models.MatchStatusLive:      {models.MatchStatusCompleted},
}

// CanTransition reports whether the status graph allows from -> to, ignoring match contents.
// Bye is never a target: it is only assigned when a bracket is built.
func CanTransition(from, to models.MatchStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves a match to target and returns the updated copy. Scheduling or starting a
// match requires both participants; completing it requires distinct scores, and the higher
// score becomes the winner. Transition does not propagate results; use Complete for that.
func Transition(m models.Match, target models.MatchStatus) (models.Match, error) {
	if m.Status.IsTerminal() {
		return models.Match{}, fmt.Errorf("%w: match %s is already %s", ErrInvalidState, m.ID, m.Status)
	}
	if !CanTransition(m.Status, target) {
		return models.Match{}, fmt.Errorf("%w: match %s cannot move from %s to %s", ErrInvalidState, m.ID, m.Status, target)
	}

	next := m.Clone()
	switch target {
	case models.MatchStatusScheduled, models.MatchStatusLive:
		if !m.HasBothParticipants() {
			return models.Match{}, fmt.Errorf("%w: match %s is still waiting for participants", ErrInvalidState, m.ID)
		}
	case models.MatchStatusCompleted:
		winner, _, err := decide(&m, m.Score1, m.Score2)
		if err != nil {
			return models.Match{}, err
		}
		next.WinnerID = participantIDPtr(winner.ID)
	}
	next.Status = target
	return next, nil
}

// decide picks winner and loser for the given scores.
func decide(m *models.Match, score1, score2 int) (winner, loser *models.Participant, err error) {
	if score1 < 0 || score2 < 0 {
		return nil, nil, fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidInput, score1, score2)
	}
	if score1 == score2 {
		return nil, nil, fmt.Errorf("%w (match %s, %d-%d)", ErrTiedScore, m.ID, score1, score2)
	}
	if !m.HasBothParticipants() {
		return nil, nil, fmt.Errorf("%w: match %s is missing a participant", ErrInvalidState, m.ID)
	}
	if score1 > score2 {
		return m.Participant1, m.Participant2, nil
	}
	return m.Participant2, m.Participant1, nil
}

package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// Complete records the final score of a scheduled or live match, marks it completed, and
// writes the winner (and, in double elimination, the loser) into the linked downstream slots.
//
// The input collection is never modified. On success a new collection is returned; on
// failure the error is returned and the caller's collection is still valid. Completing a
// match again with the same score is a no-op, which makes retries safe.
func Complete(matches []models.Match, matchID models.MatchID, score1, score2 int) ([]models.Match, error) {
	positions, err := indexMatches(matches)
	if err != nil {
		return nil, err
	}
	idx, ok := positions[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	current := &matches[idx]

	if score1 < 0 || score2 < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidInput, score1, score2)
	}
	if score1 == score2 {
		return nil, fmt.Errorf("%w (match %s, %d-%d)", ErrTiedScore, matchID, score1, score2)
	}

	switch current.Status {
	case models.MatchStatusCompleted:
		if current.Score1 == score1 && current.Score2 == score2 {
			return models.CloneMatches(matches), nil
		}
		return nil, fmt.Errorf("%w: match %s already completed %d-%d", ErrConflict, matchID, current.Score1, current.Score2)
	case models.MatchStatusScheduled, models.MatchStatusLive:
	default:
		return nil, fmt.Errorf("%w: match %s is %s, only scheduled or live matches can be completed", ErrInvalidState, matchID, current.Status)
	}

	winner, loser, err := decide(current, score1, score2)
	if err != nil {
		return nil, err
	}

	out := models.CloneMatches(matches)
	m := &out[idx]
	m.Score1, m.Score2 = score1, score2
	m.Status = models.MatchStatusCompleted
	m.WinnerID = participantIDPtr(winner.ID)

	if link, ok := m.WinnerLink(); ok {
		if err := place(out, positions, link, winner); err != nil {
			return nil, err
		}
	}
	if link, ok := m.LoserLink(); ok {
		if err := place(out, positions, link, loser); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateScore sets the running score of a live match. Ties are allowed here; they are only
// rejected when the match is completed.
func UpdateScore(matches []models.Match, matchID models.MatchID, score1, score2 int) ([]models.Match, error) {
	idx, err := findMatch(matches, matchID)
	if err != nil {
		return nil, err
	}
	if score1 < 0 || score2 < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidInput, score1, score2)
	}
	if matches[idx].Status != models.MatchStatusLive {
		return nil, fmt.Errorf("%w: match %s is %s, scores can only change while live", ErrInvalidState, matchID, matches[idx].Status)
	}
	out := models.CloneMatches(matches)
	out[idx].Score1, out[idx].Score2 = score1, score2
	return out, nil
}

// ApplyTransition applies Transition to one match of the collection. Moving to completed goes
// through Complete with the match's current score so the result is propagated.
func ApplyTransition(matches []models.Match, matchID models.MatchID, target models.MatchStatus) ([]models.Match, error) {
	idx, err := findMatch(matches, matchID)
	if err != nil {
		return nil, err
	}
	if target == models.MatchStatusCompleted && matches[idx].Status == models.MatchStatusLive {
		return Complete(matches, matchID, matches[idx].Score1, matches[idx].Score2)
	}
	next, err := Transition(matches[idx], target)
	if err != nil {
		return nil, err
	}
	out := models.CloneMatches(matches)
	out[idx] = next
	return out, nil
}

// place writes p into the linked slot. An empty slot is filled; the same participant already
// there is a replay and changes nothing; anyone else is a conflict. A bye match receiving its
// only participant resolves at once and hands the participant to its own destination.
func place(matches []models.Match, positions map[models.MatchID]int, link models.Link, p *models.Participant) error {
	for {
		idx, ok := positions[link.MatchID]
		if !ok {
			return fmt.Errorf("%w: linked match %s", ErrNotFound, link.MatchID)
		}
		if !link.Slot.Valid() {
			return fmt.Errorf("%w: match %s has invalid slot %d", ErrInvalidState, link.MatchID, link.Slot)
		}
		target := &matches[idx]

		if occupant := target.ParticipantAt(link.Slot); occupant != nil {
			if occupant.ID == p.ID {
				return nil
			}
			return fmt.Errorf("%w: slot %d of match %s already holds %s, refusing to overwrite with %s",
				ErrConflict, link.Slot, target.ID, occupant.ID, p.ID)
		}
		if target.Status != models.MatchStatusPending && target.Status != models.MatchStatusBye {
			return fmt.Errorf("%w: match %s is %s with an empty slot", ErrInvalidState, target.ID, target.Status)
		}

		c := p.Clone()
		target.SetParticipantAt(link.Slot, &c)
		if target.Status != models.MatchStatusBye {
			return nil
		}

		target.WinnerID = participantIDPtr(p.ID)
		next, ok := target.WinnerLink()
		if !ok {
			return nil
		}
		link = next
	}
}

func indexMatches(matches []models.Match) (map[models.MatchID]int, error) {
	positions := make(map[models.MatchID]int, len(matches))
	for i := range matches {
		if _, dup := positions[matches[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate match id %s", ErrInvalidInput, matches[i].ID)
		}
		positions[matches[i].ID] = i
	}
	return positions, nil
}

func findMatch(matches []models.Match, matchID models.MatchID) (int, error) {
	for i := range matches {
		if matches[i].ID == matchID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
}

package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// Validate checks the structure of a collection handed back by storage before it is mutated:
// ids are unique, every link points at an existing match with a larger match number, and an
// elimination bracket has exactly one match without a winner destination.
func Validate(matches []models.Match) error {
	positions, err := indexMatches(matches)
	if err != nil {
		return err
	}

	terminal := 0
	elimination := false
	for i := range matches {
		m := &matches[i]
		if m.Bracket != models.SegmentRoundRobin {
			elimination = true
		}
		if m.Round < 1 {
			return fmt.Errorf("%w: match %s has round %d", ErrInvalidState, m.ID, m.Round)
		}
		if m.Score1 < 0 || m.Score2 < 0 {
			return fmt.Errorf("%w: match %s has a negative score", ErrInvalidState, m.ID)
		}

		winnerLink, hasWinnerLink := m.WinnerLink()
		if !hasWinnerLink {
			terminal++
		}
		loserLink, hasLoserLink := m.LoserLink()
		for _, l := range []struct {
			link models.Link
			ok   bool
		}{{winnerLink, hasWinnerLink}, {loserLink, hasLoserLink}} {
			if !l.ok {
				continue
			}
			target, found := positions[l.link.MatchID]
			if !found {
				return fmt.Errorf("%w: match %s links to unknown match %s", ErrNotFound, m.ID, l.link.MatchID)
			}
			if !l.link.Slot.Valid() {
				return fmt.Errorf("%w: match %s links to slot %d", ErrInvalidState, m.ID, l.link.Slot)
			}
			if matches[target].MatchNumber <= m.MatchNumber {
				return fmt.Errorf("%w: match %s links backwards to %s", ErrInvalidState, m.ID, l.link.MatchID)
			}
		}
	}

	if elimination && terminal != 1 {
		return fmt.Errorf("%w: expected exactly one terminal match, found %d", ErrInvalidState, terminal)
	}
	return nil
}

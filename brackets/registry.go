package brackets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/bracket-engine/models"
)

// Rename binds a display name to a participant everywhere it appears and clears its
// placeholder flag. Identities are never created or removed, so renaming twice with the same
// arguments gives the same collection as renaming once.
func Rename(matches []models.Match, participantID models.ParticipantID, name string) ([]models.Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name must not be empty", ErrInvalidInput)
	}

	out := models.CloneMatches(matches)
	found := false
	for i := range out {
		for _, p := range []*models.Participant{out[i].Participant1, out[i].Participant2} {
			if p == nil || p.ID != participantID {
				continue
			}
			p.Name = name
			p.IsPlaceholder = false
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	return out, nil
}

// CollectParticipants returns each participant once, seeded ones by ascending seed, then
// unseeded ones in order of first appearance.
func CollectParticipants(matches []models.Match) []models.Participant {
	seen := make(map[models.ParticipantID]struct{})
	participants := make([]models.Participant, 0)
	for i := range matches {
		for _, p := range []*models.Participant{matches[i].Participant1, matches[i].Participant2} {
			if p == nil {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			participants = append(participants, p.Clone())
		}
	}

	sort.SliceStable(participants, func(i, j int) bool {
		a, b := participants[i].Seed, participants[j].Seed
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return participants
}

// FindParticipant looks a participant up by id.
func FindParticipant(matches []models.Match, participantID models.ParticipantID) (models.Participant, error) {
	for _, p := range CollectParticipants(matches) {
		if p.ID == participantID {
			return p, nil
		}
	}
	return models.Participant{}, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
}

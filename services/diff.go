package services

import (
	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
)

// changedMatches returns the matches of after whose stored columns differ from before.
// Structure (rounds, links) never changes after a bracket is built, so only the mutable
// columns are compared.
func changedMatches(before, after []models.Match) []models.Match {
	prev := make(map[models.MatchID]models.Match, len(before))
	for _, m := range before {
		prev[m.ID] = m
	}

	var out []models.Match
	for _, m := range after {
		old, ok := prev[m.ID]
		if !ok || matchStateDiffers(old, m) {
			out = append(out, m)
		}
	}
	return out
}

func matchStateDiffers(a, b models.Match) bool {
	return a.Status != b.Status ||
		a.Score1 != b.Score1 ||
		a.Score2 != b.Score2 ||
		participantIDOf(a.Participant1) != participantIDOf(b.Participant1) ||
		participantIDOf(a.Participant2) != participantIDOf(b.Participant2) ||
		winnerOf(a) != winnerOf(b)
}

// changedParticipants returns participant records of after whose name or placeholder flag
// differ from before.
func changedParticipants(before, after []models.Match) []models.Participant {
	prev := make(map[models.ParticipantID]models.Participant)
	for _, p := range brackets.CollectParticipants(before) {
		prev[p.ID] = p
	}

	var out []models.Participant
	for _, p := range brackets.CollectParticipants(after) {
		old, ok := prev[p.ID]
		if !ok || old.Name != p.Name || old.IsPlaceholder != p.IsPlaceholder {
			out = append(out, p)
		}
	}
	return out
}

func participantIDOf(p *models.Participant) models.ParticipantID {
	if p == nil {
		return ""
	}
	return p.ID
}

func winnerOf(m models.Match) models.ParticipantID {
	if m.WinnerID == nil {
		return ""
	}
	return *m.WinnerID
}

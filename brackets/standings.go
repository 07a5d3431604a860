package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// Standings tallies completed matches into a table ordered by wins, point differential,
// points scored and finally seed. Every participant appears, including those yet to play.
func Standings(matches []models.Match) []models.Standing {
	participants := CollectParticipants(matches)
	rows := make(map[models.ParticipantID]*models.Standing, len(participants))
	table := make([]models.Standing, len(participants))
	for i, p := range participants {
		table[i] = models.Standing{Participant: p}
		rows[p.ID] = &table[i]
	}

	for i := range matches {
		m := &matches[i]
		if m.Status != models.MatchStatusCompleted || !m.HasBothParticipants() || m.WinnerID == nil {
			continue
		}
		home, away := rows[m.Participant1.ID], rows[m.Participant2.ID]
		home.Played++
		away.Played++
		home.PointsFor += m.Score1
		home.PointsAgainst += m.Score2
		away.PointsFor += m.Score2
		away.PointsAgainst += m.Score1
		if *m.WinnerID == m.Participant1.ID {
			home.Wins++
			away.Losses++
		} else {
			away.Wins++
			home.Losses++
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Differential() != b.Differential() {
			return a.Differential() > b.Differential()
		}
		return a.PointsFor > b.PointsFor
	})
	return table
}

// Champion returns the winner of the terminal match once it has been decided. Round robin has
// no terminal match; use Standings instead.
func Champion(matches []models.Match) (models.Participant, bool) {
	for i := range matches {
		m := &matches[i]
		if m.Bracket == models.SegmentRoundRobin {
			return models.Participant{}, false
		}
		if _, hasNext := m.WinnerLink(); hasNext || m.WinnerID == nil {
			continue
		}
		for _, p := range []*models.Participant{m.Participant1, m.Participant2} {
			if p != nil && p.ID == *m.WinnerID {
				return p.Clone(), true
			}
		}
	}
	return models.Participant{}, false
}

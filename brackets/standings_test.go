package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeRoundRobinMatch(t *testing.T, matches []models.Match, a, b models.ParticipantID, scoreA, scoreB int) []models.Match {
	t.Helper()
	for _, m := range matches {
		if !m.HasBothParticipants() {
			continue
		}
		s1, s2 := scoreA, scoreB
		switch {
		case m.Participant1.ID == a && m.Participant2.ID == b:
		case m.Participant1.ID == b && m.Participant2.ID == a:
			s1, s2 = scoreB, scoreA
		default:
			continue
		}
		var err error
		matches, err = ApplyTransition(matches, m.ID, models.MatchStatusLive)
		require.NoError(t, err)
		matches, err = Complete(matches, m.ID, s1, s2)
		require.NoError(t, err)
		return matches
	}
	t.Fatalf("no match between %s and %s", a, b)
	return nil
}

func TestStandings_RoundRobin(t *testing.T) {
	matches := mustBuild(t, 4, models.FormatRoundRobin)
	matches = completeRoundRobinMatch(t, matches, "p1", "p2", 3, 0)
	matches = completeRoundRobinMatch(t, matches, "p3", "p4", 2, 1)
	matches = completeRoundRobinMatch(t, matches, "p2", "p4", 5, 4)
	matches = completeRoundRobinMatch(t, matches, "p3", "p1", 1, 0)

	table := Standings(matches)
	require.Len(t, table, 4)

	order := make([]models.ParticipantID, len(table))
	for i, row := range table {
		order[i] = row.Participant.ID
	}
	// p3: 2 wins (+2), p1: 1 win (+2), p2: 1 win (-2), p4: 0 wins.
	assert.Equal(t, []models.ParticipantID{"p3", "p1", "p2", "p4"}, order)

	p1 := table[1]
	assert.Equal(t, 2, p1.Played)
	assert.Equal(t, 1, p1.Wins)
	assert.Equal(t, 1, p1.Losses)
	assert.Equal(t, 3, p1.PointsFor)
	assert.Equal(t, 1, p1.PointsAgainst)
	assert.Equal(t, 2, p1.Differential())
}

func TestStandings_UnplayedKeepSeedOrder(t *testing.T) {
	table := Standings(mustBuild(t, 5, models.FormatRoundRobin))
	require.Len(t, table, 5)
	for i, row := range table {
		assert.Equal(t, 0, row.Played)
		require.NotNil(t, row.Participant.Seed)
		assert.Equal(t, i+1, *row.Participant.Seed)
	}
}

func TestChampion(t *testing.T) {
	matches := mustBuild(t, 2, models.FormatSingleElimination)
	_, ok := Champion(matches)
	assert.False(t, ok, "undecided final has no champion")

	matches, err := ApplyTransition(matches, "m1", models.MatchStatusLive)
	require.NoError(t, err)
	matches, err = Complete(matches, "m1", 0, 1)
	require.NoError(t, err)

	champion, ok := Champion(matches)
	require.True(t, ok)
	assert.Equal(t, models.ParticipantID("p2"), champion.ID)
}

func TestChampion_RoundRobinHasNone(t *testing.T) {
	matches := mustBuild(t, 2, models.FormatRoundRobin)
	matches = completeRoundRobinMatch(t, matches, "p1", "p2", 2, 0)

	_, ok := Champion(matches)
	assert.False(t, ok)
}

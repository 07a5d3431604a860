package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, n int, format models.Format, opts ...BuildOption) []models.Match {
	t.Helper()
	matches, err := Build(n, format, opts...)
	require.NoError(t, err)
	return matches
}

func matchByID(t *testing.T, matches []models.Match, id models.MatchID) models.Match {
	t.Helper()
	for _, m := range matches {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("match %s not found", id)
	return models.Match{}
}

func countSegment(matches []models.Match, segment models.BracketSegment) int {
	n := 0
	for _, m := range matches {
		if m.Bracket == segment {
			n++
		}
	}
	return n
}

func terminalMatches(matches []models.Match) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if _, ok := m.WinnerLink(); !ok {
			out = append(out, m)
		}
	}
	return out
}

func seedOf(p *models.Participant) int {
	if p == nil || p.Seed == nil {
		return 1 << 30
	}
	return *p.Seed
}

// playOut starts and completes every playable match until none is left. The better seed
// always wins 2-1.
func playOut(t *testing.T, matches []models.Match) []models.Match {
	t.Helper()
	for guard := 0; guard < 10_000; guard++ {
		next := -1
		for i, m := range matches {
			if m.Status == models.MatchStatusPending && m.HasBothParticipants() {
				next = i
				break
			}
		}
		if next < 0 {
			return matches
		}

		m := matches[next]
		var err error
		matches, err = ApplyTransition(matches, m.ID, models.MatchStatusLive)
		require.NoError(t, err)

		score1, score2 := 2, 1
		if seedOf(m.Participant2) < seedOf(m.Participant1) {
			score1, score2 = 1, 2
		}
		matches, err = Complete(matches, m.ID, score1, score2)
		require.NoError(t, err, "completing %s", m.ID)
	}
	t.Fatal("bracket did not finish")
	return nil
}

package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	statuses := []models.MatchStatus{
		models.MatchStatusPending,
		models.MatchStatusScheduled,
		models.MatchStatusLive,
		models.MatchStatusCompleted,
		models.MatchStatusBye,
	}
	allowed := map[[2]models.MatchStatus]bool{
		{models.MatchStatusPending, models.MatchStatusScheduled}: true,
		{models.MatchStatusPending, models.MatchStatusLive}:      true,
		{models.MatchStatusScheduled, models.MatchStatusLive}:    true,
		{models.MatchStatusLive, models.MatchStatusCompleted}:    true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]models.MatchStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func readyMatch() models.Match {
	s1, s2 := 1, 2
	return models.Match{
		ID:           "m1",
		Round:        1,
		MatchNumber:  1,
		Bracket:      models.SegmentWinners,
		Position:     1,
		Participant1: &models.Participant{ID: "a", Name: "A", Seed: &s1},
		Participant2: &models.Participant{ID: "b", Name: "B", Seed: &s2},
		Status:       models.MatchStatusPending,
	}
}

func TestTransition(t *testing.T) {
	m := readyMatch()

	scheduled, err := Transition(m, models.MatchStatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, scheduled.Status)
	assert.Equal(t, models.MatchStatusPending, m.Status, "input must stay untouched")

	live, err := Transition(scheduled, models.MatchStatusLive)
	require.NoError(t, err)
	live.Score1, live.Score2 = 1, 3

	done, err := Transition(live, models.MatchStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, done.Status)
	require.NotNil(t, done.WinnerID)
	assert.Equal(t, models.ParticipantID("b"), *done.WinnerID)
}

func TestTransition_Rejections(t *testing.T) {
	waiting := readyMatch()
	waiting.Participant2 = nil

	live := readyMatch()
	live.Status = models.MatchStatusLive
	live.Score1, live.Score2 = 2, 2

	completed := readyMatch()
	completed.Status = models.MatchStatusCompleted

	bye := readyMatch()
	bye.Status = models.MatchStatusBye

	tests := []struct {
		name    string
		match   models.Match
		target  models.MatchStatus
		wantErr error
	}{
		{"pending straight to completed", readyMatch(), models.MatchStatusCompleted, ErrInvalidState},
		{"back to pending", live, models.MatchStatusPending, ErrInvalidState},
		{"schedule with empty slot", waiting, models.MatchStatusScheduled, ErrInvalidState},
		{"start with empty slot", waiting, models.MatchStatusLive, ErrInvalidState},
		{"complete a tie", live, models.MatchStatusCompleted, ErrInvalidInput},
		{"reopen completed", completed, models.MatchStatusLive, ErrInvalidState},
		{"touch a bye", bye, models.MatchStatusLive, ErrInvalidState},
		{"assign bye", readyMatch(), models.MatchStatusBye, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transition(tt.match, tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRename_UpdatesEveryOccurrence(t *testing.T) {
	// p1 has a bye, so it appears in round one and round two.
	matches := mustBuild(t, 3, models.FormatSingleElimination)

	out, err := Rename(matches, "p1", "  Ravens  ")
	require.NoError(t, err)

	occurrences := 0
	for _, m := range out {
		for _, p := range []*models.Participant{m.Participant1, m.Participant2} {
			if p != nil && p.ID == "p1" {
				occurrences++
				assert.Equal(t, "Ravens", p.Name)
				assert.False(t, p.IsPlaceholder)
			}
		}
	}
	assert.Equal(t, 2, occurrences)

	original, err := FindParticipant(matches, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Participant 1", original.Name, "input must stay untouched")
	assert.True(t, original.IsPlaceholder)
}

func TestRename_Idempotent(t *testing.T) {
	matches := mustBuild(t, 6, models.FormatDoubleElimination)

	once, err := Rename(matches, "p4", "Owls")
	require.NoError(t, err)
	twice, err := Rename(once, "p4", "Owls")
	require.NoError(t, err)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second rename changed the collection:\n%s", diff)
	}
}

func TestRename_Rejections(t *testing.T) {
	matches := mustBuild(t, 4, models.FormatRoundRobin)

	_, err := Rename(matches, "p1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Rename(matches, "p99", "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectParticipants(t *testing.T) {
	matches := mustBuild(t, 5, models.FormatSingleElimination)

	participants := CollectParticipants(matches)
	require.Len(t, participants, 5)
	for i, p := range participants {
		require.NotNil(t, p.Seed)
		assert.Equal(t, i+1, *p.Seed)
		assert.True(t, p.IsPlaceholder)
	}
}

func TestCollectParticipants_UnseededLast(t *testing.T) {
	two := 2
	matches := []models.Match{
		{ID: "x", Round: 1, Participant1: &models.Participant{ID: "walk-in"}, Participant2: &models.Participant{ID: "b", Seed: &two}},
		{ID: "y", Round: 1, Participant1: &models.Participant{ID: "late"}},
	}

	got := CollectParticipants(matches)
	ids := make([]models.ParticipantID, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []models.ParticipantID{"b", "walk-in", "late"}, ids)
}

func TestFindParticipant(t *testing.T) {
	matches := mustBuild(t, 4, models.FormatSingleElimination, WithParticipantNames([]string{"A", "B"}))

	p, err := FindParticipant(matches, "p2")
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)

	_, err = FindParticipant(matches, "p7")
	assert.ErrorIs(t, err, ErrNotFound)
}

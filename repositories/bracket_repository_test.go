package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleMatches(t *testing.T) {
	seed := 1
	participants := map[string]models.Participant{
		"p1": {ID: "p1", Name: "Ravens", Seed: &seed},
	}
	rows := []matchRow{
		{match: models.Match{ID: "m1", Round: 1}, participant1ID: sql.NullString{String: "p1", Valid: true}},
		{match: models.Match{ID: "m2", Round: 1}},
	}

	matches, err := assembleMatches(rows, participants)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.NotNil(t, matches[0].Participant1)
	assert.Equal(t, "Ravens", matches[0].Participant1.Name)
	assert.Nil(t, matches[0].Participant2)
	assert.Nil(t, matches[1].Participant1)

	matches[0].Participant1.Name = "changed"
	assert.Equal(t, "Ravens", participants["p1"].Name)

	rows[1].participant2ID = sql.NullString{String: "ghost", Valid: true}
	_, err = assembleMatches(rows, participants)
	assert.ErrorIs(t, err, ErrMatchParticipantUnknown)
}

func TestCollectMatchParticipants(t *testing.T) {
	p1 := &models.Participant{ID: "p1"}
	p2 := &models.Participant{ID: "p2"}
	matches := []models.Match{
		{ID: "m1", Participant1: p1, Participant2: p2},
		{ID: "m2", Participant1: p2},
		{ID: "m3"},
	}

	got := collectMatchParticipants(matches)
	require.Len(t, got, 2)
	assert.Equal(t, models.ParticipantID("p1"), got[0].ID)
	assert.Equal(t, models.ParticipantID("p2"), got[1].ID)
}

func TestHandleBracketError(t *testing.T) {
	assert.NoError(t, handleBracketError(nil))
	assert.ErrorIs(t, handleBracketError(&pq.Error{Code: "23505", Constraint: "brackets_pkey"}), ErrBracketConflict)
	assert.ErrorIs(t, handleBracketError(&pq.Error{Code: "23503", Constraint: "bracket_matches_participant2_fkey"}), ErrMatchParticipantUnknown)
	assert.ErrorIs(t, handleBracketError(&pq.Error{Code: "23503", Constraint: "bracket_matches_bracket_id_fkey"}), ErrBracketNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, handleBracketError(other))
}

func TestNullableHelpers(t *testing.T) {
	assert.Nil(t, participantRef(nil))
	assert.Equal(t, "p1", participantRef(&models.Participant{ID: "p1"}))
	assert.Nil(t, nullableParticipantID(nil))
	assert.Nil(t, nullableMatchID(nil))
	assert.Nil(t, nullableSlot(nil))

	slot := models.Slot2
	assert.Equal(t, int64(2), nullableSlot(&slot))
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type transitionRequest struct {
	Status string `json:"status"`
}

type scoreRequest struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

type renameRequest struct {
	Name string `json:"name"`
}

// bracketEnvelope renders a bracket together with its champion once one is decided.
func bracketEnvelope(b *models.Bracket) jsonResponse {
	env := jsonResponse{"bracket": b}
	if champion, ok := brackets.Champion(b.Matches); ok {
		env["champion"] = champion
	}
	return env
}

func (h *BracketHandler) CreateBracket(w http.ResponseWriter, r *http.Request) {
	var input services.CreateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.CreateBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/brackets/"+bracket.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracketEnvelope(bracket), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) DeleteBracket(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.DeleteBracket(r.Context(), bracketID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.bracketService.ListParticipants(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) RenameParticipant(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getParamFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input renameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.RenameParticipant(r.Context(), bracketID, models.ParticipantID(participantID), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracketEnvelope(bracket), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.bracketService.GetStandings(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) TransitionMatch(w http.ResponseWriter, r *http.Request) {
	bracketID, matchID, ok := matchParams(w, r)
	if !ok {
		return
	}

	var input transitionRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	status, err := models.ParseMatchStatus(input.Status)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.TransitionMatch(r.Context(), bracketID, matchID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracketEnvelope(bracket), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	h.handleScores(w, r, h.bracketService.UpdateScore)
}

func (h *BracketHandler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	h.handleScores(w, r, h.bracketService.CompleteMatch)
}

type scoreOperation func(ctx context.Context, bracketID string, matchID models.MatchID, score1, score2 int) (*models.Bracket, error)

func (h *BracketHandler) handleScores(w http.ResponseWriter, r *http.Request, op scoreOperation) {
	bracketID, matchID, ok := matchParams(w, r)
	if !ok {
		return
	}

	var input scoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Score1 == nil || input.Score2 == nil {
		badRequestResponse(w, r, errors.New("score1 and score2 are required"))
		return
	}

	bracket, err := op(r.Context(), bracketID, matchID, *input.Score1, *input.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracketEnvelope(bracket), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchParams(w http.ResponseWriter, r *http.Request) (string, models.MatchID, bool) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	matchID, err := getParamFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	return bracketID, models.MatchID(matchID), true
}

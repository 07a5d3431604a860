package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBracketNotFound         = errors.New("bracket not found")
	ErrBracketConflict         = errors.New("bracket or match id already exists")
	ErrMatchParticipantUnknown = errors.New("match references a participant that is not registered for the bracket")
)

type BracketRepository interface {
	// RunInTx runs fn in one transaction; fn receives the executor every call inside it must use.
	RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) error

	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	// GetByID loads a bracket with its matches. forUpdate locks the bracket row until the
	// surrounding transaction ends; every mutation of the bracket takes this lock first.
	GetByID(ctx context.Context, exec SQLExecutor, id string, forUpdate bool) (*models.Bracket, error)
	// Load reads a bracket outside of any transaction, querying its parts concurrently.
	Load(ctx context.Context, id string) (*models.Bracket, error)
	UpdateMatches(ctx context.Context, exec SQLExecutor, bracketID string, matches []models.Match) error
	UpsertParticipants(ctx context.Context, exec SQLExecutor, bracketID string, participants []models.Participant) error
	Touch(ctx context.Context, exec SQLExecutor, bracketID string) (time.Time, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) error {
	return runInTx(ctx, r.db, fn)
}

const matchColumns = `id, round, match_number, bracket, position, participant1_id, participant2_id,
	score1, score2, status, winner_id, next_match_id, next_match_slot, loser_match_id, loser_match_slot`

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error {
	query := `
		INSERT INTO brackets (id, tournament_id, format, participant_count, bracket_size, bye_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := exec.QueryRowContext(ctx, query,
		bracket.ID,
		bracket.TournamentID,
		bracket.Format,
		bracket.ParticipantCount,
		bracket.BracketSize,
		bracket.ByeCount,
	).Scan(&bracket.CreatedAt, &bracket.UpdatedAt)
	if err != nil {
		return handleBracketError(err)
	}

	if err := r.UpsertParticipants(ctx, exec, bracket.ID, collectMatchParticipants(bracket.Matches)); err != nil {
		return err
	}
	return r.copyMatches(ctx, exec, bracket.ID, bracket.Matches)
}

// copyMatches bulk-loads a new match collection with COPY.
func (r *postgresBracketRepository) copyMatches(ctx context.Context, exec SQLExecutor, bracketID string, matches []models.Match) error {
	stmt, err := exec.PrepareContext(ctx, pq.CopyIn("bracket_matches",
		"bracket_id", "id", "round", "match_number", "bracket", "position", "participant1_id", "participant2_id",
		"score1", "score2", "status", "winner_id", "next_match_id", "next_match_slot", "loser_match_id", "loser_match_slot",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare match copy for bracket %s: %w", bracketID, err)
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err := stmt.ExecContext(ctx,
			bracketID,
			string(m.ID),
			m.Round,
			m.MatchNumber,
			string(m.Bracket),
			m.Position,
			participantRef(m.Participant1),
			participantRef(m.Participant2),
			m.Score1,
			m.Score2,
			string(m.Status),
			nullableParticipantID(m.WinnerID),
			nullableMatchID(m.NextMatchID),
			nullableSlot(m.NextMatchSlot),
			nullableMatchID(m.LoserMatchID),
			nullableSlot(m.LoserMatchSlot),
		)
		if err != nil {
			return fmt.Errorf("failed to queue match %s for bracket %s: %w", m.ID, bracketID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return handleBracketError(err)
	}
	return nil
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, exec SQLExecutor, id string, forUpdate bool) (*models.Bracket, error) {
	bracket, err := r.getHeader(ctx, exec, id, forUpdate)
	if err != nil {
		return nil, err
	}
	participants, err := r.listParticipants(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	matches, err := r.listMatches(ctx, exec, id, participants)
	if err != nil {
		return nil, err
	}
	bracket.Matches = matches
	return bracket, nil
}

func (r *postgresBracketRepository) Load(ctx context.Context, id string) (*models.Bracket, error) {
	var (
		bracket      *models.Bracket
		participants map[string]models.Participant
		rows         []matchRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bracket, err = r.getHeader(gCtx, r.db, id, false)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = r.listParticipants(gCtx, r.db, id)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = r.scanMatchRows(gCtx, r.db, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches, err := assembleMatches(rows, participants)
	if err != nil {
		return nil, fmt.Errorf("bracket %s: %w", id, err)
	}
	bracket.Matches = matches
	return bracket, nil
}

func (r *postgresBracketRepository) getHeader(ctx context.Context, exec SQLExecutor, id string, forUpdate bool) (*models.Bracket, error) {
	query := `
		SELECT id, tournament_id, format, participant_count, bracket_size, bye_count, created_at, updated_at
		FROM brackets
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	bracket := &models.Bracket{}
	var tournamentID sql.NullString
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&bracket.ID,
		&tournamentID,
		&bracket.Format,
		&bracket.ParticipantCount,
		&bracket.BracketSize,
		&bracket.ByeCount,
		&bracket.CreatedAt,
		&bracket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket by id %s: %w", id, err)
	}
	if tournamentID.Valid {
		bracket.TournamentID = &tournamentID.String
	}
	return bracket, nil
}

func (r *postgresBracketRepository) listParticipants(ctx context.Context, exec SQLExecutor, bracketID string) (map[string]models.Participant, error) {
	query := `
		SELECT id, name, seed, is_placeholder
		FROM bracket_participants
		WHERE bracket_id = $1`

	rows, err := exec.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for bracket %s: %w", bracketID, err)
	}
	defer rows.Close()

	participants := make(map[string]models.Participant)
	for rows.Next() {
		var (
			p    models.Participant
			seed sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &seed, &p.IsPlaceholder); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if seed.Valid {
			s := int(seed.Int64)
			p.Seed = &s
		}
		participants[string(p.ID)] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

// matchRow is a bracket_matches row before participant ids are resolved.
type matchRow struct {
	match          models.Match
	participant1ID sql.NullString
	participant2ID sql.NullString
}

func (r *postgresBracketRepository) scanMatchRows(ctx context.Context, exec SQLExecutor, bracketID string) ([]matchRow, error) {
	query := `SELECT ` + matchColumns + `
		FROM bracket_matches
		WHERE bracket_id = $1
		ORDER BY match_number ASC`

	rows, err := exec.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for bracket %s: %w", bracketID, err)
	}
	defer rows.Close()

	out := make([]matchRow, 0)
	for rows.Next() {
		var (
			row                       matchRow
			winnerID, nextID, loserID sql.NullString
			nextSlot, loserSlot       sql.NullInt64
		)
		m := &row.match
		if err := rows.Scan(
			&m.ID,
			&m.Round,
			&m.MatchNumber,
			&m.Bracket,
			&m.Position,
			&row.participant1ID,
			&row.participant2ID,
			&m.Score1,
			&m.Score2,
			&m.Status,
			&winnerID,
			&nextID,
			&nextSlot,
			&loserID,
			&loserSlot,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		if winnerID.Valid {
			w := models.ParticipantID(winnerID.String)
			m.WinnerID = &w
		}
		if nextID.Valid && nextSlot.Valid {
			m.SetWinnerLink(models.Link{MatchID: models.MatchID(nextID.String), Slot: models.Slot(nextSlot.Int64)})
		}
		if loserID.Valid && loserSlot.Valid {
			m.SetLoserLink(models.Link{MatchID: models.MatchID(loserID.String), Slot: models.Slot(loserSlot.Int64)})
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return out, nil
}

func (r *postgresBracketRepository) listMatches(ctx context.Context, exec SQLExecutor, bracketID string, participants map[string]models.Participant) ([]models.Match, error) {
	rows, err := r.scanMatchRows(ctx, exec, bracketID)
	if err != nil {
		return nil, err
	}
	matches, err := assembleMatches(rows, participants)
	if err != nil {
		return nil, fmt.Errorf("bracket %s: %w", bracketID, err)
	}
	return matches, nil
}

func assembleMatches(rows []matchRow, participants map[string]models.Participant) ([]models.Match, error) {
	matches := make([]models.Match, 0, len(rows))
	for _, row := range rows {
		m := row.match
		for slot, ref := range map[models.Slot]sql.NullString{models.Slot1: row.participant1ID, models.Slot2: row.participant2ID} {
			if !ref.Valid {
				continue
			}
			p, ok := participants[ref.String]
			if !ok {
				return nil, fmt.Errorf("%w: %s in match %s", ErrMatchParticipantUnknown, ref.String, m.ID)
			}
			c := p.Clone()
			m.SetParticipantAt(slot, &c)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (r *postgresBracketRepository) UpdateMatches(ctx context.Context, exec SQLExecutor, bracketID string, matches []models.Match) error {
	query := `
		UPDATE bracket_matches
		SET participant1_id = $1, participant2_id = $2, score1 = $3, score2 = $4, status = $5, winner_id = $6
		WHERE bracket_id = $7 AND id = $8`

	for _, m := range matches {
		result, err := exec.ExecContext(ctx, query,
			participantRef(m.Participant1),
			participantRef(m.Participant2),
			m.Score1,
			m.Score2,
			string(m.Status),
			nullableParticipantID(m.WinnerID),
			bracketID,
			string(m.ID),
		)
		if err != nil {
			return fmt.Errorf("UpdateMatches: failed to update match %s of bracket %s: %w", m.ID, bracketID, handleBracketError(err))
		}
		if err := checkAffectedRows(result, ErrBracketNotFound); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresBracketRepository) UpsertParticipants(ctx context.Context, exec SQLExecutor, bracketID string, participants []models.Participant) error {
	query := `
		INSERT INTO bracket_participants (bracket_id, id, name, seed, is_placeholder)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bracket_id, id) DO UPDATE
		SET name = EXCLUDED.name, seed = EXCLUDED.seed, is_placeholder = EXCLUDED.is_placeholder`

	for _, p := range participants {
		var seed sql.NullInt64
		if p.Seed != nil {
			seed = sql.NullInt64{Int64: int64(*p.Seed), Valid: true}
		}
		if _, err := exec.ExecContext(ctx, query, bracketID, string(p.ID), p.Name, seed, p.IsPlaceholder); err != nil {
			return fmt.Errorf("failed to upsert participant %s of bracket %s: %w", p.ID, bracketID, handleBracketError(err))
		}
	}
	return nil
}

func (r *postgresBracketRepository) Touch(ctx context.Context, exec SQLExecutor, bracketID string) (time.Time, error) {
	var updatedAt time.Time
	err := exec.QueryRowContext(ctx, `UPDATE brackets SET updated_at = now() WHERE id = $1 RETURNING updated_at`, bracketID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrBracketNotFound
		}
		return time.Time{}, fmt.Errorf("failed to touch bracket %s: %w", bracketID, err)
	}
	return updatedAt, nil
}

func (r *postgresBracketRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM brackets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrBracketConflict, pqErr.Constraint)
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "bracket_matches_participant1_fkey" || pqErr.Constraint == "bracket_matches_participant2_fkey" {
				return ErrMatchParticipantUnknown
			}
			return ErrBracketNotFound
		}
	}
	return err
}

// collectMatchParticipants lists every participant record of a match collection once.
func collectMatchParticipants(matches []models.Match) []models.Participant {
	seen := make(map[models.ParticipantID]bool)
	var out []models.Participant
	for _, m := range matches {
		for _, p := range []*models.Participant{m.Participant1, m.Participant2} {
			if p == nil || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, *p)
		}
	}
	return out
}

func participantRef(p *models.Participant) interface{} {
	if p == nil {
		return nil
	}
	return string(p.ID)
}

func nullableParticipantID(id *models.ParticipantID) interface{} {
	if id == nil {
		return nil
	}
	return string(*id)
}

func nullableMatchID(id *models.MatchID) interface{} {
	if id == nil {
		return nil
	}
	return string(*id)
}

func nullableSlot(s *models.Slot) interface{} {
	if s == nil {
		return nil
	}
	return int64(*s)
}

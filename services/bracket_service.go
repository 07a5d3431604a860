package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/metrics"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/google/uuid"
)

type CreateBracketInput struct {
	TournamentID     *string  `json:"tournament_id,omitempty"`
	Format           string   `json:"format"`
	ParticipantCount int      `json:"participant_count"`
	Names            []string `json:"names,omitempty"`
}

type BracketService interface {
	CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error)
	GetBracket(ctx context.Context, bracketID string) (*models.Bracket, error)
	ListParticipants(ctx context.Context, bracketID string) ([]models.Participant, error)
	GetStandings(ctx context.Context, bracketID string) ([]models.Standing, error)
	TransitionMatch(ctx context.Context, bracketID string, matchID models.MatchID, status models.MatchStatus) (*models.Bracket, error)
	UpdateScore(ctx context.Context, bracketID string, matchID models.MatchID, score1, score2 int) (*models.Bracket, error)
	CompleteMatch(ctx context.Context, bracketID string, matchID models.MatchID, score1, score2 int) (*models.Bracket, error)
	RenameParticipant(ctx context.Context, bracketID string, participantID models.ParticipantID, name string) (*models.Bracket, error)
	DeleteBracket(ctx context.Context, bracketID string) error
}

type bracketService struct {
	repo      repositories.BracketRepository
	publisher events.Publisher
	archive   storage.SnapshotArchive
	metrics   *metrics.Engine
	logger    *slog.Logger
	newID     func() string
}

// NewBracketService wires the service. archive and engineMetrics may be nil.
func NewBracketService(
	repo repositories.BracketRepository,
	publisher events.Publisher,
	archive storage.SnapshotArchive,
	engineMetrics *metrics.Engine,
	logger *slog.Logger,
) BracketService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bracketService{
		repo:      repo,
		publisher: publisher,
		archive:   archive,
		metrics:   engineMetrics,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

func (s *bracketService) CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error) {
	format, err := models.ParseFormat(input.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if input.ParticipantCount < format.MinParticipants() {
		return nil, fmt.Errorf("%w: %s needs at least %d participants, got %d",
			ErrValidationFailed, format, format.MinParticipants(), input.ParticipantCount)
	}
	if input.ParticipantCount > format.MaxParticipants() {
		return nil, fmt.Errorf("%w: %s supports at most %d participants, got %d",
			ErrValidationFailed, format, format.MaxParticipants(), input.ParticipantCount)
	}
	if len(input.Names) > input.ParticipantCount {
		return nil, fmt.Errorf("%w: %d names given for %d participants", ErrValidationFailed, len(input.Names), input.ParticipantCount)
	}

	names := make([]string, len(input.Names))
	for i, n := range input.Names {
		names[i] = strings.TrimSpace(n)
	}

	matches, err := brackets.Build(input.ParticipantCount, format,
		brackets.WithMatchIDs(func(int) models.MatchID { return models.MatchID(s.newID()) }),
		brackets.WithParticipantIDs(func(int) models.ParticipantID { return models.ParticipantID(s.newID()) }),
		brackets.WithParticipantNames(names),
	)
	if err != nil {
		s.metrics.OperationFailed("build", err)
		return nil, fmt.Errorf("failed to build %s bracket for %d participants: %w", format, input.ParticipantCount, err)
	}

	bracket := &models.Bracket{
		ID:               s.newID(),
		TournamentID:     input.TournamentID,
		Format:           format,
		ParticipantCount: input.ParticipantCount,
		Matches:          matches,
	}
	bracket.BracketSize, bracket.ByeCount = bracketDimensions(format, input.ParticipantCount)

	err = s.repo.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.repo.Create(ctx, exec, bracket)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", mapRepositoryError(err))
	}

	s.logger.Info("bracket created",
		slog.String("bracket_id", bracket.ID),
		slog.String("format", string(format)),
		slog.Int("participants", bracket.ParticipantCount),
		slog.Int("matches", len(matches)),
	)
	s.metrics.BracketBuilt(format)
	s.afterCommit(ctx, events.ReasonCreated, bracket, nil)
	return bracket, nil
}

// bracketDimensions reports the slot count and bye count stored with a bracket. For round
// robin the slot count is the field rounded up to even and the bye count is the number of
// participants sitting out each round.
func bracketDimensions(format models.Format, participants int) (size, byes int) {
	if format == models.FormatRoundRobin {
		return participants + participants%2, participants % 2
	}
	info, err := brackets.NormalizeByes(participants)
	if err != nil {
		return 0, 0
	}
	return info.BracketSize, info.ByeCount
}

func (s *bracketService) GetBracket(ctx context.Context, bracketID string) (*models.Bracket, error) {
	bracket, err := s.repo.Load(ctx, bracketID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return bracket, nil
}

func (s *bracketService) ListParticipants(ctx context.Context, bracketID string) ([]models.Participant, error) {
	bracket, err := s.GetBracket(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	return brackets.CollectParticipants(bracket.Matches), nil
}

func (s *bracketService) GetStandings(ctx context.Context, bracketID string) ([]models.Standing, error) {
	bracket, err := s.GetBracket(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	return brackets.Standings(bracket.Matches), nil
}

func (s *bracketService) TransitionMatch(ctx context.Context, bracketID string, matchID models.MatchID, status models.MatchStatus) (*models.Bracket, error) {
	bracket, changed, err := s.mutate(ctx, bracketID, "transition", func(matches []models.Match) ([]models.Match, error) {
		return brackets.ApplyTransition(matches, matchID, status)
	})
	if err != nil {
		return nil, err
	}
	if !changed.empty() {
		s.metrics.MatchTransitioned(status)
		if status == models.MatchStatusCompleted {
			s.recordCompletion(bracket, matchID)
		}
		s.afterCommit(ctx, events.ReasonMatchTransition, bracket, changed.matches)
	}
	return bracket, nil
}

func (s *bracketService) UpdateScore(ctx context.Context, bracketID string, matchID models.MatchID, score1, score2 int) (*models.Bracket, error) {
	bracket, changed, err := s.mutate(ctx, bracketID, "score", func(matches []models.Match) ([]models.Match, error) {
		return brackets.UpdateScore(matches, matchID, score1, score2)
	})
	if err != nil {
		return nil, err
	}
	if !changed.empty() {
		s.afterCommit(ctx, events.ReasonMatchTransition, bracket, changed.matches)
	}
	return bracket, nil
}

func (s *bracketService) CompleteMatch(ctx context.Context, bracketID string, matchID models.MatchID, score1, score2 int) (*models.Bracket, error) {
	bracket, changed, err := s.mutate(ctx, bracketID, "complete", func(matches []models.Match) ([]models.Match, error) {
		return brackets.Complete(matches, matchID, score1, score2)
	})
	if err != nil {
		return nil, err
	}
	if changed.empty() {
		s.logger.Info("match completion replayed",
			slog.String("bracket_id", bracketID), slog.String("match_id", string(matchID)))
		return bracket, nil
	}
	s.recordCompletion(bracket, matchID)
	s.afterCommit(ctx, events.ReasonMatchCompleted, bracket, changed.matches)
	return bracket, nil
}

func (s *bracketService) recordCompletion(bracket *models.Bracket, matchID models.MatchID) {
	for _, m := range bracket.Matches {
		if m.ID != matchID {
			continue
		}
		s.metrics.MatchCompleted(m.Bracket)
		s.logger.Info("match completed",
			slog.String("bracket_id", bracket.ID),
			slog.String("match_id", string(m.ID)),
			slog.Int("score1", m.Score1),
			slog.Int("score2", m.Score2),
		)
		return
	}
}

func (s *bracketService) RenameParticipant(ctx context.Context, bracketID string, participantID models.ParticipantID, name string) (*models.Bracket, error) {
	bracket, changed, err := s.mutate(ctx, bracketID, "rename", func(matches []models.Match) ([]models.Match, error) {
		return brackets.Rename(matches, participantID, name)
	})
	if err != nil {
		return nil, err
	}
	if changed.empty() {
		s.logger.Info("participant rename replayed",
			slog.String("bracket_id", bracketID), slog.String("participant_id", string(participantID)))
		return bracket, nil
	}
	s.metrics.ParticipantRenamed()
	s.afterCommit(ctx, events.ReasonParticipantNamed, bracket, nil)
	return bracket, nil
}

func (s *bracketService) DeleteBracket(ctx context.Context, bracketID string) error {
	err := s.repo.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.repo.Delete(ctx, exec, bracketID)
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := s.publisher.PublishBracketUpdated(ctx, events.BracketUpdated{BracketID: bracketID, Reason: events.ReasonDeleted}); err != nil {
		s.logger.Error("failed to publish bracket deletion", slog.String("bracket_id", bracketID), slog.Any("error", err))
	}
	if s.archive != nil {
		if err := s.archive.Remove(ctx, bracketID); err != nil {
			s.logger.Error("failed to remove bracket snapshot", slog.String("bracket_id", bracketID), slog.Any("error", err))
		}
	}
	return nil
}

// changeSet lists what one mutation wrote.
type changeSet struct {
	matches      []models.MatchID
	participants []models.ParticipantID
}

// empty reports a replay: the operation was accepted but nothing was written.
func (c changeSet) empty() bool {
	return len(c.matches) == 0 && len(c.participants) == 0
}

// mutate is the single write path for an existing bracket. It locks the bracket row, applies
// the engine operation to the stored matches and writes back only what changed, all in one
// transaction, so concurrent writers to the same bracket are serialized and a failed
// operation leaves the stored bracket untouched.
func (s *bracketService) mutate(
	ctx context.Context,
	bracketID string,
	operation string,
	apply func([]models.Match) ([]models.Match, error),
) (*models.Bracket, changeSet, error) {
	var (
		updated *models.Bracket
		changed changeSet
	)

	err := s.repo.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		bracket, err := s.repo.GetByID(ctx, exec, bracketID, true)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := brackets.Validate(bracket.Matches); err != nil {
			return fmt.Errorf("%w: bracket %s: %v", ErrCorruptBracket, bracketID, err)
		}

		next, err := apply(bracket.Matches)
		if err != nil {
			return err
		}

		changedMatches := changedMatches(bracket.Matches, next)
		changedParticipants := changedParticipants(bracket.Matches, next)
		bracket.Matches = next
		updated = bracket
		if len(changedMatches) == 0 && len(changedParticipants) == 0 {
			return nil
		}

		if err := s.repo.UpsertParticipants(ctx, exec, bracketID, changedParticipants); err != nil {
			return err
		}
		if err := s.repo.UpdateMatches(ctx, exec, bracketID, changedMatches); err != nil {
			return mapRepositoryError(err)
		}
		updatedAt, err := s.repo.Touch(ctx, exec, bracketID)
		if err != nil {
			return mapRepositoryError(err)
		}
		bracket.UpdatedAt = updatedAt

		changed.matches = make([]models.MatchID, len(changedMatches))
		for i, m := range changedMatches {
			changed.matches[i] = m.ID
		}
		changed.participants = make([]models.ParticipantID, len(changedParticipants))
		for i, p := range changedParticipants {
			changed.participants[i] = p.ID
		}
		return nil
	})
	if err != nil {
		s.metrics.OperationFailed(operation, err)
		return nil, changeSet{}, err
	}
	return updated, changed, nil
}

// afterCommit announces a committed change. Failures here are logged only: the change is
// already durable and clients can always re-read the bracket.
func (s *bracketService) afterCommit(ctx context.Context, reason string, bracket *models.Bracket, changed []models.MatchID) {
	evt := events.BracketUpdated{
		BracketID:      bracket.ID,
		Reason:         reason,
		ChangedMatches: changed,
		Bracket:        bracket,
	}
	if err := s.publisher.PublishBracketUpdated(ctx, evt); err != nil {
		s.logger.Error("failed to publish bracket update",
			slog.String("bracket_id", bracket.ID), slog.String("reason", reason), slog.Any("error", err))
	}

	if s.archive == nil {
		return
	}
	if _, err := s.archive.Archive(ctx, bracket); err != nil {
		s.logger.Error("failed to archive bracket snapshot", slog.String("bracket_id", bracket.ID), slog.Any("error", err))
	}
}
